package access

import (
	"context"
	"fmt"
	"strings"
)

// Identity is what a verified token tells about its bearer
type Identity struct {
	Email      string
	GivenName  string
	FamilyName string
	FullName   string
}

// IdentityStore remembers identities that used the API.
// Remember reports whether the stored identity is flagged as an administrator.
type IdentityStore interface {
	Remember(ctx context.Context, identity Identity) (admin bool, err error)
}

// RoleResolver turns a verified identity into a role set.
// Every identity is a USER; ADMIN comes from the configured admin emails or the identity store.
type RoleResolver struct {
	admins     map[string]struct{}
	identities IdentityStore
}

func NewRoleResolver(adminEmails []string, identities IdentityStore) *RoleResolver {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = struct{}{}
		}
	}

	return &RoleResolver{
		admins:     admins,
		identities: identities,
	}
}

func (r *RoleResolver) Resolve(ctx context.Context, identity Identity) (Caller, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	_, admin := r.admins[email]

	if r.identities != nil {
		identity.Email = email
		stored, err := r.identities.Remember(ctx, identity)
		if err != nil {
			return Anonymous, fmt.Errorf("failed to remember identity %q: %w", email, err)
		}
		admin = admin || stored
	}

	roles := []Role{RoleUser}
	if admin {
		roles = append(roles, RoleAdmin)
	}

	return NewCaller(email, identity.FullName, roles...), nil
}

// TokenAuthenticator resolves bearer tokens into callers
type TokenAuthenticator struct {
	verifier *TokenVerifier
	resolver *RoleResolver
}

func NewTokenAuthenticator(verifier *TokenVerifier, resolver *RoleResolver) *TokenAuthenticator {
	return &TokenAuthenticator{
		verifier: verifier,
		resolver: resolver,
	}
}

func (a *TokenAuthenticator) Authenticate(ctx context.Context, token string) (Caller, error) {
	claims, err := a.verifier.Verify(token)
	if err != nil {
		return Anonymous, err
	}

	fullName := claims.Name
	if fullName == "" {
		fullName = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return a.resolver.Resolve(ctx, Identity{
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		FullName:   fullName,
	})
}
