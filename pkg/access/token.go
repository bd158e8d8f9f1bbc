package access

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = fmt.Errorf("invalid bearer token")
	ErrNoTokenSecret = fmt.Errorf("token secret is empty")
	ErrNoEmailClaim  = fmt.Errorf("token has no email claim")
)

// Claims carried by catalog bearer tokens
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Name       string `json:"name,omitempty"`

	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 signed bearer tokens
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(secret []byte, issuer string) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, ErrNoTokenSecret
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}

	return &TokenVerifier{
		secret: secret,
		parser: jwt.NewParser(options...),
	}, nil
}

func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims.Email = strings.ToLower(strings.TrimSpace(claims.Email))
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrNoEmailClaim)
	}

	return claims, nil
}

// TokenIssuer signs bearer tokens with the same shared secret the server verifies with
type TokenIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, issuer string) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrNoTokenSecret
	}

	return &TokenIssuer{
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the identity in claims, valid for ttl
func (i *TokenIssuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.Email) == "" {
		return "", ErrNoEmailClaim
	}

	now := i.now()
	claims.Issuer = i.issuer
	claims.Subject = claims.Email
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
