package bark

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sre-norns/catalog/pkg/access"
)

const authBearerPrefix = "Bearer"

// Authenticator resolves a bearer token into a caller
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Caller, error)
}

func extractAuthBearer(ctx *gin.Context) (string, bool, error) {
	authorization := ctx.Request.Header.Get("Authorization")
	if authorization == "" {
		return "", false, nil
	}

	// Split it into two parts - "Bearer" and token
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authBearerPrefix) || strings.TrimSpace(parts[1]) == "" {
		return "", true, ErrInvalidAuthHeader
	}

	return strings.TrimSpace(parts[1]), true, nil
}

// AuthBearerApi resolves the caller of the request.
// A request without credentials proceeds as anonymous, invalid credentials are denied access.
// Used in conjunction with `RequireCaller`
func AuthBearerApi(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, present, err := extractAuthBearer(ctx)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		caller := access.Anonymous
		if present {
			if caller, err = auth.Authenticate(ctx.Request.Context(), token); err != nil {
				AbortWithError(ctx, err)
				return
			}
		}

		ctx.Set(callerKey, caller)
		ctx.Next()
	}
}

// RequireCaller returns the caller resolved by `AuthBearerApi`, anonymous if there is none
func RequireCaller(ctx *gin.Context) access.Caller {
	if caller, ok := ctx.Get(callerKey); ok {
		return caller.(access.Caller)
	}

	return access.Anonymous
}

// Authorizer decides if a caller may perform an operation
type Authorizer interface {
	Authorize(op access.Operation, caller access.Caller) error
}

// AuthorizerFunc adapts a plain check, such as `access.Policy.Check`, to an Authorizer
type AuthorizerFunc func(op access.Operation, caller access.Caller) error

func (f AuthorizerFunc) Authorize(op access.Operation, caller access.Caller) error {
	return f(op, caller)
}

// AccessApi rejects the request before any input is processed if the caller may not perform the operation
func AccessApi(authorizer Authorizer, op access.Operation) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := authorizer.Authorize(op, RequireCaller(ctx)); err != nil {
			AbortWithError(ctx, err)
			return
		}

		ctx.Next()
	}
}
