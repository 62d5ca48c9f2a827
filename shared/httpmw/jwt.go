package httpmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/challan-api/shared/auth"
	"github.com/vasapolrittideah/challan-api/shared/response"
)

type contextKey struct{}

var userClaimsKey = contextKey{}

// NewJWTMiddleware rejects requests without a valid bearer token and stores the token
// claims in the request context.
func NewJWTMiddleware(jwtAuth *auth.JWTAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidateJWT(r, jwtAuth)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected bearer token")
				response.WriteError(w, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserClaimsFromContext returns the claims stored by NewJWTMiddleware.
func UserClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(jwt.MapClaims)
	return claims, ok
}

var (
	errMissingAuthHeader = errors.New("missing authorization header")
	errInvalidAuthHeader = errors.New("invalid authorization header format")
)

func extractAndValidateJWT(r *http.Request, jwtAuth *auth.JWTAuthenticator) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errInvalidAuthHeader
	}

	claims := jwt.MapClaims{}
	if _, err := jwtAuth.ValidateTokenWithClaims(strings.TrimSpace(parts[1]), claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, errMissingAuthHeader), errors.Is(err, errInvalidAuthHeader):
		return "Not authenticated"
	case errors.Is(err, auth.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Could not validate credentials"
	}
}
