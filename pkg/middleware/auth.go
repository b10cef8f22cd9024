package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwtutil "github.com/Dias221467/Social_Network/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware rejects requests without a valid "Authorization: Bearer"
// token and stores the token claims in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.WithField("path", r.URL.Path).Warn("Missing Authorization header")
				writeMessage(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			tokenStr = strings.TrimSpace(tokenStr)
			if !ok || tokenStr == "" {
				writeMessage(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := jwtutil.ValidateToken(tokenStr, secret)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, jwtutil.ErrExpiredToken) {
					msg = "Token expired"
				}
				log.WithError(err).Warn("Token validation failed")
				writeMessage(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}

// WithUser returns a copy of ctx carrying claims.
func WithUser(ctx context.Context, claims *jwtutil.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}
