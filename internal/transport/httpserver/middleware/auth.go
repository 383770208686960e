package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"family-organizer/internal/domain/token"
)

// TokenVerifier is the slice of the token service the middleware needs.
type TokenVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
}

type Auth struct {
	tokens TokenVerifier
}

func NewAuth(tokens TokenVerifier) *Auth {
	return &Auth{tokens: tokens}
}

type contextKey int

const claimsKey contextKey = iota

// Middleware authenticates the request's bearer access token and threads the
// verified claims into the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.VerifyAccess(raw)
		if err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	if !ok || claims == nil || claims.UserID() == "" {
		return nil, false
	}
	return claims, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": false,
		"error": map[string]string{
			"code":    "invalid_token",
			"message": "invalid token",
		},
	})
}
