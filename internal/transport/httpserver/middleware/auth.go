package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"household-finance/internal/auth"
	"household-finance/pkg/logger"
)

type contextKey int

const userKey contextKey = iota

// User is the authenticated caller as carried by the bearer token.
type User struct {
	ID    string
	Email string
}

type TokenParser interface {
	Parse(raw string) (auth.Identity, error)
}

type JWTAuth struct {
	tokens TokenParser
	log    logger.Logger
}

func NewJWTAuth(tokens TokenParser, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		identity, err := a.tokens.Parse(token)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), User{ID: identity.UserID, Email: identity.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
