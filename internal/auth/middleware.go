package auth

import (
	"context"
	"net/http"
	"strings"

	"quizzie/pkg/response"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenParser is the part of Service the middleware needs.
type TokenParser interface {
	ParseToken(raw string) (*Claims, error)
}

// JWTMiddleware accepts "Authorization: Bearer <token>" as well as a bare
// token, and stores the user id in the request context.
func JWTMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}
			if parts := strings.SplitN(raw, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				raw = strings.TrimSpace(parts[1])
			}

			claims, err := parser.ParseToken(raw)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized access")
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
