package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"quizzie/internal/models"
)

type stubParser map[string]string

func (p stubParser) ParseToken(raw string) (*Claims, error) {
	if id, ok := p[raw]; ok {
		return &Claims{UserID: id}, nil
	}
	return nil, models.ErrUnauthenticated
}

func TestJWTMiddleware(t *testing.T) {
	var seen string
	h := JWTMiddleware(stubParser{"good": "u-1"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{"bearer", "Bearer good", http.StatusNoContent, "u-1"},
		{"lowercase bearer", "bearer good", http.StatusNoContent, "u-1"},
		{"raw token", "good", http.StatusNoContent, "u-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"invalid", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.user, seen)
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(req.Context(), ""))
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(req.Context(), "u-9"))
	assert.True(t, ok)
	assert.Equal(t, "u-9", id)
}
