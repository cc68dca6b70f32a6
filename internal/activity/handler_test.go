package activity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"quizzie/internal/auth"
)

// withUser stands in for the JWT middleware.
func withUser(id string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id != "" {
				r = r.WithContext(auth.WithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(t *testing.T, userID string) (*mux.Router, *fixture) {
	f := newFixture(t)
	log, _ := logtest.NewNullLogger()

	r := mux.NewRouter()
	protected := r.PathPrefix("/activity").Subrouter()
	protected.Use(withUser(userID))
	public := r.PathPrefix("/activity").Subrouter()
	NewHandler(f.service, log).RegisterRoutes(public, protected)
	return r, f
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandlerWithoutUser(t *testing.T) {
	r, _ := newRouter(t, "")
	for _, path := range []string{"/activity/create", "/activity/analytics", "/activity/trending", "/activity/activities"} {
		rec := serve(r, http.MethodPost, path, "{}")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestHandlerBadBody(t *testing.T) {
	r, _ := newRouter(t, "creator-1")
	rec := serve(r, http.MethodPost, "/activity/create", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestHandlerCreate(t *testing.T) {
	r, _ := newRouter(t, "creator-1")
	rec := serve(r, http.MethodPost, "/activity/create", `{
		"title": "Quick poll",
		"activityType": "Poll",
		"questions": [{"question": "Tea or coffee?", "optionType": "text", "options": [{"text": "Tea"}, {"text": "Coffee"}]}]
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"activityType":"poll"`)
	assert.Contains(t, rec.Body.String(), `"creator":"creator-1"`)
}

func TestHandlerValidationMessage(t *testing.T) {
	r, _ := newRouter(t, "creator-1")
	rec := serve(r, http.MethodPost, "/activity/create", `{"title": "x", "activityType": "quiz", "questions": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "questions: at least one question is required")
}

func TestHandlerCounterNotFound(t *testing.T) {
	r, _ := newRouter(t, "")
	rec := serve(r, http.MethodPut, "/activity/activities/a/questions/q/increase-impression", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Activity not found")
}
