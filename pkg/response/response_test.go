package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzie/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", models.NewValidationError("title", "is required"), http.StatusBadRequest, "title: is required"},
		{"answer type", models.ErrInvalidAnswerType, http.StatusBadRequest, "Answer type must be either correct or wrong"},
		{"wrapped not found", fmt.Errorf("redis: load: %w", models.ErrQuestionNotFound), http.StatusNotFound, "Question not found"},
		{"forbidden", models.ErrForbidden, http.StatusUnauthorized, "You are not allowed to modify this activity"},
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized access"},
		{"unknown", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	log, hook := test.NewNullLogger()
	rec := httptest.NewRecorder()

	Error(rec, log, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Activity created successfully", map[string]string{"id": "a1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Activity created successfully","data":{"id":"a1"}}`, rec.Body.String())
}
