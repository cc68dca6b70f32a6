// Package response writes the uniform JSON envelope every endpoint returns
// and maps domain errors onto HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"quizzie/internal/models"
)

// Envelope is the body shape shared by every response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const internalMessage = "Internal server error"

// JSON writes a successful envelope with the given status.
func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, message, data)
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, message, data)
}

// Fail writes an unsuccessful envelope with an explicit status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Error classifies err and writes the matching envelope. Unclassified errors
// become a generic 500; their detail only goes to the log.
func Error(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status, message := Classify(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.WithError(err).Error("request failed")
		}
	}
	Fail(w, status, message)
}

// Classify returns the status code and client-facing message for err.
func Classify(err error) (int, string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, models.ErrInvalidAnswerType),
		errors.Is(err, models.ErrEmailTaken):
		return http.StatusBadRequest, capitalize(rootCause(err))
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrForbidden):
		return http.StatusUnauthorized, capitalize(rootCause(err))
	case errors.Is(err, models.ErrActivityNotFound),
		errors.Is(err, models.ErrQuestionNotFound),
		errors.Is(err, models.ErrOptionNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNoAnalytics):
		return http.StatusNotFound, capitalize(rootCause(err))
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// rootCause strips wrapping added by storage layers so the client sees the
// sentinel message rather than the call path.
func rootCause(err error) error {
	for _, sentinel := range []error{
		models.ErrInvalidAnswerType,
		models.ErrEmailTaken,
		models.ErrUnauthenticated,
		models.ErrInvalidCredentials,
		models.ErrForbidden,
		models.ErrActivityNotFound,
		models.ErrQuestionNotFound,
		models.ErrOptionNotFound,
		models.ErrUserNotFound,
		models.ErrNoAnalytics,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

func capitalize(err error) string {
	msg := err.Error()
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
