package activity

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"quizzie/internal/auth"
	"quizzie/internal/models"
	"quizzie/pkg/response"
)

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes mounts the activity endpoints. public carries no auth,
// protected is expected to sit behind auth.JWTMiddleware.
func (h *Handler) RegisterRoutes(public, protected *mux.Router) {
	protected.HandleFunc("/create", h.CreateActivity).Methods(http.MethodPost)
	protected.HandleFunc("/analytics", h.GetAnalytics).Methods(http.MethodPost)
	protected.HandleFunc("/analytics/{id}", h.GetSingleActivityAnalytics).Methods(http.MethodPost)
	protected.HandleFunc("/trending", h.GetTrending).Methods(http.MethodPost)
	protected.HandleFunc("/activities", h.GetAllActivities).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", h.UpdateActivity).Methods(http.MethodPatch)
	protected.HandleFunc("/{id}", h.DeleteActivity).Methods(http.MethodDelete)

	public.HandleFunc("/{id}", h.GetActivity).Methods(http.MethodGet)
	public.HandleFunc("/activities/{id}/questions/{questionId}/increase-impression", h.IncreaseQuestionImpression).Methods(http.MethodPut)
	public.HandleFunc("/activities/{id}/questions/{questionId}/option/{optionId}/increase-selection-count", h.IncreaseOptionSelectionCount).Methods(http.MethodPut)
	public.HandleFunc("/activities/{id}/questions/{questionId}/increase-answer-count/{type}", h.IncreaseAnswerCount).Methods(http.MethodPut)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	var req models.ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), userID, req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.Created(w, "Activity created successfully", activity)
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.service.GetActivity(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Activity fetched successfully", activity)
}

func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	var req models.ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.service.UpdateActivity(r.Context(), userID, mux.Vars(r)["id"], req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Activity updated successfully", activity)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	if err := h.service.DeleteActivity(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Activity deleted successfully", nil)
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Analytics fetched successfully", summary)
}

func (h *Handler) GetSingleActivityAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	analytics, err := h.service.ActivityAnalytics(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Activity analytics fetched successfully", analytics)
}

func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	trending, err := h.service.Trending(r.Context(), userID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Trending activities fetched successfully", map[string]interface{}{
		"trending": trending,
	})
}

func (h *Handler) GetAllActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, models.ErrUnauthenticated)
		return
	}

	activities, err := h.service.ListActivities(r.Context(), userID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Activities fetched successfully", map[string]interface{}{
		"activities": activities,
	})
}

func (h *Handler) IncreaseQuestionImpression(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, err := h.service.IncreaseQuestionImpression(r.Context(), vars["id"], vars["questionId"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Question impression increased", models.CounterValue{
		ActivityID: vars["id"],
		QuestionID: vars["questionId"],
		Value:      value,
	})
}

func (h *Handler) IncreaseOptionSelectionCount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, err := h.service.IncreaseOptionSelectionCount(r.Context(), vars["id"], vars["questionId"], vars["optionId"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Option selection count increased", models.CounterValue{
		ActivityID: vars["id"],
		QuestionID: vars["questionId"],
		OptionID:   vars["optionId"],
		Value:      value,
	})
}

func (h *Handler) IncreaseAnswerCount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, err := h.service.IncreaseAnswerCount(r.Context(), vars["id"], vars["questionId"], vars["type"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, "Answer count increased", models.CounterValue{
		ActivityID: vars["id"],
		QuestionID: vars["questionId"],
		Value:      value,
	})
}
