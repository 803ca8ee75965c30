package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/app"
	"caregiver-aptitude-service/internal/domain"
	"caregiver-aptitude-service/internal/logger"
)

// RESTHandler exposes quiz content, diagnoses and distributions as JSON endpoints.
type RESTHandler struct {
	service *app.DiagnosisService
	logger  *zap.Logger
}

func NewRESTHandler(service *app.DiagnosisService, log *zap.Logger) *RESTHandler {
	return &RESTHandler{service: service, logger: logger.WithFields(log)}
}

// Register mounts the handler's routes on mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quizzes/{quizID}", h.getQuiz)
	mux.HandleFunc("POST /quizzes/{quizID}/diagnoses", h.diagnose)
	mux.HandleFunc("GET /quizzes/{quizID}/distribution", h.distribution)
}

type diagnoseRequest struct {
	Answers domain.AnswerSet `json:"answers"`
}

type errorPayload struct {
	Message string              `json:"message"`
	Missing []domain.QuestionID `json:"missing,omitempty"`
	Invalid []domain.QuestionID `json:"invalid,omitempty"`
}

func (h *RESTHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.Quiz(r.Context(), r.PathValue("quizID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quiz)
}

func (h *RESTHandler) diagnose(w http.ResponseWriter, r *http.Request) {
	var req diagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return
	}

	diagnosis, err := h.service.Diagnose(r.Context(), r.PathValue("quizID"), req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, diagnosis)
}

func (h *RESTHandler) distribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.Distribution(r.Context(), r.PathValue("quizID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dist)
}

func (h *RESTHandler) writeError(w http.ResponseWriter, err error) {
	status, payload := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, payload)
}

func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("writing response", zap.Error(err))
	}
}

// errorResponse maps service errors onto status codes and client-facing payloads.
func errorResponse(err error) (int, errorPayload) {
	var incomplete *domain.IncompleteAnswersError
	var invalid *domain.InvalidAnswersError
	switch {
	case errors.As(err, &incomplete):
		return http.StatusBadRequest, errorPayload{Message: domain.ErrIncompleteAnswers.Error(), Missing: incomplete.Missing}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorPayload{Message: domain.ErrInvalidAnswers.Error(), Invalid: invalid.Invalid}
	case errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound, errorPayload{Message: domain.ErrQuizNotFound.Error()}
	default:
		return http.StatusInternalServerError, errorPayload{Message: "internal error"}
	}
}
