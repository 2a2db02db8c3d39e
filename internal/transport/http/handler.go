package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"swag-quiz-service/internal/app"
	"swag-quiz-service/internal/domain"
	"swag-quiz-service/internal/lead"
	"swag-quiz-service/internal/scoring"
)

// Handler exposes the quiz use cases as JSON over HTTP.
type Handler struct {
	service *app.QuizService
	leads   *lead.Notifier
	ws      *WSHandler
	logger  *slog.Logger
}

func NewHandler(service *app.QuizService, leads *lead.Notifier, ws *WSHandler, logger *slog.Logger) *Handler {
	return &Handler{service: service, leads: leads, ws: ws, logger: logger}
}

// Router mounts every route. allowedOrigins feeds the CORS policy; empty allows any origin.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.listQuestions)
		r.Post("/submit-lead", h.submitLead)
		r.Post("/submit-quiz", h.submitQuiz)
		r.Get("/results/{id}", h.getResult)
		r.Get("/results/{id}/review", h.getReview)
	})

	if h.ws != nil {
		r.Get("/ws/outcomes", h.ws.ServeWS)
	}
	return r
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type submitQuizRequest struct {
	LeadData  json.RawMessage `json:"leadData"`
	Answers   json.RawMessage `json:"answers"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type submitQuizResponse struct {
	Success bool                 `json:"success"`
	ID      string               `json:"id"`
	Result  domain.Result        `json:"result"`
	Message domain.ResultMessage `json:"message"`
}

type resultResponse struct {
	Success   bool                 `json:"success"`
	Result    domain.Result        `json:"result"`
	Timestamp string               `json:"timestamp"`
	Message   domain.ResultMessage `json:"message"`
}

type reviewResponse struct {
	Success bool                  `json:"success"`
	Answers []domain.AnswerReview `json:"answers"`
}

type questionsResponse struct {
	Questions    []domain.PublicQuestion `json:"questions"`
	PassingScore int                     `json:"passingScore"`
}

type leadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// POST /api/submit-quiz
func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	submitted, err := h.service.Submit(r.Context(), domain.SubmitRequest{
		LeadData:  req.LeadData,
		Answers:   domain.DecodeSubmission(req.Answers),
		Timestamp: timestampText(req.Timestamp),
	})
	if err != nil {
		h.logger.Error("quiz submission error", "error", err, "request_id", middleware.GetReqID(r.Context()))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to submit quiz"})
		return
	}

	respondJSON(w, http.StatusOK, submitQuizResponse{
		Success: true,
		ID:      submitted.ID,
		Result:  submitted.Result,
		Message: scoring.Message(submitted.Result),
	})
}

// timestampText keeps the client timestamp whatever its JSON type: strings are
// unquoted, numbers and other values keep their literal text, null is empty.
func timestampText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

// GET /api/results/{id}
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	retrieved, err := h.service.Retrieve(r.Context(), chi.URLParam(r, "id"))
	if h.handleLookupError(w, r, err, "Failed to fetch results") {
		return
	}
	respondJSON(w, http.StatusOK, resultResponse{
		Success:   true,
		Result:    retrieved.Result,
		Timestamp: retrieved.Timestamp,
		Message:   scoring.Message(retrieved.Result),
	})
}

// GET /api/results/{id}/review
func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	answers, err := h.service.Review(r.Context(), chi.URLParam(r, "id"))
	if h.handleLookupError(w, r, err, "Failed to fetch review") {
		return
	}
	respondJSON(w, http.StatusOK, reviewResponse{Success: true, Answers: answers})
}

// GET /api/questions
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		h.logger.Error("list questions error", "error", err, "request_id", middleware.GetReqID(r.Context()))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load questions"})
		return
	}
	respondJSON(w, http.StatusOK, questionsResponse{Questions: questions, PassingScore: domain.PassingThreshold})
}

// POST /api/submit-lead
func (h *Handler) submitLead(w http.ResponseWriter, r *http.Request) {
	var d lead.Data
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if errs := lead.Validate(d); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid lead", Fields: errs})
		return
	}
	if h.leads != nil {
		h.leads.Notify(d)
	}
	respondJSON(w, http.StatusOK, leadResponse{Success: true, Message: "Lead captured successfully"})
}

// handleLookupError maps a result lookup error to a response.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleLookupError(w http.ResponseWriter, r *http.Request, err error, failure string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrResultNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Results not found"})
		return true
	}
	h.logger.Error("result lookup error", "error", err, "request_id", middleware.GetReqID(r.Context()))
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: failure})
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
