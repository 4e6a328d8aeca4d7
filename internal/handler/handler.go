// Package handler exposes the study assistant as a JSON API: notes and
// quiz generation, the quiz session lifecycle, history, dashboard
// statistics and plain-text exports.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/notes"
	"github.com/pavelanni/edusearch/internal/quizgen"
	"github.com/pavelanni/edusearch/internal/state"
)

// Config carries the handler-level settings.
type Config struct {
	SecureCookies bool
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	notes   *notes.Service
	quizzes quizgen.Generator
	users   *state.Manager
	logger  *slog.Logger
	config  Config

	now func() time.Time
}

// New creates a Handler with the given dependencies.
func New(notesSvc *notes.Service, gen quizgen.Generator, users *state.Manager, logger *slog.Logger, cfg Config) *Handler {
	return &Handler{
		notes:   notesSvc,
		quizzes: gen,
		users:   users,
		logger:  logger,
		config:  cfg,
		now:     time.Now,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.ensureSession)

		r.Get("/meta", h.handleMeta)

		r.With(h.rateLimit).Post("/notes", h.handleGenerateNotes)
		r.Get("/notes", h.handleGetNotes)

		r.With(h.rateLimit).Post("/quiz", h.handleGenerateQuiz)
		r.Get("/quiz", h.handleQuizState)
		r.Post("/quiz/answer", h.handleAnswer)
		r.Post("/quiz/next", h.handleNext)
		r.Post("/quiz/back", h.handleBack)
		r.Get("/quiz/score", h.handleScore)
		r.Post("/quiz/retake", h.handleRetake)
		r.Delete("/quiz", h.handleDeleteQuiz)

		r.Get("/history", h.handleHistory)
		r.Post("/history/clear", h.handleClearHistory)
		r.Get("/dashboard", h.handleDashboard)

		r.Get("/export/results", h.handleExportResults)
		r.Get("/export/notes", h.handleExportNotes)
		r.Get("/export/history", h.handleExportHistory)
	})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error envelope with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into v. On malformed input it
// writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// respondGenerationFailure logs a generator error and answers with the
// localized failure message. Callers must not have touched any user
// state before this point.
func (h *Handler) respondGenerationFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed", "error", err)
	respondError(w, http.StatusBadGateway, i18n.T(r.Context(), "GenerationFailed"))
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type metaResponse struct {
	Title            string   `json:"title"`
	Tagline          string   `json:"tagline"`
	Subjects         []string `json:"subjects"`
	DefaultSubject   string   `json:"default_subject"`
	Difficulties     []string `json:"difficulties"`
	MinQuestions     int      `json:"min_questions"`
	MaxQuestions     int      `json:"max_questions"`
	DefaultQuestions int      `json:"default_questions"`
}

func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, metaResponse{
		Title:          i18n.T(ctx, "AppTitle"),
		Tagline:        i18n.T(ctx, "AppTagline"),
		Subjects:       model.Subjects,
		DefaultSubject: model.DefaultSubject,
		Difficulties: []string{
			string(model.DifficultyEasy),
			string(model.DifficultyMedium),
			string(model.DifficultyHard),
		},
		MinQuestions:     model.MinQuestions,
		MaxQuestions:     model.MaxQuestions,
		DefaultQuestions: model.DefaultQuestions,
	})
}
