package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pavelanni/edusearch/internal/export"
	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/state"
)

func respondDownload(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (h *Handler) handleExportResults(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		respondError(w, http.StatusBadRequest, "format must be text or json")
		return
	}

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Quiz == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoActiveQuiz"))
		return
	}
	if !u.Quiz.Finished() {
		respondError(w, http.StatusConflict, i18n.T(r.Context(), "QuizNotFinished"))
		return
	}

	now := h.now()
	if format == "json" {
		name := strings.TrimSuffix(export.ResultsFilename(now), ".txt") + ".json"
		respondDownload(w, "application/json", name)
		json.NewEncoder(w).Encode(export.BuildQuizExport(u.Quiz, now))
		return
	}

	respondDownload(w, "text/plain; charset=utf-8", export.ResultsFilename(now))
	w.Write([]byte(export.Results(u.Quiz)))
}

func (h *Handler) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Notes == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoNotesYet"))
		return
	}

	respondDownload(w, "text/plain; charset=utf-8", export.NotesFilename(u.Notes.Topic))
	w.Write([]byte(u.Notes.Markdown()))
}

func (h *Handler) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	now := h.now()
	respondDownload(w, "application/json", export.HistoryFilename(now))
	json.NewEncoder(w).Encode(export.BuildHistoryExport(u.History.Entries(), now))
}
