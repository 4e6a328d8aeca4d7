package handler

import (
	"net/http"
	"strings"

	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/notes"
	"github.com/pavelanni/edusearch/internal/state"
)

type generateNotesRequest struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject,omitempty"`
}

type notesResponse struct {
	*notes.StudyNotes
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// generateNotesResponse adds the success message to freshly generated
// notes.
type generateNotesResponse struct {
	notesResponse
	Message string `json:"message"`
}

func (h *Handler) notesView(n *notes.StudyNotes) notesResponse {
	resp := notesResponse{StudyNotes: n, Markdown: n.Markdown()}
	html, err := n.HTML()
	if err != nil {
		h.logger.Error("notes HTML rendering failed", "topic", n.Topic, "error", err)
		return resp
	}
	resp.HTML = html
	return resp
}

func (h *Handler) handleGenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req generateNotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	n, err := h.notes.Generate(r.Context(), req.Topic, req.Subject)
	if err != nil {
		h.respondGenerationFailure(w, r, "notes generation", err)
		return
	}

	u.Notes = n
	u.History.Append(model.NewHistoryEntry(req.Topic, req.Subject, h.now()))

	h.logger.Info("notes generated", "topic", n.Topic, "subject", n.Subject)
	respondJSON(w, http.StatusCreated, generateNotesResponse{
		notesResponse: h.notesView(n),
		Message:       i18n.Td(r.Context(), "NotesGenerated", map[string]any{"Topic": n.Topic}),
	})
}

func (h *Handler) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Notes == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoNotesYet"))
		return
	}
	respondJSON(w, http.StatusOK, h.notesView(u.Notes))
}
