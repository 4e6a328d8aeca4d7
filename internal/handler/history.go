package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pavelanni/edusearch/internal/history"
	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/state"
	"github.com/pavelanni/edusearch/internal/stats"
)

type historyResponse struct {
	Entries  []model.HistoryEntry `json:"entries"`
	Subjects []string             `json:"subjects"`
	Total    int                  `json:"total"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	subject := r.URL.Query().Get("subject")

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	entries := u.History.Filter(search, subject)
	// The log keeps chronological order; the UI lists newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	respondJSON(w, http.StatusOK, historyResponse{
		Entries:  entries,
		Subjects: append([]string{history.FilterAll}, u.History.Subjects()...),
		Total:    u.History.Len(),
	})
}

type clearHistoryRequest struct {
	Confirm bool `json:"confirm"`
}

type clearHistoryResponse struct {
	ConfirmRequired bool   `json:"confirm_required,omitempty"`
	Cleared         bool   `json:"cleared,omitempty"`
	Message         string `json:"message"`
}

// handleClearHistory is a two-step gate: the first call arms a
// confirmation window, a second call with confirm=true inside the
// window wipes the log. Confirming without a live arm conflicts.
func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	var req clearHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	u := state.UserFromContext(ctx)
	now := h.now()

	u.Mu.Lock()
	defer u.Mu.Unlock()

	if !req.Confirm {
		u.ArmClear(now)
		respondJSON(w, http.StatusAccepted, clearHistoryResponse{
			ConfirmRequired: true,
			Message:         i18n.T(ctx, "ConfirmClearHistory"),
		})
		return
	}

	if !u.ClearArmed(now) {
		u.DisarmClear()
		respondError(w, http.StatusConflict, i18n.T(ctx, "NothingToConfirm"))
		return
	}

	u.History.Clear()
	u.DisarmClear()
	h.logger.Info("history cleared")
	respondJSON(w, http.StatusOK, clearHistoryResponse{
		Cleared: true,
		Message: i18n.T(ctx, "HistoryCleared"),
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	respondJSON(w, http.StatusOK, stats.Compute(u.History.Entries()))
}
