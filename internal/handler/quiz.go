package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pavelanni/edusearch/internal/export"
	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/quiz"
	"github.com/pavelanni/edusearch/internal/quizgen"
	"github.com/pavelanni/edusearch/internal/state"
)

// Quiz session states as reported by the API.
const (
	stateEmpty      = "empty"
	stateInProgress = "in_progress"
	stateCompleted  = "completed"
)

type generateQuizRequest struct {
	Topic      string `json:"topic"`
	Subject    string `json:"subject,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Count      int    `json:"count,omitempty"`
}

type questionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// quizStateResponse is the session snapshot returned by every quiz
// mutation. Correct answers never appear in it.
type quizStateResponse struct {
	State      string        `json:"state"`
	Topic      string        `json:"topic,omitempty"`
	Subject    string        `json:"subject,omitempty"`
	Difficulty string        `json:"difficulty,omitempty"`
	Index      int           `json:"index"`
	Total      int           `json:"total"`
	Answered   int           `json:"answered"`
	Question   *questionView `json:"question,omitempty"`
	Answer     string        `json:"answer,omitempty"`
}

// generateQuizResponse adds the success message to the snapshot of a
// freshly started session.
type generateQuizResponse struct {
	quizStateResponse
	Message string `json:"message"`
}

func quizState(sess *quiz.Session) quizStateResponse {
	if sess == nil {
		return quizStateResponse{State: stateEmpty}
	}
	resp := quizStateResponse{
		State:      stateInProgress,
		Topic:      sess.Topic,
		Subject:    sess.Subject,
		Difficulty: string(sess.Difficulty),
		Index:      sess.Index(),
		Total:      sess.Len(),
		Answered:   len(sess.Answers()),
	}
	if sess.Finished() {
		resp.State = stateCompleted
		return resp
	}
	if q, ok := sess.Current(); ok {
		resp.Question = &questionView{Index: sess.Index(), Text: q.Text, Options: q.Options}
		if l, ok := sess.Answer(sess.Index()); ok {
			resp.Answer = string(l)
		}
	}
	return resp
}

func (h *Handler) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := quizgen.Params{
		Topic:      req.Topic,
		Subject:    req.Subject,
		Difficulty: difficulty,
		Count:      req.Count,
	}.Normalize()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	questions, err := h.quizzes.Generate(r.Context(), params)
	if err != nil {
		h.respondGenerationFailure(w, r, "quiz generation", err)
		return
	}

	sess, err := quiz.Start(questions, params.Topic, params.Subject, params.Difficulty, h.now())
	if err != nil {
		h.respondGenerationFailure(w, r, "quiz generation", err)
		return
	}

	u.Quiz = sess
	u.History.Append(model.NewHistoryEntry(params.Topic, params.Subject, h.now()))

	h.logger.Info("quiz started",
		"session_id", sess.ID,
		"topic", sess.Topic,
		"questions", sess.Len(),
		"difficulty", sess.Difficulty)
	respondJSON(w, http.StatusCreated, generateQuizResponse{
		quizStateResponse: quizState(sess),
		Message:           i18n.Tp(r.Context(), "QuestionsGenerated", sess.Len()),
	})
}

func (h *Handler) handleQuizState(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()
	respondJSON(w, http.StatusOK, quizState(u.Quiz))
}

type answerRequest struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

func (r answerRequest) label(w http.ResponseWriter) (model.Label, bool) {
	l, err := model.ParseLabel(r.Label)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return l, true
}

// respondTransitionError maps session state-machine errors onto HTTP
// statuses: illegal transitions conflict, anything else is a bad request.
func respondTransitionError(w http.ResponseWriter, err error) {
	if errors.Is(err, quiz.ErrInvalidTransition) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	label, ok := req.label(w)
	if !ok {
		return
	}

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Quiz == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoActiveQuiz"))
		return
	}
	if err := u.Quiz.SubmitAnswer(req.Index, label); err != nil {
		respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quizState(u.Quiz))
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	label, ok := req.label(w)
	if !ok {
		return
	}

	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Quiz == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoActiveQuiz"))
		return
	}
	if err := u.Quiz.AnswerAndAdvance(req.Index, label); err != nil {
		respondTransitionError(w, err)
		return
	}
	if u.Quiz.Finished() {
		h.logger.Info("quiz completed", "session_id", u.Quiz.ID, "topic", u.Quiz.Topic)
	}
	respondJSON(w, http.StatusOK, quizState(u.Quiz))
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Quiz == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoActiveQuiz"))
		return
	}
	if err := u.Quiz.Retreat(); err != nil {
		respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quizState(u.Quiz))
}

type scoreResponse struct {
	Correct    int                    `json:"correct"`
	Total      int                    `json:"total"`
	Percentage float64                `json:"percentage"`
	Band       quiz.Band              `json:"band"`
	Message    string                 `json:"message"`
	Summary    string                 `json:"summary"`
	Questions  []model.QuestionResult `json:"questions"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	res := u.Quiz.Score()

	var message string
	switch res.Band() {
	case quiz.BandExcellent:
		message = i18n.T(ctx, "ScoreExcellent")
	case quiz.BandGood:
		message = i18n.T(ctx, "ScoreGood")
	default:
		message = i18n.T(ctx, "ScoreKeepStudying")
	}

	summary := i18n.Td(ctx, "ScoreSummary", map[string]any{
		"Correct":    res.Correct,
		"Total":      res.Total,
		"Percentage": fmt.Sprintf("%.1f", res.Percentage),
	})

	respondJSON(w, http.StatusOK, scoreResponse{
		Correct:    res.Correct,
		Total:      res.Total,
		Percentage: res.Percentage,
		Band:       res.Band(),
		Message:    message,
		Summary:    summary,
		Questions:  export.BuildQuizExport(u.Quiz, h.now()).Questions,
	})
}

func (h *Handler) handleRetake(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	if u.Quiz == nil {
		respondError(w, http.StatusNotFound, i18n.T(r.Context(), "NoActiveQuiz"))
		return
	}
	if err := u.Quiz.ResetToStart(); err != nil {
		respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quizState(u.Quiz))
}

func (h *Handler) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	u := state.UserFromContext(r.Context())
	u.Mu.Lock()
	defer u.Mu.Unlock()

	u.Quiz = nil
	w.WriteHeader(http.StatusNoContent)
}
