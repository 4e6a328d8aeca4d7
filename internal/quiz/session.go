// Package quiz implements the interactive quiz session state machine:
// a fixed question list, a cursor, and per-question recorded answers.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/edusearch/internal/model"
)

var (
	// ErrNoQuestions is returned when a session would start with an
	// empty question list.
	ErrNoQuestions = errors.New("no questions")

	// ErrInvalidTransition is returned when an operation is not legal
	// in the session's current position.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Session is one student's quiz attempt. It is not safe for concurrent
// use; callers serialize access per student.
type Session struct {
	ID         string
	Topic      string
	Subject    string
	Difficulty model.Difficulty
	StartedAt  time.Time

	questions []model.Question
	answers   map[int]model.Label
	current   int
	finished  bool
}

// Start begins a new session positioned at the first question.
func Start(questions []model.Question, topic, subject string, difficulty model.Difficulty, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("start quiz: %w", ErrNoQuestions)
	}
	return &Session{
		ID:         uuid.NewString(),
		Topic:      topic,
		Subject:    model.SubjectOrDefault(subject),
		Difficulty: difficulty,
		StartedAt:  now,
		questions:  questions,
		answers:    make(map[int]model.Label, len(questions)),
	}, nil
}

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.current }

// Finished reports whether the cursor has advanced past the last question.
func (s *Session) Finished() bool { return s.finished }

// Current returns the question under the cursor. The second return is
// false once the session is finished.
func (s *Session) Current() (model.Question, bool) {
	if s.finished {
		return model.Question{}, false
	}
	return s.questions[s.current], true
}

// Question returns the question at index i.
func (s *Session) Question(i int) (model.Question, error) {
	if i < 0 || i >= len(s.questions) {
		return model.Question{}, fmt.Errorf("question %d out of range [0,%d)", i, len(s.questions))
	}
	return s.questions[i], nil
}

// Questions returns a copy of the session's question list.
func (s *Session) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answer returns the recorded answer for question i, if any.
func (s *Session) Answer(i int) (model.Label, bool) {
	l, ok := s.answers[i]
	return l, ok
}

// Answers returns a copy of all recorded answers keyed by question index.
func (s *Session) Answers() map[int]model.Label {
	out := make(map[int]model.Label, len(s.answers))
	for i, l := range s.answers {
		out[i] = l
	}
	return out
}

// SubmitAnswer records label as the answer to the question at index.
// The index must address the current question; answering ahead of or
// behind the cursor is rejected so a stale client cannot clobber
// another question's answer. Re-answering the current question before
// advancing overwrites the previous choice.
func (s *Session) SubmitAnswer(index int, label model.Label) error {
	if s.finished {
		return fmt.Errorf("submit answer: session finished: %w", ErrInvalidTransition)
	}
	if index != s.current {
		return fmt.Errorf("submit answer: question %d is not the current question %d: %w", index, s.current, ErrInvalidTransition)
	}
	if !label.Valid() {
		return fmt.Errorf("submit answer: invalid label %q", label)
	}
	s.answers[index] = label
	return nil
}

// Advance moves the cursor to the next question. The current question
// must have a recorded answer; advancing past the last question marks
// the session finished.
func (s *Session) Advance() error {
	if s.finished {
		return fmt.Errorf("advance: session finished: %w", ErrInvalidTransition)
	}
	if _, ok := s.answers[s.current]; !ok {
		return fmt.Errorf("advance: question %d has no recorded answer: %w", s.current, ErrInvalidTransition)
	}
	if s.current == len(s.questions)-1 {
		s.finished = true
		return nil
	}
	s.current++
	return nil
}

// AnswerAndAdvance records an answer for the current question and moves
// the cursor in one step. If recording fails the cursor does not move.
func (s *Session) AnswerAndAdvance(index int, label model.Label) error {
	if err := s.SubmitAnswer(index, label); err != nil {
		return err
	}
	return s.Advance()
}

// Retreat moves the cursor back one question. Recorded answers are kept.
func (s *Session) Retreat() error {
	if s.finished {
		return fmt.Errorf("retreat: session finished: %w", ErrInvalidTransition)
	}
	if s.current == 0 {
		return fmt.Errorf("retreat: already at first question: %w", ErrInvalidTransition)
	}
	s.current--
	return nil
}

// ResetToStart clears all recorded answers and returns the cursor to the
// first question, keeping the same question list for another attempt.
// Only a finished session can be retaken.
func (s *Session) ResetToStart() error {
	if !s.finished {
		return fmt.Errorf("reset to start: session not finished: %w", ErrInvalidTransition)
	}
	s.answers = make(map[int]model.Label, len(s.questions))
	s.current = 0
	s.finished = false
	return nil
}
