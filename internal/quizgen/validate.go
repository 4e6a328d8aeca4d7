package quizgen

import (
	"fmt"
	"strings"

	"github.com/pavelanni/edusearch/internal/model"
)

// Validate checks the structural soundness of a generated quiz: the
// question count matches the request, every question has text and
// exactly four options labeled in order, and the correct label points
// at one of them. A quiz that fails here is discarded rather than
// shown half-broken to a student.
func Validate(questions []model.Question, wantCount int) error {
	if len(questions) == 0 {
		return fmt.Errorf("empty quiz")
	}
	if wantCount > 0 && len(questions) != wantCount {
		return fmt.Errorf("got %d questions, requested %d", len(questions), wantCount)
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

func validateQuestion(q model.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != model.NumOptions {
		return fmt.Errorf("got %d options, want %d", len(q.Options), model.NumOptions)
	}
	for i, opt := range q.Options {
		label := model.LabelForIndex(i)
		if !strings.HasPrefix(opt, string(label)+")") {
			return fmt.Errorf("option %d does not carry label %s): %q", i+1, label, opt)
		}
		if strings.TrimSpace(strings.TrimPrefix(opt, string(label)+")")) == "" {
			return fmt.Errorf("option %s) has no text", label)
		}
	}
	if !q.Correct.Valid() {
		return fmt.Errorf("correct answer %q is not one of A-D", q.Correct)
	}
	if q.OptionFor(q.Correct) == "" {
		return fmt.Errorf("correct answer %s points at no option", q.Correct)
	}
	return nil
}
