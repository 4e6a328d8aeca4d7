package export

import (
	"strings"
	"testing"
	"time"

	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/quiz"
)

func testQuestions() []model.Question {
	return []model.Question{
		{
			Text:        "What is the powerhouse of the cell?",
			Options:     []string{"A) Nucleus", "B) Mitochondria", "C) Ribosome", "D) Golgi body"},
			Correct:     model.LabelB,
			Explanation: "Mitochondria produce most of the cell's ATP.",
		},
		{
			Text:        "Which molecule carries genetic information?",
			Options:     []string{"A) DNA", "B) ATP", "C) Lipid", "D) Glucose"},
			Correct:     model.LabelA,
			Explanation: "DNA encodes hereditary information.",
		},
		{
			Text:        "Where does photosynthesis take place?",
			Options:     []string{"A) Mitochondria", "B) Vacuole", "C) Chloroplast", "D) Cell wall"},
			Correct:     model.LabelC,
			Explanation: "Chloroplasts contain the chlorophyll.",
		},
	}
}

func startSession(t *testing.T) *quiz.Session {
	t.Helper()
	sess, err := quiz.Start(testQuestions(), "Cell Biology", "Biology", model.DifficultyMedium,
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return sess
}

func TestResultsFormat(t *testing.T) {
	sess := startSession(t)
	if err := sess.AnswerAndAdvance(0, model.LabelB); err != nil {
		t.Fatalf("AnswerAndAdvance(0): %v", err)
	}
	if err := sess.AnswerAndAdvance(1, model.LabelC); err != nil {
		t.Fatalf("AnswerAndAdvance(1): %v", err)
	}
	// Question 3 left unanswered.

	want := "Quiz Results\n\n" +
		"Score: 1/3 (33.3%)\n\n" +
		"Q1: What is the powerhouse of the cell?\n" +
		"Your answer: B\n" +
		"Correct: B\n\n" +
		"Q2: Which molecule carries genetic information?\n" +
		"Your answer: C\n" +
		"Correct: A\n\n" +
		"Q3: Where does photosynthesis take place?\n" +
		"Your answer: Not answered\n" +
		"Correct: C\n\n"

	if got := Results(sess); got != want {
		t.Errorf("Results mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestResultsPerfectScore(t *testing.T) {
	sess := startSession(t)
	for i, q := range sess.Questions() {
		if err := sess.AnswerAndAdvance(i, q.Correct); err != nil {
			t.Fatalf("AnswerAndAdvance(%d): %v", i, err)
		}
	}

	got := Results(sess)
	if !strings.HasPrefix(got, "Quiz Results\n\nScore: 3/3 (100.0%)\n\n") {
		t.Errorf("Results header = %q", got[:strings.Index(got, "Q1")])
	}
	if strings.Contains(got, NotAnswered) {
		t.Errorf("perfect run should have no %q lines:\n%s", NotAnswered, got)
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 30, 45, 0, time.UTC)

	if got, want := ResultsFilename(now), "quiz_results_20240301_143045.txt"; got != want {
		t.Errorf("ResultsFilename = %q, want %q", got, want)
	}
	if got, want := HistoryFilename(now), "study_history_20240301_143045.json"; got != want {
		t.Errorf("HistoryFilename = %q, want %q", got, want)
	}
	if got, want := NotesFilename("Linear Algebra Basics"), "Linear_Algebra_Basics_notes.txt"; got != want {
		t.Errorf("NotesFilename = %q, want %q", got, want)
	}
	if got, want := NotesFilename("Photosynthesis"), "Photosynthesis_notes.txt"; got != want {
		t.Errorf("NotesFilename = %q, want %q", got, want)
	}
}

func TestBuildQuizExport(t *testing.T) {
	sess := startSession(t)
	if err := sess.AnswerAndAdvance(0, model.LabelB); err != nil {
		t.Fatalf("AnswerAndAdvance(0): %v", err)
	}
	if err := sess.AnswerAndAdvance(1, model.LabelC); err != nil {
		t.Fatalf("AnswerAndAdvance(1): %v", err)
	}

	now := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	exp := BuildQuizExport(sess, now)

	if exp.Topic != "Cell Biology" || exp.Subject != "Biology" {
		t.Errorf("topic/subject = %q/%q", exp.Topic, exp.Subject)
	}
	if exp.Difficulty != model.DifficultyMedium {
		t.Errorf("difficulty = %q", exp.Difficulty)
	}
	if exp.ExportedAt != "2024-03-01 15:00:00" {
		t.Errorf("exported_at = %q", exp.ExportedAt)
	}
	if exp.Correct != 1 || exp.Total != 3 {
		t.Errorf("score = %d/%d, want 1/3", exp.Correct, exp.Total)
	}
	if len(exp.Questions) != 3 {
		t.Fatalf("len(Questions) = %d, want 3", len(exp.Questions))
	}

	q0 := exp.Questions[0]
	if q0.YourAnswer != "B" || !q0.IsCorrect {
		t.Errorf("Q1 = %+v, want answer B marked correct", q0)
	}
	q1 := exp.Questions[1]
	if q1.YourAnswer != "C" || q1.IsCorrect {
		t.Errorf("Q2 = %+v, want answer C marked incorrect", q1)
	}
	q2 := exp.Questions[2]
	if q2.YourAnswer != NotAnswered || q2.IsCorrect {
		t.Errorf("Q3 = %+v, want unanswered and incorrect", q2)
	}
	if q2.Explanation == "" || len(q2.Options) != model.NumOptions {
		t.Errorf("Q3 missing explanation or options: %+v", q2)
	}
}

func TestBuildHistoryExport(t *testing.T) {
	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	entries := []model.HistoryEntry{
		model.NewHistoryEntry("Photosynthesis", "Biology", now.Add(-time.Hour)),
		model.NewHistoryEntry("Calculus", "Mathematics", now),
	}

	exp := BuildHistoryExport(entries, now)
	if exp.ExportedAt != "2024-03-02 09:00:00" {
		t.Errorf("exported_at = %q", exp.ExportedAt)
	}
	if len(exp.Entries) != 2 || exp.Entries[0].Topic != "Photosynthesis" {
		t.Errorf("entries = %+v", exp.Entries)
	}
}
