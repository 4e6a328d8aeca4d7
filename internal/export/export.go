// Package export renders quiz results, study notes and history into
// the downloadable formats offered by the app: plain-text bodies plus
// the JSON structures in internal/model.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/quiz"
)

// NotAnswered is printed for questions the student never answered.
const NotAnswered = "Not answered"

const filenameStamp = "20060102_150405"

// Results renders a session as the plain-text results sheet.
func Results(sess *quiz.Session) string {
	res := sess.Score()

	var b strings.Builder
	fmt.Fprintf(&b, "Quiz Results\n\nScore: %d/%d (%.1f%%)\n\n", res.Correct, res.Total, res.Percentage)
	for i, q := range sess.Questions() {
		answer := NotAnswered
		if l, ok := sess.Answer(i); ok {
			answer = string(l)
		}
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q.Text)
		fmt.Fprintf(&b, "Your answer: %s\n", answer)
		fmt.Fprintf(&b, "Correct: %s\n\n", q.Correct)
	}
	return b.String()
}

// ResultsFilename names a results download after the moment of export.
func ResultsFilename(now time.Time) string {
	return "quiz_results_" + now.Format(filenameStamp) + ".txt"
}

// NotesFilename names a notes download after its topic.
func NotesFilename(topic string) string {
	return strings.ReplaceAll(topic, " ", "_") + "_notes.txt"
}

// HistoryFilename names a history download after the moment of export.
func HistoryFilename(now time.Time) string {
	return "study_history_" + now.Format(filenameStamp) + ".json"
}

// BuildQuizExport assembles the JSON results export for a session.
func BuildQuizExport(sess *quiz.Session, now time.Time) model.QuizExport {
	res := sess.Score()

	questions := make([]model.QuestionResult, 0, sess.Len())
	for i, q := range sess.Questions() {
		qr := model.QuestionResult{
			Text:        q.Text,
			Options:     q.Options,
			YourAnswer:  NotAnswered,
			Correct:     q.Correct,
			Explanation: q.Explanation,
		}
		if l, ok := sess.Answer(i); ok {
			qr.YourAnswer = string(l)
			qr.IsCorrect = l == q.Correct
		}
		questions = append(questions, qr)
	}

	return model.QuizExport{
		Topic:      sess.Topic,
		Subject:    sess.Subject,
		Difficulty: sess.Difficulty,
		ExportedAt: now.Format(model.TimestampLayout),
		Correct:    res.Correct,
		Total:      res.Total,
		Percentage: res.Percentage,
		Questions:  questions,
	}
}

// BuildHistoryExport assembles the JSON export of a history log.
func BuildHistoryExport(entries []model.HistoryEntry, now time.Time) model.HistoryExport {
	return model.HistoryExport{
		ExportedAt: now.Format(model.TimestampLayout),
		Entries:    entries,
	}
}
