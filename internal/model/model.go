// Package model defines the core domain types shared across edusearch.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the display format used for history timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Label identifies one of the four answer options of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the option labels in presentation order.
var Labels = []Label{LabelA, LabelB, LabelC, LabelD}

// NumOptions is the number of answer options every question carries.
const NumOptions = 4

// Valid reports whether l is one of the four option labels.
func (l Label) Valid() bool {
	switch l {
	case LabelA, LabelB, LabelC, LabelD:
		return true
	}
	return false
}

// Index returns the option index for l (A=0 .. D=3), or -1 if l is invalid.
func (l Label) Index() int {
	switch l {
	case LabelA:
		return 0
	case LabelB:
		return 1
	case LabelC:
		return 2
	case LabelD:
		return 3
	}
	return -1
}

// LabelForIndex returns the label for an option index, or "" if out of range.
func LabelForIndex(i int) Label {
	if i < 0 || i >= len(Labels) {
		return ""
	}
	return Labels[i]
}

// ParseLabel normalizes user or LLM input into a Label. It accepts a bare
// letter in either case ("a", "C") as well as a full option string such as
// "B) The mitochondria", taking only the leading letter into account.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("parse label: empty input")
	}
	l := Label(strings.ToUpper(s[:1]))
	if !l.Valid() {
		return "", fmt.Errorf("parse label: %q is not one of A-D", s)
	}
	return l, nil
}

// Difficulty represents a quiz difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is used when a request does not name a level.
const DefaultDifficulty = DifficultyMedium

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty normalizes user input into a Difficulty. Empty input
// yields DefaultDifficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultDifficulty, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("parse difficulty: %q is not easy, medium or hard", s)
	}
	return d, nil
}

// Question count bounds for a generated quiz.
const (
	MinQuestions     = 3
	MaxQuestions     = 10
	DefaultQuestions = 5
)

// DefaultSubject is recorded when a study session has no subject selected.
const DefaultSubject = "General"

// Subjects lists the selectable study subjects.
var Subjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"History",
	"Literature",
	"Computer Science",
	"Economics",
	"Psychology",
}

// SubjectOrDefault substitutes DefaultSubject for a blank subject.
func SubjectOrDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSubject
	}
	return s
}

// Question is a single generated multiple-choice question. Options carry
// their label prefix ("A) ...") exactly as presented to the student.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     Label    `json:"correct_answer"`
	Explanation string   `json:"explanation"`
}

// OptionFor returns the full option string the label points at, or "" if
// the label does not address one of the options.
func (q Question) OptionFor(l Label) string {
	i := l.Index()
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

// HistoryEntry records one completed study action for the history log.
// Timestamp is pre-formatted with TimestampLayout.
type HistoryEntry struct {
	Topic     string `json:"topic"`
	Subject   string `json:"subject"`
	Timestamp string `json:"timestamp"`
}

// NewHistoryEntry builds an entry for the given topic and subject,
// stamping it with now. A blank subject becomes DefaultSubject.
func NewHistoryEntry(topic, subject string, now time.Time) HistoryEntry {
	return HistoryEntry{
		Topic:     topic,
		Subject:   SubjectOrDefault(subject),
		Timestamp: now.Format(TimestampLayout),
	}
}

// Time parses the entry timestamp back into a time.Time.
func (e HistoryEntry) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, e.Timestamp)
}

// Date returns the calendar-date portion of the entry timestamp.
func (e HistoryEntry) Date() string {
	if len(e.Timestamp) < 10 {
		return e.Timestamp
	}
	return e.Timestamp[:10]
}
