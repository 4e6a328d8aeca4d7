// Package prompts renders the LLM prompt templates for study notes and
// quiz generation. Templates are parsed once from an fs.FS so tests can
// substitute their own.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"
)

//go:embed templates/*.txt
var embedded embed.FS

// System prompts sent alongside the rendered user prompts.
const (
	NotesSystem = "You are an expert educational tutor helping students learn various subjects."
	QuizSystem  = "You are an expert quiz generator creating educational assessments."
)

// Student-supplied fields are clipped before they enter a prompt.
const maxFieldRunes = 200

var tagRegex = regexp.MustCompile(`(?i)</?\s*[a-z][a-z0-9-]*\b[^>]*>`)

var (
	loadOnce  sync.Once
	loadErr   error
	notesTmpl *template.Template
	quizTmpl  *template.Template
)

// NotesData holds template data for the study notes prompt.
type NotesData struct {
	Topic   string
	Subject string
}

// QuizData holds template data for the quiz prompt.
type QuizData struct {
	Topic        string
	Subject      string
	Difficulty   string
	NumQuestions int
}

// Load parses the prompt templates from fsys. It uses sync.Once so the
// templates are parsed only once per process.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		notesTmpl, loadErr = parseTemplate(fsys, "templates/notes.txt")
		if loadErr != nil {
			return
		}
		quizTmpl, loadErr = parseTemplate(fsys, "templates/quiz.txt")
	})
	return loadErr
}

// LoadEmbedded parses the templates compiled into the binary.
func LoadEmbedded() error {
	return Load(embedded)
}

func parseTemplate(fsys fs.FS, name string) (*template.Template, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}
	return tmpl, nil
}

// BuildNotesPrompt renders the study notes prompt for the given topic.
func BuildNotesPrompt(data NotesData) (string, error) {
	if notesTmpl == nil {
		return "", errors.New("templates not initialized: call Load first")
	}
	data.Topic = sanitizeField(data.Topic)
	data.Subject = sanitizeField(data.Subject)
	if data.Topic == "" {
		return "", errors.New("topic is empty after sanitizing")
	}

	var buf bytes.Buffer
	if err := notesTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildQuizPrompt renders the quiz generation prompt.
func BuildQuizPrompt(data QuizData) (string, error) {
	if quizTmpl == nil {
		return "", errors.New("templates not initialized: call Load first")
	}
	data.Topic = sanitizeField(data.Topic)
	data.Subject = sanitizeField(data.Subject)
	if data.Topic == "" {
		return "", errors.New("topic is empty after sanitizing")
	}

	var buf bytes.Buffer
	if err := quizTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sanitizeField strips tag-like sequences from student input and clips
// it to maxFieldRunes so a pasted page cannot balloon the prompt.
func sanitizeField(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxFieldRunes {
		s = string([]rune(s)[:maxFieldRunes])
	}
	return s
}
