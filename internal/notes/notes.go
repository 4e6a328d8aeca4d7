// Package notes generates and renders structured study notes for a
// topic.
package notes

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Section headings in presentation order.
const (
	headingOverview     = "Overview"
	headingKeyConcepts  = "Key Concepts"
	headingDetails      = "Important Details"
	headingApplications = "Real-world Applications"
	headingStudyTips    = "Study Tips"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// StudyNotes is one generated set of notes. Section bodies are Markdown.
type StudyNotes struct {
	Topic            string    `json:"topic"`
	Subject          string    `json:"subject"`
	Overview         string    `json:"overview"`
	KeyConcepts      string    `json:"key_concepts"`
	ImportantDetails string    `json:"important_details"`
	Applications     string    `json:"applications"`
	StudyTips        string    `json:"study_tips"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Markdown reassembles the notes into a single document with the topic
// as title and one level-two heading per section.
func (n *StudyNotes) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", n.Topic)
	for _, sec := range []struct {
		heading string
		body    string
	}{
		{headingOverview, n.Overview},
		{headingKeyConcepts, n.KeyConcepts},
		{headingDetails, n.ImportantDetails},
		{headingApplications, n.Applications},
		{headingStudyTips, n.StudyTips},
	} {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", sec.heading, strings.TrimSpace(sec.body))
	}
	return sb.String()
}

// HTML renders the notes document to HTML.
func (n *StudyNotes) HTML() (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(n.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}
	return buf.String(), nil
}
