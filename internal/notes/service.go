package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pavelanni/edusearch/internal/llm"
	"github.com/pavelanni/edusearch/internal/llm/prompts"
	"github.com/pavelanni/edusearch/internal/model"
)

const (
	notesMaxTokens   = 1500
	notesTemperature = 0.7
)

// Service generates study notes through an llm.Provider.
type Service struct {
	provider llm.Provider
}

// NewService returns a notes service backed by provider.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

type rawNotes struct {
	Overview         string `json:"overview"`
	KeyConcepts      string `json:"key_concepts"`
	ImportantDetails string `json:"important_details"`
	Applications     string `json:"applications"`
	StudyTips        string `json:"study_tips"`
}

// Generate produces study notes for topic. A blank subject is recorded
// as the general subject.
func (s *Service) Generate(ctx context.Context, topic, subject string) (*StudyNotes, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("notes generation: topic is required")
	}

	prompt, err := prompts.BuildNotesPrompt(prompts.NotesData{Topic: topic, Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("notes generation: %w", err)
	}

	ctx = llm.WithPurpose(ctx, "study_notes")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      prompts.NotesSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      Schema,
		MaxTokens:   notesMaxTokens,
		Temperature: notesTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("notes generation: %w", err)
	}

	var raw rawNotes
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("notes generation: decode response: %w", err)
	}

	return &StudyNotes{
		Topic:            topic,
		Subject:          model.SubjectOrDefault(subject),
		Overview:         raw.Overview,
		KeyConcepts:      raw.KeyConcepts,
		ImportantDetails: raw.ImportantDetails,
		Applications:     raw.Applications,
		StudyTips:        raw.StudyTips,
		GeneratedAt:      time.Now(),
	}, nil
}
