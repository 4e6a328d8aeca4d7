// Package quizgen turns a study topic into a validated multiple-choice
// quiz via an LLM provider.
package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pavelanni/edusearch/internal/llm"
	"github.com/pavelanni/edusearch/internal/llm/prompts"
	"github.com/pavelanni/edusearch/internal/model"
)

// Sampling and sizing for quiz requests. The token budget scales with
// the question count so a ten-question quiz is not truncated.
const (
	quizTemperature   = 0.8
	tokensPerQuestion = 300
	minQuizTokens     = 1500
)

// Params describes one quiz generation request.
type Params struct {
	Topic      string
	Subject    string
	Difficulty model.Difficulty
	Count      int
}

// Normalize fills defaults and rejects out-of-range values.
func (p Params) Normalize() (Params, error) {
	p.Topic = strings.TrimSpace(p.Topic)
	if p.Topic == "" {
		return p, fmt.Errorf("topic is required")
	}
	if p.Difficulty == "" {
		p.Difficulty = model.DefaultDifficulty
	}
	if !p.Difficulty.Valid() {
		return p, fmt.Errorf("unknown difficulty %q", p.Difficulty)
	}
	if p.Count == 0 {
		p.Count = model.DefaultQuestions
	}
	if p.Count < model.MinQuestions || p.Count > model.MaxQuestions {
		return p, fmt.Errorf("question count %d outside [%d,%d]", p.Count, model.MinQuestions, model.MaxQuestions)
	}
	return p, nil
}

// Generator produces a quiz for a topic.
type Generator interface {
	Generate(ctx context.Context, p Params) ([]model.Question, error)
}

// LLMGenerator implements Generator on top of an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
}

// New returns a generator backed by provider.
func New(provider llm.Provider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Generate builds the prompt, runs the completion and converts the
// structured reply into validated domain questions.
func (g *LLMGenerator) Generate(ctx context.Context, p Params) ([]model.Question, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	prompt, err := prompts.BuildQuizPrompt(prompts.QuizData{
		Topic:        p.Topic,
		Subject:      p.Subject,
		Difficulty:   string(p.Difficulty),
		NumQuestions: p.Count,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	maxTokens := tokensPerQuestion * p.Count
	if maxTokens < minQuizTokens {
		maxTokens = minQuizTokens
	}

	ctx = llm.WithPurpose(ctx, "quiz")
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      prompts.QuizSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      Schema,
		MaxTokens:   maxTokens,
		Temperature: quizTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var raw rawQuiz
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("quiz generation: decode response: %w", err)
	}

	questions, err := convert(raw.Questions)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}
	if err := Validate(questions, p.Count); err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}
	return questions, nil
}

func convert(raw []rawQuestion) ([]model.Question, error) {
	out := make([]model.Question, len(raw))
	for i, rq := range raw {
		correct, err := model.ParseLabel(rq.CorrectAnswer)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out[i] = model.Question{
			Text:        strings.TrimSpace(rq.Question),
			Options:     normalizeOptions(rq.Options),
			Correct:     correct,
			Explanation: strings.TrimSpace(rq.Explanation),
		}
	}
	return out, nil
}

// normalizeOptions prepends the positional label to options the model
// returned bare. Options already carrying some label prefix are left
// for Validate to judge.
func normalizeOptions(options []string) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if !hasLabelPrefix(opt) {
			if label := model.LabelForIndex(i); label != "" {
				opt = fmt.Sprintf("%s) %s", label, opt)
			}
		}
		out[i] = opt
	}
	return out
}

func hasLabelPrefix(opt string) bool {
	for _, l := range model.Labels {
		if strings.HasPrefix(opt, string(l)+")") {
			return true
		}
	}
	return false
}
