package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/edusearch/internal/llm"
	"github.com/pavelanni/edusearch/internal/llm/prompts"
	"github.com/pavelanni/edusearch/internal/model"
)

func TestMain(m *testing.M) {
	if err := prompts.LoadEmbedded(); err != nil {
		panic(err)
	}
	m.Run()
}

func quizJSON(t *testing.T, n int) string {
	t.Helper()
	qs := make([]rawQuestion, n)
	for i := range qs {
		qs[i] = rawQuestion{
			Question:      fmt.Sprintf("What is question %d about?", i+1),
			Options:       []string{"A) First", "B) Second", "C) Third", "D) Fourth"},
			CorrectAnswer: "B",
			Explanation:   "The second option is correct.",
		}
	}
	payload, err := json.Marshal(rawQuiz{Questions: qs})
	require.NoError(t, err)
	return string(payload)
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(quizJSON(t, 5))

	gen := New(mock)
	questions, err := gen.Generate(context.Background(), Params{
		Topic:      "Photosynthesis",
		Subject:    "Biology",
		Difficulty: model.DifficultyHard,
		Count:      5,
	})
	require.NoError(t, err)
	require.Len(t, questions, 5)

	assert.Equal(t, model.LabelB, questions[0].Correct)
	assert.Equal(t, "B) Second", questions[0].OptionFor(model.LabelB))
	assert.NotEmpty(t, questions[0].Explanation)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, prompts.QuizSystem, req.System)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, `"Photosynthesis" in Biology`)
	assert.Contains(t, req.Messages[0].Content, "Create 5 multiple-choice questions")
	assert.Contains(t, req.Messages[0].Content, "at hard difficulty level")
	require.NotNil(t, req.Schema)
	assert.Equal(t, "quiz", req.Schema.Name)
	assert.GreaterOrEqual(t, req.MaxTokens, minQuizTokens)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(quizJSON(t, model.DefaultQuestions))

	gen := New(mock)
	questions, err := gen.Generate(context.Background(), Params{Topic: "Algebra"})
	require.NoError(t, err)
	assert.Len(t, questions, model.DefaultQuestions)

	prompt := mock.Calls()[0].Messages[0].Content
	assert.Contains(t, prompt, fmt.Sprintf("Create %d multiple-choice questions", model.DefaultQuestions))
	assert.Contains(t, prompt, fmt.Sprintf("at %s difficulty level", model.DefaultDifficulty))
}

func TestGenerateRejectsBadParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{name: "empty topic", p: Params{Count: 5}},
		{name: "count too low", p: Params{Topic: "Algebra", Count: model.MinQuestions - 1}},
		{name: "count too high", p: Params{Topic: "Algebra", Count: model.MaxQuestions + 1}},
		{name: "bad difficulty", p: Params{Topic: "Algebra", Difficulty: "impossible"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			gen := New(mock)

			_, err := gen.Generate(context.Background(), tt.p)
			require.Error(t, err)
			assert.Zero(t, mock.CallCount(), "provider called despite invalid params")
		})
	}
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddError(&llm.ErrProviderUnavailable{Err: errors.New("down")})

	gen := New(mock)
	_, err := gen.Generate(context.Background(), Params{Topic: "Algebra"})
	require.Error(t, err)

	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestGenerateRejectsWrongQuestionCount(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(quizJSON(t, 3))

	gen := New(mock)
	_, err := gen.Generate(context.Background(), Params{Topic: "Algebra", Count: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 3 questions, requested 5")
}

func TestGeneratePrefixesBareOptions(t *testing.T) {
	payload, err := json.Marshal(rawQuiz{Questions: []rawQuestion{
		{
			Question:      "What is 2+2?",
			Options:       []string{"3", "4", "5", "22"},
			CorrectAnswer: "B",
			Explanation:   "Basic addition.",
		},
		{
			Question:      "What is 3+3?",
			Options:       []string{"A) 5", "B) 6", "C) 7", "D) 33"},
			CorrectAnswer: "B",
			Explanation:   "Basic addition.",
		},
		{
			Question:      "What is 4+4?",
			Options:       []string{"7", "8", "9", "44"},
			CorrectAnswer: "B",
			Explanation:   "Basic addition.",
		},
	}})
	require.NoError(t, err)

	mock := llm.NewMockProvider()
	mock.AddResponse(string(payload))

	gen := New(mock)
	questions, err := gen.Generate(context.Background(), Params{Topic: "Arithmetic", Count: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"A) 3", "B) 4", "C) 5", "D) 22"}, questions[0].Options)
	assert.Equal(t, []string{"A) 5", "B) 6", "C) 7", "D) 33"}, questions[1].Options)
}

func TestGenerateRejectsInvalidCorrectLabel(t *testing.T) {
	// "E" fails the schema enum, and the retry decorator is absent
	// here, so the invalid response surfaces directly.
	payload := `{"questions":[{"question":"Q","options":["A) a","B) b","C) c","D) d"],"correct_answer":"E","explanation":"x"}]}`
	mock := llm.NewMockProvider()
	mock.AddResponse(payload)

	gen := New(mock)
	_, err := gen.Generate(context.Background(), Params{Topic: "Algebra", Count: 3})
	require.Error(t, err)

	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestScaledTokenBudget(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(quizJSON(t, model.MaxQuestions))

	gen := New(mock)
	_, err := gen.Generate(context.Background(), Params{Topic: "Algebra", Count: model.MaxQuestions})
	require.NoError(t, err)

	req := mock.Calls()[0]
	assert.Equal(t, tokensPerQuestion*model.MaxQuestions, req.MaxTokens)

	if !strings.Contains(req.Messages[0].Content, fmt.Sprintf("Create %d", model.MaxQuestions)) {
		t.Errorf("prompt does not request %d questions", model.MaxQuestions)
	}
}
