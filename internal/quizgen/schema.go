package quizgen

import "github.com/pavelanni/edusearch/internal/llm"

// Schema is the structured output contract for quiz generation. The
// response is an object holding the question array because strict
// structured output modes require an object root.
var Schema = &llm.Schema{
	Name:        "quiz",
	Description: "A multiple-choice quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "Exactly four options, each prefixed with its letter, e.g. \"A) Option 1\"",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
						},
						"correct_answer": map[string]any{
							"type": "string",
							"enum": []any{"A", "B", "C", "D"},
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief explanation of why the correct option is correct",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
