package notes

import "github.com/pavelanni/edusearch/internal/llm"

// Schema is the structured output contract for study notes generation.
var Schema = &llm.Schema{
	Name:        "study_notes",
	Description: "Structured study notes for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overview": map[string]any{
				"type":        "string",
				"description": "A clear, concise introduction to the topic",
				"minLength":   1,
			},
			"key_concepts": map[string]any{
				"type":        "string",
				"description": "The main concepts, theories, or principles, explained",
				"minLength":   1,
			},
			"important_details": map[string]any{
				"type":        "string",
				"description": "Detailed explanations, formulas, examples, or case studies",
				"minLength":   1,
			},
			"applications": map[string]any{
				"type":        "string",
				"description": "How the topic is applied in real life or industry",
				"minLength":   1,
			},
			"study_tips": map[string]any{
				"type":        "string",
				"description": "Specific tips for understanding and remembering the topic",
				"minLength":   1,
			},
		},
		"required": []any{
			"overview", "key_concepts", "important_details", "applications", "study_tips",
		},
		"additionalProperties": false,
	},
}
