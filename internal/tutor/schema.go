package tutor

import "github.com/abhisek/protoquiz/internal/llm"

// ExplanationSchema is the structured output requested from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why a quiz answer is wrong and the correct option is right",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentences explaining the correct answer",
			},
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 facts worth remembering (under 15 words each)",
			},
			"misconception": map[string]any{
				"type":        "string",
				"description": "The likely misunderstanding behind the chosen option, or empty if unanswered",
			},
		},
		"required":             []any{"summary", "key_points", "misconception"},
		"additionalProperties": false,
	},
}
