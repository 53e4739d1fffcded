package recommend

import "github.com/abhisek/prism/internal/llm"

// RecommendationsSchema defines the JSON schema for recommendation generation.
var RecommendationsSchema = &llm.Schema{
	Name:        "recommendations",
	Description: "Exactly three personalized recommendations for the user",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short name of the recommended item",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "Why it matches the user's profile (1-2 sentences)",
						},
					},
					"required":             []any{"title", "reason"},
					"additionalProperties": false,
				},
				"minItems":    3,
				"maxItems":    3,
				"description": "Exactly three recommendations",
			},
		},
		"required":             []any{"recommendations"},
		"additionalProperties": false,
	},
}
