package questiongen

import "github.com/abhisek/prism/internal/llm"

// RankedQuestionsSchema defines the JSON schema for ranking and tiering a
// batch of generated questions.
var RankedQuestionsSchema = &llm.Schema{
	Name:        "ranked-questions",
	Description: "Questions scored 0-100 on impact and bucketed into three tiers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "The same questions, sorted by descending impactScore",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"field": map[string]any{
							"type":        "string",
							"description": "Dotted schema path the question fills",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text, unchanged",
						},
						"impactScore": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     100,
							"description": "Potential of extracting the best insights for recommendations",
						},
						"tier": map[string]any{
							"type": "string",
							"enum": []any{"Tier 1", "Tier 2", "Tier 3"},
						},
					},
					"required":             []any{"field", "question", "impactScore", "tier"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
