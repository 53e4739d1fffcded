// Package recommend generates personalized recommendations from the stored
// profile, the user's query, and fresh web search context.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/websearch"
)

// Recommendation is one personalized suggestion.
type Recommendation struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Searcher supplies web context for grounding the prompt.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Config tunes the generation request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

// Service generates recommendations.
type Service struct {
	provider llm.Provider
	searcher Searcher
	cfg      Config
}

// NewService creates a recommendation service. searcher may be nil, in which
// case prompts carry no web context.
func NewService(provider llm.Provider, searcher Searcher, cfg Config) *Service {
	return &Service{provider: provider, searcher: searcher, cfg: cfg}
}

// Generate returns exactly three recommendations for query, personalized
// against profileJSON. Search failures degrade to a prompt without web context;
// malformed LLM output is an error, never coerced.
func (s *Service) Generate(ctx context.Context, profileJSON json.RawMessage, query string) ([]Recommendation, error) {
	ctx = llm.WithPurpose(ctx, "recommend")

	webContext := "No web results available."
	if s.searcher != nil {
		results, err := s.searcher.Search(ctx, query+" recommendations")
		if err == nil {
			webContext = websearch.FormatContext(results)
		}
	}

	req := llm.Request{
		System: recommendSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRecommendUserMessage(string(profileJSON), query, webContext)},
		},
		Schema:      RecommendationsSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	recs, err := parseRecommendations(resp.Content)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// parseRecommendations accepts either {"recommendations":[...]} or a bare
// JSON array. Anything else is an error.
func parseRecommendations(raw json.RawMessage) ([]Recommendation, error) {
	var wrapped struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Recommendations != nil {
		return wrapped.Recommendations, nil
	}

	var bare []Recommendation
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("parse recommendations: unexpected response shape: %s", raw)
}
