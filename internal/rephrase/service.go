// Package rephrase turns the next interview question into a warm
// conversational transition that acknowledges the user's prior answer.
package rephrase

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/prism/internal/llm"
)

// Config tunes the rephrasing request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns rephrasing defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
	}
}

// Service rephrases interview questions conversationally.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a rephrasing service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Rephrase returns a conversational lead-in for nextQuestion, acknowledging
// priorAnswer when it is non-empty. It never mutates interview state; on
// error callers should fall back to asking nextQuestion verbatim.
func (s *Service) Rephrase(ctx context.Context, nextQuestion, priorAnswer string) (string, error) {
	ctx = llm.WithPurpose(ctx, "rephrase")

	req := llm.Request{
		System: rephraseSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRephraseUserMessage(nextQuestion, priorAnswer)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("rephrase question: %w", err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", fmt.Errorf("rephrase question: empty response")
	}
	return text, nil
}
