// Package questiongen builds tiered interview question documents from a
// profile schema: one conversational question per concept path, ranked and
// bucketed into tiers by impact.
package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/profile"
)

// Section names inside a profile schema document.
const (
	GeneralSection        = "generalprofile"
	RecommendationSection = "recommendationProfiles"
)

// Config tunes the generation requests.
type Config struct {
	QuestionMaxTokens int
	RankMaxTokens     int
	RankTemperature   float64
}

// DefaultConfig returns generation defaults.
func DefaultConfig() Config {
	return Config{
		QuestionMaxTokens: 300,
		RankMaxTokens:     4000,
		RankTemperature:   0.3,
	}
}

// Service generates tiered question documents.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a question generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// GenerateGeneral builds the general question set from the profile schema's
// general section.
func (s *Service) GenerateGeneral(ctx context.Context, tree *profile.Tree) (interview.QuestionSet, error) {
	var fields []fieldInfo
	for _, p := range tree.ConceptPaths(GeneralSection) {
		full := GeneralSection + "." + p
		fields = append(fields, fieldInfo{path: full, description: tree.DescriptionAt(full)})
	}
	return s.generate(ctx, tree, fields)
}

// GenerateCategory builds a category question set from the recommendation
// profile for the named category (e.g. "moviesAndTV").
func (s *Service) GenerateCategory(ctx context.Context, tree *profile.Tree, category string) (interview.QuestionSet, error) {
	prefix := category + "."
	var fields []fieldInfo
	for _, p := range tree.ConceptPaths(RecommendationSection) {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		full := RecommendationSection + "." + p
		fields = append(fields, fieldInfo{path: full, description: tree.DescriptionAt(full)})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no concept paths for category %q", category)
	}
	return s.generate(ctx, tree, fields)
}

type fieldInfo struct {
	path        string
	description string
}

// rankedQuestion is the shape the ranking step returns per question.
type rankedQuestion struct {
	Field       string `json:"field"`
	Question    string `json:"question"`
	ImpactScore int    `json:"impactScore"`
	Tier        string `json:"tier"`
}

func (s *Service) generate(ctx context.Context, tree *profile.Tree, fields []fieldInfo) (interview.QuestionSet, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no concept paths to generate questions for")
	}

	flat := make([]rankedQuestion, 0, len(fields))
	for _, f := range fields {
		text, err := s.generateQuestion(ctx, f.path, f.description)
		if err != nil {
			return nil, err
		}
		flat = append(flat, rankedQuestion{Field: f.path, Question: text})
	}

	ranked, err := s.rank(ctx, flat)
	if err != nil {
		return nil, err
	}

	return wrapByTier(enrich(ranked, tree)), nil
}

// generateQuestion asks for one conversational question for a field.
func (s *Service) generateQuestion(ctx context.Context, fieldPath, description string) (string, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	req := llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionUserMessage(fieldPath, description)},
		},
		MaxTokens: s.cfg.QuestionMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate question for %s: %w", fieldPath, err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", fmt.Errorf("generate question for %s: empty response", fieldPath)
	}
	return text, nil
}

// rank scores and buckets the batch in one structured-output call.
func (s *Service) rank(ctx context.Context, questions []rankedQuestion) ([]rankedQuestion, error) {
	ctx = llm.WithPurpose(ctx, "question-rank")

	payload, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}

	req := llm.Request{
		System: rankSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildRankUserMessage(string(payload))},
		},
		Schema:      RankedQuestionsSchema,
		MaxTokens:   s.cfg.RankMaxTokens,
		Temperature: s.cfg.RankTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("rank questions: %w", err)
	}

	var wrapped struct {
		Questions []rankedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(resp.Content, &wrapped); err == nil && wrapped.Questions != nil {
		return wrapped.Questions, nil
	}

	var bare []rankedQuestion
	if err := json.Unmarshal(resp.Content, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("rank questions: unexpected response shape: %s", resp.Content)
}

// enrich splits each field path into section/subsection, attaches the schema
// description, and marks the question pending.
func enrich(ranked []rankedQuestion, tree *profile.Tree) []*interview.Question {
	out := make([]*interview.Question, 0, len(ranked))
	for _, r := range ranked {
		section, subsection, _ := strings.Cut(r.Field, ".")
		out = append(out, &interview.Question{
			Text:        r.Question,
			Field:       r.Field,
			State:       interview.AnswerPending,
			Section:     section,
			Subsection:  subsection,
			Description: tree.DescriptionAt(r.Field),
			ImpactScore: r.ImpactScore,
			TierLabel:   r.Tier,
		})
	}
	return out
}

// wrapByTier groups enriched questions into the tier-keyed document. Tiers
// start unset so the interview engine promotes the first one on resume.
func wrapByTier(questions []*interview.Question) interview.QuestionSet {
	set := interview.QuestionSet{
		"tier1": {Status: interview.StatusUnset, Questions: []*interview.Question{}},
		"tier2": {Status: interview.StatusUnset, Questions: []*interview.Question{}},
		"tier3": {Status: interview.StatusUnset, Questions: []*interview.Question{}},
	}

	for _, q := range questions {
		var key string
		switch q.TierLabel {
		case "Tier 1":
			key = "tier1"
		case "Tier 2":
			key = "tier2"
		case "Tier 3":
			key = "tier3"
		default:
			key = "tier3"
		}
		set[key].Questions = append(set[key].Questions, q)
	}

	return set
}
