package interview

import (
	"sort"
	"strconv"
	"strings"
)

// TierStatus is the lifecycle status of a tier.
type TierStatus string

const (
	StatusUnset     TierStatus = ""
	StatusInProcess TierStatus = "in_process"
	StatusCompleted TierStatus = "completed"
)

// AnswerState is the per-question answered flag. The wire name is "qest",
// as written by the question generator.
type AnswerState string

const (
	AnswerPending  AnswerState = "pending"
	AnswerAnswered AnswerState = "answered"
)

// Question is one interview question. Text and Field drive the engine;
// the remaining fields are generator metadata carried so stored documents
// round-trip unchanged.
type Question struct {
	Text        string      `json:"question"`
	Field       string      `json:"field"`
	State       AnswerState `json:"qest"`
	Section     string      `json:"section,omitempty"`
	Subsection  string      `json:"subsection,omitempty"`
	Description string      `json:"description,omitempty"`
	ImpactScore int         `json:"impactScore,omitempty"`
	TierLabel   string      `json:"tier,omitempty"`
}

// Pending reports whether the question is still waiting for an answer.
func (q *Question) Pending() bool {
	return q.State == AnswerPending
}

// Tier is one ordered stage of a question set.
type Tier struct {
	Status    TierStatus  `json:"status"`
	Questions []*Question `json:"questions"`
}

// QuestionSet maps tier keys ("tier1", "tier2", …) to tiers. The general
// set covers every tier; a category set may populate fewer or none.
type QuestionSet map[string]*Tier

// Normalize applies document defaults in one place, at the store-adapter
// boundary: nil tiers and question slices become empty, an unrecognized
// status becomes unset, and a missing answered flag becomes pending.
func (s QuestionSet) Normalize() {
	for key, tier := range s {
		if tier == nil {
			tier = &Tier{}
			s[key] = tier
		}
		switch tier.Status {
		case StatusUnset, StatusInProcess, StatusCompleted:
		default:
			tier.Status = StatusUnset
		}
		if tier.Questions == nil {
			tier.Questions = []*Question{}
		}
		for _, q := range tier.Questions {
			if q.State == "" {
				q.State = AnswerPending
			}
		}
	}
}

// TierKeys returns the set's tier keys sorted by numeric rank. Keys that
// don't look like "tier<N>" are ignored.
func (s QuestionSet) TierKeys() []string {
	var keys []string
	for key := range s {
		if _, ok := tierRank(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, _ := tierRank(keys[i])
		rj, _ := tierRank(keys[j])
		return ri < rj
	})
	return keys
}

// PendingCount returns how many questions in the tier are still pending.
func (s QuestionSet) PendingCount(tierKey string) int {
	tier, ok := s[tierKey]
	if !ok || tier == nil {
		return 0
	}
	n := 0
	for _, q := range tier.Questions {
		if q.Pending() {
			n++
		}
	}
	return n
}

func tierRank(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "tier")
	if !ok {
		return 0, false
	}
	rank, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return rank, true
}
