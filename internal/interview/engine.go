package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/profile"
)

// Phase is the sub-stage within a tier: category-agnostic questions first,
// then topic-specific ones.
type Phase string

const (
	PhaseGeneral  Phase = "general"
	PhaseCategory Phase = "category"
)

// LoadState records how a document load went. Absent and Failed both fall
// back to an empty structure, but stay distinguishable for callers.
type LoadState int

const (
	LoadOK LoadState = iota
	LoadAbsent
	LoadFailed
)

// DocumentStore is the slice of the profile store the engine needs.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	Set(ctx context.Context, collection, id string, body json.RawMessage) error
}

// Current describes the question the interview is waiting on.
type Current struct {
	Text    string
	Field   string
	Phase   Phase
	TierKey string
}

// Engine drives the tiered interview: it owns the two question sets and
// the profile tree, derives the interview position from persisted tier
// statuses, and advances through tiers and phases as answers arrive.
// It knows nothing about the session showing it; that record belongs to
// the caller.
type Engine struct {
	store    DocumentStore
	category Category

	general    QuestionSet
	categoryQs QuestionSet
	profile    *profile.Tree

	tierKeys []string
	tierIdx  int
	phase    Phase
	qIdx     int

	loads map[string]LoadState
}

// New loads the general set, the category set and the profile tree, then
// derives the resumption position. Load problems never fail construction:
// each missing or unreadable document falls back to empty, and the per-
// document LoadState records what happened.
func New(ctx context.Context, store DocumentStore, category Category) *Engine {
	e := &Engine{
		store:    store,
		category: category,
		phase:    PhaseGeneral,
		loads:    map[string]LoadState{},
	}

	e.general = e.loadQuestionSet(ctx, docstore.GeneralQuestionsDocID)
	e.categoryQs = e.loadQuestionSet(ctx, category.DocID())
	e.profile = e.loadProfile(ctx)

	e.tierKeys = e.general.TierKeys()
	e.resume()
	return e
}

func (e *Engine) loadQuestionSet(ctx context.Context, docID string) QuestionSet {
	set := QuestionSet{}
	raw, err := e.store.Get(ctx, docstore.QuestionCollection, docID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		e.loads[docID] = LoadAbsent
	case err != nil:
		e.loads[docID] = LoadFailed
	default:
		if err := json.Unmarshal(raw, &set); err != nil {
			e.loads[docID] = LoadFailed
			set = QuestionSet{}
		} else {
			e.loads[docID] = LoadOK
		}
	}
	set.Normalize()
	return set
}

func (e *Engine) loadProfile(ctx context.Context) *profile.Tree {
	tree := profile.NewTree()
	raw, err := e.store.Get(ctx, docstore.UserCollection, docstore.ProfileDocID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		e.loads[docstore.ProfileDocID] = LoadAbsent
	case err != nil:
		e.loads[docstore.ProfileDocID] = LoadFailed
	default:
		if err := json.Unmarshal(raw, tree); err != nil {
			e.loads[docstore.ProfileDocID] = LoadFailed
			tree = profile.NewTree()
		} else {
			e.loads[docstore.ProfileDocID] = LoadOK
		}
	}
	return tree
}

// resume finds the first tier that is not completed and makes it current,
// marking it in_process if it was unset. Phase always re-enters at general
// and the question index at 0: resumption is phase-granular, not
// question-granular. If every tier is completed the position moves past
// the last tier, which is the terminal state.
func (e *Engine) resume() {
	for idx, key := range e.tierKeys {
		tier := e.general[key]
		if tier.Status == StatusCompleted {
			continue
		}
		e.tierIdx = idx
		if tier.Status != StatusInProcess {
			tier.Status = StatusInProcess
		}
		return
	}
	e.tierIdx = len(e.tierKeys)
}

// Failed reports whether any of the three documents hit a storage error
// (as opposed to simply being absent). IsComplete on an engine that
// failed to load means "nothing loaded", not "nothing left to do".
func (e *Engine) Failed() bool {
	for _, st := range e.loads {
		if st == LoadFailed {
			return true
		}
	}
	return false
}

// LoadStates returns the per-document load outcome, keyed by document id.
func (e *Engine) LoadStates() map[string]LoadState {
	out := make(map[string]LoadState, len(e.loads))
	for k, v := range e.loads {
		out[k] = v
	}
	return out
}

// Category returns the category this engine interviews for.
func (e *Engine) Category() Category {
	return e.category
}

// Profile returns the in-memory profile tree.
func (e *Engine) Profile() *profile.Tree {
	return e.profile
}

// GeneralSet returns the in-memory general question set.
func (e *Engine) GeneralSet() QuestionSet {
	return e.general
}

// CategorySet returns the in-memory category question set.
func (e *Engine) CategorySet() QuestionSet {
	return e.categoryQs
}

// TierCount returns the number of tiers in the general set.
func (e *Engine) TierCount() int {
	return len(e.tierKeys)
}

// TierKeys returns the tier keys in rank order.
func (e *Engine) TierKeys() []string {
	return e.tierKeys
}

// Position returns the derived interview position.
func (e *Engine) Position() (tierIdx int, phase Phase, qIdx int) {
	return e.tierIdx, e.phase, e.qIdx
}

// IsComplete reports whether the interview has moved past the last tier.
// Check Failed first: an engine that could not load anything has zero
// tiers and reports complete.
func (e *Engine) IsComplete() bool {
	return e.tierIdx >= len(e.tierKeys)
}

func (e *Engine) currentTierKey() string {
	if e.tierIdx < len(e.tierKeys) {
		return e.tierKeys[e.tierIdx]
	}
	return ""
}

// eligible reports whether questions from the set's tier may be surfaced.
// Only the general set is gated on tier status: a completed tier never
// resurfaces its general questions even if some are still flagged pending.
func (e *Engine) eligible(set QuestionSet, tierKey string, phase Phase) bool {
	tier, ok := set[tierKey]
	if !ok || tier == nil {
		return false
	}
	if phase == PhaseGeneral {
		return tier.Status == StatusInProcess || tier.Status == StatusUnset
	}
	return true
}

// nextPending returns the first pending question of the phase's tier at
// position from or later in the tier's full question sequence, along with
// its position. Original order is preserved; filtering never reorders.
func (e *Engine) nextPending(phase Phase, tierKey string, from int) (*Question, int) {
	set := e.setFor(phase)
	if !e.eligible(set, tierKey, phase) {
		return nil, -1
	}
	questions := set[tierKey].Questions
	for i := from; i < len(questions); i++ {
		if questions[i].Pending() {
			return questions[i], i
		}
	}
	return nil, -1
}

func (e *Engine) setFor(phase Phase) QuestionSet {
	if phase == PhaseCategory {
		return e.categoryQs
	}
	return e.general
}

// CurrentQuestion resolves the question the interview is waiting on, or
// nil when there is none (interview complete, or no data).
func (e *Engine) CurrentQuestion() *Current {
	tierKey := e.currentTierKey()
	if tierKey == "" {
		return nil
	}
	q, _ := e.nextPending(e.phase, tierKey, e.qIdx)
	if q == nil {
		return nil
	}
	return &Current{
		Text:    q.Text,
		Field:   q.Field,
		Phase:   e.phase,
		TierKey: tierKey,
	}
}

// SubmitAnswer records the answer for the current question: the question
// is marked answered, the answer is written into the profile tree at the
// question's field path, and the position advances. Returns false without
// mutating anything when no current question is resolvable.
func (e *Engine) SubmitAnswer(answer string) bool {
	tierKey := e.currentTierKey()
	if tierKey == "" {
		return false
	}
	q, pos := e.nextPending(e.phase, tierKey, e.qIdx)
	if q == nil {
		return false
	}

	// Mark the original question in the tier's full sequence, matched by
	// exact question text.
	for _, orig := range e.setFor(e.phase)[tierKey].Questions {
		if orig.Text == q.Text {
			orig.State = AnswerAnswered
			break
		}
	}

	if q.Field != "" {
		e.profile.SetValue(q.Field, answer)
	}

	e.advance(tierKey, pos)
	return true
}

// advance moves the position after an answer recorded at position pos of
// the current phase's question sequence.
func (e *Engine) advance(tierKey string, pos int) {
	if next, nextPos := e.nextPending(e.phase, tierKey, pos+1); next != nil {
		e.qIdx = nextPos
		return
	}

	if e.phase == PhaseGeneral {
		e.phase = PhaseCategory
		e.qIdx = 0
		if next, _ := e.nextPending(PhaseCategory, tierKey, 0); next != nil {
			return
		}
	}

	// Phase exhausted with nothing left in the category phase either:
	// the tier is done.
	e.completeTier(tierKey)
	e.advanceTier()
}

// completeTier marks the tier completed in both sets where present.
func (e *Engine) completeTier(tierKey string) {
	if tier, ok := e.general[tierKey]; ok && tier != nil {
		tier.Status = StatusCompleted
	}
	if tier, ok := e.categoryQs[tierKey]; ok && tier != nil {
		tier.Status = StatusCompleted
	}
}

// advanceTier moves to the next tier (general phase, question index 0)
// and marks it in_process, or past the end when none remain.
func (e *Engine) advanceTier() {
	if e.tierIdx+1 < len(e.tierKeys) {
		e.tierIdx++
		e.phase = PhaseGeneral
		e.qIdx = 0
		if tier, ok := e.general[e.tierKeys[e.tierIdx]]; ok && tier != nil {
			tier.Status = StatusInProcess
		}
		return
	}
	e.tierIdx = len(e.tierKeys)
}

// Save writes the three in-memory documents back to the store as whole-
// document overwrites. The saves are not atomic across documents; the
// first failure is returned and in-memory state is left as is, so the
// caller may retry the save or discard the engine.
func (e *Engine) Save(ctx context.Context) error {
	profileBody, err := json.Marshal(e.profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := e.store.Set(ctx, docstore.UserCollection, docstore.ProfileDocID, profileBody); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	generalBody, err := json.Marshal(e.general)
	if err != nil {
		return fmt.Errorf("marshal general questions: %w", err)
	}
	if err := e.store.Set(ctx, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, generalBody); err != nil {
		return fmt.Errorf("save general questions: %w", err)
	}

	categoryBody, err := json.Marshal(e.categoryQs)
	if err != nil {
		return fmt.Errorf("marshal category questions: %w", err)
	}
	if err := e.store.Set(ctx, docstore.QuestionCollection, e.category.DocID(), categoryBody); err != nil {
		return fmt.Errorf("save category questions: %w", err)
	}
	return nil
}
