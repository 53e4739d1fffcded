package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/prism/internal/docstore"
)

// fakeStore is an in-memory DocumentStore with optional per-document
// failure injection.
type fakeStore struct {
	docs     map[string]json.RawMessage
	getErr   map[string]error
	setErr   map[string]error
	setCalls []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:   map[string]json.RawMessage{},
		getErr: map[string]error{},
		setErr: map[string]error{},
	}
}

func docKey(collection, id string) string {
	return collection + "/" + id
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	key := docKey(collection, id)
	if err, ok := f.getErr[key]; ok {
		return nil, err
	}
	body, ok := f.docs[key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return body, nil
}

func (f *fakeStore) Set(_ context.Context, collection, id string, body json.RawMessage) error {
	key := docKey(collection, id)
	f.setCalls = append(f.setCalls, key)
	if err, ok := f.setErr[key]; ok {
		return err
	}
	f.docs[key] = body
	return nil
}

func (f *fakeStore) put(t *testing.T, collection, id string, v any) {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s/%s: %v", collection, id, err)
	}
	f.docs[docKey(collection, id)] = body
}

func pendingQ(text, field string) *Question {
	return &Question{Text: text, Field: field, State: AnswerPending}
}

func answeredQ(text, field string) *Question {
	return &Question{Text: text, Field: field, State: AnswerAnswered}
}

// seedScenario stores the walkthrough data: tier1 general asks name and
// age, tier2 general asks hobby, the category document is absent.
func seedScenario(t *testing.T, store *fakeStore) {
	t.Helper()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("What is your name?", "generalprofile.personalInfo.name"),
			pendingQ("How old are you?", "generalprofile.personalInfo.age"),
		}},
		"tier2": {Questions: []*Question{
			pendingQ("What is a hobby you love?", "generalprofile.interests.hobby"),
		}},
	})
}

func TestNew_EmptyStore(t *testing.T) {
	store := newFakeStore()
	e := New(context.Background(), store, CategoryMovies)

	if e.Failed() {
		t.Error("absent documents must not count as failure")
	}
	if e.TierCount() != 0 {
		t.Errorf("expected 0 tiers, got %d", e.TierCount())
	}
	if !e.IsComplete() {
		t.Error("engine with no tiers should report complete")
	}
	if e.CurrentQuestion() != nil {
		t.Error("expected no current question")
	}

	for _, id := range []string{docstore.GeneralQuestionsDocID, CategoryMovies.DocID(), docstore.ProfileDocID} {
		if st := e.LoadStates()[id]; st != LoadAbsent {
			t.Errorf("expected LoadAbsent for %s, got %v", id, st)
		}
	}
}

func TestNew_StorageFailureIsDistinguishable(t *testing.T) {
	store := newFakeStore()
	store.getErr[docKey(docstore.QuestionCollection, docstore.GeneralQuestionsDocID)] = errors.New("disk on fire")

	e := New(context.Background(), store, CategoryMovies)

	if !e.Failed() {
		t.Error("storage error must surface through Failed")
	}
	if st := e.LoadStates()[docstore.GeneralQuestionsDocID]; st != LoadFailed {
		t.Errorf("expected LoadFailed, got %v", st)
	}
	// IsComplete still reports the arithmetic truth; callers check Failed
	// before trusting it.
	if !e.IsComplete() {
		t.Error("engine with zero loaded tiers reports complete")
	}
}

func TestNew_MalformedDocumentIsFailure(t *testing.T) {
	store := newFakeStore()
	store.docs[docKey(docstore.QuestionCollection, docstore.GeneralQuestionsDocID)] = json.RawMessage(`{"tier1": "not a tier"}`)

	e := New(context.Background(), store, CategoryMovies)
	if !e.Failed() {
		t.Error("unparseable document must surface through Failed")
	}
}

func TestResume_SkipsCompletedTiers(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusCompleted, Questions: []*Question{
			pendingQ("leftover pending in a done tier", ""),
		}},
		"tier2": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("tier two question", "generalprofile.t2"),
		}},
		"tier3": {Questions: []*Question{
			pendingQ("tier three question", "generalprofile.t3"),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)

	tierIdx, phase, qIdx := e.Position()
	if tierIdx != 1 || phase != PhaseGeneral || qIdx != 0 {
		t.Fatalf("unexpected position: %d %s %d", tierIdx, phase, qIdx)
	}

	cur := e.CurrentQuestion()
	if cur == nil || cur.Text != "tier two question" {
		t.Fatalf("completed tier resurfaced: %+v", cur)
	}
}

func TestResume_PromotesUnsetTier(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Questions: []*Question{pendingQ("q", "")}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if e.GeneralSet()["tier1"].Status != StatusInProcess {
		t.Fatalf("expected tier1 promoted to in_process, got %q", e.GeneralSet()["tier1"].Status)
	}
}

func TestResume_Idempotent(t *testing.T) {
	store := newFakeStore()
	seedScenario(t, store)

	e1 := New(context.Background(), store, CategoryMovies)
	if err := e1.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Loading again without any answers lands on the same position and
	// changes no statuses.
	e2 := New(context.Background(), store, CategoryMovies)
	t1a, p1, q1 := e1.Position()
	t2a, p2, q2 := e2.Position()
	if t1a != t2a || p1 != p2 || q1 != q2 {
		t.Fatalf("position drifted across loads: (%d %s %d) vs (%d %s %d)", t1a, p1, q1, t2a, p2, q2)
	}
	if e2.GeneralSet()["tier1"].Status != StatusInProcess {
		t.Errorf("tier1 status drifted: %q", e2.GeneralSet()["tier1"].Status)
	}
	if e2.GeneralSet()["tier2"].Status != StatusUnset {
		t.Errorf("tier2 status drifted: %q", e2.GeneralSet()["tier2"].Status)
	}
}

func TestCurrentQuestion_SkipsAnsweredInOrder(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			answeredQ("first", ""),
			pendingQ("second", ""),
			pendingQ("third", ""),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)
	cur := e.CurrentQuestion()
	if cur == nil || cur.Text != "second" {
		t.Fatalf("expected the first pending question in original order, got %+v", cur)
	}
}

func TestSubmitAnswer_DoesNotSkipFollowingQuestion(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("q1", ""),
			pendingQ("q2", ""),
			pendingQ("q3", ""),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("a1") {
		t.Fatal("submit failed")
	}

	cur := e.CurrentQuestion()
	if cur == nil || cur.Text != "q2" {
		t.Fatalf("expected q2 after answering q1, got %+v", cur)
	}
}

func TestSubmitAnswer_WritesProfileAndMarksAnswered(t *testing.T) {
	store := newFakeStore()
	seedScenario(t, store)

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("Ada") {
		t.Fatal("submit failed")
	}

	if e.GeneralSet()["tier1"].Questions[0].State != AnswerAnswered {
		t.Error("question not marked answered")
	}
	v, ok := e.Profile().ValueAt("generalprofile.personalInfo.name")
	if !ok || v != "Ada" {
		t.Errorf("profile value not written: %v %v", v, ok)
	}
}

func TestSubmitAnswer_NoCurrentQuestionIsNoop(t *testing.T) {
	store := newFakeStore()
	e := New(context.Background(), store, CategoryMovies)

	if e.SubmitAnswer("into the void") {
		t.Fatal("submit must fail when there is no current question")
	}
	if len(store.setCalls) != 0 {
		t.Error("no-op submit must not touch the store")
	}
}

func TestSubmitAnswer_EmptyFieldSkipsProfileWrite(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("fieldless question", ""),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("whatever") {
		t.Fatal("submit failed")
	}
	body, err := json.Marshal(e.Profile())
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	if string(body) != "{}" {
		t.Errorf("profile should be untouched, got %s", body)
	}
}

func TestAdvance_GeneralToCategoryPhase(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("general q", "generalprofile.g"),
		}},
	})
	store.put(t, docstore.QuestionCollection, CategoryMovies.DocID(), QuestionSet{
		"tier1": {Questions: []*Question{
			pendingQ("category q", "recommendationProfiles.moviesAndTV.c"),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("done with general") {
		t.Fatal("submit failed")
	}

	cur := e.CurrentQuestion()
	if cur == nil || cur.Phase != PhaseCategory || cur.Text != "category q" {
		t.Fatalf("expected category phase question, got %+v", cur)
	}
	if e.GeneralSet()["tier1"].Status != StatusInProcess {
		t.Error("tier must stay in_process while its category phase runs")
	}
}

func TestAdvance_CategoryPhaseIgnoresTierStatus(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{
			pendingQ("general q", ""),
		}},
	})
	// Category tier carries a completed status but still has a pending
	// question; only general questions are gated on status.
	store.put(t, docstore.QuestionCollection, CategoryMovies.DocID(), QuestionSet{
		"tier1": {Status: StatusCompleted, Questions: []*Question{
			pendingQ("ungated category q", ""),
		}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("a") {
		t.Fatal("submit failed")
	}
	cur := e.CurrentQuestion()
	if cur == nil || cur.Text != "ungated category q" {
		t.Fatalf("category question must surface regardless of tier status, got %+v", cur)
	}
}

func TestAdvance_EmptyCategorySkipsToNextTier(t *testing.T) {
	store := newFakeStore()
	seedScenario(t, store)

	e := New(context.Background(), store, CategoryMovies)

	// Walk a full sitting: name, age, then tier1 completes because
	// the category document is absent, and tier2's hobby surfaces.
	if !e.SubmitAnswer("Ada") {
		t.Fatal("submit name failed")
	}
	cur := e.CurrentQuestion()
	if cur == nil || cur.Text != "How old are you?" {
		t.Fatalf("expected age question, got %+v", cur)
	}

	if !e.SubmitAnswer("36") {
		t.Fatal("submit age failed")
	}

	if e.GeneralSet()["tier1"].Status != StatusCompleted {
		t.Errorf("tier1 should be completed, got %q", e.GeneralSet()["tier1"].Status)
	}
	if e.GeneralSet()["tier2"].Status != StatusInProcess {
		t.Errorf("tier2 should be in_process, got %q", e.GeneralSet()["tier2"].Status)
	}

	cur = e.CurrentQuestion()
	if cur == nil || cur.Text != "What is a hobby you love?" || cur.Phase != PhaseGeneral || cur.TierKey != "tier2" {
		t.Fatalf("expected tier2 hobby question, got %+v", cur)
	}

	if !e.SubmitAnswer("chess") {
		t.Fatal("submit hobby failed")
	}
	if !e.IsComplete() {
		t.Error("interview should be complete after the last tier")
	}
	if e.CurrentQuestion() != nil {
		t.Error("no question should remain after completion")
	}

	v, _ := e.Profile().ValueAt("generalprofile.personalInfo.name")
	if v != "Ada" {
		t.Errorf("name not in profile: %v", v)
	}
	v, _ = e.Profile().ValueAt("generalprofile.interests.hobby")
	if v != "chess" {
		t.Errorf("hobby not in profile: %v", v)
	}
}

func TestCompleteTier_MarksBothSets(t *testing.T) {
	store := newFakeStore()
	store.put(t, docstore.QuestionCollection, docstore.GeneralQuestionsDocID, QuestionSet{
		"tier1": {Status: StatusInProcess, Questions: []*Question{pendingQ("g", "")}},
	})
	store.put(t, docstore.QuestionCollection, CategoryMovies.DocID(), QuestionSet{
		"tier1": {Questions: []*Question{pendingQ("c", "")}},
	})

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("general answer") {
		t.Fatal("submit failed")
	}
	if !e.SubmitAnswer("category answer") {
		t.Fatal("submit failed")
	}

	if e.GeneralSet()["tier1"].Status != StatusCompleted {
		t.Errorf("general tier1 not completed: %q", e.GeneralSet()["tier1"].Status)
	}
	if e.CategorySet()["tier1"].Status != StatusCompleted {
		t.Errorf("category tier1 not completed: %q", e.CategorySet()["tier1"].Status)
	}
}

func TestSave_PersistsAndResumes(t *testing.T) {
	store := newFakeStore()
	seedScenario(t, store)

	e := New(context.Background(), store, CategoryMovies)
	if !e.SubmitAnswer("Ada") {
		t.Fatal("submit failed")
	}
	if !e.SubmitAnswer("36") {
		t.Fatal("submit failed")
	}
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh engine over the same store resumes at tier2's general phase.
	e2 := New(context.Background(), store, CategoryMovies)
	tierIdx, phase, _ := e2.Position()
	if tierIdx != 1 || phase != PhaseGeneral {
		t.Fatalf("unexpected resumed position: %d %s", tierIdx, phase)
	}
	cur := e2.CurrentQuestion()
	if cur == nil || cur.Text != "What is a hobby you love?" {
		t.Fatalf("unexpected resumed question: %+v", cur)
	}

	// Completion is monotonic: tier1 stays completed.
	if e2.GeneralSet()["tier1"].Status != StatusCompleted {
		t.Errorf("tier1 regressed: %q", e2.GeneralSet()["tier1"].Status)
	}
	v, _ := e2.Profile().ValueAt("generalprofile.personalInfo.name")
	if v != "Ada" {
		t.Errorf("answer lost across save/load: %v", v)
	}
}

func TestSave_FirstFailureReturned(t *testing.T) {
	store := newFakeStore()
	seedScenario(t, store)
	store.setErr[docKey(docstore.UserCollection, docstore.ProfileDocID)] = fmt.Errorf("write denied")

	e := New(context.Background(), store, CategoryMovies)
	err := e.Save(context.Background())
	if err == nil {
		t.Fatal("expected save error")
	}
	// The profile is saved first; the question sets must not have been
	// attempted after the failure.
	if len(store.setCalls) != 1 {
		t.Fatalf("expected 1 set call, got %d", len(store.setCalls))
	}
}

func TestQuestionSet_RoundTripsGeneratorMetadata(t *testing.T) {
	doc := `{"tier1":{"status":"in_process","questions":[{"question":"Q","field":"generalprofile.x","qest":"pending","section":"generalprofile","subsection":"x","description":"d","impactScore":88,"tier":"Tier 1"}]}}`

	var set QuestionSet
	if err := json.Unmarshal([]byte(doc), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"impactScore":88`, `"tier":"Tier 1"`, `"qest":"pending"`, `"section":"generalprofile"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("round-trip lost %s in %s", want, out)
		}
	}
}
