package interview

import (
	"encoding/json"
	"testing"
)

func TestNormalize_AppliesDefaults(t *testing.T) {
	set := QuestionSet{
		"tier1": nil,
		"tier2": {Status: "weird", Questions: nil},
		"tier3": {Status: StatusInProcess, Questions: []*Question{
			{Text: "q", State: ""},
			{Text: "q2", State: AnswerAnswered},
		}},
	}
	set.Normalize()

	if set["tier1"] == nil || set["tier1"].Questions == nil {
		t.Fatal("nil tier not replaced")
	}
	if set["tier2"].Status != StatusUnset {
		t.Errorf("unknown status not reset: %q", set["tier2"].Status)
	}
	if set["tier2"].Questions == nil {
		t.Error("nil questions not replaced")
	}
	if set["tier3"].Questions[0].State != AnswerPending {
		t.Errorf("empty qest not defaulted to pending: %q", set["tier3"].Questions[0].State)
	}
	if set["tier3"].Questions[1].State != AnswerAnswered {
		t.Errorf("answered flag overwritten: %q", set["tier3"].Questions[1].State)
	}
}

func TestTierKeys_NumericOrder(t *testing.T) {
	set := QuestionSet{
		"tier10":  {},
		"tier2":   {},
		"tier1":   {},
		"garbage": {},
		"tierX":   {},
	}
	keys := set.TierKeys()
	want := []string{"tier1", "tier2", "tier10"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestPendingCount(t *testing.T) {
	set := QuestionSet{
		"tier1": {Questions: []*Question{
			{Text: "a", State: AnswerPending},
			{Text: "b", State: AnswerAnswered},
			{Text: "c", State: AnswerPending},
		}},
	}
	if n := set.PendingCount("tier1"); n != 2 {
		t.Errorf("expected 2 pending, got %d", n)
	}
	if n := set.PendingCount("tier9"); n != 0 {
		t.Errorf("expected 0 for missing tier, got %d", n)
	}
}

func TestQuestionJSONTags(t *testing.T) {
	var q Question
	doc := `{"question":"Q?","field":"a.b","qest":"answered"}`
	if err := json.Unmarshal([]byte(doc), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Text != "Q?" || q.Field != "a.b" || q.State != AnswerAnswered {
		t.Fatalf("wire names not honored: %+v", q)
	}
}

func TestParseCategory(t *testing.T) {
	for _, name := range []string{"movies", "food", "travel"} {
		if _, err := ParseCategory(name); err != nil {
			t.Errorf("ParseCategory(%q): %v", name, err)
		}
	}
	if _, err := ParseCategory("gardening"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategoryDocIDs(t *testing.T) {
	cases := map[Category]string{
		CategoryMovies: "moviesAndTV_tiered_questions.json",
		CategoryFood:   "foodAndDining_tiered_questions.json",
		CategoryTravel: "travel_tiered_questions.json",
	}
	for c, want := range cases {
		if got := c.DocID(); got != want {
			t.Errorf("%s: expected %q, got %q", c, want, got)
		}
	}
}

func TestSession_Transcript(t *testing.T) {
	s := NewSession(CategoryFood)
	if s.ID == "" {
		t.Error("session needs an id")
	}
	s.Append(RoleInterviewer, "Hello!")
	s.Append(RoleUser, "Hi.")
	if len(s.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.Entries))
	}
	if s.Entries[0].Role != RoleInterviewer || s.Entries[1].Role != RoleUser {
		t.Error("entry roles not preserved")
	}
}
