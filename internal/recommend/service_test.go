package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/prism/internal/llm"
	"github.com/abhisek/prism/internal/websearch"
)

type stubSearcher struct {
	results []websearch.Result
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]websearch.Result, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

const profileJSON = `{"generalProfile":{"personalInfo":{"name":{"value":"Asha"}}}}`

func TestGenerate_WrappedObject(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"recommendations":[
			{"title":"Arrival","reason":"Matches your love of thoughtful sci-fi"},
			{"title":"The Martian","reason":"Problem-solving stories suit you"},
			{"title":"Interstellar","reason":"Epic scope fits your taste"}
		]}`)},
	)
	search := &stubSearcher{results: []websearch.Result{{Title: "Top sci-fi", URL: "https://a.example", Snippet: "list"}}}
	svc := NewService(mock, search, DefaultConfig())

	recs, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "sci-fi movies")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].Title != "Arrival" {
		t.Fatalf("unexpected first title: %q", recs[0].Title)
	}
}

func TestGenerate_BareArray(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`[
			{"title":"A","reason":"r1"},
			{"title":"B","reason":"r2"},
			{"title":"C","reason":"r3"}
		]`)},
	)
	svc := NewService(mock, nil, DefaultConfig())

	recs, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
}

func TestGenerate_UnexpectedShapeIsError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"items":["a","b"]}`)},
	)
	svc := NewService(mock, nil, DefaultConfig())

	_, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "books")
	if err == nil {
		t.Fatal("expected error for unexpected response shape")
	}
}

func TestGenerate_PromptIncludesProfileQueryAndWebContext(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"recommendations":[{"title":"A","reason":"r"}]}`)},
	)
	search := &stubSearcher{results: []websearch.Result{{Title: "Street food guide", URL: "https://f.example", Snippet: "tacos"}}}
	svc := NewService(mock, search, DefaultConfig())

	_, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "street food")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(search.queries) != 1 || search.queries[0] != "street food recommendations" {
		t.Fatalf("unexpected search queries: %v", search.queries)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Asha") {
		t.Errorf("prompt missing profile content: %q", msg)
	}
	if !strings.Contains(msg, "street food") {
		t.Errorf("prompt missing query: %q", msg)
	}
	if !strings.Contains(msg, "Street food guide") {
		t.Errorf("prompt missing web context: %q", msg)
	}
}

func TestGenerate_SearchFailureDegradesGracefully(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"recommendations":[{"title":"A","reason":"r"}]}`)},
	)
	search := &stubSearcher{err: errors.New("network down")}
	svc := NewService(mock, search, DefaultConfig())

	_, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "travel")
	if err != nil {
		t.Fatalf("expected search failure to be tolerated, got: %v", err)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "No web results available.") {
		t.Errorf("expected placeholder web context, got: %q", msg)
	}
}

func TestGenerate_ProviderErrorSurfaces(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	svc := NewService(mock, nil, DefaultConfig())

	_, err := svc.Generate(context.Background(), json.RawMessage(profileJSON), "travel")
	if err == nil {
		t.Fatal("expected error")
	}
}
