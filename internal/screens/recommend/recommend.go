package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prism/internal/docstore"
	rec "github.com/abhisek/prism/internal/recommend"
	"github.com/abhisek/prism/internal/screen"
	"github.com/abhisek/prism/internal/ui/components"
	"github.com/abhisek/prism/internal/ui/layout"
	"github.com/abhisek/prism/internal/ui/theme"
)

// recsReadyMsg carries the generated recommendations, or the failure.
type recsReadyMsg struct {
	Recs []rec.Recommendation
	Err  error
}

// RecommendScreen asks for a free-text request and renders three
// profile-grounded suggestions.
type RecommendScreen struct {
	st          *docstore.Store
	recommender *rec.Service

	input   components.TextInput
	recs    []rec.Recommendation
	query   string
	working bool
	errMsg  string
}

var _ screen.Screen = (*RecommendScreen)(nil)
var _ screen.KeyHintProvider = (*RecommendScreen)(nil)

// New creates a recommendation screen.
func New(st *docstore.Store, recommender *rec.Service) *RecommendScreen {
	return &RecommendScreen{
		st:          st,
		recommender: recommender,
		input:       components.NewTextInput("What are you in the mood for?", 200),
	}
}

func (s *RecommendScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *RecommendScreen) Title() string {
	return "Recommendations"
}

func (s *RecommendScreen) KeyHints() []layout.KeyHint {
	if len(s.recs) > 0 || s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RecommendScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recsReadyMsg:
		s.working = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.recs = msg.Recs
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !s.working {
			query := strings.TrimSpace(s.input.Value())
			if query == "" {
				return s, nil
			}
			s.query = query
			s.recs = nil
			s.errMsg = ""
			s.working = true
			s.input.Reset()
			return s, s.generate(query)
		}
	}

	if !s.working {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// generate loads the profile and asks the recommender off the UI goroutine.
func (s *RecommendScreen) generate(query string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		profileJSON, err := s.st.Get(ctx, docstore.UserCollection, docstore.ProfileDocID)
		if errors.Is(err, docstore.ErrNotFound) {
			profileJSON = json.RawMessage("{}")
		} else if err != nil {
			return recsReadyMsg{Err: fmt.Errorf("loading profile: %w", err)}
		}

		recs, err := s.recommender.Generate(ctx, profileJSON, query)
		return recsReadyMsg{Recs: recs, Err: err}
	}
}

func (s *RecommendScreen) View(width, height int) string {
	innerWidth := width - 8
	if innerWidth < 20 {
		innerWidth = 20
	}

	var sections []string
	sections = append(sections, theme.Title.Width(innerWidth).Render("What should I pick?"))

	switch {
	case s.working:
		sections = append(sections, theme.Hint.Width(innerWidth).Render("Asking: "+s.query))
		sections = append(sections, theme.Hint.Width(innerWidth).Render("Searching and thinking..."))
	case s.errMsg != "":
		sections = append(sections, theme.Bad.Width(innerWidth).Render("Could not get recommendations"))
		sections = append(sections, theme.Body.Width(innerWidth).Render(s.errMsg))
		sections = append(sections, s.input.View())
	case len(s.recs) > 0:
		sections = append(sections, theme.Hint.Width(innerWidth).Render("For: "+s.query))
		for i, r := range s.recs {
			card := theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, r.Title)) + "\n" +
				theme.Hint.Width(innerWidth-4).Render(r.Reason)
			sections = append(sections, card)
		}
		sections = append(sections, s.input.View())
	default:
		sections = append(sections, theme.Subtitle.Width(innerWidth).Render("Ask for anything: a film for tonight, where to eat, where to go next."))
		sections = append(sections, s.input.View())
	}

	body := strings.Join(sections, "\n\n")
	card := theme.Card.Width(innerWidth + 4).Render(body)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card)
}
