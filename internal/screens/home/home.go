package home

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/recommend"
	"github.com/abhisek/prism/internal/rephrase"
	"github.com/abhisek/prism/internal/router"
	"github.com/abhisek/prism/internal/screen"
	recscreen "github.com/abhisek/prism/internal/screens/recommend"
	"github.com/abhisek/prism/internal/ui/components"
	"github.com/abhisek/prism/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu           components.Menu
	tiersCompleted int
	tierCount      int
	pendingGeneral int
	llmConfigured  bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(st *docstore.Store, rephraser *rephrase.Service, recommender *recommend.Service) *HomeScreen {
	h := &HomeScreen{llmConfigured: rephraser != nil}
	h.loadStats(st)

	items := []components.MenuItem{
		{Label: "START INTERVIEW", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: newCategoryPicker(st, rephraser)}
			}
		}},
		{Label: "GET RECOMMENDATIONS", Disabled: recommender == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: recscreen.New(st, recommender)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

// loadStats reads the general question set for tier progress. Missing or
// unreadable documents just leave the counters at zero.
func (h *HomeScreen) loadStats(st *docstore.Store) {
	if st == nil {
		return
	}
	raw, err := st.Get(context.Background(), docstore.QuestionCollection, docstore.GeneralQuestionsDocID)
	if err != nil {
		return
	}
	set := interview.QuestionSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return
	}
	set.Normalize()
	keys := set.TierKeys()
	h.tierCount = len(keys)
	for _, key := range keys {
		if set[key].Status == interview.StatusCompleted {
			h.tiersCompleted++
		}
		h.pendingGeneral += set.PendingCount(key)
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("P R I S M"))
	sections = append(sections, theme.Subtitle.Width(width).Render("A tiered interview that learns who you are"))

	sections = append(sections, h.renderStats(width))

	menu := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(
		lipgloss.NewStyle().Align(lipgloss.Left).Render(h.menu.View()))
	sections = append(sections, menu)

	if !h.llmConfigured {
		sections = append(sections, theme.Hint.Width(width).Align(lipgloss.Center).Render(
			"No LLM provider configured. The interview uses stored question text;\nset PRISM_LLM_PROVIDER to enable rephrasing and recommendations."))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(content)
}

func (h *HomeScreen) renderStats(width int) string {
	var stats string
	if h.tierCount == 0 {
		stats = theme.Hint.Render("No interview started yet")
	} else {
		stats = theme.Body.Render(fmt.Sprintf("Tiers completed: %d/%d", h.tiersCompleted, h.tierCount)) +
			theme.Hint.Render(fmt.Sprintf("   %d general questions pending", h.pendingGeneral))
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(stats)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
