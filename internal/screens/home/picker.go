package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/prism/internal/docstore"
	"github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/rephrase"
	"github.com/abhisek/prism/internal/router"
	"github.com/abhisek/prism/internal/screen"
	ivscreen "github.com/abhisek/prism/internal/screens/interview"
	"github.com/abhisek/prism/internal/ui/components"
	"github.com/abhisek/prism/internal/ui/theme"
)

// categoryPicker asks which recommendation category the interview should
// focus on before starting.
type categoryPicker struct {
	menu components.Menu
}

var _ screen.Screen = (*categoryPicker)(nil)

func newCategoryPicker(st *docstore.Store, rephraser *rephrase.Service) *categoryPicker {
	var items []components.MenuItem
	for _, cat := range interview.AllCategories() {
		cat := cat
		items = append(items, components.MenuItem{
			Label: cat.DisplayName(),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: ivscreen.New(st, rephraser, cat)}
				}
			},
		})
	}
	return &categoryPicker{menu: components.NewMenu(items)}
}

func (p *categoryPicker) Init() tea.Cmd {
	return nil
}

func (p *categoryPicker) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *categoryPicker) View(width, height int) string {
	sections := []string{
		theme.Title.Width(width).Render("Choose a category"),
		theme.Subtitle.Width(width).Render("Tier questions alternate between general and category-specific"),
		lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(p.menu.View()),
	}
	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center).Render(content)
}

func (p *categoryPicker) Title() string {
	return "Category"
}
