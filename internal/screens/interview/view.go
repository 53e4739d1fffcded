package interview

import (
	"strings"

	"charm.land/lipgloss/v2"

	iv "github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/ui/theme"
)

// transcriptWindow is how many conversation lines stay on screen.
const transcriptWindow = 8

func (s *InterviewScreen) View(width, height int) string {
	if s.loadErr != "" {
		return centered(width, height, theme.Bad.Render("Interview unavailable")+"\n\n"+theme.Body.Render(s.loadErr))
	}
	if s.engine == nil {
		return centered(width, height, theme.Hint.Render("Loading interview..."))
	}
	if s.done {
		return s.renderComplete(width, height)
	}
	return s.renderConversation(width, height)
}

func (s *InterviewScreen) renderComplete(width, height int) string {
	msg := theme.Good.Render("Interview complete!") + "\n\n" +
		theme.Body.Render("Every tier is finished. Your profile now covers "+s.category.DisplayName()+".") + "\n" +
		theme.Hint.Render("Try GET RECOMMENDATIONS from the home screen.")
	return centered(width, height, msg)
}

func (s *InterviewScreen) renderConversation(width, height int) string {
	innerWidth := width - 8
	if innerWidth < 20 {
		innerWidth = 20
	}

	var lines []string
	entries := s.session.Entries
	if len(entries) > transcriptWindow {
		entries = entries[len(entries)-transcriptWindow:]
	}
	for _, entry := range entries {
		switch entry.Role {
		case iv.RoleInterviewer:
			lines = append(lines, theme.Interviewer.Width(innerWidth).Render("Prism: "+entry.Text))
		case iv.RoleUser:
			lines = append(lines, theme.UserSpeech.Width(innerWidth).Render("You: "+entry.Text))
		}
		lines = append(lines, "")
	}

	if s.thinking {
		lines = append(lines, theme.Hint.Render("Thinking..."))
	} else if s.saveErr != "" {
		lines = append(lines, theme.Bad.Render(s.saveErr))
		lines = append(lines, theme.Hint.Render("Your answer is kept in memory. Press R to retry saving."))
	} else {
		lines = append(lines, s.input.View())
	}

	body := strings.Join(lines, "\n")
	card := theme.Card.Width(innerWidth + 4).Render(body)
	return centered(width, height, card)
}

func centered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
