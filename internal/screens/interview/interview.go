package interview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prism/internal/docstore"
	iv "github.com/abhisek/prism/internal/interview"
	"github.com/abhisek/prism/internal/rephrase"
	"github.com/abhisek/prism/internal/screen"
	"github.com/abhisek/prism/internal/ui/components"
	"github.com/abhisek/prism/internal/ui/layout"
)

// InterviewScreen runs one interview sitting: it loads the engine,
// surfaces one question at a time and persists after every answer.
type InterviewScreen struct {
	st        *docstore.Store
	rephraser *rephrase.Service
	category  iv.Category

	engine  *iv.Engine
	session *iv.Session
	current *iv.Current
	input   components.TextInput

	asking     string // interviewer line currently on screen
	lastAnswer string
	thinking   bool
	saveErr    string
	loadErr    string
	done       bool
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)
var _ screen.StatusProvider = (*InterviewScreen)(nil)

// New creates an interview screen for the chosen category. The rephraser
// may be nil; stored question wording is used as is.
func New(st *docstore.Store, rephraser *rephrase.Service, category iv.Category) *InterviewScreen {
	return &InterviewScreen{
		st:        st,
		rephraser: rephraser,
		category:  category,
		session:   iv.NewSession(category),
		input:     components.NewTextInput("Type your answer...", 200),
		thinking:  true,
	}
}

func (s *InterviewScreen) Init() tea.Cmd {
	return tea.Batch(
		s.loadEngine(),
		s.input.Init(),
	)
}

func (s *InterviewScreen) Title() string {
	return "Interview"
}

// HeaderStatus shows the category and the derived position.
func (s *InterviewScreen) HeaderStatus() string {
	if s.engine == nil || s.engine.TierCount() == 0 {
		return s.category.DisplayName()
	}
	if s.done {
		return s.category.DisplayName() + " · complete"
	}
	tierIdx, phase, _ := s.engine.Position()
	phaseName := "general"
	if phase == iv.PhaseCategory {
		phaseName = "category"
	}
	return fmt.Sprintf("%s · tier %d/%d · %s",
		s.category.DisplayName(), tierIdx+1, s.engine.TierCount(), phaseName)
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	if s.saveErr != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry save"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.done || s.loadErr != "" {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case engineReadyMsg:
		return s.handleEngineReady(msg)

	case questionReadyMsg:
		s.thinking = false
		s.asking = msg.Text
		s.session.Append(iv.RoleInterviewer, msg.Text)
		return s, nil

	case answerSavedMsg:
		return s.handleAnswerSaved(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.thinking && !s.done {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *InterviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.saveErr != "" {
		if msg.String() == "r" || msg.String() == "R" {
			s.saveErr = ""
			s.thinking = true
			return s, s.saveAnswer()
		}
		return s, nil
	}

	if msg.String() == "enter" && !s.thinking && !s.done && s.loadErr == "" {
		answer := strings.TrimSpace(s.input.Value())
		if answer == "" {
			return s, nil
		}
		s.session.Append(iv.RoleUser, answer)
		s.lastAnswer = answer
		s.engine.SubmitAnswer(answer)
		s.input.Reset()
		s.thinking = true
		return s, s.saveAnswer()
	}

	if !s.thinking && !s.done {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *InterviewScreen) handleEngineReady(msg engineReadyMsg) (screen.Screen, tea.Cmd) {
	s.engine = msg.Engine
	s.thinking = false

	if s.engine.Failed() {
		s.loadErr = "The profile store could not be read. Continuing now would lose earlier answers, so the interview is paused."
		return s, nil
	}
	if s.engine.TierCount() == 0 {
		s.loadErr = "No interview questions found. Import a question set first (prism questions import)."
		return s, nil
	}
	if s.engine.IsComplete() {
		s.done = true
		return s, nil
	}
	s.current = s.engine.CurrentQuestion()
	if s.current == nil {
		s.done = true
		return s, nil
	}
	s.thinking = true
	return s, s.askQuestion(s.current.Text, "")
}

func (s *InterviewScreen) handleAnswerSaved(msg answerSavedMsg) (screen.Screen, tea.Cmd) {
	s.thinking = false
	if msg.Err != nil {
		s.saveErr = fmt.Sprintf("Could not save progress: %v", msg.Err)
		return s, nil
	}

	if s.engine.IsComplete() {
		s.done = true
		return s, nil
	}
	s.current = s.engine.CurrentQuestion()
	if s.current == nil {
		s.done = true
		return s, nil
	}
	s.thinking = true
	return s, s.askQuestion(s.current.Text, s.lastAnswer)
}

// loadEngine constructs the engine off the UI goroutine.
func (s *InterviewScreen) loadEngine() tea.Cmd {
	return func() tea.Msg {
		engine := iv.New(context.Background(), s.st, s.category)
		return engineReadyMsg{Engine: engine}
	}
}

// askQuestion rephrases the stored question into a conversational line.
// Any rephrase failure falls back to the stored wording.
func (s *InterviewScreen) askQuestion(raw, priorAnswer string) tea.Cmd {
	return func() tea.Msg {
		if s.rephraser == nil {
			return questionReadyMsg{Text: raw}
		}
		text, err := s.rephraser.Rephrase(context.Background(), raw, priorAnswer)
		if err != nil || text == "" {
			return questionReadyMsg{Text: raw}
		}
		return questionReadyMsg{Text: text}
	}
}

// saveAnswer persists all three interview documents.
func (s *InterviewScreen) saveAnswer() tea.Cmd {
	return func() tea.Msg {
		return answerSavedMsg{Err: s.engine.Save(context.Background())}
	}
}
