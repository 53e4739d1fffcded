package interview

import (
	iv "github.com/abhisek/prism/internal/interview"
)

// engineReadyMsg is sent when the interview documents have been loaded
// and the resumption position derived.
type engineReadyMsg struct {
	Engine *iv.Engine
}

// questionReadyMsg carries the interviewer line to display. Text is the
// rephrased question, or the stored wording when rephrasing is
// unavailable or failed.
type questionReadyMsg struct {
	Text string
}

// answerSavedMsg is sent when persisting the answer completed.
type answerSavedMsg struct {
	Err error
}
