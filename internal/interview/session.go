package interview

import (
	"time"

	"github.com/google/uuid"
)

// SpeakerRole identifies who produced a transcript entry.
type SpeakerRole string

const (
	RoleInterviewer SpeakerRole = "interviewer"
	RoleUser        SpeakerRole = "user"
)

// TranscriptEntry is a single line of the interview conversation.
type TranscriptEntry struct {
	Role SpeakerRole
	Text string
	At   time.Time
}

// Session is the caller-owned record of one interview sitting: its
// identity, the chosen category and the conversation so far. The engine
// is deliberately ignorant of it: the engine tracks interview position,
// the session tracks who is talking to it.
type Session struct {
	ID       string
	Category Category
	Started  time.Time
	Entries  []TranscriptEntry
}

// NewSession creates a session record for the given category.
func NewSession(category Category) *Session {
	return &Session{
		ID:       uuid.New().String(),
		Category: category,
		Started:  time.Now(),
	}
}

// Append adds a transcript entry.
func (s *Session) Append(role SpeakerRole, text string) {
	s.Entries = append(s.Entries, TranscriptEntry{Role: role, Text: text, At: time.Now()})
}
