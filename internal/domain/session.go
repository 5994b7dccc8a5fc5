package domain

import "time"

// SessionState classifies where a conversation is in the intake flow.
type SessionState string

const (
	// StateCollecting means at least one field is still empty.
	StateCollecting SessionState = "collecting"
	// StateComplete means every field is populated but the record has not
	// been durably persisted yet.
	StateComplete SessionState = "complete"
	// StateCommitted means the record was persisted. Terminal except for an
	// explicit reset.
	StateCommitted SessionState = "committed"
)

// DefaultSessionID is substituted when a caller supplies no session id.
const DefaultSessionID = "_default"

// Session is the per-conversation container: one in-progress record plus its
// commit state.
type Session struct {
	ID        string     `json:"id"`
	Record    CaseRecord `json:"record"`
	Committed bool       `json:"committed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// State derives the current intake state from the record and commit flag.
func (s *Session) State() SessionState {
	switch {
	case s.Committed:
		return StateCommitted
	case s.Record.Complete():
		return StateComplete
	default:
		return StateCollecting
	}
}
