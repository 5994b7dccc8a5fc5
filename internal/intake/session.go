package intake

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sidgajraj/caseline/internal/domain"
)

const responderPromptTemplate = `You are a warm, concise legal intake assistant.
Remember what the user has already provided. Do NOT ask for the same info again.

KNOWN INFO (what we already have - do NOT re-ask these):
%s

RULES:
- Keep it human and empathetic.
- Ask at most ONE follow-up, and ONLY for the NEXT missing field: %s.
- If the user asks a legal question, answer briefly (not legal advice) then, if natural, ask for the next missing field.
- If the user asks to talk to a human, say: %s
- Include a compact JSON block ONLY if (a) we have enough detail for multiple fields OR (b) all fields are filled. Otherwise, no JSON.
- Never ask for an item that's already present in KNOWN INFO.

User message:
"""%s"""`

// allCollectedSentinel stands in for the next-missing field name once the
// record is complete.
const allCollectedSentinel = "none (we have all we need)"

// IntakeSession is the per-turn state machine over one session:
// Collecting -> Complete -> Committed, re-entering Collecting only through an
// explicit reset. It merges deltas and assembles the responder instruction.
type IntakeSession struct {
	sess *domain.Session
}

// NewIntakeSession wraps a session. The caller must hold the session's turn
// lock for the duration of the turn.
func NewIntakeSession(sess *domain.Session) *IntakeSession {
	return &IntakeSession{sess: sess}
}

// Session returns the underlying session.
func (i *IntakeSession) Session() *domain.Session { return i.sess }

// Merge applies a delta to the record under the monotonic merge rules.
func (i *IntakeSession) Merge(delta domain.Delta) {
	if len(delta) == 0 {
		return
	}
	i.sess.Record.Merge(delta)
	i.sess.UpdatedAt = time.Now()
}

// NextMissing returns the earliest empty field per the fixed order, or
// ok=false when the record is complete.
func (i *IntakeSession) NextMissing() (domain.Field, bool) {
	return i.sess.Record.NextMissing()
}

// MergeReply scrapes a structured fragment out of a responder reply and, if
// one parses, merges it. The responder is trusted as a second-pass source:
// it may surface fields the strict extractor missed. Monotonic merge rules
// still apply, so a fragment can add or replace but never clear.
func (i *IntakeSession) MergeReply(reply string) bool {
	delta, ok := ExtractFragment(reply)
	if !ok {
		return false
	}
	i.Merge(delta)
	return true
}

// ResponderInstruction assembles the conversational prompt for the
// responder: the known-field snapshot, the single next field to ask for (or
// the all-collected sentinel), and the fixed behavioral rules. The rules are
// data handed to the responder, not logic executed here.
func (i *IntakeSession) ResponderInstruction(utterance, handoffContact string) string {
	known, err := json.Marshal(i.sess.Record.Snapshot())
	if err != nil {
		known = []byte("{}")
	}

	next := allCollectedSentinel
	if f, missing := i.NextMissing(); missing {
		next = string(f)
	}

	return fmt.Sprintf(responderPromptTemplate, known, next, handoffContact, utterance)
}
