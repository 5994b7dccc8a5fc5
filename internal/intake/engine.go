package intake

import (
	"context"
	"strings"
	"time"

	"github.com/sidgajraj/caseline/internal/domain"
	"github.com/sidgajraj/caseline/internal/llm"
	"github.com/sidgajraj/caseline/internal/logging"
)

// FallbackReply is returned when the responder call fails. Session state is
// left as it was after the extraction merge.
const FallbackReply = "I'm here to help. Could you share what happened, and when it took place?"

// DefaultHandoffContact is the verbatim hand-off string the responder emits
// when the user asks for a human. Consistency tests depend on the exact text.
const DefaultHandoffContact = "You can reach our intake team at **sidgajraj@gmail.com** or **(xxx) xxx-xxxx**. I'm here if you'd like to continue now."

// resetKeywords trigger a session reset when any of them appears anywhere in
// the utterance, case-insensitively, before extraction runs for that turn.
var resetKeywords = []string{"start over", "restart", "reset", "new case"}

const defaultReplyTemperature = 0.2

// Config configures the intake engine.
type Config struct {
	Model            string
	MaxTokens        int
	ReplyTemperature *float64 // extraction is always temperature 0
	HandoffContact   string
}

// TurnResult is the outcome of one conversational turn.
type TurnResult struct {
	SessionID   string              `json:"sessionId"`
	Reply       string              `json:"reply"`             // raw responder output, may embed a fragment
	Display     string              `json:"display"`           // reply with any fragment stripped
	NextMissing string              `json:"nextMissing"`       // empty when the record is complete
	State       domain.SessionState `json:"state"`
	Committed   bool                `json:"committed"` // a save happened this turn
	WasReset    bool                `json:"wasReset,omitempty"`
}

// Engine drives the per-turn pipeline: reset scan, extraction merge,
// responder call, second-pass merge from the reply, commit attempt. No
// internal failure aborts a turn; every failure path degrades to a defined
// reply and leaves session state consistent.
type Engine struct {
	cfg       Config
	client    llm.Client
	extractor *FieldExtractor
	sessions  *SessionStore
	committer *CaseCommitter
	log       *logging.Logger
}

// NewEngine creates an intake engine. The dates resolver is shared with the
// committer so tests can pin the reference time.
func NewEngine(cfg Config, client llm.Client, sessions *SessionStore, store CaseStore, dates DateResolver, log *logging.Logger) *Engine {
	if cfg.HandoffContact == "" {
		cfg.HandoffContact = DefaultHandoffContact
	}
	if cfg.ReplyTemperature == nil {
		cfg.ReplyTemperature = llm.Temp(defaultReplyTemperature)
	}
	return &Engine{
		cfg:       cfg,
		client:    client,
		extractor: NewFieldExtractor(client, cfg.Model, log),
		sessions:  sessions,
		committer: NewCaseCommitter(store, dates, log),
		log:       log.Sub("intake.engine"),
	}
}

// Sessions returns the engine's session store.
func (e *Engine) Sessions() *SessionStore { return e.sessions }

// HandleTurn processes one utterance for a session to completion. Turns for
// the same session id are serialized; independent sessions run concurrently.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, text string) TurnResult {
	sess, release := e.sessions.Acquire(sessionID)
	defer release()

	result := TurnResult{SessionID: sess.ID}

	if containsResetKeyword(text) {
		e.sessions.Reset(sess.ID)
		result.WasReset = true
		e.log.Info().Str("session", sess.ID).Msg("session reset by user")
	}

	is := NewIntakeSession(sess)

	delta := e.extractor.Extract(ctx, text)
	is.Merge(delta)

	prompt := is.ResponderInstruction(text, e.cfg.HandoffContact)
	resp, err := e.client.Complete(ctx, llm.CompletionRequest{
		Model:       e.cfg.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.ReplyTemperature,
	})
	if err != nil {
		// Soft failure: the user still gets a reply, the merged state from
		// this turn's extraction is kept, and commit waits for a later turn.
		e.log.Warn().Err(err).Str("session", sess.ID).Msg("responder call failed")
		result.Reply = FallbackReply
		result.Display = FallbackReply
		result.State = sess.State()
		if f, missing := is.NextMissing(); missing {
			result.NextMissing = string(f)
		}
		return result
	}

	reply := resp.Content

	// Second pass: the responder may surface fields the strict extractor
	// missed, so its reply is scraped and merged as well.
	is.MergeReply(reply)

	result.Committed = e.committer.TryCommit(ctx, sess)

	result.Reply = reply
	result.Display = StripFragment(reply)
	result.State = sess.State()
	if f, missing := is.NextMissing(); missing {
		result.NextMissing = string(f)
	}

	e.log.Debug().
		Str("session", sess.ID).
		Str("state", string(result.State)).
		Str("nextMissing", result.NextMissing).
		Bool("committed", result.Committed).
		Msg("turn processed")
	return result
}

// ImportFragment scrapes a structured fragment out of arbitrary text,
// resolves its incident date, and saves it directly without going through a
// session. Reports whether a save succeeded.
func (e *Engine) ImportFragment(ctx context.Context, text string) bool {
	delta, ok := ExtractFragment(text)
	if !ok {
		e.log.Debug().Msg("no fragment found in import text")
		return false
	}

	var rec domain.CaseRecord
	rec.Merge(delta)

	sess := &domain.Session{ID: "import", Record: rec}
	if !rec.Complete() {
		// Direct imports save whatever was present; only the date must
		// resolve. Mirror that by committing through the same path with
		// missing fields stored as empty strings.
		return e.commitPartial(ctx, rec)
	}
	return e.committer.TryCommit(ctx, sess)
}

// commitPartial persists a possibly-incomplete imported record. The incident
// date must still resolve; everything else is stored as-is.
func (e *Engine) commitPartial(ctx context.Context, rec domain.CaseRecord) bool {
	when, ok := e.committer.dates.Resolve(rec.DateOfIncidentRaw)
	if !ok {
		e.log.Debug().Str("raw", rec.DateOfIncidentRaw).Msg("import date unresolved")
		return false
	}
	err := e.committer.store.SaveCase(ctx, rec.FullName, rec.Contact,
		when.Format(time.DateOnly), rec.Description)
	if err != nil {
		e.log.Error().Err(err).Msg("import save failed")
		return false
	}
	return true
}

func containsResetKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range resetKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
