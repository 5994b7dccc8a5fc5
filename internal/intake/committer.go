package intake

import (
	"context"
	"time"

	"github.com/sidgajraj/caseline/internal/domain"
	"github.com/sidgajraj/caseline/internal/logging"
)

// CaseStore is the durable persistence collaborator. The incident date is an
// unambiguous YYYY-MM-DD calendar date; the other fields are stored verbatim.
type CaseStore interface {
	SaveCase(ctx context.Context, name, contact, incidentDate, description string) error
}

// CaseCommitter persists a completed record at most once per session. The
// incident date is resolved from the raw phrasing on every attempt, never
// cached: if resolution fails the session stays Complete and a later turn
// may replace the phrasing with something resolvable.
type CaseCommitter struct {
	store CaseStore
	dates DateResolver
	log   *logging.Logger
}

// NewCaseCommitter creates a committer over the given store.
func NewCaseCommitter(store CaseStore, dates DateResolver, log *logging.Logger) *CaseCommitter {
	return &CaseCommitter{
		store: store,
		dates: dates,
		log:   log.Sub("intake.committer"),
	}
}

// TryCommit persists the session's record if it is complete and not yet
// committed. Returns true only when a save succeeded this call. Store
// failures are logged and reported as false; they never abort the
// conversation.
func (c *CaseCommitter) TryCommit(ctx context.Context, sess *domain.Session) bool {
	if sess.Committed {
		return false
	}
	if !sess.Record.Complete() {
		return false
	}

	when, ok := c.dates.Resolve(sess.Record.DateOfIncidentRaw)
	if !ok {
		c.log.Debug().
			Str("session", sess.ID).
			Str("raw", sess.Record.DateOfIncidentRaw).
			Msg("incident date unresolved, commit deferred")
		return false
	}

	err := c.store.SaveCase(ctx,
		sess.Record.FullName,
		sess.Record.Contact,
		when.Format(time.DateOnly),
		sess.Record.Description,
	)
	if err != nil {
		c.log.Error().Err(err).Str("session", sess.ID).Msg("case save failed")
		return false
	}

	sess.Committed = true
	sess.UpdatedAt = time.Now()
	c.log.Info().
		Str("session", sess.ID).
		Str("incidentDate", when.Format(time.DateOnly)).
		Msg("case committed")
	return true
}
