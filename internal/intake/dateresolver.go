package intake

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// lastWeekdayPattern matches phrasings like "last monday" at the start of a
// date expression.
var lastWeekdayPattern = regexp.MustCompile(`^last\s+(\w+)`)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateResolver turns a user-phrased date expression into a concrete calendar
// date. "last <weekday>" is handled by an explicit rule because the fuzzy
// parser is inconsistent on that phrasing; everything else falls through to
// a past-preferring fuzzy parse anchored at Now.
type DateResolver struct {
	// Now supplies the reference time. Nil means time.Now.
	Now func() time.Time
}

// Resolve returns the resolved date and ok=true, or ok=false when the
// expression is blank or unparseable. The result is never stored back into a
// session; committers recompute it on every attempt.
func (r DateResolver) Resolve(text string) (time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return time.Time{}, false
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	if m := lastWeekdayPattern.FindStringSubmatch(text); m != nil {
		if target, ok := weekdayNames[m[1]]; ok {
			// Most recent occurrence strictly before today: saying
			// "last monday" on a Monday means a week ago, not today.
			delta := (int(now.Weekday()) - int(target) + 7) % 7
			if delta == 0 {
				delta = 7
			}
			return now.AddDate(0, 0, -delta), true
		}
	}

	cfg := &dateparser.Configuration{
		CurrentTime:         now,
		PreferredDateSource: dateparser.Past,
	}
	dt, err := dateparser.Parse(cfg, text)
	if err != nil || dt.IsZero() {
		return time.Time{}, false
	}
	return dt.Time, true
}
