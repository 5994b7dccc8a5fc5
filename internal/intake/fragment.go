// Package intake implements the session-state accumulation and
// field-completion protocol: partial extraction of case fields from
// free-form utterances, monotonic merging into a per-session record,
// next-missing-field reasoning, and at-most-once persistence of completed
// records.
package intake

import (
	"encoding/json"
	"strings"

	"github.com/sidgajraj/caseline/internal/domain"
)

// fragmentOnlyReply replaces a responder reply that was nothing but a JSON
// block once the block is stripped for display.
const fragmentOnlyReply = "I've recorded your case information. How else can I help you?"

// ExtractFragment locates a structured fragment embedded in text by taking
// the span from the first '{' to the last '}' and parsing it as a JSON
// object. Only the five recognized field names with string values survive;
// unknown keys are discarded. Returns ok=false when no span exists or the
// span is not valid JSON.
//
// The span heuristic fails on nested braces in surrounding prose. That is a
// known limitation of the contract, kept rather than fixed: all three call
// sites (extractor responses, responder replies, direct imports) depend on
// this exact behavior.
func ExtractFragment(text string) (domain.Delta, bool) {
	j0 := strings.Index(text, "{")
	j1 := strings.LastIndex(text, "}")
	if j0 == -1 || j1 < j0 {
		return nil, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[j0:j1+1]), &raw); err != nil {
		return nil, false
	}

	delta := make(domain.Delta)
	for k, v := range raw {
		f, ok := domain.KnownField(k)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			delta[f] = s
		}
	}
	return delta, true
}

// StripFragment removes an embedded brace span from a reply for display,
// joining the prose before and after it. A reply that was only a fragment
// collapses to a fixed acknowledgement line.
func StripFragment(reply string) string {
	j0 := strings.Index(reply, "{")
	j1 := strings.LastIndex(reply, "}")
	if j0 == -1 || j1 < j0 {
		return strings.TrimSpace(reply)
	}

	before := strings.TrimSpace(reply[:j0])
	after := strings.TrimSpace(reply[j1+1:])
	switch {
	case before != "" && after != "":
		return before + " " + after
	case before != "":
		return before
	case after != "":
		return after
	default:
		return fragmentOnlyReply
	}
}
