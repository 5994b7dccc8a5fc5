package intake

import (
	"context"
	"fmt"

	"github.com/sidgajraj/caseline/internal/domain"
	"github.com/sidgajraj/caseline/internal/llm"
	"github.com/sidgajraj/caseline/internal/logging"
)

const extractionPromptTemplate = `Extract ONLY the fields explicitly present in the user's message.
Return a JSON object with some of these keys if present, else omit the key:
{
  "Full Name": "...",           full name if present
  "Contact": "...",             phone or email if present
  "Case Type": "...",           infer from incident if clear (Car Accident, Slip and Fall, Medical Malpractice, Personal Injury, Workers Compensation, Product Liability, Wrongful Death, Other)
  "Date of Incident": "...",    relative or absolute phrasing exactly as the user said it (e.g., "yesterday", "last week", "2025-08-01")
  "Description": "..."          one-line what happened if present
}

User message:
"""%s"""`

// FieldExtractor issues one inference call per turn to pull a partial,
// structured delta out of the current utterance. Extraction runs with
// temperature pinned to zero.
type FieldExtractor struct {
	client llm.Client
	model  string
	log    *logging.Logger
}

// NewFieldExtractor creates a field extractor using the given provider.
func NewFieldExtractor(client llm.Client, model string, log *logging.Logger) *FieldExtractor {
	return &FieldExtractor{
		client: client,
		model:  model,
		log:    log.Sub("intake.extractor"),
	}
}

// Extract returns the fields explicitly present in the utterance. Any
// failure (call error, malformed response, no fragment) degrades to an empty
// delta; nothing is learned this turn and the caller proceeds.
func (e *FieldExtractor) Extract(ctx context.Context, utterance string) domain.Delta {
	resp, err := e.client.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPromptTemplate, utterance)}},
		Temperature: llm.Temp(0),
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("extraction call failed")
		return domain.Delta{}
	}

	delta, ok := ExtractFragment(resp.Content)
	if !ok {
		e.log.Debug().Str("content", resp.Content).Msg("no parseable fragment in extraction response")
		return domain.Delta{}
	}
	return delta
}
