package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"invoicr/internal/domain"
	"invoicr/internal/llm"
	"invoicr/internal/port"
)

// Outcome classifies one extraction attempt.
type Outcome int

const (
	// OutcomeSuccess: a well-formed object was decoded.
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty: the service returned an empty body.
	OutcomeEmpty
	// OutcomeMalformed: the body could not be cleaned or decoded as an object.
	OutcomeMalformed
	// OutcomeInvalid: the generation call itself failed.
	OutcomeInvalid
)

type attempt struct {
	outcome   Outcome
	details   map[string]any
	lineItems []map[string]any
	err       error
}

// PageInput identifies the page being extracted and carries its provenance.
type PageInput struct {
	Image      port.PageImage
	SourceFile string
	TotalPages int
	FileType   string
}

// Extractor turns one page image into a PageRecord via the generation
// service, enforcing the output contract with a bounded retry budget.
type Extractor struct {
	gen        port.Generator
	maxRetries int
}

// New creates an Extractor. A non-positive retry budget falls back to 3.
func New(gen port.Generator, maxRetries int) *Extractor {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Extractor{gen: gen, maxRetries: maxRetries}
}

// Extract runs up to maxRetries attempts against the generation service.
// Retry exhaustion on empty bodies degrades to a PageRecord with an empty
// header and no line items; exhaustion on malformed or failed attempts is a
// terminal page error. The asymmetry is deliberate and mirrors the retry
// policy table in decide.
func (e *Extractor) Extract(ctx context.Context, input PageInput) (domain.PageRecord, error) {
	var last attempt
	for i := 0; i < e.maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return domain.PageRecord{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}

		last = e.attemptOnce(ctx, input.Image)
		if last.outcome == OutcomeSuccess {
			rec := domain.NewPageRecord(input.SourceFile, input.Image.Number, input.TotalPages, input.FileType, last.details, last.lineItems)
			log.Printf("extract.Extractor: %s page %d extracted with %d line items (attempt %d)",
				input.SourceFile, input.Image.Number, len(rec.LineItems), i+1)
			return rec, nil
		}
		log.Printf("extract.Extractor: %s page %d attempt %d failed (%s): %v",
			input.SourceFile, input.Image.Number, i+1, last.outcome, last.err)
	}
	return e.decide(input, last)
}

// decide is the retry-exhaustion policy table.
func (e *Extractor) decide(input PageInput, last attempt) (domain.PageRecord, error) {
	switch last.outcome {
	case OutcomeEmpty:
		// Degrade rather than fail the page: an empty reply after every
		// attempt is treated as "nothing found on this page".
		return domain.NewPageRecord(input.SourceFile, input.Image.Number, input.TotalPages, input.FileType, nil, nil), nil
	case OutcomeMalformed:
		return domain.PageRecord{}, fmt.Errorf("%w: unparsable output after %d attempts: %v",
			domain.ErrExtractionFailed, e.maxRetries, last.err)
	default:
		return domain.PageRecord{}, fmt.Errorf("%w: after %d attempts: %v",
			domain.ErrExtractionFailed, e.maxRetries, last.err)
	}
}

func (e *Extractor) attemptOnce(ctx context.Context, page port.PageImage) attempt {
	text, err := e.gen.Generate(ctx, port.GenerateInput{
		Prompt:    ExtractionPrompt,
		Image:     page.JPEG,
		ImageMIME: "image/jpeg",
	})
	if err != nil {
		return attempt{outcome: OutcomeInvalid, err: err}
	}
	if strings.TrimSpace(text) == "" {
		return attempt{outcome: OutcomeEmpty, err: fmt.Errorf("empty response from generation service")}
	}

	cleaned, err := llm.CleanResponse(text)
	if err != nil {
		return attempt{outcome: OutcomeMalformed, err: err}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return attempt{outcome: OutcomeMalformed, err: fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)}
	}

	details, lineItems := normalize(decoded)
	return attempt{outcome: OutcomeSuccess, details: details, lineItems: lineItems}
}

// normalize guarantees the minimum structural contract: invoice_details is
// always an object and line_items is always a sequence of objects, whatever
// the model produced.
func normalize(decoded map[string]any) (map[string]any, []map[string]any) {
	details, _ := decoded["invoice_details"].(map[string]any)
	if details == nil {
		details = map[string]any{}
	}

	lineItems := []map[string]any{}
	if raw, ok := decoded["line_items"].([]any); ok {
		for _, entry := range raw {
			if item, ok := entry.(map[string]any); ok {
				lineItems = append(lineItems, item)
			}
		}
	}
	return details, lineItems
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "invalid"
	}
}
