package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"invoicr/internal/domain"
	"invoicr/internal/llm"
	"invoicr/internal/port"
	"invoicr/internal/tabular"
)

// Reconciler collapses synonymous column names across fragments into the
// canonical vocabulary using the generation service, with the static table
// in rules.go as the caller-invoked fallback.
type Reconciler struct {
	gen        port.Generator
	maxRetries int
}

// New creates a Reconciler. A non-positive retry budget falls back to 3.
func New(gen port.Generator, maxRetries int) *Reconciler {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Reconciler{gen: gen, maxRetries: maxRetries}
}

// Reconcile returns the fragments with column names mapped to the canonical
// vocabulary. Row counts and row content are never changed, only column
// names. With at most one distinct column across all fragments there is
// nothing to reconcile and the input is returned as-is. When the model-
// assisted mapping cannot be obtained the fragments are returned unchanged
// together with ErrReconcileDegraded; the caller is expected to apply
// SimpleReconcile explicitly. Degradation is never fatal to the batch.
func (r *Reconciler) Reconcile(ctx context.Context, fragments []tabular.Fragment) ([]tabular.Fragment, error) {
	observed := distinctColumns(fragments)
	if len(observed) <= 1 {
		return fragments, nil
	}

	mapping, err := r.requestMapping(ctx, observed)
	if err != nil {
		log.Printf("reconcile.Reconciler: falling back to original column names: %v", err)
		return fragments, fmt.Errorf("%w: %v", domain.ErrReconcileDegraded, err)
	}
	log.Printf("reconcile.Reconciler: applying column mapping %v", mapping)

	out := make([]tabular.Fragment, 0, len(fragments))
	for _, f := range fragments {
		renames := map[string]string{}
		for _, col := range f.Columns {
			if target, ok := mapping[col]; ok && target != col {
				renames[col] = target
			}
		}
		out = append(out, applyRenames(f, renames))
	}
	return out, nil
}

func (r *Reconciler) requestMapping(ctx context.Context, observed []string) (map[string]string, error) {
	prompt := buildMappingPrompt(observed)

	var lastErr error
	for i := 0; i < r.maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := r.gen.Generate(ctx, port.GenerateInput{Prompt: prompt})
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastErr = fmt.Errorf("empty response from generation service")
			continue
		}

		cleaned, err := llm.CleanResponse(text)
		if err != nil {
			lastErr = err
			continue
		}

		var mapping map[string]string
		if err := json.Unmarshal([]byte(cleaned), &mapping); err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
			continue
		}
		return mapping, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.maxRetries, lastErr)
}

func buildMappingPrompt(observed []string) string {
	return fmt.Sprintf(`You are an expert data analyst. Create a JSON mapping to standardize these column names from invoice datasets.

Column names: [%s]

CRITICAL: Respond with ONLY a valid JSON object, no other text.

Rules:
- Group similar columns: "Item"/"Product"/"Description" -> "description"
- "Qty"/"Quantity" -> "quantity"
- "Rate"/"Unit Price"/"Price" -> "unit_price"
- "Total"/"Amount"/"Line Total" -> "total_price"
- "Code"/"Item Code"/"SKU" -> "item_code"
- "Address"/"Vendor Address" -> "address"
- "Company"/"Vendor Name" -> "company_name"
- "Invoice Number"/"Invoice No" -> "invoice_number"
- "Date"/"Invoice Date" -> "date"
- "Due Date" -> "due_date"
- "Page"/"Page Number"/"Page No" -> "page_no"
- "Currency" -> "currency"
- Keep different concepts separate
- Use only these standard names: %s

Example format (respond with ONLY JSON like this):
{"Item": "description", "Qty": "quantity", "Rate": "unit_price", "Total": "total_price"}`,
		strings.Join(observed, ", "),
		strings.Join(domain.CanonicalColumns, ", "))
}

// distinctColumns returns the sorted set of column names observed across all
// fragments.
func distinctColumns(fragments []tabular.Fragment) []string {
	set := map[string]bool{}
	for _, f := range fragments {
		for _, col := range f.Columns {
			set[col] = true
		}
	}
	out := make([]string, 0, len(set))
	for col := range set {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}
