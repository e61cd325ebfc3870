package tabular

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"invoicr/internal/domain"
)

// Fragment is a rectangular row/column structure derived from one page:
// one row per line item, with header fields broadcast onto every row.
// Columns carries the column order; a row cell that is absent or nil is an
// explicit null. Fragments are mutated only during the reconcile/clean stage
// of their own pipeline run and are never shared across requests.
type Fragment struct {
	Columns []string
	Rows    []map[string]any
}

// Empty reports whether the fragment contributes no rows.
func (f Fragment) Empty() bool { return len(f.Rows) == 0 }

// broadcastColumns are the header/provenance columns appended to every row,
// in declaration order.
var broadcastColumns = []string{
	"source_file",
	"page_no",
	"invoice_number",
	"address",
	"date",
	"due_date",
	"company_name",
	"currency",
}

// BuildFragment converts one page record into a fragment. A record with no
// line items yields a zero-row fragment, which callers treat as "no
// contribution". Pure and deterministic; no failure path.
func BuildFragment(rec domain.PageRecord) Fragment {
	if len(rec.LineItems) == 0 {
		return Fragment{}
	}

	// Item columns in deterministic order: keys of each row sorted, rows
	// visited in sequence, first sighting wins.
	var columns []string
	seen := map[string]bool{}
	for _, item := range rec.LineItems {
		keys := make([]string, 0, len(item))
		for key := range item {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	header := rec.Header
	broadcast := map[string]any{
		"source_file":    rec.SourceFile,
		"page_no":        rec.PageNumber,
		"invoice_number": strVal(header.InvoiceNumber),
		"address":        strVal(header.VendorAddress),
		"date":           strVal(header.InvoiceDate),
		"due_date":       strVal(header.DueDate),
		"company_name":   strVal(header.VendorName),
		"currency":       strVal(header.Currency),
	}

	rows := make([]map[string]any, 0, len(rec.LineItems))
	for _, item := range rec.LineItems {
		row := make(map[string]any, len(item)+len(broadcastColumns))
		for k, v := range item {
			row[k] = v
		}
		for _, col := range broadcastColumns {
			row[col] = broadcast[col]
		}
		rows = append(rows, row)
	}

	for _, col := range broadcastColumns {
		if !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}

	return Fragment{Columns: columns, Rows: rows}
}

// numericColumns are coerced to float64 during cleaning.
var numericColumns = map[string]bool{
	"quantity":     true,
	"unit_price":   true,
	"total_price":  true,
	"tax_amount":   true,
	"total_amount": true,
	"subtotal":     true,
}

// stringColumns are trimmed during cleaning, with blanks becoming null.
var stringColumns = map[string]bool{
	"description":    true,
	"item_code":      true,
	"invoice_number": true,
	"source_file":    true,
	"address":        true,
	"date":           true,
	"due_date":       true,
	"company_name":   true,
	"currency":       true,
}

// Clean normalizes cell values and drops rows that carry no data: rows where
// every cell is null, and rows where every canonical line-item value
// (description, quantity, unit_price, total_price) is null, provided the
// fragment has at least one of those columns.
func Clean(f Fragment) Fragment {
	hasItemColumn := false
	for _, col := range f.Columns {
		switch col {
		case "description", "quantity", "unit_price", "total_price":
			hasItemColumn = true
		}
	}

	cleaned := Fragment{Columns: f.Columns}
	for _, row := range f.Rows {
		out := make(map[string]any, len(row))
		allNull := true
		for _, col := range f.Columns {
			v := cleanCell(col, row[col])
			out[col] = v
			if v != nil {
				allNull = false
			}
		}
		if allNull {
			continue
		}
		if hasItemColumn {
			li := domain.DecodeLineItem(out)
			if li.Description == nil && li.Quantity == nil && li.UnitPrice == nil && li.TotalPrice == nil {
				continue
			}
		}
		cleaned.Rows = append(cleaned.Rows, out)
	}
	return cleaned
}

func cleanCell(col string, v any) any {
	if v == nil {
		return nil
	}
	if numericColumns[col] {
		if f := domain.NumberField(map[string]any{col: v}, col); f != nil {
			return *f
		}
		return nil
	}
	if stringColumns[col] {
		if s := domain.StringField(map[string]any{col: v}, col); s != nil {
			return *s
		}
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// CellString renders a cell for delimited output. Null cells render empty;
// floats drop trailing zeros so 12.5 stays "12.5".
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
