package reconcile

import (
	"strings"

	"invoicr/internal/tabular"
)

// simpleMapping is the deterministic synonym table used when model-assisted
// reconciliation is unavailable. Keys are lowercase and whitespace-trimmed;
// canonical names map to themselves so applying the table is idempotent.
var simpleMapping = map[string]string{
	"item":             "description",
	"product":          "description",
	"product_name":     "description",
	"description":      "description",
	"item_description": "description",
	"qty":              "quantity",
	"quantity":         "quantity",
	"units":            "quantity",
	"rate":             "unit_price",
	"unit_price":       "unit_price",
	"price":            "unit_price",
	"unit_cost":        "unit_price",
	"cost":             "unit_price",
	"total":            "total_price",
	"total_price":      "total_price",
	"line_total":       "total_price",
	"amount":           "total_price",
	"value":            "total_price",
	"code":             "item_code",
	"item_code":        "item_code",
	"product_code":     "item_code",
	"sku":              "item_code",
	"address":          "address",
	"vendor_address":   "address",
	"company":          "company_name",
	"vendor_name":      "company_name",
	"company_name":     "company_name",
	"invoice_number":   "invoice_number",
	"invoice_no":       "invoice_number",
	"date":             "date",
	"invoice_date":     "date",
	"date_and_time":    "date",
	"due_date":         "due_date",
	"page":             "page_no",
	"page_number":      "page_no",
	"page_no":          "page_no",
	"source_file":      "source_file",
	"currency":         "currency",
}

// SimpleReconcile applies the static synonym table to each fragment
// independently. Lookup is case-insensitive and whitespace-trimmed; columns
// not present in the table are left unmodified. This path never fails and
// never calls the generation service.
func SimpleReconcile(fragments []tabular.Fragment) []tabular.Fragment {
	out := make([]tabular.Fragment, 0, len(fragments))
	for _, f := range fragments {
		renames := map[string]string{}
		for _, col := range f.Columns {
			if target, ok := simpleMapping[strings.ToLower(strings.TrimSpace(col))]; ok && target != col {
				renames[col] = target
			}
		}
		out = append(out, applyRenames(f, renames))
	}
	return out
}

// applyRenames renames fragment columns under the collision policy: walking
// columns in declaration order, a rename applies only when the target name
// is not already taken by an earlier rename and does not equal any other
// column's original name. A colliding source column keeps its original name,
// so renames never silently merge two columns.
func applyRenames(f tabular.Fragment, renames map[string]string) tabular.Fragment {
	if len(renames) == 0 {
		return f
	}

	originals := map[string]bool{}
	for _, col := range f.Columns {
		originals[col] = true
	}

	finals := make([]string, len(f.Columns))
	assigned := map[string]bool{}
	for i, col := range f.Columns {
		final := col
		if target, ok := renames[col]; ok {
			otherOriginal := originals[target] && target != col
			if !assigned[target] && !otherOriginal {
				final = target
			}
		}
		finals[i] = final
		assigned[final] = true
	}

	rows := make([]map[string]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		out := make(map[string]any, len(row))
		for i, col := range f.Columns {
			if v, ok := row[col]; ok {
				out[finals[i]] = v
			}
		}
		rows = append(rows, out)
	}
	return tabular.Fragment{Columns: finals, Rows: rows}
}
