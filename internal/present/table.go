package present

import (
	"invoicr/internal/tabular"
)

// publicOrder is the fixed public column sequence for the flat output.
// Unexpected extra columns are appended after these in their existing order,
// never dropped.
var publicOrder = []string{
	"source_file",
	"address",
	"description",
	"company_name",
	"invoice_number",
	"date",
	"due_date",
	"item_code",
	"quantity",
	"unit_price",
	"total_price",
	"page_no",
}

// columnLabels maps canonical names to their human-readable titles.
var columnLabels = map[string]string{
	"source_file":    "Source File",
	"address":        "Address",
	"description":    "Description",
	"company_name":   "Company Name",
	"invoice_number": "Invoice Number",
	"date":           "Date",
	"due_date":       "Due Date",
	"item_code":      "Item Code",
	"quantity":       "Quantity",
	"unit_price":     "Unit Price",
	"total_price":    "Total Price",
	"page_no":        "Page No",
}

// OutputTable is the flat, caller-facing table shape: title-cased column
// labels and string-rendered cells (null cells render empty).
type OutputTable struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has no rows.
func (t OutputTable) Empty() bool { return len(t.Rows) == 0 }

// BuildOutputTable turns a merged fragment into the flat output shape:
// prices are formatted with the row's currency token, the internal currency
// column is dropped, and columns are reordered and relabeled.
func BuildOutputTable(merged tabular.Fragment) OutputTable {
	hasColumn := map[string]bool{}
	for _, col := range merged.Columns {
		hasColumn[col] = true
	}

	// Currency-aware price formatting happens before the currency column is
	// removed from the schema.
	formatted := make([]map[string]any, len(merged.Rows))
	for i, row := range merged.Rows {
		out := make(map[string]any, len(row))
		for k, v := range row {
			out[k] = v
		}
		if hasColumn["currency"] {
			if hasColumn["unit_price"] {
				out["unit_price"] = FormatPriceWithCurrency(row["unit_price"], row["currency"])
			}
			if hasColumn["total_price"] {
				out["total_price"] = FormatPriceWithCurrency(row["total_price"], row["currency"])
			}
		}
		formatted[i] = out
	}

	var ordered []string
	for _, col := range publicOrder {
		if hasColumn[col] {
			ordered = append(ordered, col)
		}
	}
	inPublic := map[string]bool{}
	for _, col := range publicOrder {
		inPublic[col] = true
	}
	for _, col := range merged.Columns {
		if !inPublic[col] && col != "currency" {
			ordered = append(ordered, col)
		}
	}

	table := OutputTable{Columns: make([]string, len(ordered))}
	for i, col := range ordered {
		if label, ok := columnLabels[col]; ok {
			table.Columns[i] = label
		} else {
			table.Columns[i] = col
		}
	}
	for _, row := range formatted {
		cells := make([]string, len(ordered))
		for i, col := range ordered {
			cells[i] = tabular.CellString(row[col])
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}
