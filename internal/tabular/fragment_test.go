package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicr/internal/domain"
)

func samplePageRecord() domain.PageRecord {
	return domain.NewPageRecord("invoice.pdf", 2, 3, "pdf",
		map[string]any{
			"invoice_number": "INV-100",
			"vendor_name":    "Acme Corp",
			"vendor_address": "1 Main St",
			"invoice_date":   "2024-01-15",
			"due_date":       "2024-02-15",
			"currency":       "$",
		},
		[]map[string]any{
			{"description": "Widget", "quantity": float64(2), "unit_price": 10.5, "total_price": float64(21)},
			{"description": "Gadget", "quantity": float64(1), "unit_price": 5.0, "total_price": 5.0},
		})
}

func TestBuildFragment_BroadcastsHeaderOntoEveryRow(t *testing.T) {
	f := BuildFragment(samplePageRecord())

	require.Len(t, f.Rows, 2)
	for _, row := range f.Rows {
		assert.Equal(t, "invoice.pdf", row["source_file"])
		assert.Equal(t, 2, row["page_no"])
		assert.Equal(t, "INV-100", row["invoice_number"])
		assert.Equal(t, "1 Main St", row["address"])
		assert.Equal(t, "2024-01-15", row["date"])
		assert.Equal(t, "2024-02-15", row["due_date"])
		assert.Equal(t, "Acme Corp", row["company_name"])
		assert.Equal(t, "$", row["currency"])
	}
	assert.Equal(t, "Widget", f.Rows[0]["description"])
	assert.Equal(t, "Gadget", f.Rows[1]["description"])
}

func TestBuildFragment_ColumnOrderDeterministic(t *testing.T) {
	f := BuildFragment(samplePageRecord())

	assert.Equal(t, []string{
		"description", "quantity", "total_price", "unit_price",
		"source_file", "page_no", "invoice_number", "address",
		"date", "due_date", "company_name", "currency",
	}, f.Columns)
}

func TestBuildFragment_NewColumnFromLaterRow(t *testing.T) {
	rec := domain.NewPageRecord("a.pdf", 1, 1, "pdf", map[string]any{},
		[]map[string]any{
			{"description": "first"},
			{"description": "second", "item_code": "X9"},
		})

	f := BuildFragment(rec)

	assert.Equal(t, "description", f.Columns[0])
	assert.Contains(t, f.Columns, "item_code")
	assert.Nil(t, f.Rows[0]["item_code"])
	assert.Equal(t, "X9", f.Rows[1]["item_code"])
}

func TestBuildFragment_NoLineItemsYieldsEmpty(t *testing.T) {
	rec := domain.NewPageRecord("a.pdf", 1, 1, "pdf",
		map[string]any{"invoice_number": "INV-1"}, nil)

	f := BuildFragment(rec)

	assert.True(t, f.Empty())
	assert.Empty(t, f.Columns)
}

func TestBuildFragment_MissingHeaderFieldsAreNull(t *testing.T) {
	rec := domain.NewPageRecord("a.pdf", 1, 1, "pdf", map[string]any{},
		[]map[string]any{{"description": "only item"}})

	f := BuildFragment(rec)

	require.Len(t, f.Rows, 1)
	assert.Nil(t, f.Rows[0]["invoice_number"])
	assert.Nil(t, f.Rows[0]["currency"])
	assert.Equal(t, "a.pdf", f.Rows[0]["source_file"])
}

func TestClean_CoercesNumericStrings(t *testing.T) {
	f := Fragment{
		Columns: []string{"description", "quantity", "unit_price"},
		Rows: []map[string]any{
			{"description": "Widget", "quantity": "2", "unit_price": " 10.5 "},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, float64(2), out.Rows[0]["quantity"])
	assert.Equal(t, 10.5, out.Rows[0]["unit_price"])
}

func TestClean_BlankStringsBecomeNull(t *testing.T) {
	f := Fragment{
		Columns: []string{"description", "item_code"},
		Rows: []map[string]any{
			{"description": "  Widget  ", "item_code": "   "},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Widget", out.Rows[0]["description"])
	assert.Nil(t, out.Rows[0]["item_code"])
}

func TestClean_DropsAllNullRows(t *testing.T) {
	f := Fragment{
		Columns: []string{"description", "quantity"},
		Rows: []map[string]any{
			{"description": nil, "quantity": nil},
			{"description": "keep", "quantity": float64(1)},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "keep", out.Rows[0]["description"])
}

func TestClean_DropsRowsWithoutItemContent(t *testing.T) {
	// item_code alone does not make a line item
	f := Fragment{
		Columns: []string{"description", "quantity", "item_code", "source_file"},
		Rows: []map[string]any{
			{"description": nil, "quantity": nil, "item_code": "X1", "source_file": "a.pdf"},
			{"description": "real", "quantity": float64(3), "item_code": "X2", "source_file": "a.pdf"},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "real", out.Rows[0]["description"])
}

func TestClean_KeepsRowsWhenNoItemColumnsExist(t *testing.T) {
	f := Fragment{
		Columns: []string{"source_file", "company_name"},
		Rows: []map[string]any{
			{"source_file": "a.pdf", "company_name": "Acme"},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
}

func TestClean_UnparsableNumericBecomesNull(t *testing.T) {
	f := Fragment{
		Columns: []string{"description", "quantity"},
		Rows: []map[string]any{
			{"description": "Widget", "quantity": "two"},
		},
	}

	out := Clean(f)

	require.Len(t, out.Rows, 1)
	assert.Nil(t, out.Rows[0]["quantity"])
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "hello", CellString("hello"))
	assert.Equal(t, "12.5", CellString(12.5))
	assert.Equal(t, "100", CellString(float64(100)))
	assert.Equal(t, "3", CellString(3))
	assert.Equal(t, "true", CellString(true))
}
