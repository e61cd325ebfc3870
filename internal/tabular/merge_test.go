package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_Empty(t *testing.T) {
	out := Merge(nil)

	assert.True(t, out.Empty())
	assert.Empty(t, out.Columns)
}

func TestMerge_SingleFragmentUnchanged(t *testing.T) {
	f := Fragment{
		Columns: []string{"zebra", "apple"},
		Rows:    []map[string]any{{"zebra": "z", "apple": "a"}},
	}

	out := Merge([]Fragment{f})

	// a lone fragment keeps its original column order
	assert.Equal(t, []string{"zebra", "apple"}, out.Columns)
	assert.Equal(t, f.Rows, out.Rows)
}

func TestMerge_UnionColumnsSortedAndNullFilled(t *testing.T) {
	a := Fragment{
		Columns: []string{"description", "quantity"},
		Rows:    []map[string]any{{"description": "Widget", "quantity": float64(2)}},
	}
	b := Fragment{
		Columns: []string{"description", "unit_price"},
		Rows:    []map[string]any{{"description": "Gadget", "unit_price": 5.0}},
	}

	out := Merge([]Fragment{a, b})

	assert.Equal(t, []string{"description", "quantity", "unit_price"}, out.Columns)
	require.Len(t, out.Rows, 2)

	assert.Equal(t, "Widget", out.Rows[0]["description"])
	assert.Equal(t, float64(2), out.Rows[0]["quantity"])
	assert.Nil(t, out.Rows[0]["unit_price"])

	assert.Equal(t, "Gadget", out.Rows[1]["description"])
	assert.Nil(t, out.Rows[1]["quantity"])
	assert.Equal(t, 5.0, out.Rows[1]["unit_price"])
}

func TestMerge_RowOrderFollowsFragmentOrder(t *testing.T) {
	a := Fragment{
		Columns: []string{"description"},
		Rows:    []map[string]any{{"description": "a1"}, {"description": "a2"}},
	}
	b := Fragment{
		Columns: []string{"description"},
		Rows:    []map[string]any{{"description": "b1"}},
	}

	out := Merge([]Fragment{a, b})

	require.Len(t, out.Rows, 3)
	assert.Equal(t, "a1", out.Rows[0]["description"])
	assert.Equal(t, "a2", out.Rows[1]["description"])
	assert.Equal(t, "b1", out.Rows[2]["description"])
}

func TestMerge_ZeroRowFragmentContributesColumnsOnly(t *testing.T) {
	a := Fragment{
		Columns: []string{"description"},
		Rows:    []map[string]any{{"description": "only"}},
	}
	b := Fragment{Columns: []string{"extra"}}

	out := Merge([]Fragment{a, b})

	assert.Equal(t, []string{"description", "extra"}, out.Columns)
	require.Len(t, out.Rows, 1)
	assert.Nil(t, out.Rows[0]["extra"])
}
