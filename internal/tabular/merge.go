package tabular

import (
	"log"
	"sort"
)

// Merge union-aligns fragments to a common column set and concatenates their
// rows. Zero fragments yield an explicitly empty fragment; a single fragment
// is returned unchanged. Otherwise every fragment gains any missing column
// as all-null cells and columns are reordered lexicographically, so the
// concatenation aligns regardless of original column order. Row order
// follows fragment order, which follows (file, page) submission order.
func Merge(fragments []Fragment) Fragment {
	if len(fragments) == 0 {
		return Fragment{}
	}
	if len(fragments) == 1 {
		return fragments[0]
	}

	union := map[string]bool{}
	for _, f := range fragments {
		for _, col := range f.Columns {
			union[col] = true
		}
	}
	columns := make([]string, 0, len(union))
	for col := range union {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	merged := Fragment{Columns: columns}
	for _, f := range fragments {
		for _, row := range f.Rows {
			aligned := make(map[string]any, len(columns))
			for _, col := range columns {
				if v, ok := row[col]; ok {
					aligned[col] = v
				} else {
					aligned[col] = nil
				}
			}
			merged.Rows = append(merged.Rows, aligned)
		}
	}

	log.Printf("tabular.Merge: merged %d fragments into %d rows, %d columns",
		len(fragments), len(merged.Rows), len(merged.Columns))
	return merged
}
