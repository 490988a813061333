package grid

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

// record is the engine's internal row. Pointers give rows identity across
// re-sorting and re-filtering.
type record struct {
	id     string
	values map[string]any
}

func (r *record) row() Row {
	values := make(map[string]any, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Row{ID: r.id, Values: values}
}

// filterRecords returns a fresh slice of the records matching search.
func filterRecords(recs []*record, search string, fields []string) []*record {
	if search == "" {
		return slices.Clone(recs)
	}
	needle := strings.ToLower(search)
	out := make([]*record, 0, len(recs))
	for _, rec := range recs {
		if matches(rec, needle, fields) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec *record, needle string, fields []string) bool {
	for _, name := range fields {
		v, ok := rec.values[name]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(FormatValue(v)), needle) {
			return true
		}
	}
	return false
}

// sortRecords stable-sorts recs in place by the active sort state.
func sortRecords(recs []*record, state SortState, schema Schema, coll *collate.Collator) {
	if state.Key == "" || state.Direction == SortNone {
		return
	}
	field, ok := schema.Field(state.Key)
	if !ok {
		return
	}
	compare := fieldComparator(field, coll)
	if state.Direction == SortDescending {
		slices.SortStableFunc(recs, func(a, b *record) int { return -compare(a, b) })
		return
	}
	slices.SortStableFunc(recs, compare)
}

// fieldComparator dispatches on the declared field type, not the runtime value.
func fieldComparator(field Field, coll *collate.Collator) func(a, b *record) int {
	name := field.Name
	switch field.Type {
	case FieldNumber:
		return func(a, b *record) int {
			return cmp.Compare(numberOf(a.values[name]), numberOf(b.values[name]))
		}
	default:
		return func(a, b *record) int {
			return coll.CompareString(stringOf(a.values[name]), stringOf(b.values[name]))
		}
	}
}

func numberOf(v any) float64 {
	if n, ok := v.(float64); ok {
		return n
	}
	return 0
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return FormatValue(v)
}

func pageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func clampPage(page, total, size int) int {
	last := pageCount(total, size)
	if page > last {
		return last
	}
	if page < 1 {
		return 1
	}
	return page
}

func pageWindow(total, page, size int) (int, int) {
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
