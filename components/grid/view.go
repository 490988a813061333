package grid

import (
	"encoding/json"
	"iter"
	"slices"
)

// View is the visible page derived from an engine's state.
type View struct {
	Table     string
	Total     int
	Page      int
	PageSize  int
	PageCount int
	Sort      SortState
	Search    string

	rows []Row
}

// NewView builds a view from an explicit page of rows.
func NewView(table string, state ViewState, total int, rows []Row) View {
	return View{
		Table:     table,
		Total:     total,
		Page:      state.Page.Current,
		PageSize:  state.Page.Size,
		PageCount: pageCount(total, state.Page.Size),
		Sort:      state.Sort,
		Search:    state.Search,
		rows:      rows,
	}
}

// Rows yields the page's rows. The sequence can be ranged over repeatedly.
func (v View) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, row := range v.rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Len returns the number of rows on the page.
func (v View) Len() int { return len(v.rows) }

// Slice returns a copy of the page's rows.
func (v View) Slice() []Row { return slices.Clone(v.rows) }

type viewJSON struct {
	Table     string    `json:"table,omitempty"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	PageSize  int       `json:"page_size"`
	PageCount int       `json:"page_count"`
	Sort      SortState `json:"sort"`
	Search    string    `json:"search"`
	Rows      []Row     `json:"rows"`
}

func (v View) MarshalJSON() ([]byte, error) {
	rows := v.rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(viewJSON{
		Table:     v.Table,
		Total:     v.Total,
		Page:      v.Page,
		PageSize:  v.PageSize,
		PageCount: v.PageCount,
		Sort:      v.Sort,
		Search:    v.Search,
		Rows:      rows,
	})
}

func (v *View) UnmarshalJSON(data []byte) error {
	var raw viewJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = View{
		Table:     raw.Table,
		Total:     raw.Total,
		Page:      raw.Page,
		PageSize:  raw.PageSize,
		PageCount: raw.PageCount,
		Sort:      raw.Sort,
		Search:    raw.Search,
		rows:      raw.Rows,
	}
	return nil
}
