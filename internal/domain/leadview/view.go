package leadview

import "leadintake/internal/domain/lead"

// Column describes a table header. Next holds the params clicking it yields.
type Column struct {
	Key       SortKey   `json:"key"`
	Label     string    `json:"label"`
	Active    bool      `json:"active"`
	Direction Direction `json:"dir,omitempty"`
	Next      Params    `json:"next"`
}

var columns = []struct {
	key   SortKey
	label string
}{
	{SortFirstName, "Name"},
	{SortSubmittedAt, "Submitted"},
	{SortState, "Status"},
	{SortCitizenship, "Country"},
}

// Page is one rendering of the admin lead table.
type Page struct {
	Rows       []lead.Lead `json:"rows"`
	TotalCount int         `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	Window     []int       `json:"window"`
	HasPrev    bool        `json:"hasPrev"`
	HasNext    bool        `json:"hasNext"`
	Columns    []Column    `json:"columns"`
	Params     Params      `json:"params"`

	// Seq echoes the request sequence number; EventSeq is the last lead
	// event published before the list was read.
	Seq      int64 `json:"seq"`
	EventSeq int64 `json:"eventSeq"`
}

// Build runs filter, sort, paginate and window generation over a snapshot.
// A requested page outside the result yields no rows; the window and the
// prev/next flags use the page clamped to [1, TotalPages].
func Build(leads []lead.Lead, p Params) Page {
	p = p.withDefaults()

	filtered := Filter(leads, p.Search, p.Status)
	sorted := Sort(filtered, p.SortKey, p.Direction)
	rows, totalPages := Paginate(sorted, p.Page, p.PageSize)

	current := min(max(p.Page, 1), max(totalPages, 1))

	return Page{
		Rows:       rows,
		TotalCount: len(filtered),
		TotalPages: totalPages,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Window:     PageWindow(current, totalPages),
		HasPrev:    totalPages > 0 && current > 1,
		HasNext:    current < totalPages,
		Columns:    buildColumns(p),
		Params:     p,
	}
}

func buildColumns(p Params) []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		col := Column{Key: c.key, Label: c.label, Next: p.ToggleSort(c.key)}
		if p.SortKey == c.key {
			col.Active = true
			col.Direction = p.Direction
		}
		out = append(out, col)
	}
	return out
}
