package leadview

import (
	"errors"
	"strings"

	"leadintake/internal/domain/lead"
)

const (
	DefaultPageSize = 8
	// WindowSize is the number of page buttons shown at most.
	WindowSize = 11
)

var (
	ErrInvalidStatus    = errors.New("invalid status filter")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// StatusFilter selects leads by state. StatusAll matches every lead.
type StatusFilter string

const (
	StatusAll        StatusFilter = "All"
	StatusPending    StatusFilter = StatusFilter(lead.StatePending)
	StatusReachedOut StatusFilter = StatusFilter(lead.StateReachedOut)
)

// ParseStatus accepts "All" (or empty) and every spelling lead.ParseState knows.
func ParseStatus(v string) (StatusFilter, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, string(StatusAll)) {
		return StatusAll, nil
	}
	state, err := lead.ParseState(v)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return StatusFilter(state), nil
}

func (s StatusFilter) matches(l *lead.Lead) bool {
	return s == StatusAll || s == "" || StatusFilter(l.State) == s
}

// SortKey names the column the table is ordered by. SortNone keeps store order.
type SortKey string

const (
	SortNone        SortKey = ""
	SortFirstName   SortKey = "firstName"
	SortSubmittedAt SortKey = "submittedAt"
	SortState       SortKey = "state"
	SortCitizenship SortKey = "citizenship"
)

func ParseSortKey(v string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(v)); k {
	case SortNone, SortFirstName, SortSubmittedAt, SortState, SortCitizenship:
		return k, nil
	}
	return "", ErrInvalidSortKey
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(v string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", ErrInvalidDirection
}

// Params is the state of the admin table controls.
type Params struct {
	Search    string       `json:"search"`
	Status    StatusFilter `json:"status"`
	SortKey   SortKey      `json:"sort"`
	Direction Direction    `json:"dir"`
	Page      int          `json:"page"`
	PageSize  int          `json:"pageSize"`
}

// DefaultParams shows the first page of all leads in store order.
func DefaultParams() Params {
	return Params{
		Status:    StatusAll,
		Direction: Ascending,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// ToggleSort returns the params a click on the key's column header produces:
// the active column flips direction, any other column starts ascending.
func (p Params) ToggleSort(key SortKey) Params {
	if p.SortKey == key && key != SortNone {
		if p.Direction == Descending {
			p.Direction = Ascending
		} else {
			p.Direction = Descending
		}
		return p
	}
	p.SortKey = key
	p.Direction = Ascending
	return p
}

func (p Params) withDefaults() Params {
	if p.Status == "" {
		p.Status = StatusAll
	}
	if p.Direction == "" {
		p.Direction = Ascending
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}
