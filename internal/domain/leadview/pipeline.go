package leadview

import (
	"slices"
	"strings"
	"time"

	"leadintake/internal/domain/lead"
)

// Filter keeps leads whose state matches status and whose first or last
// name contains search, ignoring case. The input is not modified.
func Filter(leads []lead.Lead, search string, status StatusFilter) []lead.Lead {
	needle := strings.ToLower(search)

	out := make([]lead.Lead, 0, len(leads))
	for i := range leads {
		l := &leads[i]
		if !status.matches(l) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.FirstName), needle) &&
			!strings.Contains(strings.ToLower(l.LastName), needle) {
			continue
		}
		out = append(out, *l)
	}
	return out
}

// Sort returns a sorted copy. With SortNone the copy keeps the input order.
// Ties and absent values keep their relative order; descending negates the
// comparison rather than reversing the result.
func Sort(leads []lead.Lead, key SortKey, dir Direction) []lead.Lead {
	out := make([]lead.Lead, len(leads))
	copy(out, leads)

	compare := comparator(key)
	if compare == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b lead.Lead) int {
		c := compare(&a, &b)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(key SortKey) func(a, b *lead.Lead) int {
	switch key {
	case SortFirstName:
		return func(a, b *lead.Lead) int { return compareStrings(a.FirstName, b.FirstName) }
	case SortCitizenship:
		return func(a, b *lead.Lead) int { return compareStrings(a.Citizenship, b.Citizenship) }
	case SortState:
		return func(a, b *lead.Lead) int { return compareStrings(string(a.State), string(b.State)) }
	case SortSubmittedAt:
		return func(a, b *lead.Lead) int { return compareTimes(a.SubmittedAt, b.SubmittedAt) }
	}
	return nil
}

// An empty value is equal to anything.
func compareStrings(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return strings.Compare(a, b)
}

func compareTimes(a, b time.Time) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return a.Compare(b)
}

// Paginate returns the rows of a 1-based page and the number of pages.
// Pages outside [1, totalPages] are empty.
func Paginate(leads []lead.Lead, page, size int) ([]lead.Lead, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(leads)
	totalPages := (n + size - 1) / size

	if page < 1 || page > totalPages {
		return []lead.Lead{}, totalPages
	}
	start := (page - 1) * size
	end := min(start+size, n)

	return slices.Clone(leads[start:end]), totalPages
}

// PageWindow lists the page numbers to render: all of them up to
// WindowSize pages, otherwise WindowSize pages around current, pinned to
// either end near the boundaries.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return []int{}
	}

	half := WindowSize / 2
	var first, last int
	switch {
	case total <= WindowSize:
		first, last = 1, total
	case current <= half+1:
		first, last = 1, WindowSize
	case current > total-(half+1):
		first, last = total-WindowSize+1, total
	default:
		first, last = current-half, current+half
	}

	window := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		window = append(window, p)
	}
	return window
}

// ReplaceLead returns a copy of snapshot with the lead of the same id
// swapped for updated. It reports false, and returns snapshot as is, when
// no such lead exists.
func ReplaceLead(snapshot []lead.Lead, updated lead.Lead) ([]lead.Lead, bool) {
	i := slices.IndexFunc(snapshot, func(l lead.Lead) bool { return l.ID == updated.ID })
	if i < 0 {
		return snapshot, false
	}

	out := slices.Clone(snapshot)
	out[i] = updated.Clone()
	return out, true
}
