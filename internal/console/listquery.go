package console

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPageOutOfRange is returned when a page outside [1, totalPages] is requested.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrUnknownFilter is returned when a filter field was not declared for the list.
	ErrUnknownFilter = errors.New("unknown filter field")
)

// Params are the query parameters sent with a list fetch.
type Params struct {
	Skip    int
	Limit   int
	Filters map[string]string
}

// Filter returns the value of a filter, or "" when it is not set.
func (p Params) Filter(field string) string {
	return p.Filters[field]
}

// ListQuery holds filter values and the skip/limit page window of a list.
// It is not safe for concurrent use; ListView serialises access to it.
type ListQuery struct {
	pageSize int
	page     int
	total    int
	fields   []string
	filters  map[string]string
}

// NewListQuery declares a list with the given page size and filter fields.
func NewListQuery(pageSize int, fields ...string) *ListQuery {
	if pageSize <= 0 {
		pageSize = 10
	}
	filters := make(map[string]string, len(fields))
	for _, f := range fields {
		filters[f] = ""
	}
	return &ListQuery{pageSize: pageSize, page: 1, fields: fields, filters: filters}
}

func (q *ListQuery) PageSize() int { return q.pageSize }
func (q *ListQuery) Page() int     { return q.page }
func (q *ListQuery) Total() int    { return q.total }

// TotalPages is ceil(total / pageSize); an empty list has zero pages.
func (q *ListQuery) TotalPages() int {
	if q.total <= 0 {
		return 0
	}
	return (q.total + q.pageSize - 1) / q.pageSize
}

func (q *ListQuery) lastPage() int {
	if pages := q.TotalPages(); pages > 1 {
		return pages
	}
	return 1
}

func (q *ListQuery) Skip() int  { return (q.page - 1) * q.pageSize }
func (q *ListQuery) Limit() int { return q.pageSize }

// SetFilter sets one declared filter. Any change moves the list back to page 1.
func (q *ListQuery) SetFilter(field, value string) error {
	if _, ok := q.filters[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, field)
	}
	q.filters[field] = strings.TrimSpace(value)
	q.page = 1
	return nil
}

// Filter returns the current value of a declared filter.
func (q *ListQuery) Filter(field string) string {
	return q.filters[field]
}

// ClearFilters empties every filter and returns to page 1.
func (q *ListQuery) ClearFilters() {
	for f := range q.filters {
		q.filters[f] = ""
	}
	q.page = 1
}

// Filtered reports whether any filter holds a value.
func (q *ListQuery) Filtered() bool {
	for _, v := range q.filters {
		if v != "" {
			return true
		}
	}
	return false
}

// Filters returns only the non-empty filters.
func (q *ListQuery) Filters() map[string]string {
	active := make(map[string]string)
	for _, f := range q.fields {
		if v := q.filters[f]; v != "" {
			active[f] = v
		}
	}
	return active
}

// Params snapshots the parameters for the next fetch.
func (q *ListQuery) Params() Params {
	return Params{Skip: q.Skip(), Limit: q.Limit(), Filters: q.Filters()}
}

// GoTo moves to page. Pages outside [1, totalPages] are rejected, never clamped.
func (q *ListQuery) GoTo(page int) error {
	if page < 1 || page > q.lastPage() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, q.TotalPages())
	}
	q.page = page
	return nil
}

func (q *ListQuery) HasNext() bool { return q.page < q.TotalPages() }
func (q *ListQuery) HasPrev() bool { return q.page > 1 }

func (q *ListQuery) Next() error { return q.GoTo(q.page + 1) }
func (q *ListQuery) Prev() error { return q.GoTo(q.page - 1) }

// SetTotal records the server's total count and pulls the current page back into
// range when the total shrinks. It reports whether the page moved.
func (q *ListQuery) SetTotal(total int) bool {
	if total < 0 {
		total = 0
	}
	q.total = total
	if last := q.lastPage(); q.page > last {
		q.page = last
		return true
	}
	return false
}

// Range returns the 1-based window of rows shown on the current page.
func (q *ListQuery) Range() (from, to, total int) {
	if q.total == 0 {
		return 0, 0, 0
	}
	from = q.Skip() + 1
	to = q.Skip() + q.pageSize
	if to > q.total {
		to = q.total
	}
	return from, to, q.total
}

// RangeLabel renders the list footer, e.g. "Showing 21 to 25 of 25".
func (q *ListQuery) RangeLabel() string {
	from, to, total := q.Range()
	return fmt.Sprintf("Showing %d to %d of %d", from, to, total)
}
