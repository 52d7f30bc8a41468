package console

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStaleResponse is returned by Reload when a newer fetch was issued before this one completed.
// The response is discarded and list state is left to the newer fetch.
var ErrStaleResponse = errors.New("stale list response discarded")

// Status is the lifecycle state of a list view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// EmptyState tells an empty catalogue apart from a filter with no matches.
type EmptyState int

const (
	NotEmpty EmptyState = iota
	EmptyNoData
	EmptyNoMatch
)

// Page is a normalised list response.
type Page[T any] struct {
	Items []T
	Total int
}

// FetchFunc retrieves one page of a list.
type FetchFunc[T any] func(ctx context.Context, params Params) (Page[T], error)

// PageInfo is a snapshot of the pagination controls.
type PageInfo struct {
	Page       int
	PageSize   int
	TotalPages int
	Total      int
	From       int
	To         int
	HasPrev    bool
	HasNext    bool
	Label      string
}

// ListView owns the local copy of a remote list. Only the response to the most
// recently issued fetch may replace the items.
type ListView[T any] struct {
	mu       sync.Mutex
	noun     string
	query    *ListQuery
	fetch    FetchFunc[T]
	notifier Notifier
	logger   *zap.Logger

	seq     uint64
	items   []T
	status  Status
	lastErr error
	loaded  bool
}

// NewListView creates a view; noun is the plural used in notifications ("courses").
func NewListView[T any](noun string, query *ListQuery, fetch FetchFunc[T], notifier Notifier, logger *zap.Logger) *ListView[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	if query == nil {
		query = NewListQuery(10)
	}
	return &ListView[T]{noun: noun, query: query, fetch: fetch, notifier: notifier, logger: logger, status: StatusIdle}
}

// Reload fetches the current page. On failure the previous items stay in place and
// a notification is raised.
func (v *ListView[T]) Reload(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	params := v.query.Params()
	v.status = StatusLoading
	v.mu.Unlock()

	page, err := v.fetch(ctx, params)

	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		v.logger.Debug("discarding stale list response", zap.String("list", v.noun), zap.Uint64("seq", seq))
		return ErrStaleResponse
	}
	if err != nil {
		v.status = StatusError
		v.lastErr = err
		v.mu.Unlock()
		v.notifier.Notify(failure(err, "Failed to load %s. Please try again.", v.noun))
		return err
	}

	total := page.Total
	if total <= 0 {
		total = len(page.Items)
	}
	moved := v.query.SetTotal(total)
	v.items = page.Items
	v.status = StatusIdle
	v.lastErr = nil
	v.loaded = true
	v.mu.Unlock()

	if moved {
		return v.Reload(ctx)
	}
	return nil
}

// Items returns a copy of the loaded items.
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Find returns the first loaded item matching pred.
func (v *ListView[T]) Find(pred func(T) bool) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (v *ListView[T]) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Err returns the error of the last failed fetch, cleared by the next success.
func (v *ListView[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// EmptyState reports why the loaded list is empty, if it is.
func (v *ListView[T]) EmptyState() EmptyState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded || len(v.items) > 0 {
		return NotEmpty
	}
	if v.query.Filtered() {
		return EmptyNoMatch
	}
	return EmptyNoData
}

// SetFilter changes one filter and moves back to page 1 without fetching.
func (v *ListView[T]) SetFilter(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.SetFilter(field, value)
}

func (v *ListView[T]) Filter(field string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.Filter(field)
}

// Filters returns the active filters.
func (v *ListView[T]) Filters() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.Filters()
}

// ClearFilters resets all filters and the page without fetching.
func (v *ListView[T]) ClearFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.ClearFilters()
}

// GoTo selects a page without fetching.
func (v *ListView[T]) GoTo(page int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.GoTo(page)
}

// Params returns the parameters the next fetch will use.
func (v *ListView[T]) Params() Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.Params()
}

// PageInfo snapshots the pagination state.
func (v *ListView[T]) PageInfo() PageInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	q := v.query
	from, to, total := q.Range()
	return PageInfo{
		Page:       q.Page(),
		PageSize:   q.PageSize(),
		TotalPages: q.TotalPages(),
		Total:      total,
		From:       from,
		To:         to,
		HasPrev:    q.HasPrev(),
		HasNext:    q.HasNext(),
		Label:      q.RangeLabel(),
	}
}
