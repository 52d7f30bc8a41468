package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	fetch := func(ctx context.Context, params Params) (Page[string], error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return Page[string]{Items: []string{"old"}, Total: 1}, nil
		}
		return Page[string]{Items: []string{"new"}, Total: 1}, nil
	}
	view := NewListView[string]("names", NewListQuery(10), fetch, &Recorder{}, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- view.Reload(context.Background()) }()
	<-started

	require.NoError(t, view.Reload(context.Background()))
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStaleResponse)
	assert.Equal(t, []string{"new"}, view.Items())
	assert.Equal(t, StatusIdle, view.Status())
}

func TestFailedReloadKeepsItems(t *testing.T) {
	fail := false
	fetch := func(ctx context.Context, params Params) (Page[int], error) {
		if fail {
			return Page[int]{}, errors.New("connection refused")
		}
		return Page[int]{Items: []int{1, 2, 3}}, nil
	}
	rec := &Recorder{}
	view := NewListView[int]("courses", NewListQuery(10), fetch, rec, nil)
	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, 3, view.PageInfo().Total)

	fail = true
	require.Error(t, view.Reload(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, view.Items())
	assert.Equal(t, StatusError, view.Status())
	assert.EqualError(t, view.Err(), "connection refused")

	note, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, LevelError, note.Level)
	assert.Equal(t, "Failed to load courses. Please try again.", note.Message)

	fail = false
	require.NoError(t, view.Reload(context.Background()))
	assert.NoError(t, view.Err())
}

func TestEmptyStates(t *testing.T) {
	var items []string
	fetch := func(ctx context.Context, params Params) (Page[string], error) {
		if params.Filter("name") != "" {
			return Page[string]{}, nil
		}
		return Page[string]{Items: items, Total: len(items)}, nil
	}
	view := NewListView[string]("courses", NewListQuery(10, "name"), fetch, &Recorder{}, nil)
	assert.Equal(t, NotEmpty, view.EmptyState())

	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, EmptyNoData, view.EmptyState())

	items = []string{"Biology"}
	require.NoError(t, view.SetFilter("name", "Bio"))
	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, EmptyNoMatch, view.EmptyState())

	view.ClearFilters()
	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, NotEmpty, view.EmptyState())
}

func TestShrinkingTotalRefetchesLastPage(t *testing.T) {
	total := 21
	var skips []int
	fetch := func(ctx context.Context, params Params) (Page[int], error) {
		skips = append(skips, params.Skip)
		var items []int
		for i := params.Skip; i < total && i < params.Skip+params.Limit; i++ {
			items = append(items, i+1)
		}
		return Page[int]{Items: items, Total: total}, nil
	}
	view := NewListView[int]("rows", NewListQuery(10), fetch, &Recorder{}, nil)
	require.NoError(t, view.Reload(context.Background()))
	require.NoError(t, view.GoTo(3))
	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, []int{21}, view.Items())

	total = 20
	require.NoError(t, view.Reload(context.Background()))
	assert.Equal(t, []int{0, 20, 20, 10}, skips)
	assert.Equal(t, 2, view.PageInfo().Page)
	assert.Len(t, view.Items(), 10)
}
