package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPagesIsCeil(t *testing.T) {
	for size := 1; size <= 12; size++ {
		for total := 0; total <= 50; total++ {
			q := NewListQuery(size)
			q.SetTotal(total)
			want := total / size
			if total%size != 0 {
				want++
			}
			assert.Equal(t, want, q.TotalPages(), "size=%d total=%d", size, total)
			assert.ErrorIs(t, q.GoTo(0), ErrPageOutOfRange)
			if want > 0 {
				assert.NoError(t, q.GoTo(want))
				assert.ErrorIs(t, q.GoTo(want+1), ErrPageOutOfRange)
			}
		}
	}
}

func TestTwentyFiveItemsPageSizeTen(t *testing.T) {
	q := NewListQuery(10)
	q.SetTotal(25)

	assert.Equal(t, 3, q.TotalPages())
	assert.ErrorIs(t, q.GoTo(4), ErrPageOutOfRange)
	assert.Equal(t, 1, q.Page())

	require.NoError(t, q.GoTo(3))
	assert.Equal(t, 20, q.Skip())
	assert.Equal(t, 10, q.Limit())
	from, to, total := q.Range()
	assert.Equal(t, []int{21, 25, 25}, []int{from, to, total})
	assert.Equal(t, "Showing 21 to 25 of 25", q.RangeLabel())
	assert.False(t, q.HasNext())
	assert.True(t, q.HasPrev())
	assert.ErrorIs(t, q.Next(), ErrPageOutOfRange)
}

func TestFilterChangeResetsPage(t *testing.T) {
	q := NewListQuery(10, "name", "courseType")
	q.SetTotal(40)
	require.NoError(t, q.GoTo(3))

	require.NoError(t, q.SetFilter("name", "  Bio "))
	assert.Equal(t, 1, q.Page())
	assert.Equal(t, Params{Skip: 0, Limit: 10, Filters: map[string]string{"name": "Bio"}}, q.Params())

	assert.ErrorIs(t, q.SetFilter("colour", "red"), ErrUnknownFilter)
}

func TestFiltersOmitEmptyValues(t *testing.T) {
	q := NewListQuery(10, "name", "code", "type", "courseId")
	require.NoError(t, q.SetFilter("code", "ENG"))
	require.NoError(t, q.SetFilter("name", ""))
	assert.Equal(t, map[string]string{"code": "ENG"}, q.Filters())
	assert.True(t, q.Filtered())

	q.SetTotal(30)
	require.NoError(t, q.GoTo(2))
	q.ClearFilters()
	assert.Empty(t, q.Filters())
	assert.False(t, q.Filtered())
	assert.Equal(t, 1, q.Page())
}

func TestSetTotalPullsPageBackIntoRange(t *testing.T) {
	q := NewListQuery(10)
	q.SetTotal(21)
	require.NoError(t, q.GoTo(3))

	assert.True(t, q.SetTotal(20))
	assert.Equal(t, 2, q.Page())

	assert.True(t, q.SetTotal(0))
	assert.Equal(t, 1, q.Page())
	assert.Equal(t, 0, q.TotalPages())
	assert.False(t, q.SetTotal(-3))
	assert.Equal(t, 0, q.Total())
}

func TestEmptyListStaysOnPageOne(t *testing.T) {
	q := NewListQuery(0)
	assert.Equal(t, 10, q.PageSize())
	assert.NoError(t, q.GoTo(1))
	assert.ErrorIs(t, q.GoTo(2), ErrPageOutOfRange)
	from, to, total := q.Range()
	assert.Equal(t, []int{0, 0, 0}, []int{from, to, total})
	assert.False(t, q.HasNext())
	assert.False(t, q.HasPrev())
}
