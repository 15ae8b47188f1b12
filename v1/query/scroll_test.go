package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpvec/erpvec/v1/filter"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

func TestScroll_WalksEveryRecordOnce(t *testing.T) {
	engine := testEngine(&fakeStore{points: moveLines()}, 2)

	seen := make(map[string]int)
	cursor := ""
	for {
		page, err := engine.Scroll(context.Background(), ScrollRequest{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, pt := range page.Records {
			seen[pt.ID]++
		}
		if !page.HasMore {
			break
		}
		cursor = page.Cursor
	}

	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s returned more than once", id)
	}
}

func TestScroll_SameCursorSamePage(t *testing.T) {
	engine := testEngine(&fakeStore{points: moveLines()}, 2)

	first, err := engine.Scroll(context.Background(), ScrollRequest{Limit: 2})
	require.NoError(t, err)
	again, err := engine.Scroll(context.Background(), ScrollRequest{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, first, again)
}

func TestScroll_ResidualMayShrinkPage(t *testing.T) {
	engine := testEngine(&fakeStore{points: moveLines()}, 2)

	page, err := engine.Scroll(context.Background(), ScrollRequest{
		Limit: 2,
		Residual: []filter.Predicate{
			filter.NewPredicate(filter.Condition{Field: "balance", Op: schema.OpGt, Value: 150}),
		},
	})
	require.NoError(t, err)

	assert.Len(t, page.Records, 1, "one of two store records survives the residual")
	assert.True(t, page.HasMore, "store still has pages even though this one shrank")
}

func TestScrollAll_CollectsAllPages(t *testing.T) {
	engine := testEngine(&fakeStore{points: moveLines()}, 2)

	var collected []vectordb.Point
	err := engine.ScrollAll(context.Background(), ScrollRequest{Limit: 2}, func(points []vectordb.Point) error {
		collected = append(collected, points...)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 5)
}

func TestScrollAll_StopsOnCallbackError(t *testing.T) {
	store := &fakeStore{points: moveLines()}
	engine := testEngine(store, 2)

	calls := 0
	err := engine.ScrollAll(context.Background(), ScrollRequest{Limit: 2}, func([]vectordb.Point) error {
		calls++
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
