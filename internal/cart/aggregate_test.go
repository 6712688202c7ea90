package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotov/fishshop-bot/internal/domain"
)

func TestAggregateCountsAndTotals(t *testing.T) {
	items := []domain.LineItem{
		{ID: 1, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 2, ProductID: 9, Title: "Форель", Price: 250},
		{ID: 3, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 4, ProductID: 7, Title: "Сельдь", Price: 100},
	}

	s := Aggregate(items)

	herring, ok := s.Entry(7)
	require.True(t, ok)
	assert.Equal(t, 3, herring.Count)
	assert.Equal(t, 100.0, herring.UnitPrice)
	assert.Equal(t, 300.0, herring.TotalPrice)
	assert.Equal(t, []int64{1, 3, 4}, herring.LineItemIDs)

	trout, ok := s.Entry(9)
	require.True(t, ok)
	assert.Equal(t, 1, trout.Count)
	assert.Equal(t, 250.0, trout.TotalPrice)

	assert.Equal(t, 550.0, s.Total())
	assert.False(t, s.Empty())
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	items := []domain.LineItem{
		{ID: 1, ProductID: 9, Title: "Форель", Price: 250},
		{ID: 2, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 3, ProductID: 9, Title: "Форель", Price: 250},
	}

	entries := Aggregate(items).Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(9), entries[0].ProductID)
	assert.Equal(t, int64(7), entries[1].ProductID)
}

func TestAggregateFirstOccurrenceWins(t *testing.T) {
	// Simulates backend price drift between two additions of the same
	// product: the first recorded price defines the unit price.
	items := []domain.LineItem{
		{ID: 1, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 2, ProductID: 7, Title: "Сельдь (новая)", Price: 120},
	}

	entry, ok := Aggregate(items).Entry(7)
	require.True(t, ok)
	assert.Equal(t, "Сельдь", entry.Title)
	assert.Equal(t, 100.0, entry.UnitPrice)
	assert.Equal(t, 220.0, entry.TotalPrice)
	assert.Equal(t, 2, entry.Count)
}

func TestAggregateIdempotent(t *testing.T) {
	items := []domain.LineItem{
		{ID: 1, ProductID: 7, Title: "Сельдь", Price: 100},
		{ID: 2, ProductID: 9, Title: "Форель", Price: 250},
		{ID: 3, ProductID: 7, Title: "Сельдь", Price: 100},
	}

	first := Aggregate(items)
	second := Aggregate(items)

	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, first.Total(), second.Total())
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	assert.True(t, s.Empty())
	assert.Empty(t, s.Entries())
	assert.Zero(t, s.Total())
}
