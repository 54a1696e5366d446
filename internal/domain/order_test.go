package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"Identical intervals", date(1), date(5), date(1), date(5), true},
		{"A contains B", date(1), date(10), date(3), date(5), true},
		{"B contains A", date(3), date(5), date(1), date(10), true},
		{"Partial overlap left", date(1), date(5), date(3), date(8), true},
		{"Partial overlap right", date(3), date(8), date(1), date(5), true},
		{"Disjoint before", date(1), date(3), date(5), date(8), false},
		{"Disjoint after", date(5), date(8), date(1), date(3), false},
		// Half-open semantics: a rental ending the day another starts
		// does not conflict.
		{"Touching endpoints A ends at B start", date(1), date(5), date(5), date(8), false},
		{"Touching endpoints B ends at A start", date(5), date(8), date(1), date(5), false},
		{"One day inside", date(3), date(4), date(1), date(10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestOrderStatus(t *testing.T) {
	t.Run("Terminal states", func(t *testing.T) {
		assert.True(t, OrderStatusCompleted.IsTerminal())
		assert.True(t, OrderStatusCancelled.IsTerminal())
		assert.False(t, OrderStatusDraft.IsTerminal())
		assert.False(t, OrderStatusOngoing.IsTerminal())
	})

	t.Run("Active states hold inventory", func(t *testing.T) {
		assert.True(t, OrderStatusDraft.Active())
		assert.True(t, OrderStatusOngoing.Active())
		assert.False(t, OrderStatusCompleted.Active())
		assert.False(t, OrderStatusCancelled.Active())
	})
}

func TestLatestEnd(t *testing.T) {
	items := []OrderItem{
		{EndAt: date(5)},
		{EndAt: date(12)},
		{EndAt: date(8)},
	}
	assert.Equal(t, date(12), LatestEnd(items))
	assert.True(t, LatestEnd(nil).IsZero())
}

func TestSumSubtotals(t *testing.T) {
	items := []OrderItem{
		{Subtotal: 300000},
		{Subtotal: 1000000},
		{Subtotal: 150000},
	}
	assert.Equal(t, int64(1450000), SumSubtotals(items))
	assert.Equal(t, int64(0), SumSubtotals(nil))
}
