package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderStartsNewWithNoFills(t *testing.T) {
	o := NewOrder(1, 7, Buy, Limit, 1000, 5000, 0)

	assert.Equal(t, New, o.Status())
	assert.Equal(t, uint64(0), o.FilledQuantity())
	assert.Equal(t, uint64(1000), o.Remaining())
	assert.False(t, o.IsFilled())
}

func TestFillAdvancesRemaining(t *testing.T) {
	o := NewOrder(1, 7, Sell, Limit, 1000, 5000, 0)

	o.Fill(400)
	assert.Equal(t, uint64(400), o.FilledQuantity())
	assert.Equal(t, uint64(600), o.Remaining())
	assert.False(t, o.IsFilled())

	o.Fill(600)
	assert.True(t, o.IsFilled())
	assert.Equal(t, uint64(0), o.Remaining())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, New.Terminal())
	assert.False(t, PartiallyFilled.Terminal())
	assert.True(t, Filled.Terminal())
	assert.True(t, Cancelled.Terminal())
	assert.True(t, Rejected.Terminal())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NEW", New.String())
	assert.Equal(t, "PARTIALLY_FILLED", PartiallyFilled.String())
	assert.Equal(t, "FILLED", Filled.String())
	assert.Equal(t, "CANCELLED", Cancelled.String())
	assert.Equal(t, "REJECTED", Rejected.String())
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
}
