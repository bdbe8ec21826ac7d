package level

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lobengine/internal/order"
)

func TestAppendTracksTotalQuantity(t *testing.T) {
	l := New(5000)
	o1 := order.NewOrder(1, 1, order.Buy, order.Limit, 100, 5000, 0)
	o2 := order.NewOrder(2, 1, order.Buy, order.Limit, 200, 5000, 0)

	l.Append(o1)
	l.Append(o2)

	assert.Equal(t, uint64(300), l.TotalQuantity())
	assert.Equal(t, 2, l.OrderCount())
	assert.False(t, l.Empty())
}

func TestRemoveDecrementsTotalAndReportsFound(t *testing.T) {
	l := New(5000)
	o1 := order.NewOrder(1, 1, order.Sell, order.Limit, 100, 5000, 0)
	l.Append(o1)

	assert.True(t, l.Remove(1))
	assert.Equal(t, uint64(0), l.TotalQuantity())
	assert.True(t, l.Empty())
	assert.False(t, l.Remove(1), "removing twice should report not-found")
	assert.False(t, l.Remove(999))
}

func TestHeadLiveSkipsTerminalOrders(t *testing.T) {
	l := New(5000)
	o1 := order.NewOrder(1, 1, order.Buy, order.Limit, 100, 5000, 0)
	o2 := order.NewOrder(2, 1, order.Buy, order.Limit, 100, 5000, 0)
	l.Append(o1)
	l.Append(o2)

	o1.SetStatus(order.Cancelled)

	assert.Same(t, o2, l.HeadLive())
}

func TestHeadLiveEmptyReturnsNil(t *testing.T) {
	l := New(5000)
	assert.Nil(t, l.HeadLive())
}

func TestFIFOOrderPreservedAcrossAppends(t *testing.T) {
	l := New(100)
	ids := []uint64{1, 2, 3, 4}
	for _, id := range ids {
		l.Append(order.NewOrder(id, 1, order.Sell, order.Limit, 10, 100, 0))
	}

	l.Remove(2)
	// Head should still be order 1 (oldest remaining, untouched insertion order).
	assert.Equal(t, uint64(1), l.HeadLive().ID)
}
