// Package level implements the FIFO queue of live resting orders at a
// single price: C2 of the matching engine.
package level

import (
	"sync"
	"sync/atomic"

	"lobengine/internal/order"
)

// Level is the price-ordered book's unit of resting liquidity: an
// insertion-ordered (never reordered) queue of orders all resting at
// the same price, plus a running total of their remaining quantity.
//
// A Level never exists empty for long: the owning Book removes it from
// its ladder the moment the last order leaves. An O(k) linear scan on
// remove is acceptable here (spec's rationale): cancels are rare
// relative to matches, and the number of orders resting at a single
// tick stays small in practice. A doubly-linked list keyed by order id
// on a secondary hash table would give O(1) cancel at the cost of more
// bookkeeping than this budget calls for.
type Level struct {
	price uint64

	mu     sync.Mutex
	orders []*order.Order

	totalQty atomic.Uint64
}

// New creates an empty level at the given price.
func New(price uint64) *Level {
	return &Level{price: price}
}

func (l *Level) Price() uint64 { return l.price }

// Append pushes order to the tail of the queue. The caller must ensure
// the order is live and not already resting in any level.
func (l *Level) Append(o *order.Order) {
	l.mu.Lock()
	l.orders = append(l.orders, o)
	l.mu.Unlock()
	l.totalQty.Add(o.Remaining())
}

// Remove drops the order with the given id from the queue, wherever it
// sits in FIFO order, and reports whether it was found.
func (l *Level) Remove(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, o := range l.orders {
		if o.ID != id {
			continue
		}
		l.AdjustQuantity(-int64(o.Remaining()))
		l.orders = append(l.orders[:i], l.orders[i+1:]...)
		return true
	}
	return false
}

// HeadLive returns the oldest order whose status is neither Filled nor
// Cancelled, or nil if none remain. Orders reaching a terminal status
// are normally removed by the caller immediately (Cancel, or a fill
// that exhausts the order); this scan is a defensive guard against the
// race window between a fill completing and the removal being applied.
func (l *Level) HeadLive() *order.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range l.orders {
		s := o.Status()
		if s != order.Filled && s != order.Cancelled {
			return o
		}
	}
	return nil
}

// TotalQuantity returns the sum of remaining quantity across all live
// orders resting at this level.
func (l *Level) TotalQuantity() uint64 {
	return l.totalQty.Load()
}

// OrderCount returns the number of orders currently queued at this
// level, live or not yet swept out.
func (l *Level) OrderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// Empty reports whether the level has no remaining quantity resting.
func (l *Level) Empty() bool {
	return l.totalQty.Load() == 0
}

// AdjustQuantity changes the tracked total by delta (negative to
// shrink) without touching the FIFO slice itself; used by the matching
// loop when an order's remaining quantity shrinks in place (a partial
// fill) rather than being removed outright. Relies on unsigned wraparound
// arithmetic to express a decrement as an atomic add, the standard
// pattern for atomic.Uint64.
func (l *Level) AdjustQuantity(delta int64) {
	l.totalQty.Add(uint64(delta))
}
