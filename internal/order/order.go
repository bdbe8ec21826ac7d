// Package order defines the identity and lifecycle of a single resting
// or aggressing order: C1 of the matching engine.
package order

import (
	"sync/atomic"
	"time"
)

// Side is which side of the book an order rests on or aggresses against.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Type distinguishes how an order's price is interpreted during matching.
type Type uint8

const (
	Limit Type = iota
	Market
	// Stop is accepted with placeholder semantics identical to Limit.
	// See the matching engine's Book.Add: the correct design is a
	// per-book trigger table keyed by stop price, re-evaluated on every
	// last-trade update; that is a known gap, not implemented here.
	Stop
)

func (t Type) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Stop:
		return "STOP"
	default:
		return "LIMIT"
	}
}

// Status is an order's position in its lifecycle. Once terminal
// (Filled, Cancelled, Rejected) an order never mutates again.
type Status uint8

const (
	New Status = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (s Status) String() string {
	switch s {
	case PartiallyFilled:
		return "PARTIALLY_FILLED"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	default:
		return "NEW"
	}
}

func (s Status) Terminal() bool {
	return s == Filled || s == Cancelled || s == Rejected
}

// Order is the identity and mutable fill/status state of a single order.
//
// ID, SymbolID, Side, Type, Quantity and Price are set once at
// construction and never change. Status and filled quantity are
// updated atomically because a resting Order is reachable both from a
// Book's order index and from the price Level it rests in, and the
// index may be read from a goroutine other than the one currently
// running the matching loop (spec's ladder lock, not the index lock,
// is held while a fill is applied).
type Order struct {
	ID         uint64
	SymbolID   uint32
	Side       Side
	Type       Type
	Quantity   uint64
	Price      uint64 // ticks; ignored (0) for Market orders
	StopPrice  uint64 // reserved, unused by the current matcher
	Timestamp  time.Time // microsecond-resolution; diagnostics only, not priority

	status    atomic.Uint32
	filledQty atomic.Uint64
}

// NewOrder constructs a live order in status New with zero fills.
// Quantity validation (rejecting zero) is the book's responsibility,
// since a rejected order is still a real Order that gets a terminal
// status and an id, per spec.
func NewOrder(id uint64, symbolID uint32, side Side, typ Type, quantity, price, stopPrice uint64) *Order {
	return &Order{
		ID:        id,
		SymbolID:  symbolID,
		Side:      side,
		Type:      typ,
		Quantity:  quantity,
		Price:     price,
		StopPrice: stopPrice,
		Timestamp: time.Now().Truncate(time.Microsecond),
	}
}

func (o *Order) Status() Status {
	return Status(o.status.Load())
}

func (o *Order) SetStatus(s Status) {
	o.status.Store(uint32(s))
}

func (o *Order) FilledQuantity() uint64 {
	return o.filledQty.Load()
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() uint64 {
	return o.Quantity - o.filledQty.Load()
}

// Fill advances the filled quantity by qty, never past Quantity. It
// returns the new filled total. Callers hold the book's ladder lock
// while calling this, so the add is not itself a source of races, but
// the atomic keeps concurrent readers (e.g. a status lookup from
// Cancel racing the end of a match) well-defined.
func (o *Order) Fill(qty uint64) uint64 {
	for {
		cur := o.filledQty.Load()
		next := cur + qty
		if next > o.Quantity {
			next = o.Quantity
		}
		if o.filledQty.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.filledQty.Load() >= o.Quantity
}
