// Package engine implements C4: the symbol registry that routes
// submissions to per-symbol books, allocates order ids, and aggregates
// performance metrics across every book it owns.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lobengine/internal/book"
	"lobengine/internal/metrics"
	"lobengine/internal/order"
)

// Engine owns one Book per traded symbol, created lazily on first
// submission, plus the globally monotonic order-id counter and
// aggregate performance metrics.
//
// booksMu guards the registry map itself, not the books it points to —
// each Book is independently safe for concurrent use. Lookup takes the
// read lock; creating a book for a never-seen symbol takes the write
// lock, with a double-checked lookup after upgrading, mirroring the
// simulator's shared_mutex discipline: most submissions hit an
// existing book and only pay for a read lock.
type Engine struct {
	booksMu sync.RWMutex
	books   map[uint32]*book.Book
	order   []*book.Book // registration order, for Cancel/Modify's book scan

	nextOrderID atomic.Uint64

	metrics metrics.Engine

	logger zerolog.Logger
}

// New creates an engine with no registered symbols. Books are created
// on demand by Submit.
func New() *Engine {
	return &Engine{
		books:  make(map[uint32]*book.Book),
		logger: log.With().Str("component", "engine").Logger(),
	}
}

// Submit allocates a fresh order id, constructs the order, and routes
// it to symbolID's book (creating the book if this is the first
// submission for that symbol). It returns the allocated id so the
// caller can later Cancel or Modify it.
func (e *Engine) Submit(symbolID uint32, side order.Side, typ order.Type, quantity, price, stopPrice uint64) uint64 {
	start := time.Now()
	traceID := uuid.New()

	id := e.nextOrderID.Add(1)
	o := order.NewOrder(id, symbolID, side, typ, quantity, price, stopPrice)

	b := e.bookFor(symbolID)
	b.Add(o)

	e.metrics.RecordSubmit(uint64(time.Since(start).Nanoseconds()))

	e.logger.Debug().
		Str("trace_id", traceID.String()).
		Uint64("order_id", id).
		Uint32("symbol_id", symbolID).
		Str("side", side.String()).
		Str("type", typ.String()).
		Str("status", o.Status().String()).
		Msg("engine: order submitted")

	return id
}

// Cancel scans every registered book, in registration order, for
// orderID and cancels it in the first book that recognizes it. Order
// ids are unique across the whole engine (one global counter), so at
// most one book can ever report success.
func (e *Engine) Cancel(orderID uint64) bool {
	e.booksMu.RLock()
	books := e.order
	e.booksMu.RUnlock()

	for _, b := range books {
		if b.Cancel(orderID) {
			e.logger.Debug().Uint64("order_id", orderID).Msg("engine: order cancelled")
			return true
		}
	}
	return false
}

// Modify scans every registered book for orderID and, in the book that
// holds it, replaces it per Book.Modify's cancel-and-replace semantics.
// The replacement is allocated a fresh id from the engine's global
// counter, since only the engine owns that sequence.
func (e *Engine) Modify(orderID, newQuantity, newPrice uint64) bool {
	e.booksMu.RLock()
	books := e.order
	e.booksMu.RUnlock()

	newID := e.nextOrderID.Add(1)
	for _, b := range books {
		if b.Modify(orderID, newID, newQuantity, newPrice) {
			e.logger.Debug().
				Uint64("order_id", orderID).
				Uint64("new_order_id", newID).
				Msg("engine: order modified")
			return true
		}
	}
	return false
}

// MarketData returns symbolID's top-of-book snapshot, or an empty
// (zero-valued) snapshot if the symbol has never been submitted to.
func (e *Engine) MarketData(symbolID uint32) book.Snapshot {
	b, ok := e.lookup(symbolID)
	if !ok {
		return book.Snapshot{SymbolID: symbolID}
	}
	return b.Snapshot()
}

// BidLevels and AskLevels return symbolID's aggregated depth, best
// first, or nil if the symbol is unknown.
func (e *Engine) BidLevels(symbolID uint32, depth uint32) []book.PriceLevelView {
	b, ok := e.lookup(symbolID)
	if !ok {
		return nil
	}
	return b.BidLevels(depth)
}

func (e *Engine) AskLevels(symbolID uint32, depth uint32) []book.PriceLevelView {
	b, ok := e.lookup(symbolID)
	if !ok {
		return nil
	}
	return b.AskLevels(depth)
}

// RegisterTradeCallback and RegisterMarketDataCallback subscribe cb to
// symbolID's book. They silently no-op if the symbol has never been
// submitted to — registration does not itself bring a book into
// existence.
func (e *Engine) RegisterTradeCallback(symbolID uint32, cb func(book.Trade)) {
	if b, ok := e.lookup(symbolID); ok {
		b.RegisterTradeCallback(cb)
	}
}

func (e *Engine) RegisterMarketDataCallback(symbolID uint32, cb func(book.Snapshot)) {
	if b, ok := e.lookup(symbolID); ok {
		b.RegisterMarketDataCallback(cb)
	}
}

// PerformanceMetrics aggregates the engine's own submit-latency
// counters with every registered book's trade volume and count.
func (e *Engine) PerformanceMetrics() metrics.Snapshot {
	e.booksMu.RLock()
	books := e.order
	e.booksMu.RUnlock()

	snap := metrics.Snapshot{
		OrdersProcessed:  e.metrics.OrdersProcessed(),
		AverageLatencyNs: e.metrics.AverageLatencyNs(),
	}
	for _, b := range books {
		snap.TotalVolume += b.TotalVolume()
		snap.TradeCount += b.TradeCount()
	}
	return snap
}

// Symbols returns the ids of every symbol with a book, in the order
// their books were first created.
func (e *Engine) Symbols() []uint32 {
	e.booksMu.RLock()
	defer e.booksMu.RUnlock()

	ids := make([]uint32, len(e.order))
	for i, b := range e.order {
		ids[i] = b.SymbolID()
	}
	return ids
}

func (e *Engine) lookup(symbolID uint32) (*book.Book, bool) {
	e.booksMu.RLock()
	defer e.booksMu.RUnlock()
	b, ok := e.books[symbolID]
	return b, ok
}

// bookFor returns symbolID's book, creating it under the write lock if
// this is the first time the symbol has been seen. The lookup is
// double-checked after upgrading to the write lock so two concurrent
// first-submissions for the same symbol don't race to create two
// books.
func (e *Engine) bookFor(symbolID uint32) *book.Book {
	e.booksMu.RLock()
	b, ok := e.books[symbolID]
	e.booksMu.RUnlock()
	if ok {
		return b
	}

	e.booksMu.Lock()
	defer e.booksMu.Unlock()
	if b, ok := e.books[symbolID]; ok {
		return b
	}

	b = book.New(symbolID)
	e.books[symbolID] = b
	e.order = append(e.order, b)
	e.logger.Info().Uint32("symbol_id", symbolID).Msg("engine: book created")
	return b
}

// String is used by the demo CLI for a human-readable metrics line.
func (e *Engine) String() string {
	snap := e.PerformanceMetrics()
	return fmt.Sprintf(
		"orders_processed=%d avg_latency_ns=%d total_volume=%d trade_count=%d",
		snap.OrdersProcessed, snap.AverageLatencyNs, snap.TotalVolume, snap.TradeCount,
	)
}
