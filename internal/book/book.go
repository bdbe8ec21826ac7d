// Package book implements C3: the two price-ordered ladders and order
// index for a single symbol, and the price-time-priority matching
// algorithm that runs over them.
package book

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"

	"lobengine/internal/level"
	"lobengine/internal/notify"
	"lobengine/internal/order"
)

type ladder = btree.BTreeG[*level.Level]

// Book owns the bid and ask ladders, the order index, and the running
// statistics for a single symbol. All exported methods are safe for
// concurrent use.
//
// Two locks guard book state. indexMu is never held while laddersMu is
// being acquired; the only nesting is the matching loop taking indexMu
// briefly, with laddersMu held, to evict a fully filled resting order.
// indexMu is not held while a notification callback runs. laddersMu is
// held for an entire Add or Cancel operation, including matching and
// notification emission, so a concurrent Snapshot/BidLevels/AskLevels
// call observes either the pre- or post-state of that operation, never
// a mid-match book. Modify runs as a Cancel followed by an Add, each
// under its own hold of laddersMu, so a reader can observe the book
// after the cancel and before the replacement is added.
type Book struct {
	symbolID uint32

	laddersMu sync.RWMutex
	bids      *ladder // best-first descending: highest bid first
	asks      *ladder // best-first ascending: lowest ask first

	indexMu    sync.RWMutex
	orderIndex map[uint64]*order.Order

	nextTradeID    atomic.Uint64
	totalVolume    atomic.Uint64
	tradeCount     atomic.Uint64
	lastTradePrice atomic.Uint64
	lastTradeQty   atomic.Uint64

	tradeNotify notify.Registry[Trade]
	mdNotify    notify.Registry[Snapshot]

	logger zerolog.Logger
}

// New creates an empty book for symbolID. Books are created lazily by
// the engine on first submission for a symbol and live for the
// process lifetime.
func New(symbolID uint32) *Book {
	return &Book{
		symbolID: symbolID,
		bids: btree.NewBTreeG(func(a, b *level.Level) bool {
			return a.Price() > b.Price()
		}),
		asks: btree.NewBTreeG(func(a, b *level.Level) bool {
			return a.Price() < b.Price()
		}),
		orderIndex: make(map[uint64]*order.Order),
		logger:     log.With().Uint32("symbol_id", symbolID).Logger(),
	}
}

func (b *Book) SymbolID() uint32 { return b.symbolID }

// Add submits o for processing: matching against resting liquidity,
// then (for Limit/Stop orders with residual quantity) resting the
// remainder. The order's final Status reflects the outcome; Add
// itself returns nothing since the result is entirely observable
// through the order.
func (b *Book) Add(o *order.Order) {
	if o.Quantity == 0 {
		o.SetStatus(order.Rejected)
		return
	}

	b.indexMu.Lock()
	if _, exists := b.orderIndex[o.ID]; exists {
		b.indexMu.Unlock()
		o.SetStatus(order.Rejected)
		b.logger.Warn().Uint64("order_id", o.ID).Msg("book: rejected resubmission of a live order id")
		return
	}
	b.orderIndex[o.ID] = o
	b.indexMu.Unlock()

	b.laddersMu.Lock()

	switch o.Type {
	case order.Market:
		b.runMatch(o, 0, true)
		switch {
		case o.FilledQuantity() == 0:
			o.SetStatus(order.Rejected)
		case o.IsFilled():
			o.SetStatus(order.Filled)
		default:
			o.SetStatus(order.PartiallyFilled)
		}
		// Market orders never rest, win or lose.

	default: // Limit, and Stop under its placeholder Limit semantics.
		b.runMatch(o, o.Price, false)
		if o.Remaining() > 0 {
			if o.FilledQuantity() == 0 {
				o.SetStatus(order.New)
			} else {
				o.SetStatus(order.PartiallyFilled)
			}
			b.rest(o)
		} else {
			o.SetStatus(order.Filled)
		}
	}

	b.emitMarketDataLocked()
	b.laddersMu.Unlock()

	if o.Status().Terminal() {
		b.evict(o.ID)
	}
}

// Cancel removes orderID from its resting level, if any, and marks it
// Cancelled. It returns false if the id is unknown or the order has
// already reached a terminal status.
func (b *Book) Cancel(orderID uint64) bool {
	o, ok := b.lookup(orderID)
	if !ok || o.Status().Terminal() {
		return false
	}

	b.laddersMu.Lock()
	// Re-check: a concurrent match may have filled the order between
	// the unlocked status read above and acquiring the ladder lock.
	if o.Status().Terminal() {
		b.laddersMu.Unlock()
		return false
	}

	ladderTree := b.restingLadder(o.Side)
	if lvl, found := ladderTree.Get(level.New(o.Price)); found {
		lvl.Remove(o.ID)
		if lvl.Empty() {
			ladderTree.Delete(lvl)
		}
	}
	o.SetStatus(order.Cancelled)
	b.emitMarketDataLocked()
	b.laddersMu.Unlock()

	b.evict(orderID)
	return true
}

// Modify implements cancel-and-replace: orderID is cancelled and a
// fresh order with id newID is submitted with the same symbol, side
// and type, the given quantity, and newPrice (or the original price
// if newPrice is zero). The replacement loses time priority, by
// design — it is a fresh arrival at the tail of its level, so a
// participant cannot use modify to jump the queue. Returns false if
// orderID is unknown or already terminal.
func (b *Book) Modify(orderID, newID, newQuantity, newPrice uint64) bool {
	o, ok := b.lookup(orderID)
	if !ok || o.Status().Terminal() {
		return false
	}

	price := o.Price
	if newPrice != 0 {
		price = newPrice
	}
	side, symbolID, typ, stopPrice := o.Side, o.SymbolID, o.Type, o.StopPrice

	if !b.Cancel(orderID) {
		return false
	}

	replacement := order.NewOrder(newID, symbolID, side, typ, newQuantity, price, stopPrice)
	b.Add(replacement)
	return true
}

// Snapshot returns an atomically-read point-in-time view of the
// book's top of book and cumulative statistics.
func (b *Book) Snapshot() Snapshot {
	b.laddersMu.RLock()
	defer b.laddersMu.RUnlock()
	return b.snapshotLocked()
}

// BidLevels returns up to depth (price, aggregate quantity) pairs,
// best (highest) bid first.
func (b *Book) BidLevels(depth uint32) []PriceLevelView {
	b.laddersMu.RLock()
	defer b.laddersMu.RUnlock()
	return collectLevels(b.bids, depth)
}

// AskLevels returns up to depth (price, aggregate quantity) pairs,
// best (lowest) ask first.
func (b *Book) AskLevels(depth uint32) []PriceLevelView {
	b.laddersMu.RLock()
	defer b.laddersMu.RUnlock()
	return collectLevels(b.asks, depth)
}

// TotalVolume and TradeCount are the book's aggregate statistics,
// read without locking since they are independently atomic.
func (b *Book) TotalVolume() uint64 { return b.totalVolume.Load() }
func (b *Book) TradeCount() uint64  { return b.tradeCount.Load() }

// RegisterTradeCallback subscribes cb to every trade this book
// executes, fired synchronously on the goroutine that produced it.
func (b *Book) RegisterTradeCallback(cb func(Trade)) {
	b.tradeNotify.Register(cb)
}

// RegisterMarketDataCallback subscribes cb to every market-data
// snapshot emitted after a book-mutating operation.
func (b *Book) RegisterMarketDataCallback(cb func(Snapshot)) {
	b.mdNotify.Register(cb)
}

// --- internal helpers ---

func (b *Book) lookup(orderID uint64) (*order.Order, bool) {
	b.indexMu.RLock()
	defer b.indexMu.RUnlock()
	o, ok := b.orderIndex[orderID]
	return o, ok
}

func (b *Book) evict(orderID uint64) {
	b.indexMu.Lock()
	delete(b.orderIndex, orderID)
	b.indexMu.Unlock()
}

func (b *Book) restingLadder(side order.Side) *ladder {
	if side == order.Buy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeLadder(side order.Side) *ladder {
	if side == order.Buy {
		return b.asks
	}
	return b.bids
}

// rest inserts o into the same-side ladder at its own price, creating
// the level if this is the first order resting there.
func (b *Book) rest(o *order.Order) {
	ladderTree := b.restingLadder(o.Side)
	lvl, ok := ladderTree.Get(level.New(o.Price))
	if !ok {
		lvl = level.New(o.Price)
		ladderTree.Set(lvl)
	}
	lvl.Append(o)
}

func (b *Book) snapshotLocked() Snapshot {
	snap := Snapshot{
		SymbolID:          b.symbolID,
		Timestamp:         time.Now(),
		Volume:            b.totalVolume.Load(),
		LastTradePrice:    b.lastTradePrice.Load(),
		LastTradeQuantity: b.lastTradeQty.Load(),
	}
	if lvl, ok := b.bids.Min(); ok {
		snap.BestBidPrice = lvl.Price()
		snap.BestBidQuantity = lvl.TotalQuantity()
	}
	if lvl, ok := b.asks.Min(); ok {
		snap.BestAskPrice = lvl.Price()
		snap.BestAskQuantity = lvl.TotalQuantity()
	}
	return snap
}

func (b *Book) emitMarketDataLocked() {
	b.mdNotify.Emit(b.snapshotLocked())
}

func collectLevels(tree *ladder, depth uint32) []PriceLevelView {
	views := make([]PriceLevelView, 0, depth)
	var count uint32
	tree.Scan(func(lvl *level.Level) bool {
		if count >= depth {
			return false
		}
		views = append(views, PriceLevelView{Price: lvl.Price(), Quantity: lvl.TotalQuantity()})
		count++
		return true
	})
	return views
}
