package book

import "time"

// Trade is an immutable execution record produced by the matching
// loop. Price is always the resting (passive) side's price, never the
// aggressor's.
type Trade struct {
	TradeID     uint64
	BuyOrderID  uint64
	SellOrderID uint64
	SymbolID    uint32
	Quantity    uint64
	Price       uint64
	Timestamp   time.Time
}

// PriceLevelView is a read-only (price, aggregate quantity) pair
// returned by BidLevels/AskLevels, best to worst.
type PriceLevelView struct {
	Price    uint64
	Quantity uint64
}

// Snapshot is an immutable point-in-time view of a book's top of book
// and cumulative statistics.
type Snapshot struct {
	SymbolID          uint32
	Timestamp         time.Time
	BestBidPrice      uint64
	BestBidQuantity   uint64
	BestAskPrice      uint64
	BestAskQuantity   uint64
	LastTradePrice    uint64
	LastTradeQuantity uint64
	Volume            uint64
}
