package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lobengine/internal/book"
	"lobengine/internal/order"
)

func TestSubmitCreatesBookLazily(t *testing.T) {
	e := New()
	assert.Empty(t, e.Symbols())

	id := e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, []uint32{1}, e.Symbols())
}

func TestSubmitAllocatesMonotonicIDsAcrossSymbols(t *testing.T) {
	e := New()
	id1 := e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)
	id2 := e.Submit(2, order.Sell, order.Limit, 1000, 6000, 0)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
}

func TestSubmitMatchesAcrossSameSymbol(t *testing.T) {
	e := New()
	e.Submit(1, order.Sell, order.Limit, 1000, 5000, 0)
	e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)

	snap := e.MarketData(1)
	assert.Equal(t, uint64(5000), snap.LastTradePrice)
	assert.Equal(t, uint64(1000), snap.LastTradeQuantity)
}

func TestCancelScansAllBooksForTheOwningOne(t *testing.T) {
	e := New()
	e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)       // id 1, symbol 1
	id := e.Submit(2, order.Buy, order.Limit, 1000, 6000, 0) // id 2, symbol 2

	assert.True(t, e.Cancel(id))
	assert.False(t, e.Cancel(id), "cancelling twice should fail")
	assert.False(t, e.Cancel(999))
}

func TestModifyAllocatesAFreshID(t *testing.T) {
	e := New()
	id := e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)

	ok := e.Modify(id, 2000, 5100)
	assert.True(t, ok)

	levels := e.BidLevels(1, 5)
	assert.Len(t, levels, 1)
	assert.Equal(t, uint64(5100), levels[0].Price)
	assert.Equal(t, uint64(2000), levels[0].Quantity)

	assert.False(t, e.Cancel(id), "the original id is retired; the replacement has a new one")
}

func TestMarketDataForUnknownSymbolIsEmpty(t *testing.T) {
	e := New()
	snap := e.MarketData(42)
	assert.Equal(t, book.Snapshot{SymbolID: 42}, snap)
	assert.Nil(t, e.BidLevels(42, 5))
	assert.Nil(t, e.AskLevels(42, 5))
}

func TestPerformanceMetricsAggregatesAcrossBooks(t *testing.T) {
	e := New()
	e.Submit(1, order.Sell, order.Limit, 1000, 5000, 0)
	e.Submit(1, order.Buy, order.Limit, 1000, 5000, 0)
	e.Submit(2, order.Sell, order.Limit, 500, 6000, 0)
	e.Submit(2, order.Buy, order.Limit, 500, 6000, 0)

	snap := e.PerformanceMetrics()
	assert.Equal(t, uint64(4), snap.OrdersProcessed)
	assert.Equal(t, uint64(1500), snap.TotalVolume)
	assert.Equal(t, uint64(2), snap.TradeCount)
}

func TestRegisterTradeCallbackNoopsForUnknownSymbol(t *testing.T) {
	e := New()
	var trades []book.Trade
	e.RegisterTradeCallback(3, func(tr book.Trade) { trades = append(trades, tr) })
	assert.Empty(t, e.Symbols(), "registering on an unknown symbol must not create its book")

	e.Submit(3, order.Sell, order.Limit, 100, 1000, 0)
	e.Submit(3, order.Buy, order.Limit, 100, 1000, 0)
	assert.Empty(t, trades, "a callback registered before the book existed is never attached")
}

func TestRegisterTradeCallbackFiresOnceSymbolExists(t *testing.T) {
	e := New()
	e.Submit(3, order.Sell, order.Limit, 100, 1000, 0)

	var trades []book.Trade
	e.RegisterTradeCallback(3, func(tr book.Trade) { trades = append(trades, tr) })

	e.Submit(3, order.Buy, order.Limit, 100, 1000, 0)
	assert.Len(t, trades, 1)
}
