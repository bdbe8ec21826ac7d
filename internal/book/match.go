package book

import (
	"time"

	"lobengine/internal/level"
	"lobengine/internal/order"
)

// runMatch drives incoming against the opposite ladder until either
// incoming is exhausted or the opposite side's best price no longer
// crosses (or, when unbounded, until the opposite side is exhausted —
// a Market order has no price bound). The caller must already hold
// laddersMu for writing; runMatch never itself acquires or releases a
// lock.
func (b *Book) runMatch(incoming *order.Order, limitPrice uint64, unbounded bool) {
	opp := b.oppositeLadder(incoming.Side)

	for incoming.Remaining() > 0 {
		lvl, ok := opp.Min()
		if !ok {
			break
		}
		if !unbounded && !priceAcceptable(incoming.Side, lvl.Price(), limitPrice) {
			break
		}

		for incoming.Remaining() > 0 {
			resting := lvl.HeadLive()
			if resting == nil {
				break
			}

			qty := min(incoming.Remaining(), resting.Remaining())
			b.executeTrade(incoming, resting, qty, lvl)

			if resting.IsFilled() {
				resting.SetStatus(order.Filled)
				lvl.Remove(resting.ID)
				b.evict(resting.ID)
			} else {
				resting.SetStatus(order.PartiallyFilled)
			}
		}

		if lvl.Empty() {
			opp.Delete(lvl)
		}
	}
}

// priceAcceptable reports whether a resting level at levelPrice can
// cross against an incoming order limited to limitPrice: a buy never
// pays more than its limit, a sell never gives up more than its limit.
func priceAcceptable(side order.Side, levelPrice, limitPrice uint64) bool {
	if side == order.Buy {
		return levelPrice <= limitPrice
	}
	return levelPrice >= limitPrice
}

// executeTrade fills qty between incoming and resting, at the resting
// (passive) order's price — the aggressor never dictates price — and
// records the resulting Trade.
func (b *Book) executeTrade(incoming, resting *order.Order, qty uint64, lvl *level.Level) {
	price := resting.Price

	var buyID, sellID uint64
	if incoming.Side == order.Buy {
		buyID, sellID = incoming.ID, resting.ID
	} else {
		buyID, sellID = resting.ID, incoming.ID
	}

	incoming.Fill(qty)
	resting.Fill(qty)
	lvl.AdjustQuantity(-int64(qty))

	tradeID := b.nextTradeID.Add(1)
	b.totalVolume.Add(qty)
	b.tradeCount.Add(1)
	b.lastTradePrice.Store(price)
	b.lastTradeQty.Store(qty)

	trade := Trade{
		TradeID:     tradeID,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		SymbolID:    b.symbolID,
		Quantity:    qty,
		Price:       price,
		Timestamp:   time.Now(),
	}

	b.tradeNotify.Emit(trade)
}
