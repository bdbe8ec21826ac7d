// Command demo drives the matching engine from the command line: it
// submits a handful of orders against one symbol, prints the
// resulting top of book, and leaves a background reporter running
// until interrupted. It exists to exercise the engine end to end, not
// to reproduce the original TCP client/server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lobengine/internal/book"
	"lobengine/internal/engine"
	"lobengine/internal/order"
	"lobengine/internal/supervisor"
)

func main() {
	symbol := flag.Uint("symbol", 1, "symbol id to trade")
	side := flag.String("side", "buy", "order side: buy or sell")
	typ := flag.String("type", "limit", "order type: limit or market")
	qty := flag.Uint64("qty", 1000, "order quantity")
	price := flag.Uint64("price", 5000, "limit price in ticks, ignored for market orders")
	reportInterval := flag.Duration("report-interval", 5*time.Second, "metrics reporter tick interval")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	eng := engine.New()

	orderSide := order.Buy
	if *side == "sell" {
		orderSide = order.Sell
	}
	orderType := order.Limit
	if *typ == "market" {
		orderType = order.Market
	}

	// Seed a resting order on the opposite side so the flag-driven order
	// below has something to trade against. This also brings the book
	// into existence, since RegisterTradeCallback does not.
	seedSide := order.Sell
	if orderSide == order.Sell {
		seedSide = order.Buy
	}
	eng.Submit(uint32(*symbol), seedSide, order.Limit, *qty, *price, 0)

	eng.RegisterTradeCallback(uint32(*symbol), func(tr book.Trade) {
		log.Info().
			Uint64("buy_order_id", tr.BuyOrderID).
			Uint64("sell_order_id", tr.SellOrderID).
			Uint64("quantity", tr.Quantity).
			Uint64("price", tr.Price).
			Msg("demo: trade executed")
	})

	id := eng.Submit(uint32(*symbol), orderSide, orderType, *qty, *price, 0)
	snap := eng.MarketData(uint32(*symbol))

	fmt.Printf("submitted order_id=%d\n", id)
	fmt.Printf("top of book: bid=%d@%d ask=%d@%d last_trade=%d@%d\n",
		snap.BestBidQuantity, snap.BestBidPrice,
		snap.BestAskQuantity, snap.BestAskPrice,
		snap.LastTradeQuantity, snap.LastTradePrice,
	)

	reporter := supervisor.Create(eng, *reportInterval)
	go reporter.Run(ctx)

	<-ctx.Done()
	reporter.Shutdown()
}
