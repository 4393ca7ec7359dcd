// Package broker defines the narrow interface the engine consumes from the
// trading venue. Implementations live elsewhere (sim for paper runs); the
// venue's internals are irrelevant to the engine.
package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/order"
)

// Venue is the order-execution and quote API of the hosting platform.
type Venue interface {
	GetAccount(ctx context.Context) (Account, error)
	GetQuote(ctx context.Context, instrument string) (market.Quote, error)
	SubmitMarketOrder(ctx context.Context, req MarketOrderRequest) (OrderResult, error)
	SubmitPendingOrder(ctx context.Context, req PendingOrderRequest) (OrderResult, error)
}

type Account struct {
	ID       string
	Currency string
	Balance  float64
	Equity   float64
}

// MarketOrderRequest opens a position at the current market price. StopLoss
// and TakeProfit are distances in pips; zero means none.
type MarketOrderRequest struct {
	Instrument string
	Side       order.Side
	Volume     float64
	Price      float64
	Slippage   float64 // in ticks
	StopLoss   float64
	TakeProfit float64
	Comment    string
}

// PendingOrderRequest places a stop or limit order at Price. A nil
// Expiration submits the order good-till-cancelled.
type PendingOrderRequest struct {
	Instrument string
	Side       order.Side
	Kind       order.PendingKind
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Expiration *time.Time
	Comment    string
}

// OrderResult identifies the filled position or created pending order.
type OrderResult struct {
	ID     string
	Volume float64
	Price  float64
}
