package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/timedorder/broker"
	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueQuotesAndAccount(t *testing.T) {
	t.Parallel()

	v := New(broker.Account{ID: "SIM-1", Currency: "USD", Balance: 10000, Equity: 10000})
	ctx := context.Background()

	_, err := v.GetQuote(ctx, "EUR_USD")
	require.ErrorIs(t, err, market.ErrNoQuote)

	v.SetQuote(market.Quote{Instrument: "EUR_USD", Bid: 1.0850, Ask: 1.0852})
	q, err := v.GetQuote(ctx, "EUR_USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0852, q.Ask)

	acct, err := v.GetAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, acct.Balance)
}

func TestVenueFailNext(t *testing.T) {
	t.Parallel()

	v := New(broker.Account{})
	v.FailNext(2)
	ctx := context.Background()

	req := broker.MarketOrderRequest{Instrument: "EUR_USD", Side: order.SideBuy, Volume: 1000, Price: 1.1}

	_, err := v.SubmitMarketOrder(ctx, req)
	require.ErrorIs(t, err, ErrRejected)
	_, err = v.SubmitMarketOrder(ctx, req)
	require.ErrorIs(t, err, ErrRejected)

	res, err := v.SubmitMarketOrder(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, v.Orders(), 1)
}

func TestVenuePendingOrderLedger(t *testing.T) {
	t.Parallel()

	v := New(broker.Account{})
	ctx := context.Background()
	exp := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	_, err := v.SubmitPendingOrder(ctx, broker.PendingOrderRequest{
		Instrument: "EUR_USD",
		Side:       order.SideSell,
		Kind:       order.KindLimit,
		Volume:     2000,
		Price:      1.1000,
		Expiration: &exp,
	})
	require.NoError(t, err)

	orders := v.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "Sell", orders[0].Side)
	assert.Equal(t, "Limit", orders[0].Kind)
	assert.False(t, orders[0].Market)
	assert.True(t, orders[0].HasExpiry)
}

func TestVenueRejectAll(t *testing.T) {
	t.Parallel()

	v := New(broker.Account{})
	v.RejectAll(true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := v.SubmitMarketOrder(ctx, broker.MarketOrderRequest{})
		require.ErrorIs(t, err, ErrRejected)
	}
	assert.Empty(t, v.Orders())
}
