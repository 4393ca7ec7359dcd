package order

import (
	"testing"

	"github.com/rustyeddy/timedorder/market"
	"github.com/stretchr/testify/assert"
)

var eurusd = market.Instruments["EUR_USD"]

func TestResolveMarket(t *testing.T) {
	t.Parallel()

	q := market.Quote{Bid: 1.0850, Ask: 1.0852}

	got := Resolve(Spec{Type: Buy}, q, eurusd)
	assert.Equal(t, Buy, got.Type)
	assert.Equal(t, 1.0852, got.Price)

	got = Resolve(Spec{Type: Sell}, q, eurusd)
	assert.Equal(t, Sell, got.Type)
	assert.Equal(t, 1.0850, got.Price)
}

func TestResolveReclassify(t *testing.T) {
	t.Parallel()

	q := market.Quote{Bid: 1.0988, Ask: 1.0990}

	tests := []struct {
		name  string
		spec  Spec
		want  Type
		price float64
	}{
		{
			name:  "buy_stop_above_market_stays",
			spec:  Spec{Type: BuyStop, Entry: 1.1000},
			want:  BuyStop,
			price: 1.1000,
		},
		{
			name:  "buy_stop_below_market_becomes_limit",
			spec:  Spec{Type: BuyStop, Entry: 1.0980},
			want:  BuyLimit,
			price: 1.0980,
		},
		{
			name:  "buy_limit_above_market_becomes_stop",
			spec:  Spec{Type: BuyLimit, Entry: 1.1000},
			want:  BuyStop,
			price: 1.1000,
		},
		{
			name:  "sell_stop_above_market_becomes_limit",
			spec:  Spec{Type: SellStop, Entry: 1.1000},
			want:  SellLimit,
			price: 1.1000,
		},
		{
			name:  "sell_limit_below_market_becomes_stop",
			spec:  Spec{Type: SellLimit, Entry: 1.0980},
			want:  SellStop,
			price: 1.0980,
		},
		{
			name:  "sell_limit_above_market_stays",
			spec:  Spec{Type: SellLimit, Entry: 1.1000},
			want:  SellLimit,
			price: 1.1000,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.spec, q, eurusd)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.price, got.Price)
		})
	}
}

func TestResolveEntryDistance(t *testing.T) {
	t.Parallel()

	q := market.Quote{Bid: 1.0988, Ask: 1.0990}

	tests := []struct {
		name  string
		spec  Spec
		want  Type
		price float64
	}{
		{
			// Breakout side: above ask.
			name:  "buy_stop_distance",
			spec:  Spec{Type: BuyStop, EntryDistancePoints: 100},
			want:  BuyStop,
			price: 1.0990 + 100*eurusd.TickSize,
		},
		{
			// Pullback side: below ask.
			name:  "buy_limit_distance",
			spec:  Spec{Type: BuyLimit, EntryDistancePoints: 100},
			want:  BuyLimit,
			price: 1.0990 - 100*eurusd.TickSize,
		},
		{
			name:  "sell_stop_distance",
			spec:  Spec{Type: SellStop, EntryDistancePoints: 100},
			want:  SellStop,
			price: 1.0988 - 100*eurusd.TickSize,
		},
		{
			name:  "sell_limit_distance",
			spec:  Spec{Type: SellLimit, EntryDistancePoints: 100},
			want:  SellLimit,
			price: 1.0988 + 100*eurusd.TickSize,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(tt.spec, q, eurusd)
			assert.Equal(t, tt.want, got.Type)
			assert.InDelta(t, tt.price, got.Price, 1e-9)
		})
	}
}

func TestTypeText(t *testing.T) {
	t.Parallel()

	var typ Type
	assert.NoError(t, typ.UnmarshalText([]byte("sell-stop")))
	assert.Equal(t, SellStop, typ)
	assert.Equal(t, "Sell Stop", typ.String())
	assert.Equal(t, SideSell, typ.Side())
	assert.True(t, typ.IsPending())
	assert.Equal(t, KindStop, typ.Kind())

	assert.Error(t, typ.UnmarshalText([]byte("straddle")))
}
