package indicators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candle(high, low, close float64) Candle {
	return Candle{High: high, Low: low, Close: close, Open: close}
}

func TestATRWarmup(t *testing.T) {
	t.Parallel()

	a := NewATR(3)
	assert.Equal(t, 4, a.Warmup())
	assert.False(t, a.Ready())
	assert.Zero(t, a.Value())

	a.Update(candle(11, 9, 10))
	a.Update(candle(12, 10, 11))
	a.Update(candle(13, 11, 12))
	assert.False(t, a.Ready())

	a.Update(candle(14, 12, 13))
	assert.True(t, a.Ready())
	// Every TR is 2: high-low = 2 dominates.
	assert.InDelta(t, 2.0, a.Value(), 1e-9)
}

func TestATRWilderSmoothing(t *testing.T) {
	t.Parallel()

	a := NewATR(2)
	a.Update(candle(11, 9, 10))
	a.Update(candle(12, 10, 11))
	a.Update(candle(13, 11, 12))
	require.True(t, a.Ready())
	assert.InDelta(t, 2.0, a.Value(), 1e-9)

	// A wider candle pulls the smoothed value up: (2*1 + 6) / 2 = 4.
	a.Update(candle(16, 10, 12))
	assert.InDelta(t, 4.0, a.Value(), 1e-9)

	a.Reset()
	assert.False(t, a.Ready())
}

func TestTrueRangeUsesGaps(t *testing.T) {
	t.Parallel()

	prev := candle(11, 9, 10)
	// Gap up: high-close dominates high-low.
	assert.InDelta(t, 5.0, trueRange(candle(15, 14, 14.5), prev), 1e-9)
	// Gap down: close-low dominates.
	assert.InDelta(t, 5.0, trueRange(candle(6, 5, 5.5), prev), 1e-9)
}

func TestCandleATRSource(t *testing.T) {
	t.Parallel()

	src := NewCandleATR()
	ctx := context.Background()

	_, err := src.LatestATR(ctx, "D1", 2)
	require.Error(t, err)

	src.Push("D1", 2, candle(11, 9, 10))
	src.Push("D1", 2, candle(12, 10, 11))
	src.Push("D1", 2, candle(13, 11, 12))

	v, err := src.LatestATR(ctx, "D1", 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-9)

	// Other timeframes are independent.
	_, err = src.LatestATR(ctx, "H1", 2)
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	t.Parallel()

	v, err := Static{ATR: 0.005}.LatestATR(context.Background(), "D1", 14)
	require.NoError(t, err)
	assert.Equal(t, 0.005, v)
}
