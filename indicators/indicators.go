// Package indicators supplies the volatility reading the SL/TP calculator
// consumes. The engine never computes indicator values itself; it reads them
// through ATRSource.
package indicators

import (
	"context"
	"time"
)

// Candle is a closed OHLC bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ATRSource returns the latest Average True Range reading for a timeframe
// and period, e.g. ("D1", 14).
type ATRSource interface {
	LatestATR(ctx context.Context, timeframe string, period int) (float64, error)
}

// Static is a fixed ATR reading, for paper runs and tests.
type Static struct {
	ATR float64
}

func (s Static) LatestATR(ctx context.Context, timeframe string, period int) (float64, error) {
	return s.ATR, nil
}
