package indicators

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// ATR is a streaming Average True Range indicator using Wilder's smoothing.
type ATR struct {
	period      int
	atr         float64
	count       int
	warmupSum   float64
	prevCandle  Candle
	hasPrevious bool
}

// NewATR creates an Average True Range indicator with the given period.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

// Warmup reports how many candles are needed before Ready() can be true.
// TR requires a previous candle, hence period+1.
func (a *ATR) Warmup() int {
	return a.period + 1
}

func (a *ATR) Reset() {
	a.atr = 0
	a.count = 0
	a.warmupSum = 0
	a.hasPrevious = false
}

// Update consumes the next closed candle.
func (a *ATR) Update(c Candle) {
	if !a.hasPrevious {
		a.prevCandle = c
		a.hasPrevious = true
		return
	}

	tr := trueRange(c, a.prevCandle)

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
	} else {
		// Wilder's smoothing.
		a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
	}

	a.prevCandle = c
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

// trueRange calculates the True Range for a candle given the previous candle.
func trueRange(current, previous Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}

// CandleATR is an ATRSource fed by closed candles, keyed by timeframe.
type CandleATR struct {
	mu   sync.Mutex
	atrs map[string]*ATR
}

func NewCandleATR() *CandleATR {
	return &CandleATR{atrs: make(map[string]*ATR)}
}

// Push feeds a closed candle for the given timeframe.
func (s *CandleATR) Push(timeframe string, period int, c Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s/%d", timeframe, period)
	a, ok := s.atrs[key]
	if !ok {
		a = NewATR(period)
		s.atrs[key] = a
	}
	a.Update(c)
}

func (s *CandleATR) LatestATR(ctx context.Context, timeframe string, period int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s/%d", timeframe, period)
	a, ok := s.atrs[key]
	if !ok || !a.Ready() {
		return 0, fmt.Errorf("ATR(%d) @ %s not warmed up", period, timeframe)
	}
	return a.Value(), nil
}
