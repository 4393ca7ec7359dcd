package market

import (
	"context"
	"errors"
	"sync"
	"time"
)

// QuoteSource delivers the latest bid/ask snapshot for an instrument.
type QuoteSource interface {
	GetQuote(ctx context.Context, instrument string) (Quote, error)
}

// Quote is a read-only bid/ask snapshot. It is re-fetched on every
// evaluation; nothing caches it across ticks.
type Quote struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

var ErrNoQuote = errors.New("no quote for instrument")

// QuoteStore keeps the last quote per instrument. The feed goroutine writes,
// the evaluation path reads.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

func (s *QuoteStore) Set(q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Instrument] = q
}

func (s *QuoteStore) Get(instrument string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[instrument]
	if !ok {
		return Quote{}, ErrNoQuote
	}
	return q, nil
}
