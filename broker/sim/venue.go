// Package sim is an in-memory venue for paper runs and tests. Quotes are
// scripted, submissions can be made to fail a set number of times, and every
// accepted order is kept in a ledger.
package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rustyeddy/timedorder/broker"
	"github.com/rustyeddy/timedorder/market"
)

var ErrRejected = errors.New("order rejected by venue")

// Order is a ledger entry for an accepted submission.
type Order struct {
	ID         string
	Instrument string
	Market     bool
	Kind       string
	Side       string
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	HasExpiry  bool
}

type Venue struct {
	mu     sync.Mutex
	acct   broker.Account
	quotes *market.QuoteStore
	orders []Order

	// failRemaining rejects the next N submissions; rejectAll rejects every
	// submission regardless.
	failRemaining int
	rejectAll     bool
}

func New(acct broker.Account) *Venue {
	return &Venue{
		acct:   acct,
		quotes: market.NewQuoteStore(),
	}
}

// SetQuote scripts the current quote for an instrument.
func (v *Venue) SetQuote(q market.Quote) {
	v.quotes.Set(q)
}

// FailNext makes the next n submissions fail before succeeding.
func (v *Venue) FailNext(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failRemaining = n
}

// RejectAll makes every submission fail.
func (v *Venue) RejectAll(reject bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejectAll = reject
}

// Orders returns a copy of the accepted-order ledger.
func (v *Venue) Orders() []Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Order(nil), v.orders...)
}

func (v *Venue) GetAccount(ctx context.Context) (broker.Account, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.acct, nil
}

func (v *Venue) GetQuote(ctx context.Context, instrument string) (market.Quote, error) {
	return v.quotes.Get(instrument)
}

func (v *Venue) reject() bool {
	if v.rejectAll {
		return true
	}
	if v.failRemaining > 0 {
		v.failRemaining--
		return true
	}
	return false
}

func (v *Venue) SubmitMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.OrderResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.reject() {
		return broker.OrderResult{}, ErrRejected
	}

	o := Order{
		ID:         uuid.NewString(),
		Instrument: req.Instrument,
		Market:     true,
		Side:       req.Side.String(),
		Volume:     req.Volume,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}
	v.orders = append(v.orders, o)

	return broker.OrderResult{ID: o.ID, Volume: o.Volume, Price: o.Price}, nil
}

func (v *Venue) SubmitPendingOrder(ctx context.Context, req broker.PendingOrderRequest) (broker.OrderResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.reject() {
		return broker.OrderResult{}, ErrRejected
	}

	o := Order{
		ID:         uuid.NewString(),
		Instrument: req.Instrument,
		Kind:       req.Kind.String(),
		Side:       req.Side.String(),
		Volume:     req.Volume,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		HasExpiry:  req.Expiration != nil,
	}
	v.orders = append(v.orders, o)

	return broker.OrderResult{ID: o.ID, Volume: o.Volume, Price: o.Price}, nil
}
