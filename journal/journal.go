// journal/journal.go
package journal

import "time"

// OrderRecord is the outcome of one submission cycle.
type OrderRecord struct {
	RecordID   string
	RunID      string
	OrderID    string // venue position/order id, empty on failure
	Instrument string
	OrderType  string
	Volume     float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Attempts   int
	Status     string // "committed" or "failed"
	Reason     string
	Time       time.Time
}

type Journal interface {
	RecordOrder(OrderRecord) error
	Close() error
}

// Nop discards records; used when journaling is disabled.
type Nop struct{}

func (Nop) RecordOrder(OrderRecord) error { return nil }
func (Nop) Close() error                  { return nil }
