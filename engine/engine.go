// Package engine drives the order lifecycle: wait for the trigger, gate on
// market conditions, submit with bounded retries, and settle into a terminal
// state. All run state lives here and is re-derived from configuration plus
// the current time; nothing is persisted between evaluations.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/timedorder/broker"
	"github.com/rustyeddy/timedorder/config"
	"github.com/rustyeddy/timedorder/id"
	"github.com/rustyeddy/timedorder/indicators"
	"github.com/rustyeddy/timedorder/internal/metrics"
	"github.com/rustyeddy/timedorder/journal"
	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/notify"
	"github.com/rustyeddy/timedorder/order"
	"github.com/rustyeddy/timedorder/risk"
	"github.com/rustyeddy/timedorder/trigger"
)

// State is the submission lifecycle. Committed and Failed are terminal for a
// one-shot run; daily mode resets them once the evaluator rolls to a future
// day.
type State int

const (
	Idle State = iota
	Armed
	Gating
	Submitting
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Gating:
		return "gating"
	case Submitting:
		return "submitting"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Logger is the append-only diagnostics sink. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Options carries the optional collaborators. Nil fields get no-op defaults.
type Options struct {
	ATR     indicators.ATRSource
	Alerter notify.Alerter
	Journal journal.Journal
	Logger  Logger
}

// Engine owns the run state exclusively. Evaluate is the single mutation
// path; the internal mutex serializes the ticker loop against ad hoc feed
// events.
type Engine struct {
	mu    sync.Mutex
	cfg   *config.Config
	inst  market.Instrument
	spec  trigger.Spec
	venue broker.Venue
	atr   indicators.ATRSource
	alert notify.Alerter
	jrnl  journal.Journal
	log   Logger
	runID string

	state State

	// noRetry is set before any submission attempt and cleared only by the
	// wait-for-spread path or a daily re-arm.
	noRetry  bool
	attempts int
	result   string
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// New validates the configuration against the reference clock "now" and arms
// the engine. A validation error is fatal: no engine is returned and no
// submission path can ever be entered.
func New(cfg *config.Config, venue broker.Venue, now time.Time, opts Options) (*Engine, error) {
	inst, ok := market.Instruments[cfg.Instrument]
	if !ok {
		inst = market.Instrument{}
	}
	if err := cfg.Validate(now, inst); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Engine{
		cfg:   cfg,
		inst:  inst,
		spec:  cfg.Trigger.Spec(),
		venue: venue,
		atr:   opts.ATR,
		alert: opts.Alerter,
		jrnl:  opts.Journal,
		log:   opts.Logger,
		runID: id.New(),
		state: Armed,
	}
	if e.atr == nil {
		e.atr = indicators.Static{}
	}
	if e.alert == nil {
		e.alert = notify.Nop{}
	}
	if e.jrnl == nil {
		e.jrnl = journal.Nop{}
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	return e, nil
}

func (e *Engine) RunID() string {
	return e.runID
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the last human-readable outcome text.
func (e *Engine) Result() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

func (e *Engine) terminal() bool {
	return e.state == Committed || e.state == Failed
}

// refTime applies the configured time reference: venue time comes from the
// quote snapshot, local time from the caller's clock. Sources are never
// mixed within one evaluation.
func (e *Engine) refTime(now time.Time, q market.Quote) time.Time {
	if e.spec.Ref == trigger.RefVenue && !q.Time.IsZero() {
		return q.Time
	}
	return now
}

// Evaluate runs one pass of the trigger/submission logic. It is invoked by
// the periodic ticker and by ad hoc market updates; both paths serialize on
// the engine mutex. It never blocks beyond the bounded venue calls.
func (e *Engine) Evaluate(ctx context.Context, now time.Time, q market.Quote) {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics.Evaluations.Inc()

	refNow := e.refTime(now, q)
	due := e.spec.DueTime(refNow)
	diff := refNow.Sub(due)
	metrics.SecondsToTrigger.Set(-diff.Seconds())

	// Daily cycle reset: the evaluator has rolled past the grace window to a
	// future day, so the last cycle's outcome no longer applies.
	if e.spec.Mode == trigger.Daily && e.terminal() && diff < -trigger.SkipGrace {
		e.log.Printf("new daily cycle, re-arming (next trigger %s)", due.Format(time.RFC3339))
		e.state = Armed
		e.noRetry = false
		e.attempts = 0
		e.result = ""
	}

	if e.noRetry || e.terminal() {
		return
	}

	if diff <= 0 {
		// Too early.
		return
	}

	// Time has come. Nothing after this point retries on later ticks, with
	// the single exception of the wait-for-spread path.
	e.noRetry = true
	e.state = Gating
	e.submit(ctx, q)
}

func (e *Engine) submit(ctx context.Context, q market.Quote) {
	ord := &e.cfg.Order

	atrVal, err := e.latestATR(ctx)
	if err != nil {
		e.fail("indicator_unavailable", fmt.Sprintf("no ATR reading: %v", err))
		return
	}

	sl := ord.StopLoss.Magnitude(e.inst, q.Spread(), atrVal)
	tp := ord.TakeProfit.Magnitude(e.inst, q.Spread(), atrVal)

	// Spread gate.
	spreadTicks := e.inst.SpreadTicks(q)
	if e.cfg.Retry.MaxSpread > 0 && spreadTicks > e.cfg.Retry.MaxSpread {
		explanation := fmt.Sprintf("current spread %.1f > maximum spread %.1f; not opening the trade",
			spreadTicks, e.cfg.Retry.MaxSpread)
		if e.cfg.Retry.WaitForSpread {
			e.log.Printf("%s; waiting for spread to narrow", explanation)
			e.noRetry = false
			e.state = Armed
			return
		}
		e.fail("spread_too_wide", explanation)
		return
	}

	resolved := order.Resolve(ord.Spec(), q, e.inst)

	// Level-mode SL/TP become distances from the eventual entry price.
	if ord.StopLoss.Mode == order.ModeLevel {
		sl = order.LevelToDistance(resolved.Price, sl)
	}
	if ord.TakeProfit.Mode == order.ModeLevel {
		tp = order.LevelToDistance(resolved.Price, tp)
	}

	// Price-difference gate, market orders only. No retry: price keeps
	// moving, waiting cannot help.
	if resolved.Type.IsMarket() && e.cfg.Retry.MaxPriceDifference > 0 {
		drift := resolved.Price - ord.Entry
		if drift < 0 {
			drift = -drift
		}
		if drift > e.cfg.Retry.MaxPriceDifference*e.inst.TickSize {
			e.fail("price_drift", fmt.Sprintf("price difference %g > maximum %g; not opening the trade",
				drift, e.cfg.Retry.MaxPriceDifference*e.inst.TickSize))
			return
		}
	}

	acct, err := e.venue.GetAccount(ctx)
	if err != nil {
		e.fail("account_unavailable", fmt.Sprintf("cannot read account: %v", err))
		return
	}

	volume := risk.Size(e.cfg.Sizing, acct, e.inst, sl, e.log)
	if volume <= 0 {
		e.fail("zero_size", "position size computed as zero; not submitting")
		return
	}

	e.state = Submitting
	if resolved.Type.IsMarket() {
		e.submitMarket(ctx, resolved, volume, sl, tp)
	} else {
		e.submitPending(ctx, resolved, volume, sl, tp)
	}
}

func (e *Engine) latestATR(ctx context.Context) (float64, error) {
	needsATR := e.cfg.Order.StopLoss.Mode == order.ModeATR ||
		e.cfg.Order.TakeProfit.Mode == order.ModeATR
	if !needsATR {
		return 0, nil
	}
	return e.atr.LatestATR(ctx, e.cfg.ATR.Timeframe, e.cfg.ATR.Period)
}

// pips converts a price-term distance into pips for the venue API.
func (e *Engine) pips(distance float64) float64 {
	if e.inst.PipSize == 0 {
		return 0
	}
	return distance / e.inst.PipSize
}

func (e *Engine) submitMarket(ctx context.Context, resolved order.Resolved, volume, sl, tp float64) {
	req := broker.MarketOrderRequest{
		Instrument: e.cfg.Instrument,
		Side:       resolved.Type.Side(),
		Volume:     volume,
		Price:      resolved.Price,
		Slippage:   e.cfg.Retry.Slippage,
		StopLoss:   e.pips(sl),
		TakeProfit: e.pips(tp),
		Comment:    e.cfg.Comment,
	}

	for i := 0; i < e.cfg.Retry.MaxAttempts; i++ {
		e.attempts++
		metrics.Attempts.Inc()

		res, err := e.venue.SubmitMarketOrder(ctx, req)
		if err != nil {
			e.log.Printf("error sending order: %v", err)
			e.log.Printf("volume = %g entry = %g sl = %g tp = %g", volume, req.Price, req.StopLoss, req.TakeProfit)
			continue
		}

		e.log.Printf("order executed, position %s", res.ID)
		e.commit(resolved, res, sl, tp, false)
		return
	}

	e.fail("venue_rejected", fmt.Sprintf("execution failed after %d tries", e.cfg.Retry.MaxAttempts))
}

func (e *Engine) submitPending(ctx context.Context, resolved order.Resolved, volume, sl, tp float64) {
	req := broker.PendingOrderRequest{
		Instrument: e.cfg.Instrument,
		Side:       resolved.Type.Side(),
		Kind:       resolved.Type.Kind(),
		Volume:     volume,
		Price:      resolved.Price,
		StopLoss:   e.pips(sl),
		TakeProfit: e.pips(tp),
		Comment:    e.cfg.Comment,
	}
	if e.cfg.Order.HasExpiration() {
		exp := e.cfg.Order.Expiration
		req.Expiration = &exp
	}

	for i := 0; i < e.cfg.Retry.MaxAttempts; i++ {
		e.attempts++
		metrics.Attempts.Inc()

		res, err := e.venue.SubmitPendingOrder(ctx, req)
		if err != nil {
			e.log.Printf("error sending %s: %v", resolved.Type, err)
			e.log.Printf("volume = %g entry = %g sl = %g tp = %g", volume, req.Price, req.StopLoss, req.TakeProfit)
			continue
		}

		e.log.Printf("order created, ticket %s", res.ID)
		e.commit(resolved, res, sl, tp, req.Expiration != nil)
		return
	}

	e.fail("venue_rejected", fmt.Sprintf("creation failed after %d tries", e.cfg.Retry.MaxAttempts))
}

func (e *Engine) commit(resolved order.Resolved, res broker.OrderResult, sl, tp float64, hasExpiry bool) {
	e.state = Committed

	text := fmt.Sprintf("%g lots; open = %g", e.inst.UnitsToLots(res.Volume), res.Price)
	if sl != 0 {
		text += fmt.Sprintf(" sl = %g", sl)
	}
	if tp != 0 {
		text += fmt.Sprintf(" tp = %g", tp)
	}
	if hasExpiry {
		text += fmt.Sprintf(" expiration = %s", e.cfg.Order.Expiration.Format(time.RFC3339))
	}
	e.result = text

	metrics.Outcomes.WithLabelValues("committed", "").Inc()
	e.record(res.ID, resolved, res.Volume, sl, tp, "committed", "")

	if e.cfg.Alerts.OnSuccess {
		e.alert.SendAlert(e.subject(),
			fmt.Sprintf("%s - %s. Created: %s", e.cfg.Instrument, resolved.Type, text))
	}
}

func (e *Engine) fail(reason, explanation string) {
	e.state = Failed
	e.result = explanation
	e.log.Printf("%s", explanation)

	metrics.Outcomes.WithLabelValues("failed", reason).Inc()
	e.record("", order.Resolved{Type: e.cfg.Order.Type}, 0, 0, 0, "failed", explanation)

	if e.cfg.Alerts.OnFailure {
		e.alert.SendAlert(e.subject(),
			fmt.Sprintf("%s - %s. %s", e.cfg.Instrument, e.cfg.Order.Type, explanation))
	}
}

func (e *Engine) record(orderID string, resolved order.Resolved, volume, sl, tp float64, status, reason string) {
	err := e.jrnl.RecordOrder(journal.OrderRecord{
		RecordID:   id.New(),
		RunID:      e.runID,
		OrderID:    orderID,
		Instrument: e.cfg.Instrument,
		OrderType:  resolved.Type.String(),
		Volume:     volume,
		Price:      resolved.Price,
		StopLoss:   sl,
		TakeProfit: tp,
		Attempts:   e.attempts,
		Status:     status,
		Reason:     reason,
		Time:       time.Now().UTC(),
	})
	if err != nil {
		e.log.Printf("journal write failed: %v", err)
	}
}

func (e *Engine) subject() string {
	return fmt.Sprintf("Timed Order Alert - %s", e.cfg.Instrument)
}
