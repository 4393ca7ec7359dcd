package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/order"
	"github.com/rustyeddy/timedorder/risk"
	"github.com/rustyeddy/timedorder/trigger"
)

// TimeDistance formats a duration as years-free human text, e.g.
// "1 day 2 hours 3 minutes 4 seconds". Sub-second distances read "0 seconds".
func TimeDistance(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	if d < time.Second {
		return "0 seconds"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60

	var parts []string
	add := func(n int, unit string) {
		if n == 0 {
			return
		}
		s := fmt.Sprintf("%d %s", n, unit)
		if n > 1 {
			s += "s"
		}
		parts = append(parts, s)
	}
	add(days, "day")
	add(hours, "hour")
	add(minutes, "minute")
	add(seconds, "second")

	return strings.Join(parts, " ")
}

// Status renders a human-readable description of the run for the given
// reference time and quote. It mutates nothing.
func (e *Engine) Status(now time.Time, q market.Quote) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b strings.Builder
	b.WriteString("Timed Order\n")

	ord := &e.cfg.Order
	b.WriteString(ord.Type.String())
	if ord.Type.IsPending() {
		if ord.EntryDistancePoints > 0 {
			fmt.Fprintf(&b, " @ %g pts", ord.EntryDistancePoints)
		} else {
			fmt.Fprintf(&b, " @ %g", ord.Entry)
		}
	}
	b.WriteString("\n")

	switch e.state {
	case Failed:
		b.WriteString("Execution failed!\n")
		if e.result != "" {
			b.WriteString(e.result + "\n")
		}
	case Committed:
		b.WriteString(e.result + "\n")
	default:
		e.writePlan(&b)
	}

	refNow := e.refTime(now, q)
	due := e.spec.DueTime(refNow)
	diff := refNow.Sub(due)
	if diff <= 0 {
		fmt.Fprintf(&b, "Time to order: %s", TimeDistance(-diff))
	} else {
		fmt.Fprintf(&b, "Time after order: %s", TimeDistance(diff))
	}
	if e.spec.Mode == trigger.Daily {
		b.WriteString(" (daily mode)")
	}
	b.WriteString(".")

	return b.String()
}

// writePlan describes the configured SL/TP and sizing before execution.
func (e *Engine) writePlan(b *strings.Builder) {
	ord := &e.cfg.Order

	writeStop := func(label string, s order.StopSpec) {
		switch s.Mode {
		case order.ModeLevel:
			fmt.Fprintf(b, "%s = %g\n", label, s.Value)
		case order.ModeDistance:
			fmt.Fprintf(b, "%s = %g pts\n", label, s.Value)
		case order.ModeATR:
			fmt.Fprintf(b, "%s = %g x ATR(%d) @ %s\n", label, s.Value, e.cfg.ATR.Period, e.cfg.ATR.Timeframe)
		case order.ModeSpreads:
			fmt.Fprintf(b, "%s = %g spreads\n", label, s.Value)
		}
	}
	writeStop("SL", ord.StopLoss)
	writeStop("TP", ord.TakeProfit)

	s := e.cfg.Sizing
	switch {
	case s.Mode == risk.Fixed:
		fmt.Fprintf(b, "Pos size = %g lots\n", s.FixedLots)
	case s.UseMoney:
		fmt.Fprintf(b, "Risk = %g money\n", s.RiskMoney)
	case s.FixedBalance > 0:
		fmt.Fprintf(b, "Risk = %g%% of %g\n", s.RiskPercent, s.FixedBalance)
	case s.UseEquity:
		fmt.Fprintf(b, "Risk = %g%% of equity\n", s.RiskPercent)
	default:
		fmt.Fprintf(b, "Risk = %g%% of balance\n", s.RiskPercent)
	}
}
