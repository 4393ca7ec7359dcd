// Package config holds the complete run configuration and the startup
// validation that gates the engine. Validation runs once; a failure disables
// all trading activity for the run.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/order"
	"github.com/rustyeddy/timedorder/risk"
	"github.com/rustyeddy/timedorder/trigger"
	"gopkg.in/yaml.v3"
)

// Config represents the complete timed-order configuration.
type Config struct {
	Instrument string        `json:"instrument" yaml:"instrument"`
	Comment    string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Trigger    TriggerConfig `json:"trigger" yaml:"trigger"`
	Order      OrderConfig   `json:"order" yaml:"order"`
	Sizing     risk.Sizing   `json:"sizing" yaml:"sizing"`
	Retry      RetryConfig   `json:"retry" yaml:"retry"`
	ATR        ATRConfig     `json:"atr" yaml:"atr"`
	Alerts     AlertConfig   `json:"alerts" yaml:"alerts"`
	Journal    JournalConfig `json:"journal" yaml:"journal"`
	Metrics    MetricsConfig `json:"metrics" yaml:"metrics"`
	Feed       FeedConfig    `json:"feed" yaml:"feed"`
}

// TriggerConfig selects the trigger instant: a fixed timestamp (oneshot) or
// a recurring daily time on selected weekdays.
type TriggerConfig struct {
	Mode      trigger.Mode        `json:"mode" yaml:"mode"`
	Reference trigger.TimeRef     `json:"reference" yaml:"reference"`
	At        time.Time           `json:"at,omitempty" yaml:"at,omitempty"`
	Hour      int                 `json:"hour,omitempty" yaml:"hour,omitempty"`
	Minute    int                 `json:"minute,omitempty" yaml:"minute,omitempty"`
	Second    int                 `json:"second,omitempty" yaml:"second,omitempty"`
	Weekdays  trigger.WeekdayMask `json:"weekdays,omitempty" yaml:"weekdays,omitempty"`
}

func (t TriggerConfig) Spec() trigger.Spec {
	return trigger.Spec{
		Mode:     t.Mode,
		Ref:      t.Reference,
		At:       t.At,
		Hour:     t.Hour,
		Minute:   t.Minute,
		Second:   t.Second,
		Weekdays: t.Weekdays,
	}
}

// OrderConfig describes the order to place once the trigger fires.
type OrderConfig struct {
	Type                order.Type     `json:"type" yaml:"type"`
	Entry               float64        `json:"entry,omitempty" yaml:"entry,omitempty"`
	EntryDistancePoints float64        `json:"entry_distance_points,omitempty" yaml:"entry_distance_points,omitempty"`
	StopLoss            order.StopSpec `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit          order.StopSpec `json:"take_profit" yaml:"take_profit"`
	Expiration          time.Time      `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

func (o OrderConfig) Spec() order.Spec {
	return order.Spec{
		Type:                o.Type,
		Entry:               o.Entry,
		EntryDistancePoints: o.EntryDistancePoints,
	}
}

// HasExpiration reports whether an expiration is set; the zero time is the
// "no expiration" sentinel.
func (o OrderConfig) HasExpiration() bool {
	return !o.Expiration.IsZero() && o.Expiration.Unix() != 0
}

// RetryConfig bounds the submission attempts and the market gates.
type RetryConfig struct {
	MaxAttempts        int     `json:"max_attempts" yaml:"max_attempts"`
	Slippage           float64 `json:"slippage,omitempty" yaml:"slippage,omitempty"`
	MaxPriceDifference float64 `json:"max_price_difference,omitempty" yaml:"max_price_difference,omitempty"` // ticks
	MaxSpread          float64 `json:"max_spread,omitempty" yaml:"max_spread,omitempty"`                     // ticks
	WaitForSpread      bool    `json:"wait_for_spread,omitempty" yaml:"wait_for_spread,omitempty"`
}

// ATRConfig names the external indicator reading used by ATR-based SL/TP.
type ATRConfig struct {
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	Period    int    `json:"period" yaml:"period"`
}

// AlertConfig controls the notification sink.
type AlertConfig struct {
	OnSuccess bool   `json:"on_success,omitempty" yaml:"on_success,omitempty"`
	OnFailure bool   `json:"on_failure,omitempty" yaml:"on_failure,omitempty"`
	SMTPAddr  string `json:"smtp_addr,omitempty" yaml:"smtp_addr,omitempty"`
	EmailFrom string `json:"email_from,omitempty" yaml:"email_from,omitempty"`
	EmailTo   string `json:"email_to,omitempty" yaml:"email_to,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// FeedConfig enables the websocket quote feed when URL is set. Without it the
// run command polls the venue on each tick.
type FeedConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Instrument: "EUR_USD",
		Comment:    "timedorder",
		Trigger: TriggerConfig{
			Mode:      trigger.OneShot,
			Reference: trigger.RefVenue,
			Weekdays:  trigger.Weekdays,
		},
		Order: OrderConfig{
			Type:       order.Buy,
			StopLoss:   order.StopSpec{Mode: order.ModeLevel},
			TakeProfit: order.StopSpec{Mode: order.ModeLevel},
		},
		Sizing: risk.Sizing{
			Mode:        risk.Fixed,
			FixedLots:   0.01,
			RiskPercent: 1,
		},
		Retry: RetryConfig{
			MaxAttempts: 10,
			Slippage:    1,
			MaxSpread:   30,
		},
		ATR:     ATRConfig{Timeframe: "D1", Period: 14},
		Journal: JournalConfig{Type: "none"},
	}
}

// Validate checks the configuration for consistency against the reference
// clock and the instrument's constraints. The first violated rule wins; a
// returned error disables the run entirely.
func (c *Config) Validate(now time.Time, inst market.Instrument) error {
	ord := &c.Order

	if c.Trigger.Mode == trigger.OneShot {
		if !c.Trigger.At.After(now) {
			return fmt.Errorf("order time has already passed")
		}
	} else {
		if c.Trigger.Weekdays.Empty() {
			return fmt.Errorf("at least one weekday must be selected for daily mode")
		}
	}

	if ord.Type.IsPending() && ord.Entry == 0 && ord.EntryDistancePoints <= 0 {
		return fmt.Errorf("entry price and distance cannot be both zero for pending orders")
	}

	if !ord.StopLoss.IsZero() && ord.StopLoss.Mode == order.ModeLevel && ord.EntryDistancePoints <= 0 {
		sl := ord.StopLoss.Value
		if sl >= ord.Entry && (ord.Type == order.BuyStop || ord.Type == order.BuyLimit) {
			return fmt.Errorf("stop-loss cannot be above entry for a %s", ord.Type)
		}
		if sl <= ord.Entry && (ord.Type == order.SellStop || ord.Type == order.SellLimit) {
			return fmt.Errorf("stop-loss cannot be below entry for a %s", ord.Type)
		}
	}

	if !ord.TakeProfit.IsZero() && ord.TakeProfit.Mode == order.ModeLevel && ord.EntryDistancePoints <= 0 {
		tp := ord.TakeProfit.Value
		if tp <= ord.Entry && (ord.Type == order.BuyStop || ord.Type == order.BuyLimit) {
			return fmt.Errorf("take-profit cannot be below entry for a %s", ord.Type)
		}
		if tp >= ord.Entry && (ord.Type == order.SellStop || ord.Type == order.SellLimit) {
			return fmt.Errorf("take-profit cannot be above entry for a %s", ord.Type)
		}
	}

	if c.Sizing.Mode == risk.Fixed {
		if err := checkLots(c.Sizing.FixedLots, inst); err != nil {
			return err
		}
	} else {
		if ord.StopLoss.IsZero() {
			return fmt.Errorf("cannot calculate position size based on zero stop-loss")
		}
	}

	if ord.HasExpiration() && ord.Expiration.Before(c.Trigger.Spec().DueTime(now)) {
		return fmt.Errorf("expiration cannot be earlier than order time")
	}

	if inst.Name == "" {
		return fmt.Errorf("unknown instrument: %s", c.Instrument)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	switch c.Journal.Type {
	case "", "none", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal.trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for SQLite type")
	}

	return nil
}

// checkLots verifies a fixed lot size against the venue volume constraints.
// The step check uses floor division, not floating-point equality.
func checkLots(lots float64, inst market.Instrument) error {
	minLot, maxLot, lotStep := inst.MinLots(), inst.MaxLots(), inst.LotStep()
	if lots < minLot {
		return fmt.Errorf("position size %g < minimum volume %g", lots, minLot)
	}
	if lots > maxLot {
		return fmt.Errorf("position size %g > maximum volume %g", lots, maxLot)
	}
	if lotStep > 0 {
		steps := lots / lotStep
		if math.Floor(steps) < steps {
			return fmt.Errorf("position size %g is not a multiple of lot step %g", lots, lotStep)
		}
	}
	return nil
}
