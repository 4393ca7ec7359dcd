// Package risk computes the position size from the money-management
// configuration and the venue's volume constraints.
package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/timedorder/broker"
	"github.com/rustyeddy/timedorder/market"
	"gopkg.in/yaml.v3"
)

// Logger is the diagnostics sink. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Mode selects fixed or risk-based sizing.
type Mode int

const (
	Fixed Mode = iota
	RiskBased
)

var modeNames = map[Mode]string{
	Fixed:     "fixed",
	RiskBased: "risk",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	s, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown sizing mode %d", int(m))
	}
	return []byte(s), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for mode, name := range modeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown sizing mode %q", string(text))
}

func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	return m.UnmarshalText([]byte(value.Value))
}

// Sizing is the money-management configuration.
type Sizing struct {
	Mode         Mode    `json:"mode" yaml:"mode"`
	FixedLots    float64 `json:"fixed_lots,omitempty" yaml:"fixed_lots,omitempty"`
	RiskPercent  float64 `json:"risk_percent,omitempty" yaml:"risk_percent,omitempty"`
	RiskMoney    float64 `json:"risk_money,omitempty" yaml:"risk_money,omitempty"`
	UseMoney     bool    `json:"use_money,omitempty" yaml:"use_money,omitempty"`
	UseEquity    bool    `json:"use_equity,omitempty" yaml:"use_equity,omitempty"`
	FixedBalance float64 `json:"fixed_balance,omitempty" yaml:"fixed_balance,omitempty"`
}

// Size returns the volume (in venue units) to submit for the given stop-loss
// distance in price terms.
//
// Fixed mode converts the configured lots directly. Risk-based mode derives
// the volume from the capital at risk: the raw size is
// round(riskMoney / slPips / pipValue), clamped into [VolumeMin, VolumeMax]
// and rounded down (never up) to the nearest VolumeStep. Every adjustment is
// reported through the diagnostics sink so operators can see why the actual
// size differs from the requested risk.
//
// Degenerate input (zero stop distance or pip value) yields zero, which
// callers must treat as "do not size".
func Size(s Sizing, acct broker.Account, inst market.Instrument, slDistance float64, log Logger) float64 {
	if s.Mode == Fixed {
		return inst.LotsToUnits(s.FixedLots)
	}

	capital := acct.Balance
	if s.FixedBalance > 0 {
		capital = s.FixedBalance
	} else if s.UseEquity {
		capital = acct.Equity
	}

	riskMoney := capital * s.RiskPercent / 100
	if s.UseMoney {
		riskMoney = s.RiskMoney
	}

	slPips := 0.0
	if inst.PipSize != 0 {
		slPips = slDistance / inst.PipSize
	}
	if slPips == 0 || inst.PipValue == 0 {
		log.Printf("cannot size position: stop distance %g pips, pip value %g", slPips, inst.PipValue)
		return 0
	}

	size := math.Round(riskMoney / slPips / inst.PipValue)

	if size < inst.VolumeMin {
		log.Printf("calculated size %g below venue minimum %g; using minimum", size, inst.VolumeMin)
		size = inst.VolumeMin
	} else if size > inst.VolumeMax {
		log.Printf("calculated size %g above venue maximum %g; using maximum", size, inst.VolumeMax)
		size = inst.VolumeMax
	}

	if inst.VolumeStep > 0 {
		steps := size / inst.VolumeStep
		if math.Floor(steps) < steps {
			rounded := math.Floor(steps) * inst.VolumeStep
			log.Printf("calculated size %g not a multiple of step %g; using %g", size, inst.VolumeStep, rounded)
			size = rounded
		}
	}

	return size
}
