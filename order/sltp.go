package order

import (
	"fmt"
	"math"

	"github.com/rustyeddy/timedorder/market"
	"gopkg.in/yaml.v3"
)

// StopMode selects how a stop-loss or take-profit value is interpreted.
type StopMode int

const (
	// ModeLevel treats the value as an absolute price level. It is converted
	// to a distance only once the entry price is known.
	ModeLevel StopMode = iota
	// ModeDistance treats the value as a distance in tick-size units.
	ModeDistance
	// ModeATR multiplies the value by the latest ATR reading.
	ModeATR
	// ModeSpreads multiplies the value by the current spread.
	ModeSpreads
)

var stopModeNames = map[StopMode]string{
	ModeLevel:    "level",
	ModeDistance: "distance",
	ModeATR:      "atr",
	ModeSpreads:  "spreads",
}

func (m StopMode) String() string {
	if s, ok := stopModeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (m StopMode) MarshalText() ([]byte, error) {
	s, ok := stopModeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown stop mode %d", int(m))
	}
	return []byte(s), nil
}

func (m *StopMode) UnmarshalText(text []byte) error {
	for mode, name := range stopModeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown stop mode %q", string(text))
}

func (m *StopMode) UnmarshalYAML(value *yaml.Node) error {
	return m.UnmarshalText([]byte(value.Value))
}

// StopSpec is a stop-loss or take-profit given as a mode plus value.
type StopSpec struct {
	Mode  StopMode `json:"mode" yaml:"mode"`
	Value float64  `json:"value" yaml:"value"`
}

func (s StopSpec) IsZero() bool {
	return s.Value == 0
}

// Magnitude resolves the raw SL/TP quantity in price terms. For ModeLevel the
// result is still an absolute level; callers convert it to a distance with
// LevelToDistance once the entry price is known.
func (s StopSpec) Magnitude(inst market.Instrument, spread, atr float64) float64 {
	switch s.Mode {
	case ModeATR:
		return atr * s.Value
	case ModeSpreads:
		return spread * s.Value
	case ModeDistance:
		return s.Value * inst.TickSize
	default: // ModeLevel
		return s.Value
	}
}

// LevelToDistance converts an absolute level into a distance from price.
// Zero levels stay zero, meaning "no SL/TP".
func LevelToDistance(price, level float64) float64 {
	if level == 0 {
		return 0
	}
	return math.Abs(price - level)
}
