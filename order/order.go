// Package order defines the order taxonomy and the pending-order resolution
// rules: which concrete type and price a configured order turns into against
// the current market.
package order

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Side is the direction of an order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "Sell"
	}
	return "Buy"
}

// PendingKind distinguishes the two pending subtypes. Stop orders sit on the
// breakout side of the market, limit orders on the pullback side.
type PendingKind int

const (
	KindStop PendingKind = iota
	KindLimit
)

func (k PendingKind) String() string {
	if k == KindLimit {
		return "Limit"
	}
	return "Stop"
}

// Type enumerates the supported order types. Stop-limit orders are not
// implemented.
type Type int

const (
	Buy Type = iota
	Sell
	BuyLimit
	SellLimit
	BuyStop
	SellStop
)

var typeNames = map[Type]string{
	Buy:       "buy",
	Sell:      "sell",
	BuyLimit:  "buy-limit",
	SellLimit: "sell-limit",
	BuyStop:   "buy-stop",
	SellStop:  "sell-stop",
}

func (t Type) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case BuyLimit:
		return "Buy Limit"
	case SellLimit:
		return "Sell Limit"
	case BuyStop:
		return "Buy Stop"
	case SellStop:
		return "Sell Stop"
	}
	return "Unknown"
}

func (t Type) Side() Side {
	switch t {
	case Sell, SellLimit, SellStop:
		return SideSell
	}
	return SideBuy
}

func (t Type) IsMarket() bool {
	return t == Buy || t == Sell
}

func (t Type) IsPending() bool {
	return !t.IsMarket()
}

// Kind returns the pending subtype. Only meaningful when IsPending().
func (t Type) Kind() PendingKind {
	if t == BuyLimit || t == SellLimit {
		return KindLimit
	}
	return KindStop
}

func (t Type) MarshalText() ([]byte, error) {
	name, ok := typeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown order type %d", int(t))
	}
	return []byte(name), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	for typ, name := range typeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown order type %q", string(text))
}

func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	return t.UnmarshalText([]byte(value.Value))
}
