package order

import "github.com/rustyeddy/timedorder/market"

// Spec is the operator-configured order request before resolution against
// live prices.
type Spec struct {
	Type                Type
	Entry               float64 // absolute entry price, 0 when unused
	EntryDistancePoints float64 // distance from market in ticks, 0 when unused
}

// Resolved is the concrete order after type reclassification and pricing.
type Resolved struct {
	Type  Type
	Price float64
}

// Resolve determines the final order type and target price against the
// current quote.
//
// Market orders keep their type and take the ask (buy) or bid (sell).
//
// Pending orders with a configured distance keep their type; the price is
// placed on the breakout side for stops and the pullback side for limits.
// Pending orders with an absolute entry are reclassified by where that price
// sits relative to the market: stop/limit semantics are defined by price
// side, not operator intent, so a Buy Stop below market must become a
// Buy Limit (and symmetrically) to avoid a rejected or instantly-filled
// order.
func Resolve(spec Spec, q market.Quote, inst market.Instrument) Resolved {
	typ := spec.Type

	if typ.IsMarket() {
		price := q.Ask
		if typ == Sell {
			price = q.Bid
		}
		return Resolved{Type: typ, Price: price}
	}

	price := q.Ask
	if typ.Side() == SideSell {
		price = q.Bid
	}

	entry := spec.Entry
	if spec.EntryDistancePoints > 0 {
		dist := spec.EntryDistancePoints * inst.TickSize
		switch typ {
		case BuyStop, SellLimit:
			entry = price + dist
		case SellStop, BuyLimit:
			entry = price - dist
		}
	} else {
		switch {
		case typ == BuyStop && entry < price:
			typ = BuyLimit
		case typ == BuyLimit && entry > price:
			typ = BuyStop
		case typ == SellStop && entry > price:
			typ = SellLimit
		case typ == SellLimit && entry < price:
			typ = SellStop
		}
	}

	return Resolved{Type: typ, Price: entry}
}
