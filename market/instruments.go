// market/instruments.go
package market

// Instrument carries the venue's pricing and volume constraints for one
// symbol. Volumes are in venue units; LotSize converts between broker lots
// and units.
type Instrument struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	TickSize      float64
	PipSize       float64
	PipValue      float64 // account currency per pip per unit of volume
	LotSize       float64 // units per 1.0 lot
	VolumeMin     float64
	VolumeMax     float64
	VolumeStep    float64
}

var Instruments = map[string]Instrument{
	"EUR_USD": {
		Name:          "EUR_USD",
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		TickSize:      0.00001,
		PipSize:       0.0001,
		PipValue:      1.0,
		LotSize:       100000,
		VolumeMin:     1000,
		VolumeMax:     10000000,
		VolumeStep:    1000,
	},
	"USD_JPY": {
		Name:          "USD_JPY",
		BaseCurrency:  "USD",
		QuoteCurrency: "JPY",
		TickSize:      0.001,
		PipSize:       0.01,
		PipValue:      0.9,
		LotSize:       100000,
		VolumeMin:     1000,
		VolumeMax:     10000000,
		VolumeStep:    1000,
	},
	"GBP_USD": {
		Name:          "GBP_USD",
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		TickSize:      0.00001,
		PipSize:       0.0001,
		PipValue:      1.0,
		LotSize:       100000,
		VolumeMin:     1000,
		VolumeMax:     10000000,
		VolumeStep:    1000,
	},
}

// SpreadTicks expresses a quote's spread in tick-size units.
func (m Instrument) SpreadTicks(q Quote) float64 {
	if m.TickSize == 0 {
		return 0
	}
	return q.Spread() / m.TickSize
}

// LotsToUnits converts broker lots into venue volume units.
func (m Instrument) LotsToUnits(lots float64) float64 {
	return lots * m.LotSize
}

// UnitsToLots converts venue volume units into broker lots.
func (m Instrument) UnitsToLots(units float64) float64 {
	if m.LotSize == 0 {
		return 0
	}
	return units / m.LotSize
}

// MinLots, MaxLots and LotStep express the venue volume constraints in lots,
// which is how operators configure fixed position sizes.
func (m Instrument) MinLots() float64 { return m.UnitsToLots(m.VolumeMin) }
func (m Instrument) MaxLots() float64 { return m.UnitsToLots(m.VolumeMax) }
func (m Instrument) LotStep() float64 { return m.UnitsToLots(m.VolumeStep) }
