package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopSpecMagnitude(t *testing.T) {
	t.Parallel()

	spread := 0.0002
	atr := 0.0050

	tests := []struct {
		name string
		spec StopSpec
		want float64
	}{
		{"level_passthrough", StopSpec{Mode: ModeLevel, Value: 1.0900}, 1.0900},
		{"distance_in_ticks", StopSpec{Mode: ModeDistance, Value: 50}, 50 * eurusd.TickSize},
		{"atr_multiple", StopSpec{Mode: ModeATR, Value: 2}, 0.0100},
		{"spread_multiple", StopSpec{Mode: ModeSpreads, Value: 3}, 0.0006},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.spec.Magnitude(eurusd, spread, atr), 1e-9)
		})
	}
}

func TestLevelToDistance(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0050, LevelToDistance(1.0950, 1.0900), 1e-9)
	assert.InDelta(t, 0.0050, LevelToDistance(1.0900, 1.0950), 1e-9)
	assert.Zero(t, LevelToDistance(1.0950, 0))
}
