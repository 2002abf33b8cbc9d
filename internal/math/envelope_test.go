package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBand(t *testing.T) {
	band := NewBand(2000, 0.1)
	assert.InDelta(t, 1800, band.Low, 1e-9)
	assert.InDelta(t, 2222.22, band.High, 0.01)
	assert.Equal(t, "2222.22", Format(band.High))
}

func TestBands(t *testing.T) {
	envelopes := []float64{0.1, 0.2, 0.3}
	for _, kind := range Averages {
		t.Run(string(kind), func(t *testing.T) {
			avg, err := MovingAverage(kind, bars(20), 4)
			require.NoError(t, err)
			v, err := LastValue(avg)
			require.NoError(t, err)

			bands := Bands(v, envelopes)
			require.Equal(t, len(envelopes), len(bands))
			for i, e := range envelopes {
				assert.Equal(t, e, bands[i].Envelope)
				assert.InDelta(t, v*(1-e), bands[i].Low, 1e-9)
				assert.InDelta(t, v/(1-e), bands[i].High, 1e-9)
				assert.Less(t, bands[i].Low, v)
				assert.Greater(t, bands[i].High, v)
			}
		})
	}
}
