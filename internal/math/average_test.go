package math

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/drakos74/envelope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bars creates a series with closes 1..n, highs close+1 and lows close-1.
func bars(n int) model.Bars {
	now := time.Now()
	bb := make(model.Bars, n)
	for i := 0; i < n; i++ {
		c := float64(i + 1)
		bb[i] = model.Bar{
			Time:  now.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bb
}

func TestMovingAverage(t *testing.T) {

	type test struct {
		kind  Average
		first int
		value float64
		last  float64
	}

	tests := map[string]test{
		"sma": {
			kind:  SMA,
			first: 3,
			value: 2.5,
			last:  8.5,
		},
		"ema": {
			kind:  EMA,
			first: 3,
			value: 2.824,
			last:  8.515116544,
		},
		"wma": {
			kind:  WMA,
			first: 3,
			value: 3,
			last:  9,
		},
		"dcm": {
			kind:  DCM,
			first: 3,
			value: 2.5,
			last:  8.5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			avg, err := MovingAverage(tt.kind, bars(10), 4)
			require.NoError(t, err)
			require.Equal(t, 10, len(avg))
			for i := 0; i < tt.first; i++ {
				assert.True(t, math.IsNaN(avg[i]), "expected NaN at %d", i)
			}
			assert.InDelta(t, tt.value, avg[tt.first], 1e-9)
			assert.InDelta(t, tt.last, avg[len(avg)-1], 1e-9)
		})
	}
}

func TestMovingAverage_Unsupported(t *testing.T) {
	_, err := MovingAverage(Average("XYZ"), bars(10), 4)
	assert.True(t, errors.Is(err, ErrUnsupportedAverage))

	_, err = ParseAverage("XYZ")
	assert.True(t, errors.Is(err, ErrUnsupportedAverage))

	a, err := ParseAverage("wma")
	assert.NoError(t, err)
	assert.Equal(t, WMA, a)

	_, err = MovingAverage(SMA, bars(10), 0)
	assert.Error(t, err)
}

func TestMovingAverage_ShortSeries(t *testing.T) {
	for _, kind := range Averages {
		avg, err := MovingAverage(kind, bars(3), 4)
		require.NoError(t, err)
		_, err = LastValue(avg)
		assert.Error(t, err, string(kind))
	}
	_, err := LastValue(nil)
	assert.Error(t, err)
}
