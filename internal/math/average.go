package math

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/drakos74/envelope/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrUnsupportedAverage is returned for an unknown moving average type.
var ErrUnsupportedAverage = errors.New("unsupported average type")

// Average defines the moving average kind used as the envelope centre.
type Average string

const (
	// SMA is the simple moving average of closes.
	SMA Average = "SMA"
	// EMA is the exponential moving average of closes.
	EMA Average = "EMA"
	// WMA is the linearly weighted moving average of closes.
	WMA Average = "WMA"
	// DCM is the donchian channel middle band of highs and lows.
	DCM Average = "DCM"
)

// Averages lists the supported kinds.
var Averages = []Average{SMA, EMA, WMA, DCM}

// ParseAverage parses the average kind, case-insensitive.
func ParseAverage(s string) (Average, error) {
	a := Average(strings.ToUpper(s))
	for _, known := range Averages {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%s: %w", s, ErrUnsupportedAverage)
}

// MovingAverage calculates the average series of the given kind over the bars.
// The first period-1 values are NaN, as there is not enough history for them.
func MovingAverage(kind Average, bars model.Bars, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid period %d", period)
	}
	switch kind {
	case SMA:
		return SimpleMA(bars.Closes(), period), nil
	case EMA:
		return ExponentialMA(bars.Closes(), period), nil
	case WMA:
		return WeightedMA(bars.Closes(), period), nil
	case DCM:
		return DonchianMid(bars.Highs(), bars.Lows(), period), nil
	}
	return nil, fmt.Errorf("%s: %w", kind, ErrUnsupportedAverage)
}

// SimpleMA is the rolling mean of the values over the period.
func SimpleMA(values []float64, period int) []float64 {
	out := nans(len(values))
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], nil)
	}
	return out
}

// WeightedMA is the rolling mean with linear weights 1..period, the most recent value weighing the most.
func WeightedMA(values []float64, period int) []float64 {
	weights := make([]float64, period)
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	out := nans(len(values))
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], weights)
	}
	return out
}

// ExponentialMA is the recursive ema with smoothing 2/(period+1) seeded with the first value.
func ExponentialMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2 / (float64(period) + 1)
	ema := values[0]
	for i, v := range values {
		if i > 0 {
			ema = alpha*v + (1-alpha)*ema
		}
		if i >= period-1 {
			out[i] = ema
		}
	}
	return out
}

// DonchianMid is the middle of the rolling highest high and lowest low.
func DonchianMid(highs, lows []float64, period int) []float64 {
	n := len(highs)
	if len(lows) < n {
		n = len(lows)
	}
	out := nans(n)
	for i := period - 1; i < n; i++ {
		high := floats.Max(highs[i-period+1 : i+1])
		low := floats.Min(lows[i-period+1 : i+1])
		out[i] = (high-low)/2 + low
	}
	return out
}

func nans(n int) []float64 {
	ff := make([]float64, n)
	for i := range ff {
		ff[i] = math.NaN()
	}
	return ff
}
