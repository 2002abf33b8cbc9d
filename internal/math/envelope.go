package math

import (
	"fmt"
	"math"
)

// Band is the envelope around the average for one envelope fraction.
type Band struct {
	Envelope float64 `json:"envelope"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
}

// NewBand creates the band for the given average value.
// low = average * (1-e) and high = average / (1-e), so that both sides are symmetric in log space.
func NewBand(average, envelope float64) Band {
	return Band{
		Envelope: envelope,
		Low:      average * (1 - envelope),
		High:     average / (1 - envelope),
	}
}

// Bands creates a band for every envelope on the given average value.
func Bands(average float64, envelopes []float64) []Band {
	bands := make([]Band, len(envelopes))
	for i, e := range envelopes {
		bands[i] = NewBand(average, e)
	}
	return bands
}

// LastValue returns the last value of the series, failing if it is not a number.
func LastValue(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("empty series")
	}
	v := series[len(series)-1]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("not enough values in series of %d", len(series))
	}
	return v, nil
}

// Format formats a float with 2 decimals.
func Format(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
