package model

import "time"

// Ticker is a 24h snapshot of a market.
type Ticker struct {
	Symbol Symbol
	Last   float64
	Open   float64
	High   float64
	Low    float64
	Volume float64
	Time   time.Time
}

// Bar is an ohlcv candle.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Bars is a series of candles.
type Bars []Bar

// for sorting by time
func (b Bars) Len() int           { return len(b) }
func (b Bars) Less(i, j int) bool { return b[i].Time.Before(b[j].Time) }
func (b Bars) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Closes returns the close prices of the series.
func (b Bars) Closes() []float64 {
	ff := make([]float64, len(b))
	for i, bar := range b {
		ff[i] = bar.Close
	}
	return ff
}

// Highs returns the high prices of the series.
func (b Bars) Highs() []float64 {
	ff := make([]float64, len(b))
	for i, bar := range b {
		ff[i] = bar.High
	}
	return ff
}

// Lows returns the low prices of the series.
func (b Bars) Lows() []float64 {
	ff := make([]float64, len(b))
	for i, bar := range b {
		ff[i] = bar.Low
	}
	return ff
}

// Last returns the most recent bar.
func (b Bars) Last() (Bar, bool) {
	if len(b) == 0 {
		return Bar{}, false
	}
	return b[len(b)-1], true
}
