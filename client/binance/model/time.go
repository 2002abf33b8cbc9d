package model

import (
	"fmt"
	"time"
)

var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
}

func Time() TimeConverter {
	return TimeConverter{}
}

type TimeConverter struct {
}

// Interval validates the timeframe against the kline intervals of the exchange.
func (t TimeConverter) Interval(timeframe string) (string, error) {
	if _, ok := intervals[timeframe]; !ok {
		return "", fmt.Errorf("unknown kline interval '%s'", timeframe)
	}
	return timeframe, nil
}

func (t TimeConverter) From(ms int64) time.Time {
	return time.UnixMilli(ms)
}
