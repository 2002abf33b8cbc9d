package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	lotSizeFilter = "LOT_SIZE"
	priceFilter   = "PRICE_FILTER"
)

type LotSizeFilter struct {
	Type        string `json:"filterType"`
	MaxQuantity string `json:"maxQty"`
	MinQuantity string `json:"minQty"`
	StepSize    string `json:"stepSize"`
}

// LotSize defines the quantity rules of a symbol.
type LotSize struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Step      decimal.Decimal
	precision int32
}

func NewLotSize(filter LotSizeFilter) (LotSize, error) {
	lotSize := LotSize{}
	max, err := decimal.NewFromString(filter.MaxQuantity)
	if err != nil {
		return lotSize, fmt.Errorf("could not parse max-quantity: %w", err)
	}
	lotSize.Max = max
	min, err := decimal.NewFromString(filter.MinQuantity)
	if err != nil {
		return lotSize, fmt.Errorf("could not parse min-quantity: %w", err)
	}
	lotSize.Min = min
	step, err := decimal.NewFromString(filter.StepSize)
	if err != nil {
		return lotSize, fmt.Errorf("could not parse step-size: %w", err)
	}
	lotSize.Step = step
	lotSize.precision = precision(filter.StepSize)
	return lotSize, nil
}

// MinQuantity returns the smallest tradable amount.
func (l LotSize) MinQuantity() float64 {
	f, _ := l.Min.Float64()
	return f
}

// Truncate truncates the amount to the step size.
// The amount is never rounded up, to avoid insufficient margin when closing positions.
func (l LotSize) Truncate(amount float64) string {
	a := decimal.NewFromFloat(amount)
	if l.Step.IsZero() {
		return a.String()
	}
	return a.Div(l.Step).Floor().Mul(l.Step).StringFixed(l.precision)
}

type PriceFilter struct {
	Type     string `json:"filterType"`
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	TickSize string `json:"tickSize"`
}

// TickSize defines the price rules of a symbol.
type TickSize struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Tick      decimal.Decimal
	precision int32
}

func NewTickSize(filter PriceFilter) (TickSize, error) {
	tickSize := TickSize{}
	min, err := decimal.NewFromString(filter.MinPrice)
	if err != nil {
		return tickSize, fmt.Errorf("could not parse min-price: %w", err)
	}
	tickSize.Min = min
	max, err := decimal.NewFromString(filter.MaxPrice)
	if err != nil {
		return tickSize, fmt.Errorf("could not parse max-price: %w", err)
	}
	tickSize.Max = max
	tick, err := decimal.NewFromString(filter.TickSize)
	if err != nil {
		return tickSize, fmt.Errorf("could not parse tick-size: %w", err)
	}
	tickSize.Tick = tick
	tickSize.precision = precision(filter.TickSize)
	return tickSize, nil
}

// Round rounds the price to the nearest tick.
func (t TickSize) Round(price float64) string {
	p := decimal.NewFromFloat(price)
	if t.Tick.IsZero() {
		return p.String()
	}
	return p.Div(t.Tick).Round(0).Mul(t.Tick).StringFixed(t.precision)
}

// precision counts the significant decimals of a filter value e.g. '0.0100' -> 2
func precision(s string) int32 {
	i := strings.Index(s, ".")
	if i < 0 {
		return 0
	}
	return int32(len(strings.TrimRight(s[i+1:], "0")))
}

func parseFilter(filters []map[string]interface{}, filterType string, v interface{}) error {
	for _, f := range filters {
		if t, ok := f["filterType"].(string); !ok || t != filterType {
			continue
		}
		b, err := json.Marshal(f)
		if err != nil {
			log.Trace().Err(err).Msg("could not encode filter")
			continue
		}
		err = json.Unmarshal(b, v)
		if err != nil {
			log.Trace().Err(err).Str("map", fmt.Sprintf("%+v", f)).Str("type", filterType).Msg("could not parse filter")
			continue
		}
		return nil
	}
	return fmt.Errorf("could not find %s in: %+v", filterType, filters)
}

func ParseLOTSize(filters []map[string]interface{}) (LotSize, error) {
	var filter LotSizeFilter
	if err := parseFilter(filters, lotSizeFilter, &filter); err != nil {
		return LotSize{}, err
	}
	return NewLotSize(filter)
}

func ParseTickSize(filters []map[string]interface{}) (TickSize, error) {
	var filter PriceFilter
	if err := parseFilter(filters, priceFilter, &filter); err != nil {
		return TickSize{}, err
	}
	return NewTickSize(filter)
}
