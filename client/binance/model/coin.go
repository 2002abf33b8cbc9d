package model

import (
	"strings"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/drakos74/envelope/internal/model"
	"github.com/rs/zerolog/log"
)

// Symbol creates a new symbol converter for binance futures.
func Symbol() SymbolConverter {
	return SymbolConverter{symbols: map[string]model.Symbol{
		model.ETHUSDT.Pair(): model.ETHUSDT,
		model.BTCUSDT.Pair(): model.BTCUSDT,
	}}
}

// SymbolConverter converts from the internal symbol representation to binance specific model
type SymbolConverter struct {
	symbols map[string]model.Symbol
}

// Pair transforms the internal symbol to an exchange traded pair.
func (c SymbolConverter) Pair(s model.Symbol) string {
	return s.Pair()
}

// Symbol transforms the binance pair representation to the internal symbol.
func (c SymbolConverter) Symbol(pair string) model.Symbol {
	if s, ok := c.symbols[pair]; ok {
		return s
	}
	for _, quote := range []string{"USDT", "BUSD", "USDC"} {
		if base := strings.TrimSuffix(pair, quote); base != pair && base != "" {
			return model.Symbol(base + "/" + quote)
		}
	}
	return model.Symbol(pair)
}

// Side creates a new side converter for binance.
func Side() SideConverter {
	return SideConverter{sides: map[model.Side]futures.SideType{
		model.Buy:  futures.SideTypeBuy,
		model.Sell: futures.SideTypeSell,
	}}
}

// SideConverter converts between binance and internal order sides.
type SideConverter struct {
	sides map[model.Side]futures.SideType
}

// To transforms from a binance side representation to the internal model.
func (t SideConverter) To(s futures.SideType) model.Side {
	for side, ts := range t.sides {
		if ts == s {
			return side
		}
	}
	log.Error().Str("side", string(s)).Msg("unexpected side")
	return model.NoSide
}

// From transforms from the internal model representation to the binance model.
func (t SideConverter) From(s model.Side) futures.SideType {
	if ts, ok := t.sides[s]; ok {
		return ts
	}
	log.Error().Str("side", s.String()).Msg("unexpected side")
	return ""
}

// Margin creates a margin mode converter.
func Margin() MarginConverter {
	return MarginConverter{modes: map[model.MarginMode]futures.MarginType{
		model.Isolated: futures.MarginTypeIsolated,
		model.Cross:    futures.MarginTypeCrossed,
	}}
}

// MarginConverter converts between binance margin types and the internal margin modes.
type MarginConverter struct {
	modes map[model.MarginMode]futures.MarginType
}

// From transforms the margin mode to the binance margin type.
func (m MarginConverter) From(mode model.MarginMode) (futures.MarginType, bool) {
	mt, ok := m.modes[mode]
	return mt, ok
}

// To parses the margin type as reported on positions e.g. 'isolated' or 'cross'.
func (m MarginConverter) To(s string) model.MarginMode {
	switch strings.ToLower(s) {
	case "isolated":
		return model.Isolated
	case "cross", "crossed":
		return model.Cross
	}
	return ""
}
