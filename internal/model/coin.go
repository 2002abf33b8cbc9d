package model

import (
	"fmt"
	"strings"
)

// Symbol defines a futures market in the unified form e.g. ETH/USDT.
type Symbol string

const (
	// NoSymbol is an undefined market
	NoSymbol Symbol = ""
	// ETHUSDT is the ethereum usdt-margined perpetual
	ETHUSDT Symbol = "ETH/USDT"
	// BTCUSDT is the bitcoin usdt-margined perpetual
	BTCUSDT Symbol = "BTC/USDT"
)

// Pair returns the exchange representation of the symbol e.g. ETHUSDT.
func (s Symbol) Pair() string {
	return strings.ReplaceAll(string(s), "/", "")
}

// Slug returns a filesystem friendly representation of the symbol e.g. ETH-USDT.
func (s Symbol) Slug() string {
	return strings.ReplaceAll(string(s), "/", "-")
}

// Quote returns the settlement asset of the symbol.
// If the symbol carries no delimiter USDT is assumed.
func (s Symbol) Quote() string {
	parts := strings.Split(string(s), "/")
	if len(parts) != 2 {
		return "USDT"
	}
	return parts[1]
}

// Side defines the side of an order buy or sell.
type Side byte

const (
	// NoSide defines a missing order side.
	NoSide Side = iota
	// Buy defines a buy order.
	Buy
	// Sell defines a sell order.
	Sell
)

// ParseSide parses the side from its string representation, case-insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return NoSide, fmt.Errorf("unknown side '%s'", s)
}

// String returns the exchange representation of the side.
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return ""
}

// PositionSide is the direction of an open position.
type PositionSide string

const (
	// Long is a position that profits from price increase.
	Long PositionSide = "long"
	// Short is a position that profits from price decrease.
	Short PositionSide = "short"
)

// Close returns the order side that reduces the position.
func (p PositionSide) Close() Side {
	switch p {
	case Long:
		return Sell
	case Short:
		return Buy
	}
	return NoSide
}

// MarginMode defines the collateral mode of a futures position.
type MarginMode string

const (
	// Isolated keeps the margin of each position separate.
	Isolated MarginMode = "isolated"
	// Cross shares the account balance as margin for all positions.
	Cross MarginMode = "cross"
)

// Valid returns true if the margin mode is one of the known modes.
func (m MarginMode) Valid() bool {
	return m == Isolated || m == Cross
}
