package model

// Position is a read-only snapshot of an open futures position.
type Position struct {
	Symbol       Symbol       `json:"symbol"`
	Side         PositionSide `json:"side"`
	Contracts    float64      `json:"contracts"`
	ContractSize float64      `json:"contract_size"`
	EntryPrice   float64      `json:"entry_price"`
	MarkPrice    float64      `json:"mark_price"`
	Leverage     int          `json:"leverage"`
	MarginMode   MarginMode   `json:"margin_mode"`
	PnL          float64      `json:"pnl"`
}

// Size returns the position size in base asset units.
func (p Position) Size() float64 {
	return p.Contracts * p.ContractSize
}
