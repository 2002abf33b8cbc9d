package model

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// OrderType defines the price conditions for an order i.e. market price, limit price etc ...
type OrderType byte

const (
	// NoOrderType means the order type is missing
	NoOrderType OrderType = iota
	// Market defines a market order
	Market
	// Limit defines a limit order
	Limit
	// StopMarket defines a market order triggered once the stop price is crossed
	StopMarket
)

// String returns the exchange representation of the order type.
func (t OrderType) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	case StopMarket:
		return "STOP_MARKET"
	}
	return ""
}

// Order defines an order
type Order struct {
	ID            int64     `json:"id"`
	ClientID      string    `json:"client_id"`
	Symbol        Symbol    `json:"symbol"`
	Side          Side      `json:"side"`
	Type          OrderType `json:"type"`
	Price         float64   `json:"price"`
	StopPrice     float64   `json:"stop_price"`
	Volume        float64   `json:"volume"`
	ReduceOnly    bool      `json:"reduce_only"`
	ClosePosition bool      `json:"close_position"`
	Status        string    `json:"status"`
}

// NewOrder creates a new order for the given symbol.
func NewOrder(symbol Symbol) *Order {
	return &Order{
		Symbol: symbol,
	}
}

// WithSide defines the side of the order.
func (o *Order) WithSide(s Side) *Order {
	o.Side = s
	return o
}

// WithPrice defines the price for the order (if needed).
func (o *Order) WithPrice(p float64) *Order {
	o.Price = p
	return o
}

// WithVolume defines the volume for this order.
func (o *Order) WithVolume(v float64) *Order {
	o.Volume = v
	return o
}

// Market defines an order with market order type.
func (o *Order) Market() *Order {
	o.Type = Market
	return o
}

// Limit defines an order with limit order type.
func (o *Order) Limit() *Order {
	o.Type = Limit
	return o
}

// Reduce marks the order as reduce-only.
func (o *Order) Reduce(reduce bool) *Order {
	o.ReduceOnly = reduce
	return o
}

// Create creates the order based on the given details
// after a sanity check on the current parameters.
// NOTE : the volume is not checked, a zero volume market order is a valid request
// that the exchange will reject.
func (o *Order) Create() (Order, error) {
	if o.Side == NoSide {
		return *o, fmt.Errorf("cannot create order without side: %+v", o)
	}
	switch o.Type {
	case Limit:
		if o.Price <= 0 {
			return *o, fmt.Errorf("limit order price must be larger than '0': %f", o.Price)
		}
	case Market:
	default:
		return *o, fmt.Errorf("cannot create order without order type: %v", o.Type)
	}
	log.Debug().Str("order", fmt.Sprintf("%+v", o)).Msg("creating order")
	return *o, nil
}
