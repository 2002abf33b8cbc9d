package model

import (
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/drakos74/envelope/internal/model"
	"github.com/rs/zerolog/log"
)

// OrderType creates an order type converter
func OrderType() OrderTypeConverter {
	return OrderTypeConverter{
		orderTypes: map[model.OrderType]futures.OrderType{
			model.Market:     futures.OrderTypeMarket,
			model.Limit:      futures.OrderTypeLimit,
			model.StopMarket: futures.OrderTypeStopMarket,
		},
	}
}

// OrderTypeConverter converts from a binance order type model to the internal one.
type OrderTypeConverter struct {
	orderTypes map[model.OrderType]futures.OrderType
}

// From translates the type of order to binance specific representation.
func (ot OrderTypeConverter) From(t model.OrderType) futures.OrderType {
	if orderType, ok := ot.orderTypes[t]; ok {
		return orderType
	}
	log.Error().Str("type", t.String()).Msg("unexpected order type")
	return ""
}

// To translates the type of the binance order to the internal representation.
// Order types the strategy does not manage e.g. TAKE_PROFIT map to NoOrderType.
func (ot OrderTypeConverter) To(orderType futures.OrderType) model.OrderType {
	for t, ordT := range ot.orderTypes {
		if orderType == ordT {
			return t
		}
	}
	return model.NoOrderType
}

// Order converts a futures order to the internal order model.
func (c Converter) Order(o *futures.Order) (model.Order, error) {
	if o == nil {
		return model.Order{}, fmt.Errorf("nil order")
	}
	order := model.Order{
		ID:            o.OrderID,
		ClientID:      o.ClientOrderID,
		Symbol:        c.Symbol.Symbol(o.Symbol),
		Side:          c.Side.To(o.Side),
		Type:          c.OrderType.To(o.Type),
		ReduceOnly:    o.ReduceOnly,
		ClosePosition: o.ClosePosition,
		Status:        string(o.Status),
	}
	var err error
	order.Price, err = parseFloat("price", o.Price)
	if err != nil {
		return order, err
	}
	order.StopPrice, err = parseFloat("stop-price", o.StopPrice)
	if err != nil {
		return order, err
	}
	order.Volume, err = parseFloat("quantity", o.OrigQuantity)
	if err != nil {
		return order, err
	}
	return order, nil
}

// CreatedOrder converts the response of an order placement to the internal order model.
func (c Converter) CreatedOrder(o *futures.CreateOrderResponse) (model.Order, error) {
	if o == nil {
		return model.Order{}, fmt.Errorf("nil order response")
	}
	order := model.Order{
		ID:         o.OrderID,
		ClientID:   o.ClientOrderID,
		Symbol:     c.Symbol.Symbol(o.Symbol),
		Side:       c.Side.To(o.Side),
		Type:       c.OrderType.To(o.Type),
		ReduceOnly: o.ReduceOnly,
		Status:     string(o.Status),
	}
	var err error
	order.Price, err = parseFloat("price", o.Price)
	if err != nil {
		return order, err
	}
	order.Volume, err = parseFloat("quantity", o.OrigQuantity)
	if err != nil {
		return order, err
	}
	return order, nil
}

// parseFloat parses a numeric api field, the empty string counts as zero.
func parseFloat(field, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse %s '%s': %w", field, s, err)
	}
	return f, nil
}
