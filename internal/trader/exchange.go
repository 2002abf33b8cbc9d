package trader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/drakos74/envelope/client/binance/trigger"
	"github.com/drakos74/envelope/internal/model"
	"github.com/rs/zerolog/log"
)

// Exchange is the exchange session the runner drives.
type Exchange interface {
	FetchOpenOrders(ctx context.Context, symbol model.Symbol) ([]model.Order, error)
	CancelOrder(ctx context.Context, id int64, symbol model.Symbol) error
	FetchRecentOHLCV(ctx context.Context, symbol model.Symbol, timeframe string, limit int) (model.Bars, error)
	FetchOpenPositions(ctx context.Context, symbol model.Symbol) ([]model.Position, error)
	SetMarginMode(ctx context.Context, symbol model.Symbol, mode model.MarginMode) error
	SetLeverage(ctx context.Context, symbol model.Symbol, mode model.MarginMode, leverage int) error
	FetchBalance(ctx context.Context) (map[string]model.Balance, error)
	FetchMinAmountTradable(ctx context.Context, symbol model.Symbol) (float64, error)
}

// Triggers places and cancels the stop-loss orders.
type Triggers interface {
	PlaceStopMarketOrder(ctx context.Context, symbol model.Symbol, side model.Side, quantity, stopPrice float64, reduceOnly bool) (trigger.Response, error)
	CancelOrder(ctx context.Context, symbol model.Symbol, orderID int64) (trigger.Response, error)
}

// DryExchange reads from the exchange but only logs the calls that change the account.
type DryExchange struct {
	Exchange
}

func NewDryExchange(exchange Exchange) *DryExchange {
	return &DryExchange{Exchange: exchange}
}

func (d *DryExchange) CancelOrder(ctx context.Context, id int64, symbol model.Symbol) error {
	log.Info().Int64("id", id).Str("symbol", string(symbol)).Msg("dry-run: cancel order")
	return nil
}

func (d *DryExchange) SetMarginMode(ctx context.Context, symbol model.Symbol, mode model.MarginMode) error {
	log.Info().Str("mode", string(mode)).Str("symbol", string(symbol)).Msg("dry-run: set margin mode")
	return nil
}

func (d *DryExchange) SetLeverage(ctx context.Context, symbol model.Symbol, mode model.MarginMode, leverage int) error {
	log.Info().Int("leverage", leverage).Str("symbol", string(symbol)).Msg("dry-run: set leverage")
	return nil
}

// DryTriggers logs the stop orders instead of sending them.
// Every placed order gets a local sequential id.
type DryTriggers struct {
	id int64
}

func NewDryTriggers() *DryTriggers {
	return &DryTriggers{}
}

func (d *DryTriggers) PlaceStopMarketOrder(ctx context.Context, symbol model.Symbol, side model.Side, quantity, stopPrice float64, reduceOnly bool) (trigger.Response, error) {
	log.Info().
		Str("symbol", string(symbol)).
		Str("side", side.String()).
		Float64("quantity", quantity).
		Float64("stop", stopPrice).
		Bool("reduce", reduceOnly).
		Msg("dry-run: place stop-market order")
	d.id++
	return dryResponse(d.id, "NEW"), nil
}

func (d *DryTriggers) CancelOrder(ctx context.Context, symbol model.Symbol, orderID int64) (trigger.Response, error) {
	log.Info().Int64("id", orderID).Str("symbol", string(symbol)).Msg("dry-run: cancel stop-loss order")
	return dryResponse(orderID, "CANCELED"), nil
}

func dryResponse(id int64, status string) trigger.Response {
	return trigger.Response{
		Status: http.StatusOK,
		Body:   json.RawMessage(fmt.Sprintf(`{"orderId":%d,"status":"%s"}`, id, status)),
	}
}
