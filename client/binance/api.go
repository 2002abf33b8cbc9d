package binance

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
)

// orderRequest holds the already formatted parameters of a new order.
type orderRequest struct {
	symbol     string
	side       futures.SideType
	orderType  futures.OrderType
	quantity   string
	price      string
	reduceOnly bool
}

// api is the subset of the futures sdk the exchange wrapper uses.
type api interface {
	ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error)
	PriceChangeStats(ctx context.Context, symbol string) ([]*futures.PriceChangeStats, error)
	Klines(ctx context.Context, symbol, interval string, limit int) ([]*futures.Kline, error)
	Balance(ctx context.Context) ([]*futures.Balance, error)
	GetOrder(ctx context.Context, symbol string, id int64) (*futures.Order, error)
	OpenOrders(ctx context.Context, symbol string) ([]*futures.Order, error)
	CancelOrder(ctx context.Context, symbol string, id int64) error
	PositionRisk(ctx context.Context, symbol string) ([]*futures.PositionRisk, error)
	ChangeMarginType(ctx context.Context, symbol string, marginType futures.MarginType) error
	ChangeLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, request orderRequest) (*futures.CreateOrderResponse, error)
}

func createAPI(key, secret string, testnet bool) api {
	// the sdk reads the flag when the client is created
	futures.UseTestnet = testnet
	client := binance.NewFuturesClient(key, secret)
	return newFuturesAPI(client)
}

type futuresAPI struct {
	client *futures.Client
}

func newFuturesAPI(client *futures.Client) *futuresAPI {
	return &futuresAPI{client: client}
}

func (b *futuresAPI) ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error) {
	return b.client.NewExchangeInfoService().Do(ctx)
}

func (b *futuresAPI) PriceChangeStats(ctx context.Context, symbol string) ([]*futures.PriceChangeStats, error) {
	return b.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
}

func (b *futuresAPI) Klines(ctx context.Context, symbol, interval string, limit int) ([]*futures.Kline, error) {
	return b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
}

func (b *futuresAPI) Balance(ctx context.Context) ([]*futures.Balance, error) {
	return b.client.NewGetBalanceService().Do(ctx)
}

func (b *futuresAPI) GetOrder(ctx context.Context, symbol string, id int64) (*futures.Order, error) {
	return b.client.NewGetOrderService().Symbol(symbol).OrderID(id).Do(ctx)
}

func (b *futuresAPI) OpenOrders(ctx context.Context, symbol string) ([]*futures.Order, error) {
	return b.client.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
}

func (b *futuresAPI) CancelOrder(ctx context.Context, symbol string, id int64) error {
	_, err := b.client.NewCancelOrderService().Symbol(symbol).OrderID(id).Do(ctx)
	return err
}

func (b *futuresAPI) PositionRisk(ctx context.Context, symbol string) ([]*futures.PositionRisk, error) {
	return b.client.NewGetPositionRiskService().Symbol(symbol).Do(ctx)
}

func (b *futuresAPI) ChangeMarginType(ctx context.Context, symbol string, marginType futures.MarginType) error {
	return b.client.NewChangeMarginTypeService().Symbol(symbol).MarginType(marginType).Do(ctx)
}

func (b *futuresAPI) ChangeLeverage(ctx context.Context, symbol string, leverage int) error {
	_, err := b.client.NewChangeLeverageService().Symbol(symbol).Leverage(leverage).Do(ctx)
	return err
}

func (b *futuresAPI) CreateOrder(ctx context.Context, request orderRequest) (*futures.CreateOrderResponse, error) {
	service := b.client.NewCreateOrderService().
		Symbol(request.symbol).
		Side(request.side).
		Type(request.orderType).
		Quantity(request.quantity).
		ReduceOnly(request.reduceOnly)
	if request.orderType == futures.OrderTypeLimit {
		service = service.
			Price(request.price).
			TimeInForce(futures.TimeInForceTypeGTC)
	}
	return service.Do(ctx)
}
