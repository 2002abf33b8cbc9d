package binance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/drakos74/envelope/client/binance/model"
	"github.com/drakos74/envelope/internal/account"
	coinmodel "github.com/drakos74/envelope/internal/model"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotSupported is returned for operations the futures wrapper does not implement.
	ErrNotSupported = errors.New("not supported")
	// ErrUnknownSymbol is returned if the symbol is not listed in the exchange info.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

const noMarginChange = "No need to change margin type"

// Exchange is a binance usdt-margined futures client wrapper
type Exchange struct {
	api       api
	info      map[string]futures.Symbol
	converter model.Converter
	testnet   bool
}

// NewExchange creates a new binance futures exchange wrapper.
func NewExchange(secret account.Secret, opts ...Option) *Exchange {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.api == nil {
		o.api = createAPI(secret.Key, secret.Secret, o.testnet)
	}
	return &Exchange{
		api:       o.api,
		converter: model.NewConverter(),
		testnet:   o.testnet,
	}
}

// Testnet returns true if the wrapper points to the futures testnet.
func (c *Exchange) Testnet() bool {
	return c.testnet
}

// symbol returns the exchange info of the symbol.
// The info is loaded on first use and kept for the life of the wrapper.
func (c *Exchange) symbol(ctx context.Context, symbol coinmodel.Symbol) (futures.Symbol, error) {
	if c.info == nil {
		info, err := c.api.ExchangeInfo(ctx)
		if err != nil {
			return futures.Symbol{}, fmt.Errorf("could not get exchange info: %w", err)
		}
		symbols := make(map[string]futures.Symbol)
		for _, s := range info.Symbols {
			symbols[s.Symbol] = s
		}
		log.Info().
			Int("pairs", len(symbols)).
			Str("exchange", string(Name)).
			Bool("testnet", c.testnet).
			Msg("exchange info")
		c.info = symbols
	}
	s, ok := c.info[c.converter.Symbol.Pair(symbol)]
	if !ok {
		return futures.Symbol{}, fmt.Errorf("could not find exchange info for %s [%d]: %w", symbol, len(c.info), ErrUnknownSymbol)
	}
	return s, nil
}

// FetchTicker returns the 24h stats for the symbol.
func (c *Exchange) FetchTicker(ctx context.Context, symbol coinmodel.Symbol) (coinmodel.Ticker, error) {
	stats, err := c.api.PriceChangeStats(ctx, c.converter.Symbol.Pair(symbol))
	if err != nil {
		return coinmodel.Ticker{}, fmt.Errorf("could not get ticker for %s: %w", symbol, err)
	}
	for _, s := range stats {
		if s != nil && s.Symbol == c.converter.Symbol.Pair(symbol) {
			return c.converter.Ticker(s)
		}
	}
	return coinmodel.Ticker{}, fmt.Errorf("could not find ticker for %s: %w", symbol, ErrUnknownSymbol)
}

// FetchMinAmountTradable returns the minimum order quantity of the symbol.
func (c *Exchange) FetchMinAmountTradable(ctx context.Context, symbol coinmodel.Symbol) (float64, error) {
	s, err := c.symbol(ctx, symbol)
	if err != nil {
		return 0, err
	}
	lotSize, err := model.ParseLOTSize(s.Filters)
	if err != nil {
		return 0, fmt.Errorf("could not get lot size for %s: %w", symbol, err)
	}
	return lotSize.MinQuantity(), nil
}

// AmountToPrecision truncates the amount to the step size of the symbol.
func (c *Exchange) AmountToPrecision(ctx context.Context, symbol coinmodel.Symbol, amount float64) (string, error) {
	s, err := c.symbol(ctx, symbol)
	if err != nil {
		return "", err
	}
	lotSize, err := model.ParseLOTSize(s.Filters)
	if err != nil {
		return "", fmt.Errorf("could not get lot size for %s: %w", symbol, err)
	}
	return lotSize.Truncate(amount), nil
}

// PriceToPrecision rounds the price to the tick size of the symbol.
func (c *Exchange) PriceToPrecision(ctx context.Context, symbol coinmodel.Symbol, price float64) (string, error) {
	s, err := c.symbol(ctx, symbol)
	if err != nil {
		return "", err
	}
	tickSize, err := model.ParseTickSize(s.Filters)
	if err != nil {
		return "", fmt.Errorf("could not get tick size for %s: %w", symbol, err)
	}
	return tickSize.Round(price), nil
}

// FetchBalance returns the futures wallet balances keyed by asset.
func (c *Exchange) FetchBalance(ctx context.Context) (map[string]coinmodel.Balance, error) {
	bb, err := c.api.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get balance: %w", err)
	}
	balances := make(map[string]coinmodel.Balance)
	for _, b := range bb {
		balance, err := c.converter.Balance(b)
		if err != nil {
			return nil, fmt.Errorf("could not parse balance: %w", err)
		}
		balances[balance.Asset] = balance
	}
	return balances, nil
}

// FetchOrder returns the order with the given id.
func (c *Exchange) FetchOrder(ctx context.Context, id int64, symbol coinmodel.Symbol) (coinmodel.Order, error) {
	order, err := c.api.GetOrder(ctx, c.converter.Symbol.Pair(symbol), id)
	if err != nil {
		return coinmodel.Order{}, fmt.Errorf("could not get order %d: %w", id, err)
	}
	return c.converter.Order(order)
}

// FetchOpenOrders returns the open standard orders for the symbol.
func (c *Exchange) FetchOpenOrders(ctx context.Context, symbol coinmodel.Symbol) ([]coinmodel.Order, error) {
	oo, err := c.api.OpenOrders(ctx, c.converter.Symbol.Pair(symbol))
	if err != nil {
		return nil, fmt.Errorf("could not get open orders for %s: %w", symbol, err)
	}
	orders := make([]coinmodel.Order, 0, len(oo))
	for _, o := range oo {
		order, err := c.converter.Order(o)
		if err != nil {
			return nil, fmt.Errorf("could not parse order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// CancelOrder cancels the order with the given id.
func (c *Exchange) CancelOrder(ctx context.Context, id int64, symbol coinmodel.Symbol) error {
	if err := c.api.CancelOrder(ctx, c.converter.Symbol.Pair(symbol), id); err != nil {
		return fmt.Errorf("could not cancel order %d: %w", id, err)
	}
	return nil
}

// FetchOpenPositions returns the non-empty positions for the symbol.
func (c *Exchange) FetchOpenPositions(ctx context.Context, symbol coinmodel.Symbol) ([]coinmodel.Position, error) {
	risks, err := c.api.PositionRisk(ctx, c.converter.Symbol.Pair(symbol))
	if err != nil {
		return nil, fmt.Errorf("could not get positions for %s: %w", symbol, err)
	}
	positions := make([]coinmodel.Position, 0)
	for _, risk := range risks {
		position, open, err := c.converter.Position(risk)
		if err != nil {
			return nil, fmt.Errorf("could not parse position: %w", err)
		}
		if open {
			positions = append(positions, position)
		}
	}
	return positions, nil
}

// FlashClosePosition sends a reduce-only market order against the position side.
// NOTE : the order amount is zero, the exchange is expected to reject it.
func (c *Exchange) FlashClosePosition(ctx context.Context, symbol coinmodel.Symbol, side coinmodel.PositionSide) (coinmodel.Order, error) {
	return c.PlaceMarketOrder(ctx, symbol, side.Close(), 0, true)
}

// SetMarginMode sets the margin mode for the symbol.
// Setting the mode the symbol already has is not an error.
func (c *Exchange) SetMarginMode(ctx context.Context, symbol coinmodel.Symbol, mode coinmodel.MarginMode) error {
	marginType, ok := c.converter.Margin.From(mode)
	if !ok {
		return fmt.Errorf("unknown margin mode '%s'", mode)
	}
	err := c.api.ChangeMarginType(ctx, c.converter.Symbol.Pair(symbol), marginType)
	if err != nil {
		if strings.Contains(err.Error(), noMarginChange) {
			log.Debug().Str("symbol", string(symbol)).Str("mode", string(mode)).Msg("margin mode already set")
			return nil
		}
		return fmt.Errorf("could not set margin mode '%s': %w", mode, err)
	}
	return nil
}

// SetLeverage sets the leverage for the symbol.
// The margin mode is only logged, binance keeps the leverage per symbol.
func (c *Exchange) SetLeverage(ctx context.Context, symbol coinmodel.Symbol, mode coinmodel.MarginMode, leverage int) error {
	if err := c.api.ChangeLeverage(ctx, c.converter.Symbol.Pair(symbol), leverage); err != nil {
		return fmt.Errorf("could not set leverage %d: %w", leverage, err)
	}
	log.Debug().
		Str("symbol", string(symbol)).
		Str("mode", string(mode)).
		Int("leverage", leverage).
		Msg("leverage set")
	return nil
}

// FetchRecentOHLCV returns the latest bars for the symbol, oldest first.
// The last bar is the one still forming.
func (c *Exchange) FetchRecentOHLCV(ctx context.Context, symbol coinmodel.Symbol, timeframe string, limit int) (coinmodel.Bars, error) {
	interval, err := c.converter.Time.Interval(timeframe)
	if err != nil {
		return nil, err
	}
	klines, err := c.api.Klines(ctx, c.converter.Symbol.Pair(symbol), interval, limit)
	if err != nil {
		return nil, fmt.Errorf("could not get klines for %s: %w", symbol, err)
	}
	bars := make(coinmodel.Bars, 0, len(klines))
	for _, k := range klines {
		bar, err := c.converter.Bar(k)
		if err != nil {
			return nil, fmt.Errorf("could not parse kline: %w", err)
		}
		bars = append(bars, bar)
	}
	sort.Sort(bars)
	return bars, nil
}

// PlaceMarketOrder places a market order, the amount is truncated to the symbol step size.
func (c *Exchange) PlaceMarketOrder(ctx context.Context, symbol coinmodel.Symbol, side coinmodel.Side, amount float64, reduce bool) (coinmodel.Order, error) {
	order, err := coinmodel.NewOrder(symbol).
		Market().
		WithSide(side).
		WithVolume(amount).
		Reduce(reduce).
		Create()
	if err != nil {
		return order, fmt.Errorf("could not create order: %w", err)
	}
	return c.place(ctx, order)
}

// PlaceLimitOrder places a GTC limit order, amount and price follow the symbol filters.
func (c *Exchange) PlaceLimitOrder(ctx context.Context, symbol coinmodel.Symbol, side coinmodel.Side, amount, price float64, reduce bool) (coinmodel.Order, error) {
	order, err := coinmodel.NewOrder(symbol).
		Limit().
		WithSide(side).
		WithVolume(amount).
		WithPrice(price).
		Reduce(reduce).
		Create()
	if err != nil {
		return order, fmt.Errorf("could not create order: %w", err)
	}
	return c.place(ctx, order)
}

func (c *Exchange) place(ctx context.Context, order coinmodel.Order) (coinmodel.Order, error) {
	volume, err := c.AmountToPrecision(ctx, order.Symbol, order.Volume)
	if err != nil {
		return order, err
	}
	request := orderRequest{
		symbol:     c.converter.Symbol.Pair(order.Symbol),
		side:       c.converter.Side.From(order.Side),
		orderType:  c.converter.OrderType.From(order.Type),
		quantity:   volume,
		reduceOnly: order.ReduceOnly,
	}
	if order.Type == coinmodel.Limit {
		price, err := c.PriceToPrecision(ctx, order.Symbol, order.Price)
		if err != nil {
			return order, err
		}
		request.price = price
	}

	log.Debug().
		Str("volume", volume).
		Str("price", request.price).
		Str("order", fmt.Sprintf("%+v", order)).
		Msg("submit order")

	response, err := c.api.CreateOrder(ctx, request)
	if err != nil {
		return order, fmt.Errorf("could not complete order: %w", err)
	}
	return c.converter.CreatedOrder(response)
}

func notSupported(op string) error {
	log.Warn().Str("exchange", string(Name)).Str("op", op).Msg("trigger orders are handled by the signed client")
	return fmt.Errorf("%s: %w", op, ErrNotSupported)
}

// FetchOpenTriggerOrders is not supported, see the trigger client.
func (c *Exchange) FetchOpenTriggerOrders(ctx context.Context, symbol coinmodel.Symbol) ([]coinmodel.Order, error) {
	return nil, notSupported("fetch open trigger orders")
}

// FetchClosedTriggerOrders is not supported, see the trigger client.
func (c *Exchange) FetchClosedTriggerOrders(ctx context.Context, symbol coinmodel.Symbol) ([]coinmodel.Order, error) {
	return nil, notSupported("fetch closed trigger orders")
}

// CancelTriggerOrder is not supported, see the trigger client.
func (c *Exchange) CancelTriggerOrder(ctx context.Context, id int64, symbol coinmodel.Symbol) error {
	return notSupported("cancel trigger order")
}

// PlaceTriggerMarketOrder is not supported, see the trigger client.
func (c *Exchange) PlaceTriggerMarketOrder(ctx context.Context, symbol coinmodel.Symbol, side coinmodel.Side, amount, triggerPrice float64, reduce bool) (coinmodel.Order, error) {
	return coinmodel.Order{}, notSupported("place trigger market order")
}

// PlaceTriggerLimitOrder is not supported, see the trigger client.
func (c *Exchange) PlaceTriggerLimitOrder(ctx context.Context, symbol coinmodel.Symbol, side coinmodel.Side, amount, triggerPrice, price float64, reduce bool) (coinmodel.Order, error) {
	return coinmodel.Order{}, notSupported("place trigger limit order")
}
