package model

import (
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/drakos74/envelope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filters = []map[string]interface{}{
	{
		"filterType": "PRICE_FILTER",
		"minPrice":   "39.86",
		"maxPrice":   "306177",
		"tickSize":   "0.01",
	},
	{
		"filterType": "LOT_SIZE",
		"minQty":     "0.001",
		"maxQty":     "10000",
		"stepSize":   "0.001",
	},
	{
		"filterType": "MARKET_LOT_SIZE",
		"minQty":     "0.001",
		"maxQty":     "2000",
		"stepSize":   "0.001",
	},
}

func TestParseLOTSize(t *testing.T) {
	lotSize, err := ParseLOTSize(filters)
	require.NoError(t, err)
	assert.Equal(t, 0.001, lotSize.MinQuantity())

	type test struct {
		amount float64
		s      string
	}

	tests := map[string]test{
		"truncate": {
			amount: 0.12389,
			s:      "0.123",
		},
		"exact": {
			amount: 0.3,
			s:      "0.300",
		},
		"below-step": {
			amount: 0.0009,
			s:      "0.000",
		},
		"large": {
			amount: 12.9999,
			s:      "12.999",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.s, lotSize.Truncate(tt.amount))
		})
	}

	_, err = ParseLOTSize(filters[:1])
	assert.Error(t, err)
}

func TestParseTickSize(t *testing.T) {
	tickSize, err := ParseTickSize(filters)
	require.NoError(t, err)

	assert.Equal(t, "1800.00", tickSize.Round(1800))
	assert.Equal(t, "2222.22", tickSize.Round(2222.2222))
	assert.Equal(t, "900.01", tickSize.Round(900.005))
	assert.Equal(t, "0.10", tickSize.Round(0.1))
}

func TestPrecision(t *testing.T) {
	assert.Equal(t, int32(0), precision("1"))
	assert.Equal(t, int32(0), precision("1.000"))
	assert.Equal(t, int32(2), precision("0.0100"))
	assert.Equal(t, int32(3), precision("0.001"))
}

func TestSymbolConverter(t *testing.T) {
	c := Symbol()
	assert.Equal(t, "ETHUSDT", c.Pair(model.ETHUSDT))
	assert.Equal(t, model.ETHUSDT, c.Symbol("ETHUSDT"))
	assert.Equal(t, model.Symbol("SOL/USDT"), c.Symbol("SOLUSDT"))
	assert.Equal(t, model.Symbol("XYZ"), c.Symbol("XYZ"))
}

func TestTimeConverter(t *testing.T) {
	c := Time()
	interval, err := c.Interval("1h")
	assert.NoError(t, err)
	assert.Equal(t, "1h", interval)
	_, err = c.Interval("1y")
	assert.Error(t, err)
}

func TestConverter_Position(t *testing.T) {
	c := NewConverter()

	type test struct {
		risk     futures.PositionRisk
		open     bool
		position model.Position
	}

	tests := map[string]test{
		"long": {
			risk: futures.PositionRisk{
				Symbol:           "ETHUSDT",
				PositionAmt:      "0.500",
				EntryPrice:       "2000.0",
				MarkPrice:        "2100.0",
				UnRealizedProfit: "50.0",
				Leverage:         "2",
				MarginType:       "isolated",
			},
			open: true,
			position: model.Position{
				Symbol:       model.ETHUSDT,
				Side:         model.Long,
				Contracts:    0.5,
				ContractSize: 1,
				EntryPrice:   2000,
				MarkPrice:    2100,
				PnL:          50,
				Leverage:     2,
				MarginMode:   model.Isolated,
			},
		},
		"short": {
			risk: futures.PositionRisk{
				Symbol:      "ETHUSDT",
				PositionAmt: "-1.2",
				Leverage:    "5",
				MarginType:  "cross",
			},
			open: true,
			position: model.Position{
				Symbol:       model.ETHUSDT,
				Side:         model.Short,
				Contracts:    1.2,
				ContractSize: 1,
				Leverage:     5,
				MarginMode:   model.Cross,
			},
		},
		"empty": {
			risk: futures.PositionRisk{
				Symbol:      "ETHUSDT",
				PositionAmt: "0.000",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			risk := tt.risk
			position, open, err := c.Position(&risk)
			require.NoError(t, err)
			assert.Equal(t, tt.open, open)
			if tt.open {
				assert.Equal(t, tt.position, position)
			}
		})
	}

	_, _, err := c.Position(&futures.PositionRisk{PositionAmt: "abc"})
	assert.Error(t, err)
}

func TestConverter_Order(t *testing.T) {
	c := NewConverter()
	order, err := c.Order(&futures.Order{
		Symbol:       "ETHUSDT",
		OrderID:      12,
		Side:         futures.SideTypeSell,
		Type:         futures.OrderTypeStopMarket,
		Status:       futures.OrderStatusTypeNew,
		StopPrice:    "900.00",
		OrigQuantity: "0.1",
		ReduceOnly:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Order{
		ID:         12,
		Symbol:     model.ETHUSDT,
		Side:       model.Sell,
		Type:       model.StopMarket,
		StopPrice:  900,
		Volume:     0.1,
		ReduceOnly: true,
		Status:     "NEW",
	}, order)
}

func TestConverter_Bar(t *testing.T) {
	c := NewConverter()
	bar, err := c.Bar(&futures.Kline{
		OpenTime: 1700000000000,
		Open:     "1",
		High:     "3",
		Low:      "0.5",
		Close:    "2",
		Volume:   "100",
	})
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1700000000000), bar.Time)
	assert.Equal(t, 2.0, bar.Close)

	_, err = c.Bar(&futures.Kline{Close: "x"})
	assert.Error(t, err)
}
