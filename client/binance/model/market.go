package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/drakos74/envelope/internal/model"
)

// Bar converts a kline to the internal bar model.
func (c Converter) Bar(k *futures.Kline) (model.Bar, error) {
	if k == nil {
		return model.Bar{}, fmt.Errorf("nil kline")
	}
	bar := model.Bar{
		Time: c.Time.From(k.OpenTime),
	}
	var err error
	if bar.Open, err = parseFloat("open", k.Open); err != nil {
		return bar, err
	}
	if bar.High, err = parseFloat("high", k.High); err != nil {
		return bar, err
	}
	if bar.Low, err = parseFloat("low", k.Low); err != nil {
		return bar, err
	}
	if bar.Close, err = parseFloat("close", k.Close); err != nil {
		return bar, err
	}
	if bar.Volume, err = parseFloat("volume", k.Volume); err != nil {
		return bar, err
	}
	return bar, nil
}

// Ticker converts the 24h stats to a ticker.
func (c Converter) Ticker(s *futures.PriceChangeStats) (model.Ticker, error) {
	if s == nil {
		return model.Ticker{}, fmt.Errorf("nil price stats")
	}
	ticker := model.Ticker{
		Symbol: c.Symbol.Symbol(s.Symbol),
		Time:   c.Time.From(s.CloseTime),
	}
	var err error
	if ticker.Last, err = parseFloat("last-price", s.LastPrice); err != nil {
		return ticker, err
	}
	if ticker.Open, err = parseFloat("open-price", s.OpenPrice); err != nil {
		return ticker, err
	}
	if ticker.High, err = parseFloat("high-price", s.HighPrice); err != nil {
		return ticker, err
	}
	if ticker.Low, err = parseFloat("low-price", s.LowPrice); err != nil {
		return ticker, err
	}
	if ticker.Volume, err = parseFloat("volume", s.Volume); err != nil {
		return ticker, err
	}
	return ticker, nil
}

// Balance converts the futures wallet balance of an asset.
func (c Converter) Balance(b *futures.Balance) (model.Balance, error) {
	if b == nil {
		return model.Balance{}, fmt.Errorf("nil balance")
	}
	balance := model.Balance{
		Asset: b.Asset,
	}
	var err error
	if balance.Total, err = parseFloat("balance", b.Balance); err != nil {
		return balance, err
	}
	if balance.Available, err = parseFloat("available-balance", b.AvailableBalance); err != nil {
		return balance, err
	}
	return balance, nil
}

// Position converts the position risk to a position.
// The second return value is false for empty positions.
func (c Converter) Position(p *futures.PositionRisk) (model.Position, bool, error) {
	if p == nil {
		return model.Position{}, false, fmt.Errorf("nil position")
	}
	amount, err := parseFloat("position-amount", p.PositionAmt)
	if err != nil {
		return model.Position{}, false, err
	}
	if amount == 0 {
		return model.Position{}, false, nil
	}
	position := model.Position{
		Symbol:       c.Symbol.Symbol(p.Symbol),
		Side:         model.Long,
		Contracts:    math.Abs(amount),
		ContractSize: 1,
		MarginMode:   c.Margin.To(p.MarginType),
	}
	if amount < 0 {
		position.Side = model.Short
	}
	if position.EntryPrice, err = parseFloat("entry-price", p.EntryPrice); err != nil {
		return position, false, err
	}
	if position.MarkPrice, err = parseFloat("mark-price", p.MarkPrice); err != nil {
		return position, false, err
	}
	if position.PnL, err = parseFloat("pnl", p.UnRealizedProfit); err != nil {
		return position, false, err
	}
	if p.Leverage != "" {
		if position.Leverage, err = strconv.Atoi(p.Leverage); err != nil {
			return position, false, fmt.Errorf("could not parse leverage '%s': %w", p.Leverage, err)
		}
	}
	return position, true, nil
}
