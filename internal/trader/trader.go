package trader

import (
	"context"
	"fmt"
	"math"

	"github.com/drakos74/envelope/internal/config"
	coinmath "github.com/drakos74/envelope/internal/math"
	"github.com/drakos74/envelope/internal/model"
	"github.com/drakos74/envelope/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLimit is the number of bars requested for the average calculation.
const DefaultLimit = 100

// Envelope runs one pass of the envelope strategy.
type Envelope struct {
	config   config.Strategy
	limit    int
	exchange Exchange
	triggers Triggers
	store    storage.Storage
	runID    string
	dryRun   bool
}

// NewEnvelope creates a new envelope runner for the given strategy.
func NewEnvelope(cfg config.Strategy, exchange Exchange, triggers Triggers, store storage.Storage) *Envelope {
	return &Envelope{
		config:   cfg,
		limit:    DefaultLimit,
		exchange: exchange,
		triggers: triggers,
		store:    store,
		runID:    uuid.New().String(),
	}
}

// WithLimit sets the number of bars to fetch.
func (e *Envelope) WithLimit(limit int) *Envelope {
	e.limit = limit
	return e
}

// WithRunID overrides the generated run id.
func (e *Envelope) WithRunID(id string) *Envelope {
	e.runID = id
	return e
}

// DryRun marks the report as a dry run.
// The caller is responsible for passing dry exchange, triggers and storage.
func (e *Envelope) DryRun(dryRun bool) *Envelope {
	e.dryRun = dryRun
	return e
}

// Run executes the pass.
// The tracker of the symbol is locked for the whole pass, a concurrent pass fails with storage.ErrLocked.
// Only the cancellation of old stop-loss orders is best-effort, any other failure aborts the pass.
func (e *Envelope) Run(ctx context.Context) (Report, error) {
	symbol := e.config.Symbol
	report := newReport(e.runID, symbol, e.dryRun)
	logger := log.With().Str("run", e.runID).Str("symbol", string(symbol)).Logger()

	logger.Info().Bool("dry-run", e.dryRun).Msg(">>> starting execution")

	unlock, err := e.store.Lock(ctx, storage.TrackerKey(symbol))
	if err != nil {
		return report, fmt.Errorf("could not lock tracker: %w", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Error().Err(err).Msg("could not release tracker lock")
		}
	}()

	created, err := storage.EnsureTracker(e.store, symbol)
	if err != nil {
		return report, err
	}
	report.TrackerCreated = created

	if err := e.cancelOrders(ctx, logger, &report); err != nil {
		return report, err
	}

	bars, err := e.bars(ctx)
	if err != nil {
		return report, err
	}
	if err := e.bands(bars, &report); err != nil {
		return report, err
	}
	logger.Info().
		Float64("average", report.Average).
		Float64("close", report.Close).
		Int("bars", len(bars)).
		Msg("ohlcv data fetched")

	positions, err := e.exchange.FetchOpenPositions(ctx, symbol)
	if err != nil {
		return report, fmt.Errorf("could not fetch positions: %w", err)
	}
	if len(positions) > 0 {
		position := positions[0]
		report.Position = &position
		logger.Info().Msg(fmt.Sprintf("%s position of %s contracts", position.Side, coinmath.Format(position.Size())))
	}

	if err := e.cancelStopLoss(ctx, logger, &report); err != nil {
		return report, err
	}

	if report.Position == nil {
		if err := e.exchange.SetMarginMode(ctx, symbol, e.config.MarginMode); err != nil {
			return report, fmt.Errorf("could not set margin mode: %w", err)
		}
		if err := e.exchange.SetLeverage(ctx, symbol, e.config.MarginMode, e.config.Leverage); err != nil {
			return report, fmt.Errorf("could not set leverage: %w", err)
		}
		report.AccountSetup = true
	} else {
		logger.Debug().Msg("position is open, skip margin and leverage")
	}

	balances, err := e.exchange.FetchBalance(ctx)
	if err != nil {
		return report, fmt.Errorf("could not fetch balance: %w", err)
	}
	quote, ok := balances[symbol.Quote()]
	if !ok {
		return report, fmt.Errorf("could not find %s balance [%d]", symbol.Quote(), len(balances))
	}
	report.Balance = e.config.BalanceFraction * float64(e.config.Leverage) * quote.Total
	logger.Info().
		Float64("balance", report.Balance).
		Float64("used", quote.Used()).
		Msg(fmt.Sprintf("trading balance is %v", report.Balance))

	if err := e.placeStopLoss(ctx, logger, &report); err != nil {
		return report, err
	}

	// NOTE : the ids of the new stop-loss orders are not recorded
	tracker, err := storage.LoadTracker(e.store, symbol)
	if err != nil {
		return report, fmt.Errorf("could not read tracker: %w", err)
	}
	if err := storage.SaveTracker(e.store, symbol, tracker); err != nil {
		return report, err
	}

	logger.Info().
		Int("stops", len(report.Placed())).
		Int("skipped", len(report.Skipped)).
		Msg("<<< all done")
	return report, nil
}

// cancelOrders cancels all open standard orders of the symbol.
func (e *Envelope) cancelOrders(ctx context.Context, logger zerolog.Logger, report *Report) error {
	orders, err := e.exchange.FetchOpenOrders(ctx, e.config.Symbol)
	if err != nil {
		return fmt.Errorf("could not fetch open orders: %w", err)
	}
	for _, order := range orders {
		if err := e.exchange.CancelOrder(ctx, order.ID, e.config.Symbol); err != nil {
			return fmt.Errorf("could not cancel order %d: %w", order.ID, err)
		}
		report.Cancelled = append(report.Cancelled, order.ID)
	}
	logger.Info().Int("orders", len(report.Cancelled)).Msg("orders cancelled")
	return nil
}

// bars fetches the recent bars, without the one still forming.
func (e *Envelope) bars(ctx context.Context) (model.Bars, error) {
	bars, err := e.exchange.FetchRecentOHLCV(ctx, e.config.Symbol, e.config.Timeframe, e.limit)
	if err != nil {
		return nil, fmt.Errorf("could not fetch ohlcv: %w", err)
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("not enough bars: %d", len(bars))
	}
	return bars[:len(bars)-1], nil
}

func (e *Envelope) bands(bars model.Bars, report *Report) error {
	series, err := coinmath.MovingAverage(e.config.AverageType, bars, e.config.AveragePeriod)
	if err != nil {
		return fmt.Errorf("could not calculate average: %w", err)
	}
	average, err := coinmath.LastValue(series)
	if err != nil {
		return fmt.Errorf("could not calculate %s(%d): %w", e.config.AverageType, e.config.AveragePeriod, err)
	}
	last, _ := bars.Last()
	report.Average = average
	report.Close = last.Close
	report.Bands = coinmath.Bands(average, e.config.Envelopes)
	return nil
}

// cancelStopLoss cancels the stop-loss orders recorded in the tracker and clears them.
// Failed cancellations are logged and skipped.
func (e *Envelope) cancelStopLoss(ctx context.Context, logger zerolog.Logger, report *Report) error {
	symbol := e.config.Symbol
	tracker, err := storage.LoadTracker(e.store, symbol)
	if err != nil {
		return fmt.Errorf("could not read tracker: %w", err)
	}

	for _, id := range tracker.StopLossIDs {
		response, err := e.triggers.CancelOrder(ctx, symbol, id)
		if err != nil {
			logger.Warn().Err(err).Int64("id", id).Msg("failed to cancel SL order")
			report.StopLossFailed = append(report.StopLossFailed, id)
			continue
		}
		if apiErr, ok := response.APIError(); ok {
			logger.Warn().Err(apiErr).Int64("id", id).Msg("failed to cancel SL order")
			report.StopLossFailed = append(report.StopLossFailed, id)
			continue
		}
		logger.Info().Int64("id", id).Msg("cancelled old SL order")
		report.StopLossDone = append(report.StopLossDone, id)
	}

	tracker.ClearStopLoss()
	if err := storage.SaveTracker(e.store, symbol, tracker); err != nil {
		return err
	}
	return nil
}

// placeStopLoss places the stop-loss orders for every envelope.
// Envelopes with an amount below the exchange minimum are skipped.
func (e *Envelope) placeStopLoss(ctx context.Context, logger zerolog.Logger, report *Report) error {
	symbol := e.config.Symbol
	if report.Close <= 0 || math.IsNaN(report.Close) {
		return fmt.Errorf("invalid close price: %f", report.Close)
	}
	amount := report.Balance / float64(len(e.config.Envelopes)) / report.Close

	minAmount, err := e.exchange.FetchMinAmountTradable(ctx, symbol)
	if err != nil {
		return fmt.Errorf("could not fetch min amount: %w", err)
	}
	report.MinAmount = minAmount

	for _, band := range report.Bands {
		if amount < minAmount {
			logger.Debug().
				Float64("envelope", band.Envelope).
				Float64("amount", amount).
				Float64("min", minAmount).
				Msg("amount below minimum, skip envelope")
			report.Skipped = append(report.Skipped, band.Envelope)
			continue
		}
		if e.config.UseLongs {
			stop := Stop{
				Envelope: band.Envelope,
				Side:     model.Sell,
				Price:    band.Low * (1 - e.config.StopLossPct),
				Amount:   amount,
			}
			if err := e.place(ctx, logger, &stop); err != nil {
				return err
			}
			report.Stops = append(report.Stops, stop)
			logger.Info().Msg(fmt.Sprintf("placed long stop-loss at %v", stop.Price))
		}
		if e.config.UseShorts {
			stop := Stop{
				Envelope: band.Envelope,
				Side:     model.Buy,
				Price:    band.High * (1 + e.config.StopLossPct),
				Amount:   amount,
			}
			if err := e.place(ctx, logger, &stop); err != nil {
				return err
			}
			report.Stops = append(report.Stops, stop)
			logger.Info().Msg(fmt.Sprintf("placed short stop-loss at %v", stop.Price))
		}
	}
	return nil
}

// place sends the stop order, the exchange response is recorded in the stop.
// Only transport failures are returned as errors.
func (e *Envelope) place(ctx context.Context, logger zerolog.Logger, stop *Stop) error {
	response, err := e.triggers.PlaceStopMarketOrder(ctx, e.config.Symbol, stop.Side, stop.Amount, stop.Price, true)
	if err != nil {
		return fmt.Errorf("could not place stop-loss at %f: %w", stop.Price, err)
	}
	if apiErr, ok := response.APIError(); ok {
		logger.Error().Err(apiErr).Float64("stop", stop.Price).Str("side", stop.Side.String()).Msg("stop-loss rejected")
		stop.Error = apiErr.Error()
		return nil
	}
	if id, ok := response.OrderID(); ok {
		stop.OrderID = id
	}
	return nil
}
