package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/drakos74/envelope/client/binance"
	"github.com/drakos74/envelope/client/binance/trigger"
	"github.com/drakos74/envelope/internal/account"
	"github.com/drakos74/envelope/internal/config"
	"github.com/drakos74/envelope/internal/emoji"
	"github.com/drakos74/envelope/internal/metrics"
	"github.com/drakos74/envelope/internal/storage"
	json_storage "github.com/drakos74/envelope/internal/storage/file/json"
	redis_storage "github.com/drakos74/envelope/internal/storage/redis"
	"github.com/drakos74/envelope/internal/trader"
	"github.com/drakos74/envelope/user/telegram"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	configPath := flag.String("config", "", "path to the config file")
	dryRun := flag.Bool("dry-run", false, "fetch market data but do not change the account")
	jsonLogs := flag.Bool("json-logs", false, "log in json instead of the console format")
	debug := flag.Bool("debug", false, "enable debug logs")
	flag.Parse()

	if !*jsonLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	}
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file")
	}

	if err := run(*configPath, *dryRun); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(configPath string, dryRun bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := newStorage(cfg, dryRun)
	if err != nil {
		return err
	}
	secret, err := account.Load(cfg.Account.KeyPath, account.Name(cfg.Account.Name), account.Binance)
	if err != nil {
		return fmt.Errorf("could not load credentials: %w", err)
	}

	futures := binance.NewExchange(secret, binance.Testnet(cfg.Exchange.Testnet))
	log.Info().
		Bool("testnet", futures.Testnet()).
		Str("triggers", cfg.Exchange.TriggerURL).
		Bool("dry-run", dryRun).
		Msg("exchange session ready")

	var exchange trader.Exchange = futures
	var triggers trader.Triggers = trigger.NewClient(secret.Key, secret.Secret).
		WithBaseURL(cfg.Exchange.TriggerURL).
		WithTimeout(cfg.Exchange.Timeout)
	if dryRun {
		exchange = trader.NewDryExchange(exchange)
		triggers = trader.NewDryTriggers()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	report, runErr := trader.NewEnvelope(cfg.Strategy, exchange, triggers, store).
		WithLimit(cfg.OHLCVLimit).
		WithRunID(uuid.New().String()).
		DryRun(dryRun).
		Run(ctx)

	record(cfg, report, runErr, time.Since(start))
	notify(cfg, report, runErr)
	return runErr
}

func newStorage(cfg config.Config, dryRun bool) (storage.Storage, error) {
	var store storage.Storage
	switch cfg.Storage.Backend {
	case config.RedisBackend:
		store = redis_storage.NewStorage(redis_storage.NewClient(cfg.Storage.Redis), cfg.Storage.Prefix).
			WithLockTTL(cfg.LockTTL())
	default:
		s, err := json_storage.NewBlobStorage(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		store = s
	}
	if dryRun {
		return storage.NewVoidStorage(store), nil
	}
	return store, nil
}

func record(cfg config.Config, report trader.Report, err error, duration time.Duration) {
	symbol := string(cfg.Strategy.Symbol)
	m := metrics.New()
	m.Run(symbol, err, duration)
	m.Orders(symbol, metrics.Cancelled, len(report.Cancelled))
	m.Orders(symbol, metrics.CancelFailed, len(report.StopLossFailed))
	m.Orders(symbol, metrics.StopLoss, len(report.Placed()))
	m.Orders(symbol, metrics.Skipped, len(report.Skipped))
	for _, band := range report.Bands {
		m.Band(symbol, band.Envelope, band.Low, band.High)
	}
	m.Balance(symbol, report.Balance)
	if err := m.Write(cfg.MetricsFile); err != nil {
		log.Warn().Err(err).Msg("could not write metrics")
	}
}

func notify(cfg config.Config, report trader.Report, err error) {
	bot, botErr := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if botErr != nil {
		log.Warn().Err(botErr).Msg("could not create telegram bot")
		return
	}
	msg := telegram.NewMessage(fmt.Sprintf("%s envelope %s", emoji.MapOk(err == nil), cfg.Strategy.Symbol))
	for _, line := range report.Lines() {
		msg.AddLine("%s", line)
	}
	if err != nil {
		msg.AddLine("error: %s", err.Error())
	}
	if _, err := bot.Send(msg); err != nil {
		log.Warn().Err(err).Msg("could not send telegram summary")
	}
}
