package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	coinmath "github.com/drakos74/envelope/internal/math"
	"github.com/drakos74/envelope/internal/model"
	"github.com/drakos74/envelope/internal/storage/redis"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes the environment overrides e.g. ENVELOPE_STRATEGY_LEVERAGE.
	EnvPrefix = "ENVELOPE"
	// Name is the config file name searched for, without extension.
	Name = "envelope"

	FileBackend  = "file"
	RedisBackend = "redis"
)

var (
	// ErrUnsupportedAverage is returned for an unknown moving average type.
	ErrUnsupportedAverage = coinmath.ErrUnsupportedAverage
	// ErrInvalid is returned for any other invalid parameter.
	ErrInvalid = errors.New("invalid config")
)

// Strategy holds the envelope strategy parameters.
// It is built once at startup and passed by value.
type Strategy struct {
	Symbol          model.Symbol     `mapstructure:"symbol"`
	Timeframe       string           `mapstructure:"timeframe"`
	MarginMode      model.MarginMode `mapstructure:"margin_mode"`
	BalanceFraction float64          `mapstructure:"balance_fraction"`
	Leverage        int              `mapstructure:"leverage"`
	AverageType     coinmath.Average `mapstructure:"average_type"`
	AveragePeriod   int              `mapstructure:"average_period"`
	Envelopes       []float64        `mapstructure:"envelopes"`
	StopLossPct     float64          `mapstructure:"stop_loss_pct"`
	UseLongs        bool             `mapstructure:"use_longs"`
	UseShorts       bool             `mapstructure:"use_shorts"`
}

type Account struct {
	KeyPath string `mapstructure:"key_path"`
	Name    string `mapstructure:"name"`
}

type Exchange struct {
	Testnet    bool          `mapstructure:"testnet"`
	TriggerURL string        `mapstructure:"trigger_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Storage struct {
	Backend string       `mapstructure:"backend"`
	Dir     string       `mapstructure:"dir"`
	Prefix  string       `mapstructure:"prefix"`
	Redis   redis.Config `mapstructure:"redis"`
}

type Telegram struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Config is the full configuration of a run.
type Config struct {
	Strategy    Strategy      `mapstructure:"strategy"`
	Account     Account       `mapstructure:"account"`
	Exchange    Exchange      `mapstructure:"exchange"`
	Storage     Storage       `mapstructure:"storage"`
	Telegram    Telegram      `mapstructure:"telegram"`
	OHLCVLimit  int           `mapstructure:"ohlcv_limit"`
	RunTimeout  time.Duration `mapstructure:"run_timeout"`
	MetricsFile string        `mapstructure:"metrics_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy.symbol", string(model.ETHUSDT))
	v.SetDefault("strategy.timeframe", "1h")
	v.SetDefault("strategy.margin_mode", string(model.Isolated))
	v.SetDefault("strategy.balance_fraction", 1.0)
	v.SetDefault("strategy.leverage", 2)
	v.SetDefault("strategy.average_type", string(coinmath.SMA))
	v.SetDefault("strategy.average_period", 4)
	v.SetDefault("strategy.envelopes", []float64{0.1, 0.2, 0.3})
	v.SetDefault("strategy.stop_loss_pct", 0.5)
	v.SetDefault("strategy.use_longs", true)
	v.SetDefault("strategy.use_shorts", true)

	v.SetDefault("account.key_path", "secret.json")
	v.SetDefault("account.name", "envelope")

	v.SetDefault("exchange.testnet", true)
	v.SetDefault("exchange.trigger_url", "https://fapi.binance.com")
	v.SetDefault("exchange.timeout", 10*time.Second)

	v.SetDefault("storage.backend", FileBackend)
	v.SetDefault("storage.dir", ".")
	v.SetDefault("storage.prefix", redis.DefaultPrefix)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("ohlcv_limit", 100)
	v.SetDefault("run_timeout", 2*time.Minute)
	v.SetDefault("metrics_file", "")
}

// Load reads the configuration.
// If path is empty the 'envelope' config file is searched in the working directory and ./config,
// a missing file is not an error. Every key can be overridden from the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file '%s': %w", path, err)
		}
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("could not read config file: %w", err)
			}
			log.Debug().Msg("no config file, using defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	// the average type is matched case-insensitive
	average, err := coinmath.ParseAverage(string(cfg.Strategy.AverageType))
	if err != nil {
		return Config{}, err
	}
	cfg.Strategy.AverageType = average

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Info().
		Str("file", v.ConfigFileUsed()).
		Str("strategy", fmt.Sprintf("%+v", cfg.Strategy)).
		Msg("loaded config")
	return cfg, nil
}

// Validate checks the strategy parameters.
func (s Strategy) Validate() error {
	if _, err := coinmath.ParseAverage(string(s.AverageType)); err != nil {
		return err
	}
	if !strings.Contains(string(s.Symbol), "/") {
		return fmt.Errorf("symbol '%s' must be of the form BASE/QUOTE: %w", s.Symbol, ErrInvalid)
	}
	if !s.MarginMode.Valid() {
		return fmt.Errorf("margin mode '%s': %w", s.MarginMode, ErrInvalid)
	}
	if s.Timeframe == "" {
		return fmt.Errorf("empty timeframe: %w", ErrInvalid)
	}
	if s.BalanceFraction <= 0 || s.BalanceFraction > 1 {
		return fmt.Errorf("balance fraction %f must be in (0,1]: %w", s.BalanceFraction, ErrInvalid)
	}
	if s.Leverage < 1 {
		return fmt.Errorf("leverage %d: %w", s.Leverage, ErrInvalid)
	}
	if s.AveragePeriod < 1 {
		return fmt.Errorf("average period %d: %w", s.AveragePeriod, ErrInvalid)
	}
	if len(s.Envelopes) == 0 {
		return fmt.Errorf("no envelopes: %w", ErrInvalid)
	}
	for _, e := range s.Envelopes {
		if e <= 0 || e >= 1 {
			return fmt.Errorf("envelope %f must be in (0,1): %w", e, ErrInvalid)
		}
	}
	if s.StopLossPct < 0 || s.StopLossPct >= 1 {
		return fmt.Errorf("stop loss %f must be in [0,1): %w", s.StopLossPct, ErrInvalid)
	}
	return nil
}

// Validate checks the full configuration.
func (c Config) Validate() error {
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if c.OHLCVLimit <= c.Strategy.AveragePeriod {
		return fmt.Errorf("ohlcv limit %d must exceed the average period %d: %w", c.OHLCVLimit, c.Strategy.AveragePeriod, ErrInvalid)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run timeout %v: %w", c.RunTimeout, ErrInvalid)
	}
	switch c.Storage.Backend {
	case FileBackend, RedisBackend:
	default:
		return fmt.Errorf("storage backend '%s': %w", c.Storage.Backend, ErrInvalid)
	}
	if c.Account.Name == "" {
		return fmt.Errorf("empty account name: %w", ErrInvalid)
	}
	return nil
}

// LockTTL is the expiry of the tracker lock.
// It always exceeds the run timeout.
func (c Config) LockTTL() time.Duration {
	return max(redis.DefaultLockTTL, c.RunTimeout+time.Minute)
}
