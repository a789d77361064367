// Package config
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

/*
YAML config example:
symbol: "POL-USDT"
timeframe: "1h"
start: "2024-01-01"
initial_capital: 1000
risk_per_trade_pct: 0.01
profit_target_pct: 0.02
exchange: "binance"
exit_order: "tp-first"
db_conn_str: "postgres://..."
telegram_token: "..."
telegram_chat_id: "..."
*/

type Config struct {
	Symbol    string `yaml:"symbol"`
	Timeframe string `yaml:"timeframe"`
	Start     string `yaml:"start"` // YYYY-MM-DD; empty means 30 days back
	End       string `yaml:"end"`   // YYYY-MM-DD; empty means now

	InitialCapital  float64 `yaml:"initial_capital"`
	RiskPerTradePct float64 `yaml:"risk_per_trade_pct"`
	ProfitTargetPct float64 `yaml:"profit_target_pct"`
	ExitOrder       string  `yaml:"exit_order"` // "tp-first" or "sl-first"

	Exchange     string `yaml:"exchange"` // "binance" or "wallex"
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	WallexAPIKey string `yaml:"wallex_api_key"`
	ProxyURL     string `yaml:"proxy_url"`

	DBConnStr string `yaml:"db_conn_str"`
	DBMaxOpen int    `yaml:"db_max_open"`
	DBMaxIdle int    `yaml:"db_max_idle"`

	TelegramToken       string        `yaml:"telegram_token"`
	TelegramChatID      string        `yaml:"telegram_chat_id"`
	NotificationRetries int           `yaml:"notification_retries"`
	NotificationDelay   time.Duration `yaml:"notification_delay"`
}

// Validate checks the options the simulation core depends on.
func (c Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if c.Timeframe == "" {
		return fmt.Errorf("timeframe must not be empty")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", c.InitialCapital)
	}
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct >= 1 {
		return fmt.Errorf("risk_per_trade_pct must be a fraction in (0, 1), got %v", c.RiskPerTradePct)
	}
	if c.ProfitTargetPct <= 0 || c.ProfitTargetPct >= 1 {
		return fmt.Errorf("profit_target_pct must be a fraction in (0, 1), got %v", c.ProfitTargetPct)
	}
	switch c.ExitOrder {
	case "", "tp-first", "sl-first":
	default:
		return fmt.Errorf("exit_order must be tp-first or sl-first, got %q", c.ExitOrder)
	}
	switch c.Exchange {
	case "", "binance", "wallex":
	default:
		return fmt.Errorf("exchange must be binance or wallex, got %q", c.Exchange)
	}
	return nil
}

// StartTime resolves the configured start date, defaulting to 30 days back as
// the reference strategy does.
func (c Config) StartTime() (time.Time, error) {
	if c.Start == "" {
		return time.Now().UTC().AddDate(0, 0, -30), nil
	}
	t, err := time.Parse("2006-01-02", c.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	return t.UTC(), nil
}

// EndTime resolves the configured end date, defaulting to now.
func (c Config) EndTime() (time.Time, error) {
	if c.End == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", c.End)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid end date %q: %w", c.End, err)
	}
	return t.UTC(), nil
}

// Load parses flags and an optional YAML file. File values win over flag
// defaults; explicit flags are only consulted when no file is given.
func Load() (Config, error) {
	symbol := flag.String("symbol", "POL-USDT", "Trading symbol")
	timeframe := flag.String("timeframe", "1h", "Candle timeframe")
	start := flag.String("start", "", "Start date (YYYY-MM-DD), default 30 days back")
	end := flag.String("end", "", "End date (YYYY-MM-DD), default now")
	initialCapital := flag.Float64("initial-capital", 1000, "Starting capital")
	riskPerTrade := flag.Float64("risk-per-trade", 0.01, "Fraction of capital risked per trade (e.g., 0.01 for 1%)")
	profitTarget := flag.Float64("profit-target", 0.02, "Fractional profit target for exit (e.g., 0.02 for 2%)")
	exitOrder := flag.String("exit-order", "tp-first", "Which exit wins when one candle crosses both levels: tp-first or sl-first")
	exchangeName := flag.String("exchange", "binance", "Market data source: binance or wallex")
	proxyURL := flag.String("proxy", "", "Optional HTTP proxy URL for outbound requests")
	notificationRetries := flag.Int("notification-retries", 3, "Number of notification send attempts")
	notificationDelay := flag.Duration("notification-delay", 5*time.Second, "Delay between notification retries (e.g., 5s)")
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
		applyDefaults(&fileCfg)
		return fileCfg, fileCfg.Validate()
	}

	cfg := Config{
		Symbol:              *symbol,
		Timeframe:           *timeframe,
		Start:               *start,
		End:                 *end,
		InitialCapital:      *initialCapital,
		RiskPerTradePct:     *riskPerTrade,
		ProfitTargetPct:     *profitTarget,
		ExitOrder:           *exitOrder,
		Exchange:            *exchangeName,
		APIKey:              os.Getenv("BINANCE_API_KEY"),
		APISecret:           os.Getenv("BINANCE_API_SECRET"),
		WallexAPIKey:        os.Getenv("WALLEX_API_KEY"),
		ProxyURL:            *proxyURL,
		DBConnStr:           os.Getenv("DB_CONN_STR"),
		TelegramToken:       os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:      os.Getenv("TELEGRAM_CHAT_ID"),
		NotificationRetries: *notificationRetries,
		NotificationDelay:   *notificationDelay,
	}
	applyDefaults(&cfg)
	return cfg, cfg.Validate()
}

func applyDefaults(cfg *Config) {
	if cfg.Exchange == "" {
		cfg.Exchange = "binance"
	}
	if cfg.ExitOrder == "" {
		cfg.ExitOrder = "tp-first"
	}
	if cfg.DBMaxOpen == 0 {
		cfg.DBMaxOpen = 10
	}
	if cfg.DBMaxIdle == 0 {
		cfg.DBMaxIdle = 5
	}
	if cfg.NotificationRetries == 0 {
		cfg.NotificationRetries = 3
	}
	if cfg.NotificationDelay == 0 {
		cfg.NotificationDelay = 5 * time.Second
	}
}

// MustLoad is Load with fatal error handling, for the entry point.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config | %v", err)
	}
	return cfg
}
