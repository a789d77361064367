package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KMashiane/engulf-trader/internal/candle"
	"github.com/KMashiane/engulf-trader/internal/config"
	"github.com/KMashiane/engulf-trader/internal/db"
	"github.com/KMashiane/engulf-trader/internal/exchange"
	"github.com/KMashiane/engulf-trader/internal/journal"
	"github.com/KMashiane/engulf-trader/internal/notifier"
	"github.com/KMashiane/engulf-trader/internal/pattern"
	"github.com/KMashiane/engulf-trader/internal/report"
	"github.com/KMashiane/engulf-trader/internal/simulator"
)

func main() {
	cfg := config.MustLoad()
	log.Printf("main | Starting Engulf Trader for %s %s on %s", cfg.Symbol, cfg.Timeframe, cfg.Exchange)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("main | Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Candle cache: Postgres when configured, in-memory otherwise
	var storage db.Storage
	if cfg.DBConnStr != "" {
		pg, err := db.NewPostgres(cfg.DBConnStr, cfg.DBMaxOpen, cfg.DBMaxIdle)
		if err != nil {
			log.Fatalf("main | Failed to initialize database: %v", err)
		}
		log.Println("main | Connected to Postgres candle cache")
		storage = pg
	} else {
		storage = db.NewMemory()
	}
	defer storage.Close()

	source, err := newSource(cfg)
	if err != nil {
		log.Fatalf("main | Failed to create market data source: %v", err)
	}

	start, err := cfg.StartTime()
	if err != nil {
		log.Fatalf("main | %v", err)
	}
	end, err := cfg.EndTime()
	if err != nil {
		log.Fatalf("main | %v", err)
	}

	candles, err := loadCandles(ctx, storage, source, cfg.Symbol, cfg.Timeframe, start, end)
	if err != nil {
		log.Fatalf("main | Failed to load candles: %v", err)
	}
	log.Printf("main | Loaded %d candles [%s - %s]", len(candles),
		start.Format(time.RFC3339), end.Format(time.RFC3339))

	series, err := candle.NewSeries(cfg.Symbol, cfg.Timeframe, candles)
	if err != nil {
		log.Fatalf("main | Refusing to simulate on inconsistent data: %v", err)
	}

	exitOrder := simulator.TakeProfitFirst
	if cfg.ExitOrder == "sl-first" {
		exitOrder = simulator.StopLossFirst
	}

	memory := journal.NewMemory()
	console := report.NewConsole(log.Default())

	sim := simulator.New(simulator.Config{
		InitialCapital: cfg.InitialCapital,
		RiskPerTrade:   cfg.RiskPerTradePct,
		ProfitTarget:   cfg.ProfitTargetPct,
		ExitOrder:      exitOrder,
	}, pattern.NewEngulfingDetector(), journal.Multi(memory, console))

	log.Printf("main | Starting simulation with an initial capital of $%.2f", cfg.InitialCapital)
	result, err := sim.Run(series)
	if err != nil {
		log.Fatalf("main | Simulation failed: %v", err)
	}

	summary := report.Summary(cfg.Symbol, cfg.Timeframe, result)
	log.Printf("main | %s", summary)

	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID,
			cfg.ProxyURL, cfg.NotificationRetries, cfg.NotificationDelay)
		if err != nil {
			log.Printf("main | Telegram notifier disabled: %v", err)
		} else {
			notifyCtx, notifyCancel := context.WithTimeout(ctx, 30*time.Second)
			defer notifyCancel()
			if err := tg.Send(notifyCtx, summary); err != nil {
				log.Printf("main | Failed to send Telegram summary: %v", err)
			}
		}
	}
}

func newSource(cfg config.Config) (exchange.Source, error) {
	switch cfg.Exchange {
	case "wallex":
		return exchange.NewWallexSource(cfg.WallexAPIKey), nil
	default:
		return exchange.NewBinanceSource(cfg.APIKey, cfg.APISecret, cfg.ProxyURL)
	}
}

// loadCandles serves candles from the cache when present, otherwise downloads
// from the exchange and backfills the cache.
func loadCandles(ctx context.Context, storage db.Storage, source exchange.Source,
	symbol, timeframe string, start, end time.Time,
) ([]candle.Candle, error) {
	candles, err := storage.GetCandles(ctx, symbol, timeframe, start, end)
	if err != nil {
		return nil, err
	}
	if len(candles) > 0 {
		log.Printf("loadCandles | Serving %d cached candles for %s", len(candles), symbol)
		return candles, nil
	}

	log.Printf("loadCandles | No cached candles for %s, downloading from %s...", symbol, source.Name())
	fetchCtx, fetchCancel := context.WithTimeout(ctx, 5*time.Minute)
	defer fetchCancel()

	candles, err = source.FetchCandles(fetchCtx, symbol, timeframe, start, end)
	if err != nil {
		return nil, err
	}

	if len(candles) > 0 {
		saveCtx, saveCancel := context.WithTimeout(ctx, 30*time.Second)
		defer saveCancel()
		if err := storage.SaveCandles(saveCtx, candles); err != nil {
			return nil, err
		}
		log.Printf("loadCandles | Cached %d downloaded candles", len(candles))
	}

	return candles, nil
}
