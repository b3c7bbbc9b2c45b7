package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"CycleSentinel/internal/collector"
	"CycleSentinel/internal/config"
	"CycleSentinel/internal/cycle"
	"CycleSentinel/internal/model"
	"CycleSentinel/internal/notifier"
	"CycleSentinel/internal/recorder"
	"CycleSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CycleSentinel starting...")

	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Shared fetchers: Binance primary, DeFiLlama fallback for when
	// Binance is unreachable or geo-blocked.
	coins := make(map[string]string)
	for _, a := range cfg.Assets {
		if a.DeFiLlamaCoin != "" {
			coins[a.BinanceSymbol] = a.DeFiLlamaCoin
		}
	}
	binance := collector.NewBinanceFetcher(cfg.Proxy)
	llama := collector.NewDeFiLlamaFetcher(coins)

	assets := make([]scheduler.Asset, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		listed, err := time.Parse("2006-01-02", a.ListedAt)
		if err != nil {
			log.Fatalf("[FATAL] asset %s: bad listed_at %q: %v", a.Name, a.ListedAt, err)
		}
		var known []model.CyclePoint
		if pts := cycle.KnownPoints(a.Name); pts != nil {
			known = pts
			log.Printf("[INFO] %s: %d curated anchor points", a.Name, len(pts))
		} else {
			log.Printf("[WARN] %s: no curated anchors, detection starts cold", a.Name)
		}
		assets = append(assets, scheduler.Asset{
			Name:      a.Name,
			Collector: collector.NewCollector(binance, llama, a.BinanceSymbol, listed),
			Known:     known,
		})
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if err := tn.RegisterCommands(); err != nil {
		log.Printf("[WARN] register command menu: %v", err)
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, assets, cfg.CycleParams(), tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing weekly report now")
		go sched.RunWeeklyNow()
	}

	log.Println("[INFO] CycleSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CycleSentinel stopped")
}
