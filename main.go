package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange/binance"
	"github.com/cuongpc-foren/EMA-tool/internal/service/scanner"
	"github.com/cuongpc-foren/EMA-tool/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	bian := ioc.InitBinanceCli()
	emailSvc := ioc.InitEmailService()
	cfg := ioc.InitScanConfig()

	symbolSvc := binance.NewSymbolService(bian)
	marketSvc := binance.NewMarketService(bian)

	state := scanner.NewStateStore(cfg.StateFile)
	state.Load()

	notifier := scanner.NewEmailNotifier(emailSvc, cfg.NotifyTo)
	symbolScanner := scanner.NewSymbolScanner(marketSvc, notifier, state,
		cfg.Interval, cfg.ShortPeriod, cfg.LongPeriod)
	task := scanner.NewScanTask(symbolSvc, symbolScanner, state, scanner.TaskConfig{
		Quote:          cfg.Quote,
		BatchSize:      cfg.BatchSize,
		MaxConcurrency: cfg.MaxConcurrency,
		BatchPause:     cfg.BatchPause,
		CyclePause:     cfg.CyclePause,
		RecoveryPause:  cfg.RecoveryPause,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("ema cross scanner starting",
		"interval", cfg.Interval.ToString(),
		"short", cfg.ShortPeriod, "long", cfg.LongPeriod,
		"notify_to", cfg.NotifyTo)

	if err := task.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("scanner stopped", "task", task.Name(), "error", err)
		os.Exit(1)
	}
}
