package ioc

import (
	"fmt"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/spf13/viper"
)

type ScanConfig struct {
	Quote          string
	Interval       exchange.Interval
	ShortPeriod    int
	LongPeriod     int
	MaxConcurrency int
	BatchSize      int
	StateFile      string
	NotifyTo       string
	BatchPause     time.Duration
	CyclePause     time.Duration
	RecoveryPause  time.Duration
}

func InitScanConfig() ScanConfig {
	type Config struct {
		Quote          string        `mapstructure:"quote"`
		Interval       string        `mapstructure:"interval"`
		ShortPeriod    int           `mapstructure:"short_period"`
		LongPeriod     int           `mapstructure:"long_period"`
		MaxConcurrency int           `mapstructure:"max_concurrency"`
		BatchSize      int           `mapstructure:"batch_size"`
		StateFile      string        `mapstructure:"state_file"`
		NotifyTo       string        `mapstructure:"notify_to"`
		BatchPause     time.Duration `mapstructure:"batch_pause"`
		CyclePause     time.Duration `mapstructure:"cycle_pause"`
		RecoveryPause  time.Duration `mapstructure:"recovery_pause"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("scan", &cfg); err != nil {
		panic(err)
	}
	if cfg.ShortPeriod <= 0 || cfg.LongPeriod <= 0 {
		panic(fmt.Sprintf("ema periods must be positive, got %d/%d", cfg.ShortPeriod, cfg.LongPeriod))
	}
	if cfg.Interval == "" {
		cfg.Interval = exchange.Interval1d.ToString()
	}
	interval, ok := exchange.ParseInterval(cfg.Interval)
	if !ok {
		panic(fmt.Sprintf("unknown scan interval %q", cfg.Interval))
	}
	if cfg.StateFile == "" {
		cfg.StateFile = "lastChecked.json"
	}
	if cfg.NotifyTo == "" {
		panic("no notify recipient set")
	}

	return ScanConfig{
		Quote:          cfg.Quote,
		Interval:       interval,
		ShortPeriod:    cfg.ShortPeriod,
		LongPeriod:     cfg.LongPeriod,
		MaxConcurrency: cfg.MaxConcurrency,
		BatchSize:      cfg.BatchSize,
		StateFile:      cfg.StateFile,
		NotifyTo:       cfg.NotifyTo,
		BatchPause:     cfg.BatchPause,
		CyclePause:     cfg.CyclePause,
		RecoveryPause:  cfg.RecoveryPause,
	}
}
