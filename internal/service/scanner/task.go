package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/schedule"
	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"
)

type TaskConfig struct {
	// Quote selects the instrument universe: every trading-enabled symbol
	// quoted in this asset.
	Quote string
	// BatchSize symbols are scanned per batch; batches run strictly one
	// after another.
	BatchSize int
	// MaxConcurrency bounds in-flight scans across the whole process.
	MaxConcurrency int
	BatchPause     time.Duration
	CyclePause     time.Duration
	RecoveryPause  time.Duration
}

func (c TaskConfig) withDefaults() TaskConfig {
	if c.Quote == "" {
		c.Quote = "USDT"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 25
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 10
	}
	if c.BatchPause <= 0 {
		c.BatchPause = 2 * time.Second
	}
	if c.CyclePause <= 0 {
		c.CyclePause = 10 * time.Minute
	}
	if c.RecoveryPause <= 0 {
		c.RecoveryPause = 2 * time.Minute
	}
	return c
}

// ScanTask fetches the instrument universe once, then scans it in bounded
// batches forever, persisting the scan state after every full cycle.
type ScanTask struct {
	symbolSvc exchange.SymbolService
	scanner   *SymbolScanner
	state     *StateStore
	sem       *semaphore.Weighted
	cfg       TaskConfig
}

func NewScanTask(symbolSvc exchange.SymbolService, scanner *SymbolScanner, state *StateStore, cfg TaskConfig) schedule.Task {
	cfg = cfg.withDefaults()
	return &ScanTask{
		symbolSvc: symbolSvc,
		scanner:   scanner,
		state:     state,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		cfg:       cfg,
	}
}

func (t *ScanTask) Name() string {
	return "ema cross scan task"
}

// Run returns only on context cancellation or when no universe could be
// fetched at startup. Cycle failures are logged and retried after a shorter
// recovery pause; the loop itself never gives up on a transient error.
func (t *ScanTask) Run(ctx context.Context) error {
	symbols, err := t.symbolSvc.TradingSymbols(ctx, t.cfg.Quote)
	if err != nil {
		return fmt.Errorf("fetch instrument universe: %w", err)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no active %s pairs found", t.cfg.Quote)
	}
	slog.Info("scanning universe", "pairs", len(symbols), "quote", t.cfg.Quote)

	for {
		if err := t.runCycle(ctx, symbols); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("scan cycle failed", "error", err)
			if err := sleep(ctx, t.cfg.RecoveryPause); err != nil {
				return err
			}
			continue
		}
		slog.Info("scan cycle done", "pause", t.cfg.CyclePause)
		if err := sleep(ctx, t.cfg.CyclePause); err != nil {
			return err
		}
	}
}

func (t *ScanTask) runCycle(ctx context.Context, symbols []exchange.Symbol) error {
	slog.Info("scan cycle start", "pairs", len(symbols))
	for _, batch := range lo.Chunk(symbols, t.cfg.BatchSize) {
		var wg sync.WaitGroup
		for _, symbol := range batch {
			if err := t.sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return err
			}
			wg.Add(1)
			go func(symbol exchange.Symbol) {
				defer wg.Done()
				defer t.sem.Release(1)
				t.scanner.Scan(ctx, symbol)
			}(symbol)
		}
		wg.Wait()

		// Throttle against the data provider between batches.
		if err := sleep(ctx, t.cfg.BatchPause); err != nil {
			return err
		}
	}
	return t.state.Save()
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
