package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/cuongpc-foren/EMA-tool/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// klineLimit is how much history one scan fetches. The EMA pair is recomputed
// from scratch over this window on every cycle.
const klineLimit = 400

// SymbolScanner evaluates one symbol per call: fetch klines, drop the candle
// still forming, skip candles already evaluated, compute the EMA pair and
// notify on a crossover.
type SymbolScanner struct {
	marketSvc   exchange.MarketService
	notifier    Notifier
	state       *StateStore
	interval    exchange.Interval
	shortPeriod int
	longPeriod  int

	now func() time.Time
}

func NewSymbolScanner(marketSvc exchange.MarketService, notifier Notifier, state *StateStore,
	interval exchange.Interval, shortPeriod, longPeriod int) *SymbolScanner {
	return &SymbolScanner{
		marketSvc:   marketSvc,
		notifier:    notifier,
		state:       state,
		interval:    interval,
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		now:         time.Now,
	}
}

// Scan evaluates symbol once. Every failure is handled here; a broken symbol
// must never take the rest of its batch down, so Scan reports nothing.
func (s *SymbolScanner) Scan(ctx context.Context, symbol exchange.Symbol) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scan panicked", "symbol", symbol.ToString(), "panic", r)
		}
	}()

	s.state.Touch(symbol.ToString())

	klines, err := s.marketSvc.GetKlines(ctx, exchange.GetKlinesReq{
		Symbol:   symbol,
		Interval: s.interval,
		Limit:    klineLimit,
	})
	if err != nil {
		slog.Warn("failed to get klines", "symbol", symbol.ToString(), "error", err)
		return
	}
	if len(klines) < s.longPeriod+2 {
		// Not enough closed history to seed the long EMA and still have a
		// prior point to cross from.
		return
	}

	// Drop the candle that is still forming.
	if klines[len(klines)-1].CloseTime.After(s.now()) {
		klines = klines[:len(klines)-1]
	}
	lastClosed := klines[len(klines)-1]

	// At most one evaluation per newly closed candle.
	if last, ok := s.state.LastProcessed(symbol.ToString()); ok && !lastClosed.CloseTime.After(last) {
		return
	}

	closes := lo.Map(klines, func(k exchange.Kline, _ int) decimal.Decimal {
		return k.Close
	})
	emaShort := decimalx.EmaSeries(closes, s.shortPeriod)
	emaLong := decimalx.EmaSeries(closes, s.longPeriod)

	if cross := DetectCross(emaShort, emaLong); cross != CrossNone {
		n := len(closes)
		signal := CrossSignal{
			Symbol:      symbol,
			Type:        cross,
			Interval:    s.interval,
			Price:       closes[n-1],
			ShortPeriod: s.shortPeriod,
			LongPeriod:  s.longPeriod,
			ShortPrev:   emaShort[n-2],
			ShortNow:    emaShort[n-1],
			LongPrev:    emaLong[n-2],
			LongNow:     emaLong[n-1],
			ClosedAt:    lastClosed.CloseTime,
		}
		if cross == CrossGolden {
			slog.Info("golden cross", "symbol", symbol.ToString(), "price", signal.Price)
		} else {
			slog.Warn("death cross", "symbol", symbol.ToString(), "price", signal.Price)
		}
		// Delivery failure never blocks recording the evaluation.
		if err := s.notifier.Notify(ctx, signal); err != nil {
			slog.Error("failed to notify cross signal", "symbol", symbol.ToString(), "error", err)
		}
	}

	s.state.MarkProcessed(symbol.ToString(), lastClosed.CloseTime)
}
