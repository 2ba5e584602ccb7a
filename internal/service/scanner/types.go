package scanner

import (
	"context"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/shopspring/decimal"
)

type CrossType string

const (
	CrossNone   CrossType = ""
	CrossGolden CrossType = "golden"
	CrossDeath  CrossType = "death"
)

// CrossSignal describes one EMA crossover on one symbol's newly closed candle.
type CrossSignal struct {
	Symbol      exchange.Symbol
	Type        CrossType
	Interval    exchange.Interval
	Price       decimal.Decimal
	ShortPeriod int
	LongPeriod  int
	ShortPrev   decimal.Decimal
	ShortNow    decimal.Decimal
	LongPrev    decimal.Decimal
	LongNow     decimal.Decimal
	ClosedAt    time.Time
}

type Notifier interface {
	Notify(ctx context.Context, signal CrossSignal) error
}
