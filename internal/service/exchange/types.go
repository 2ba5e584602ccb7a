package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol is one tradable instrument, e.g. Base=BTC Quote=USDT.
type Symbol struct {
	Base  string
	Quote string
}

func (s Symbol) ToString() string {
	return fmt.Sprintf("%s%s", s.Base, s.Quote)
}

func (s Symbol) ToSlashString() string {
	return fmt.Sprintf("%s/%s", s.Base, s.Quote)
}

type Interval string

func (i Interval) ToString() string {
	return string(i)
}

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval3d  Interval = "3d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

// Intervals lists every supported candle interval.
var Intervals = []Interval{
	Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval2h, Interval4h, Interval6h, Interval8h, Interval12h,
	Interval1d, Interval3d, Interval1w, Interval1M,
}

func ParseInterval(s string) (Interval, bool) {
	for _, i := range Intervals {
		if i.ToString() == s {
			return i, true
		}
	}
	return "", false
}

type Kline struct {
	OpenTime         time.Time
	CloseTime        time.Time
	Open             decimal.Decimal
	Close            decimal.Decimal
	High             decimal.Decimal
	Low              decimal.Decimal
	Volume           decimal.Decimal
	QuoteAssetVolume decimal.Decimal
}

type GetKlinesReq struct {
	Symbol   Symbol
	Interval Interval
	// Limit caps the number of most recent klines returned.
	Limit int
}

type MarketService interface {
	GetKlines(ctx context.Context, req GetKlinesReq) ([]Kline, error)
}

type SymbolService interface {
	// TradingSymbols returns every trading-enabled symbol quoted in quote,
	// distinct and sorted ascending.
	TradingSymbols(ctx context.Context, quote string) ([]Symbol, error)
}
