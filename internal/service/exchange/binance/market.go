package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/shopspring/decimal"
)

var _ exchange.MarketService = (*MarketService)(nil)

type MarketService struct {
	cli *binance.Client
}

func NewMarketService(cli *binance.Client) *MarketService {
	return &MarketService{cli: cli}
}

func (m *MarketService) convertKlines(klines []*binance.Kline) ([]exchange.Kline, error) {
	kls := make([]exchange.Kline, len(klines))
	for i, k := range klines {
		klineOpen, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, fmt.Errorf("parse kline open %q: %w", k.Open, err)
		}
		klineClose, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, fmt.Errorf("parse kline close %q: %w", k.Close, err)
		}
		klineHigh, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, fmt.Errorf("parse kline high %q: %w", k.High, err)
		}
		klineLow, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, fmt.Errorf("parse kline low %q: %w", k.Low, err)
		}
		klineVolume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, fmt.Errorf("parse kline volume %q: %w", k.Volume, err)
		}
		klineQuoteVolume, err := decimal.NewFromString(k.QuoteAssetVolume)
		if err != nil {
			return nil, fmt.Errorf("parse kline quote volume %q: %w", k.QuoteAssetVolume, err)
		}
		kls[i] = exchange.Kline{
			OpenTime:         time.UnixMilli(k.OpenTime),
			CloseTime:        time.UnixMilli(k.CloseTime),
			Open:             klineOpen,
			Close:            klineClose,
			High:             klineHigh,
			Low:              klineLow,
			Volume:           klineVolume,
			QuoteAssetVolume: klineQuoteVolume,
		}
	}
	return kls, nil
}

// GetKlines returns up to req.Limit most recent klines, ordered ascending by
// open time. The last one may still be forming.
func (m *MarketService) GetKlines(ctx context.Context, req exchange.GetKlinesReq) ([]exchange.Kline, error) {
	svc := m.cli.NewKlinesService().Symbol(req.Symbol.ToString())
	if iv, ok := Intervals[req.Interval]; ok {
		svc.Interval(iv)
	}
	if req.Limit > 0 {
		svc.Limit(req.Limit)
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	return m.convertKlines(res)
}
