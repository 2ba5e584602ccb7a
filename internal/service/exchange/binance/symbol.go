package binance

import (
	"context"
	"sort"

	"github.com/adshao/go-binance/v2"
	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/samber/lo"
)

var _ exchange.SymbolService = (*SymbolService)(nil)

type SymbolService struct {
	cli *binance.Client
}

func NewSymbolService(cli *binance.Client) *SymbolService {
	return &SymbolService{cli: cli}
}

// TradingSymbols lists every symbol quoted in quote whose status is TRADING,
// distinct and sorted ascending by name.
func (svc *SymbolService) TradingSymbols(ctx context.Context, quote string) ([]exchange.Symbol, error) {
	info, err := svc.cli.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, err
	}

	symbols := lo.FilterMap(info.Symbols, func(s binance.Symbol, _ int) (exchange.Symbol, bool) {
		if s.QuoteAsset != quote || s.Status != statusTrading {
			return exchange.Symbol{}, false
		}
		return exchange.Symbol{Base: s.BaseAsset, Quote: s.QuoteAsset}, true
	})
	symbols = lo.UniqBy(symbols, func(s exchange.Symbol) string {
		return s.ToString()
	})
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].ToString() < symbols[j].ToString()
	})
	return symbols, nil
}
