package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ mocks ============

type mockMarketService struct {
	mu      sync.Mutex
	klines  map[string][]exchange.Kline
	errs    map[string]error
	calls   map[string]int
	latency time.Duration

	inFlight    int
	maxInFlight int
}

func newMockMarketService() *mockMarketService {
	return &mockMarketService{
		klines: make(map[string][]exchange.Kline),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (m *mockMarketService) GetKlines(ctx context.Context, req exchange.GetKlinesReq) ([]exchange.Kline, error) {
	m.mu.Lock()
	key := req.Symbol.ToString()
	m.calls[key]++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	err := m.errs[key]
	klines := m.klines[key]
	m.mu.Unlock()

	if m.latency > 0 {
		time.Sleep(m.latency)
	}

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return klines, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	signals []CrossSignal
	err     error
}

func (n *recordingNotifier) Notify(ctx context.Context, signal CrossSignal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = append(n.signals, signal)
	return n.err
}

func (n *recordingNotifier) all() []CrossSignal {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]CrossSignal(nil), n.signals...)
}

// ============ fixtures ============

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	btc       = exchange.Symbol{Base: "BTC", Quote: "USDT"}
)

// dailyKlines builds one closed daily candle per close price, back to back
// from testStart.
func dailyKlines(closes ...float64) []exchange.Kline {
	klines := make([]exchange.Kline, len(closes))
	for i, c := range closes {
		open := testStart.Add(time.Duration(i) * 24 * time.Hour)
		klines[i] = exchange.Kline{
			OpenTime:  open,
			CloseTime: open.Add(24 * time.Hour),
			Open:      decimal.NewFromFloat(c),
			Close:     decimal.NewFromFloat(c),
			High:      decimal.NewFromFloat(c),
			Low:       decimal.NewFromFloat(c),
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return klines
}

func newTestScanner(market exchange.MarketService, notifier Notifier, state *StateStore, shortPeriod, longPeriod int) *SymbolScanner {
	s := NewSymbolScanner(market, notifier, state, exchange.Interval1d, shortPeriod, longPeriod)
	// Deterministic clock, well past every fixture candle.
	s.now = func() time.Time { return testStart.Add(100 * 24 * time.Hour) }
	return s
}

func newTestState(t *testing.T) *StateStore {
	t.Helper()
	return NewStateStore(filepath.Join(t.TempDir(), "lastChecked.json"))
}

// ============ tests ============

func TestSymbolScanner_GoldenCross(t *testing.T) {
	market := newMockMarketService()
	klines := dailyKlines(10, 10, 10, 10, 10, 10, 12)
	market.klines[btc.ToString()] = klines

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	s.Scan(context.Background(), btc)

	signals := notifier.all()
	require.Len(t, signals, 1)
	signal := signals[0]
	assert.Equal(t, CrossGolden, signal.Type)
	assert.Equal(t, btc, signal.Symbol)
	assert.Equal(t, exchange.Interval1d, signal.Interval)
	assert.True(t, signal.Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 3, signal.ShortPeriod)
	assert.Equal(t, 5, signal.LongPeriod)
	assert.True(t, signal.ShortPrev.Equal(decimal.NewFromInt(10)))
	assert.True(t, signal.ShortNow.Equal(decimal.NewFromInt(11)))
	assert.True(t, signal.LongPrev.Equal(decimal.NewFromInt(10)))
	assert.InDelta(t, 10.6666666667, signal.LongNow.InexactFloat64(), 1e-9)
	assert.True(t, signal.ClosedAt.Equal(klines[len(klines)-1].CloseTime))

	last, ok := state.LastProcessed(btc.ToString())
	require.True(t, ok)
	assert.True(t, last.Equal(klines[len(klines)-1].CloseTime))
}

func TestSymbolScanner_DeathCross(t *testing.T) {
	market := newMockMarketService()
	market.klines[btc.ToString()] = dailyKlines(10, 10, 10, 10, 10, 10, 8)

	notifier := &recordingNotifier{}
	s := newTestScanner(market, notifier, newTestState(t), 3, 5)

	s.Scan(context.Background(), btc)

	signals := notifier.all()
	require.Len(t, signals, 1)
	assert.Equal(t, CrossDeath, signals[0].Type)
}

func TestSymbolScanner_OncePerClosedCandle(t *testing.T) {
	market := newMockMarketService()
	market.klines[btc.ToString()] = dailyKlines(10, 10, 10, 10, 10, 10, 12)

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	// Same candles twice: the second call must be a no-op.
	s.Scan(context.Background(), btc)
	s.Scan(context.Background(), btc)

	assert.Len(t, notifier.all(), 1)
	assert.Equal(t, 2, market.calls[btc.ToString()])
}

func TestSymbolScanner_SkipsFormingCandle(t *testing.T) {
	market := newMockMarketService()
	klines := dailyKlines(10, 10, 10, 10, 10, 10, 12, 99)
	// The last candle has not closed yet.
	klines[len(klines)-1].CloseTime = testStart.Add(200 * 24 * time.Hour)
	market.klines[btc.ToString()] = klines

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	s.Scan(context.Background(), btc)

	// The forming 99 close never enters the series: the signal is the golden
	// cross produced by the 12 close, and state records the 12 candle.
	signals := notifier.all()
	require.Len(t, signals, 1)
	assert.Equal(t, CrossGolden, signals[0].Type)
	assert.True(t, signals[0].Price.Equal(decimal.NewFromInt(12)))

	last, ok := state.LastProcessed(btc.ToString())
	require.True(t, ok)
	assert.True(t, last.Equal(klines[len(klines)-2].CloseTime))
}

func TestSymbolScanner_InsufficientHistory(t *testing.T) {
	market := newMockMarketService()
	// longPeriod+2 = 7 candles needed, only 6 available.
	market.klines[btc.ToString()] = dailyKlines(10, 10, 10, 10, 10, 12)

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	s.Scan(context.Background(), btc)

	assert.Empty(t, notifier.all())
	_, ok := state.LastProcessed(btc.ToString())
	assert.False(t, ok)
}

func TestSymbolScanner_FetchFailureIsolated(t *testing.T) {
	a := exchange.Symbol{Base: "AAA", Quote: "USDT"}
	b := exchange.Symbol{Base: "BBB", Quote: "USDT"}
	c := exchange.Symbol{Base: "CCC", Quote: "USDT"}

	market := newMockMarketService()
	market.klines[a.ToString()] = dailyKlines(10, 10, 10, 10, 10, 10, 12)
	market.errs[b.ToString()] = errors.New("dial tcp: connection refused")
	market.klines[c.ToString()] = dailyKlines(10, 10, 10, 10, 10, 10, 8)

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	ctx := context.Background()
	s.Scan(ctx, a)
	s.Scan(ctx, b)
	s.Scan(ctx, c)

	signals := notifier.all()
	require.Len(t, signals, 2)
	assert.Equal(t, CrossGolden, signals[0].Type)
	assert.Equal(t, a, signals[0].Symbol)
	assert.Equal(t, CrossDeath, signals[1].Type)
	assert.Equal(t, c, signals[1].Symbol)

	_, ok := state.LastProcessed(a.ToString())
	assert.True(t, ok)
	_, ok = state.LastProcessed(b.ToString())
	assert.False(t, ok)
	_, ok = state.LastProcessed(c.ToString())
	assert.True(t, ok)
}

func TestSymbolScanner_NotifyFailureStillRecordsState(t *testing.T) {
	market := newMockMarketService()
	klines := dailyKlines(10, 10, 10, 10, 10, 10, 12)
	market.klines[btc.ToString()] = klines

	notifier := &recordingNotifier{err: errors.New("smtp unavailable")}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	s.Scan(context.Background(), btc)

	last, ok := state.LastProcessed(btc.ToString())
	require.True(t, ok)
	assert.True(t, last.Equal(klines[len(klines)-1].CloseTime))
}

func TestSymbolScanner_NoEventStillRecordsState(t *testing.T) {
	market := newMockMarketService()
	klines := dailyKlines(10, 10, 10, 10, 10, 10, 10)
	market.klines[btc.ToString()] = klines

	notifier := &recordingNotifier{}
	state := newTestState(t)
	s := newTestScanner(market, notifier, state, 3, 5)

	s.Scan(context.Background(), btc)

	assert.Empty(t, notifier.all())
	last, ok := state.LastProcessed(btc.ToString())
	require.True(t, ok)
	assert.True(t, last.Equal(klines[len(klines)-1].CloseTime))
}
