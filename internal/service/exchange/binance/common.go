package binance

import (
	"github.com/cuongpc-foren/EMA-tool/internal/service/exchange"
)

const statusTrading = "TRADING"

// Intervals maps domain intervals to the kline interval strings the Binance
// spot REST API accepts. Kept as a table so tests can range over both sides.
var Intervals = map[exchange.Interval]string{
	exchange.Interval1m:  "1m",
	exchange.Interval3m:  "3m",
	exchange.Interval5m:  "5m",
	exchange.Interval15m: "15m",
	exchange.Interval30m: "30m",
	exchange.Interval1h:  "1h",
	exchange.Interval2h:  "2h",
	exchange.Interval4h:  "4h",
	exchange.Interval6h:  "6h",
	exchange.Interval8h:  "8h",
	exchange.Interval12h: "12h",
	exchange.Interval1d:  "1d",
	exchange.Interval3d:  "3d",
	exchange.Interval1w:  "1w",
	exchange.Interval1M:  "1M",
}
