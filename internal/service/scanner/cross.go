package scanner

import "github.com/shopspring/decimal"

// DetectCross classifies the relationship between the final two points of the
// short and long EMA series. A cross needs the short side strictly above
// (golden) or strictly below (death) the long side at the latest point, having
// been at-or-on the other side at the previous one; equality at the latest
// point never signals, so two ties in a row signal nothing.
func DetectCross(emaShort, emaLong []decimal.Decimal) CrossType {
	n := len(emaShort)
	if n < 2 || len(emaLong) != n {
		return CrossNone
	}
	sPrev, sNow := emaShort[n-2], emaShort[n-1]
	lPrev, lNow := emaLong[n-2], emaLong[n-1]

	switch {
	case sPrev.LessThanOrEqual(lPrev) && sNow.GreaterThan(lNow):
		return CrossGolden
	case sPrev.GreaterThanOrEqual(lPrev) && sNow.LessThan(lNow):
		return CrossDeath
	default:
		return CrossNone
	}
}
