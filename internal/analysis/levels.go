package analysis

import (
	"btc-signal-bot/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultEntry is the reference price used when no live price is available.
const DefaultEntry = 91000

var (
	longStop    = decimal.RequireFromString("0.95")
	longTarget  = decimal.RequireFromString("1.15")
	shortStop   = decimal.RequireFromString("1.05")
	shortTarget = decimal.RequireFromString("0.85")
)

// LongLevels places the stop 5% below entry and the target 15% above.
func LongLevels(entry float64) domain.Levels {
	return levels(entry, longStop, longTarget)
}

// ShortLevels places the stop 5% above entry and the target 15% below.
func ShortLevels(entry float64) domain.Levels {
	return levels(entry, shortStop, shortTarget)
}

func levels(entry float64, stop, target decimal.Decimal) domain.Levels {
	e := decimal.NewFromFloat(entry)
	return domain.Levels{
		Entry:  entry,
		Stop:   e.Mul(stop).Round(2).InexactFloat64(),
		Target: e.Mul(target).Round(2).InexactFloat64(),
	}
}
