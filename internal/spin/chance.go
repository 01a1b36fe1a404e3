package spin

import (
	"math"

	"github.com/shopspring/decimal"
)

// Chance describes how the bomb probability escalates with zone index.
type Chance struct {
	Base              float64 `json:"base_chance"`
	Increment         float64 `json:"increment"`
	Max               float64 `json:"max_chance"`
	IncrementInterval int     `json:"increment_interval"`
}

// At returns the bomb chance for zone. Zone 1 and below never bomb.
// The result is base + steps × increment clamped to [base, max], where a
// step is taken every IncrementInterval zones.
func (c Chance) At(zone int) float64 {
	if zone <= 1 {
		return 0
	}

	steps := (max(1, zone) - 1) / max(1, c.IncrementInterval)

	base := decimal.NewFromFloat(c.Base)
	chance := base.Add(decimal.NewFromInt(int64(steps)).Mul(decimal.NewFromFloat(c.Increment)))

	return clampChance(chance, base, decimal.NewFromFloat(c.Max)).InexactFloat64()
}

// clampChance bounds v below by lo first and then above by hi, so hi wins
// when the bounds are inverted.
func clampChance(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		v = lo
	}
	if v.GreaterThan(hi) {
		v = hi
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
