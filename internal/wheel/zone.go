package wheel

import (
	"fmt"
	"strings"
)

// Category is the kind of zone the player is in.
type Category int

const (
	CategoryNormal Category = iota
	CategorySafe
	CategorySuper
)

const DefaultBaseContinueCost = 200

func (c Category) String() string {
	switch c {
	case CategoryNormal:
		return "normal"
	case CategorySafe:
		return "safe"
	case CategorySuper:
		return "super"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// DisplayName is the tier name shown to players.
func (c Category) DisplayName() string {
	switch c {
	case CategorySafe:
		return "silver"
	case CategorySuper:
		return "gold"
	default:
		return "bronze"
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts both the category names and the tier names.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "bronze":
		return CategoryNormal, nil
	case "safe", "silver":
		return CategorySafe, nil
	case "super", "gold":
		return CategorySuper, nil
	}
	return CategoryNormal, fmt.Errorf("unknown zone category %q", s)
}

// ResolveCategory maps a zone index to its category. Super wins when the
// zone is a multiple of both intervals.
func ResolveCategory(zone, safeInterval, superInterval int) Category {
	safeInterval = max(1, safeInterval)
	superInterval = max(1, superInterval)

	if zone%superInterval == 0 {
		return CategorySuper
	}
	if zone%safeInterval == 0 {
		return CategorySafe
	}
	return CategoryNormal
}

// ContinueCost is base × max(1, continuesUsed+1).
func ContinueCost(base, continuesUsed int) int {
	if base < 1 {
		base = DefaultBaseContinueCost
	}
	return base * max(1, continuesUsed+1)
}

// NextZoneOf returns the first zone >= from that resolves to c.
func NextZoneOf(c Category, from, safeInterval, superInterval int) int {
	from = max(1, from)
	safeInterval = max(1, safeInterval)
	superInterval = max(1, superInterval)

	switch c {
	case CategorySuper:
		return ceilMultiple(from, superInterval)
	case CategorySafe:
		for z := ceilMultiple(from, safeInterval); ; z += safeInterval {
			if ResolveCategory(z, safeInterval, superInterval) == CategorySafe {
				return z
			}
			if z > from+safeInterval*superInterval {
				return from
			}
		}
	default:
		for z := from; z < from+safeInterval*superInterval+1; z++ {
			if ResolveCategory(z, safeInterval, superInterval) == CategoryNormal {
				return z
			}
		}
		return from
	}
}

func ceilMultiple(n, m int) int {
	if r := n % m; r != 0 {
		return n + m - r
	}
	return n
}
