package spin

import (
	"sync"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/engine"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

const (
	DefaultBaseChance        = 0.0
	DefaultIncrement         = 0.02
	DefaultMaxChance         = 0.3
	DefaultIncrementInterval = 5
	DefaultSeed              = 12345
)

// Config configures a Randomizer. When UseSeed is false the generator is
// seeded from system entropy.
type Config struct {
	BaseChance        float64
	Increment         float64
	MaxChance         float64
	IncrementInterval int
	Seed              int64
	UseSeed           bool
}

// DefaultConfig returns the stock escalation curve.
func DefaultConfig() Config {
	return Config{
		BaseChance:        DefaultBaseChance,
		Increment:         DefaultIncrement,
		MaxChance:         DefaultMaxChance,
		IncrementInterval: DefaultIncrementInterval,
		Seed:              DefaultSeed,
	}
}

// Randomizer decides which slice a spin lands on.
type Randomizer struct {
	mu sync.Mutex

	src    *engine.Source
	chance Chance

	forced    int
	hasForced bool

	override    float64
	hasOverride bool
}

// New creates a randomizer. Chance parameters are clamped to [0, 1].
func New(cfg Config) *Randomizer {
	r := &Randomizer{
		chance: Chance{
			Base:              clamp01(cfg.BaseChance),
			Increment:         clamp01(cfg.Increment),
			Max:               clamp01(cfg.MaxChance),
			IncrementInterval: max(1, cfg.IncrementInterval),
		},
	}
	if cfg.UseSeed {
		r.src = engine.NewSeeded(cfg.Seed)
	} else {
		r.src = engine.NewFromEntropy()
	}
	return r
}

// ResolveSliceIndex picks the landing slice for a spin at zone.
//
// A forced index is consumed first and returned clamped. Without a bomb
// in slices the pick is uniform. Otherwise one sample decides whether the
// bomb is hit; if not, the pick is uniform over the non-bomb slices only.
func (r *Randomizer) ResolveSliceIndex(slices []wheel.Slice, zone int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(slices)
	if r.hasForced {
		r.hasForced = false
		if n == 0 {
			return 0
		}
		return min(max(r.forced, 0), n-1)
	}
	if n == 0 {
		return 0
	}

	bombIndex := wheel.BombIndex(slices)
	if bombIndex < 0 {
		return r.src.Intn(n)
	}

	if r.src.Float64() < r.bombChanceLocked(zone) {
		return bombIndex
	}

	safe := make([]int, 0, n)
	for i, s := range slices {
		if !s.IsBomb() {
			safe = append(safe, i)
		}
	}
	if len(safe) == 0 {
		return r.src.Intn(n)
	}
	return safe[r.src.Intn(len(safe))]
}

// ForceNextSlice pins the next resolution to index. A negative index
// clears the force instead.
func (r *Randomizer) ForceNextSlice(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 {
		r.hasForced = false
		return
	}
	r.forced = index
	r.hasForced = true
}

func (r *Randomizer) ClearForcedSlice() {
	r.mu.Lock()
	r.hasForced = false
	r.mu.Unlock()
}

// SetBombChance replaces the escalation curve with a fixed chance until
// ClearBombChance is called.
func (r *Randomizer) SetBombChance(chance float64) {
	r.mu.Lock()
	r.override = clamp01(chance)
	r.hasOverride = true
	r.mu.Unlock()
}

func (r *Randomizer) ClearBombChance() {
	r.mu.Lock()
	r.hasOverride = false
	r.mu.Unlock()
}

// BombChanceOverride reports the sticky override, if any.
func (r *Randomizer) BombChanceOverride() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.override, r.hasOverride
}

// BombChance is the effective chance at zone.
func (r *Randomizer) BombChance(zone int) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bombChanceLocked(zone)
}

func (r *Randomizer) bombChanceLocked(zone int) float64 {
	if r.hasOverride {
		return r.override
	}
	return r.chance.At(zone)
}

// SetSeed restarts the generator from seed. Force and override state are
// kept.
func (r *Randomizer) SetSeed(seed int64) {
	r.mu.Lock()
	r.src.Reseed(seed)
	r.mu.Unlock()
}

// UseRandomSeed restarts the generator from system entropy.
func (r *Randomizer) UseRandomSeed() {
	r.mu.Lock()
	r.src.ReseedFromEntropy()
	r.mu.Unlock()
}

// Seed reports the explicit seed in use, if any.
func (r *Randomizer) Seed() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Seed()
}
