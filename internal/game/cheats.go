package game

import (
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

// Diagnostic and cheat controls. They take effect on the next spin and
// never touch a spin that is already in flight.

// ForceNextSlice arms the next spin to land on index, clamped to the wheel.
func (g *Game) ForceNextSlice(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingRequest = &SpinRequest{
		TargetSliceIndex: clampSlice(index, g.model.SliceCount()),
		Forced:           true,
	}
}

// ClearForcedSlice disarms every pending force.
func (g *Game) ClearForcedSlice() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingRequest = nil
	if !g.spinning {
		g.activeRequest = nil
	}
	g.randomizer.ClearForcedSlice()
}

// TryForceBombSlice arms the next spin onto the bomb. It fails when the
// wheel carries no bomb. A pending post-spin re-entry is applied first so
// the target is read from the wheel the next spin uses.
func (g *Game) TryForceBombSlice() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settleLocked()
	idx := wheel.BombIndex(g.model.Slices())
	if idx < 0 {
		return false
	}
	g.pendingRequest = &SpinRequest{TargetSliceIndex: idx, Forced: true}
	return true
}

// TryForceRandomNonBombSlice arms the next spin onto a random reward slice.
func (g *Game) TryForceRandomNonBombSlice() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settleLocked()

	slices := g.model.Slices()
	indexes := make([]int, 0, len(slices))
	for i, s := range slices {
		if !s.IsBomb() {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return false
	}
	g.pendingRequest = &SpinRequest{TargetSliceIndex: indexes[g.cheatRand.Intn(len(indexes))], Forced: true}
	return true
}

// SetBombChance pins the bomb chance until ClearBombChance.
func (g *Game) SetBombChance(chance float64) { g.randomizer.SetBombChance(chance) }

func (g *Game) ClearBombChance() { g.randomizer.ClearBombChance() }

// SetSeed makes the following spins reproducible.
func (g *Game) SetSeed(seed int64) { g.randomizer.SetSeed(seed) }

func (g *Game) UseRandomSeed() { g.randomizer.UseRandomSeed() }

// Randomizer exposes the session's randomizer for diagnostics.
func (g *Game) Randomizer() *spin.Randomizer { return g.randomizer }

// SetZoneIndex jumps to zone (at least 1) and rebuilds the wheel. It is
// refused while a spin is in flight or a bomb is pending.
func (g *Game) SetZoneIndex(zone int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.spinning || g.model.PendingBomb() {
		return false
	}
	g.cancelTimerLocked()
	g.model.SetZoneIndex(zone)
	g.log.Debug("zone set", zap.Int("zone", g.model.Zone()))
	if g.started {
		g.machine.ChangeState(g.playing)
	}
	return true
}

// SetZoneCategory jumps to the first zone of category c, unless the
// current zone already has that category.
func (g *Game) SetZoneCategory(c wheel.Category) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.spinning || g.model.PendingBomb() {
		return false
	}
	if g.model.Category() == c {
		return true
	}
	g.cancelTimerLocked()
	g.model.SetZoneIndex(wheel.NextZoneOf(c, 1, g.model.SafeInterval(), g.model.SuperInterval()))
	if g.started {
		g.machine.ChangeState(g.playing)
	}
	return true
}
