package spin

import (
	"testing"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func testSlices(bombAt int) []wheel.Slice {
	slices := make([]wheel.Slice, wheel.SliceCount)
	for i := range slices {
		slices[i] = wheel.Slice{ID: "coin", Kind: wheel.RewardCurrency, Value: (i + 1) * 10}
	}
	if bombAt >= 0 {
		slices[bombAt] = wheel.BombSlice("bomb")
	}
	return slices
}

func seeded(seed int64) *Randomizer {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.UseSeed = true
	return New(cfg)
}

func TestSameSeedSameSequence(t *testing.T) {
	a, b := seeded(12345), seeded(12345)
	slices := testSlices(3)

	for i := 0; i < 500; i++ {
		zone := 1 + i%60
		ga := a.ResolveSliceIndex(slices, zone)
		gb := b.ResolveSliceIndex(slices, zone)
		if ga != gb {
			t.Fatalf("spin %d: %d vs %d", i, ga, gb)
		}
	}
}

func TestForcedSliceIsOneShot(t *testing.T) {
	r := seeded(1)
	r.SetBombChance(1)
	slices := testSlices(7)

	r.ForceNextSlice(2)
	if got := r.ResolveSliceIndex(slices, 40); got != 2 {
		t.Fatalf("forced spin = %d, want 2", got)
	}
	if got := r.ResolveSliceIndex(slices, 40); got != 7 {
		t.Fatalf("second spin = %d, want bomb index 7", got)
	}
}

func TestForcedSliceClamped(t *testing.T) {
	tests := []struct {
		force int
		want  int
	}{
		{99, 7},
		{7, 7},
		{0, 0},
	}
	for _, tt := range tests {
		r := seeded(5)
		r.ForceNextSlice(tt.force)
		if got := r.ResolveSliceIndex(testSlices(-1), 1); got != tt.want {
			t.Errorf("ForceNextSlice(%d) resolved %d, want %d", tt.force, got, tt.want)
		}
	}
}

func TestNegativeForceClears(t *testing.T) {
	clears := map[string]func(*Randomizer){
		"negative index": func(r *Randomizer) { r.ForceNextSlice(-1) },
		"clear":          (*Randomizer).ClearForcedSlice,
	}
	for name, disarm := range clears {
		t.Run(name, func(t *testing.T) {
			r, ref := seeded(5), seeded(5)
			r.ForceNextSlice(4)
			disarm(r)
			slices := testSlices(-1)
			for i := 0; i < 8; i++ {
				if got, want := r.ResolveSliceIndex(slices, 1), ref.ResolveSliceIndex(slices, 1); got != want {
					t.Fatalf("spin %d = %d, want unforced %d", i, got, want)
				}
			}
		})
	}
}

func TestNoBombNeverHitOnFirstZone(t *testing.T) {
	r := seeded(77)
	slices := testSlices(5)
	for i := 0; i < 1000; i++ {
		if got := r.ResolveSliceIndex(slices, 1); got == 5 {
			t.Fatalf("bomb hit on zone 1 at spin %d", i)
		}
	}
}

func TestOverrideAlwaysBomb(t *testing.T) {
	r := seeded(77)
	r.SetBombChance(5)
	if v, ok := r.BombChanceOverride(); !ok || v != 1 {
		t.Fatalf("override = %v, %v; want 1, true", v, ok)
	}

	slices := testSlices(2)
	for i := 0; i < 200; i++ {
		if got := r.ResolveSliceIndex(slices, 1); got != 2 {
			t.Fatalf("spin %d = %d, want bomb 2", i, got)
		}
	}

	r.ClearBombChance()
	if r.BombChance(1) != 0 {
		t.Fatal("cleared override still active")
	}
}

func TestOverrideZeroNeverBomb(t *testing.T) {
	r := seeded(8)
	r.SetBombChance(-1)
	slices := testSlices(0)
	for i := 0; i < 500; i++ {
		if got := r.ResolveSliceIndex(slices, 200); got == 0 {
			t.Fatalf("bomb hit with zero override at spin %d", i)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	r := seeded(3)

	if got := r.ResolveSliceIndex(nil, 10); got != 0 {
		t.Errorf("nil slices = %d, want 0", got)
	}

	r.ForceNextSlice(3)
	if got := r.ResolveSliceIndex([]wheel.Slice{}, 10); got != 0 {
		t.Errorf("forced on empty = %d, want 0", got)
	}

	allBombs := []wheel.Slice{wheel.BombSlice("b"), wheel.BombSlice("b"), wheel.BombSlice("b")}
	r.SetBombChance(0)
	for i := 0; i < 50; i++ {
		got := r.ResolveSliceIndex(allBombs, 10)
		if got < 0 || got >= len(allBombs) {
			t.Fatalf("all-bomb table gave %d", got)
		}
	}

	noBomb := testSlices(-1)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		seen[r.ResolveSliceIndex(noBomb, 50)] = true
	}
	if len(seen) != wheel.SliceCount {
		t.Errorf("no-bomb table covered %d slices, want %d", len(seen), wheel.SliceCount)
	}
}

func TestReseedKeepsForceAndOverride(t *testing.T) {
	r := seeded(10)
	r.ForceNextSlice(6)
	r.SetBombChance(0.5)

	r.SetSeed(99)
	r.UseRandomSeed()

	if v, ok := r.BombChanceOverride(); !ok || v != 0.5 {
		t.Fatalf("override lost on reseed: %v, %v", v, ok)
	}
	if _, ok := r.Seed(); ok {
		t.Fatal("random seed reported as explicit")
	}
	if idx := r.ResolveSliceIndex(testSlices(2), 10); idx != 6 {
		t.Fatalf("force lost on reseed: resolved %d", idx)
	}
}

func TestSetSeedRestartsSequence(t *testing.T) {
	r := seeded(2024)
	slices := testSlices(4)

	first := make([]int, 20)
	for i := range first {
		first[i] = r.ResolveSliceIndex(slices, 30)
	}

	r.SetSeed(2024)
	for i, want := range first {
		if got := r.ResolveSliceIndex(slices, 30); got != want {
			t.Fatalf("spin %d after reseed = %d, want %d", i, got, want)
		}
	}
}

func TestConstructorClampsParameters(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		zone int
		want float64
	}{
		{"negative base", Config{BaseChance: -1, Increment: 0.25, MaxChance: 1, IncrementInterval: 1}, 2, 0.25},
		{"max above one", Config{BaseChance: 0, Increment: 0.25, MaxChance: 9, IncrementInterval: 1}, 9, 1},
		{"zero interval", Config{BaseChance: 0, Increment: 0.1, MaxChance: 1, IncrementInterval: 0}, 4, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.UseSeed = true
			r := New(tt.cfg)
			if got := r.BombChance(tt.zone); got != tt.want {
				t.Fatalf("BombChance(%d) = %v, want %v", tt.zone, got, tt.want)
			}
		})
	}
}
