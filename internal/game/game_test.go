package game

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func TestZoneProgression(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	for i := 0; i < 3; i++ {
		if !h.spinTo(0) {
			t.Fatalf("spin %d refused", i)
		}
	}
	snap := g.Snapshot()
	if snap.Zone.Zone != 4 || snap.Zone.Category != wheel.CategoryNormal || snap.PendingReward != 300 {
		t.Fatalf("after three spins: zone=%d category=%v pending=%d", snap.Zone.Zone, snap.Zone.Category, snap.PendingReward)
	}
	if h.audio.has(CueSilverZoneEnter) {
		t.Fatal("silver cue played too early")
	}

	h.spinTo(0)
	snap = g.Snapshot()
	if snap.Zone.Zone != 5 || snap.Zone.Category != wheel.CategorySafe {
		t.Fatalf("zone 5: got zone=%d category=%v", snap.Zone.Zone, snap.Zone.Category)
	}
	if !h.audio.has(CueSilverZoneEnter) || !h.display.last().ZoneChanged {
		t.Fatal("entering a safe zone did not announce the change")
	}
	if wheel.BombIndex(snap.Slices) != -1 {
		t.Fatal("safe zone wheel carries a bomb")
	}
	if g.TryForceBombSlice() {
		t.Fatal("forced a bomb on a wheel without one")
	}

	if !g.SetZoneIndex(30) {
		t.Fatal("SetZoneIndex refused")
	}
	snap = g.Snapshot()
	if snap.Zone.Category != wheel.CategorySuper || snap.Zone.Visual.Title != "GOLD" {
		t.Fatalf("zone 30: category=%v title=%q", snap.Zone.Category, snap.Zone.Visual.Title)
	}
	if !h.audio.has(CueSuperZoneEnter) {
		t.Fatal("super cue not played")
	}
}

func TestBombThenContinue(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	h.spinTo(0)
	h.spinTo(0)
	if !g.TryForceBombSlice() {
		t.Fatal("bomb not forceable in a normal zone")
	}
	if !g.RequestSpin() {
		t.Fatal("bomb spin refused")
	}

	snap := g.Snapshot()
	if snap.State != StateBomb || !snap.PendingBomb || snap.Zone.Zone != 3 {
		t.Fatalf("after bomb: state=%s bomb=%v zone=%d", snap.State, snap.PendingBomb, snap.Zone.Zone)
	}
	if g.CanSpin() || g.RequestSpin() || g.RequestLeave() {
		t.Fatal("spin or leave allowed while a bomb is pending")
	}
	if f := h.display.last(); f.CanSpin || f.CanLeave {
		t.Fatalf("bomb frame allows input: %+v", f)
	}
	if !g.CanContinue() || snap.ContinueCost != 200 {
		t.Fatalf("continue not offered: cost=%d pending=%d", snap.ContinueCost, snap.PendingReward)
	}

	if !g.RequestContinue() {
		t.Fatal("continue refused")
	}
	snap = g.Snapshot()
	if snap.State != StatePlaying || snap.PendingBomb || snap.Zone.Zone != 3 {
		t.Fatalf("after continue: state=%s bomb=%v zone=%d", snap.State, snap.PendingBomb, snap.Zone.Zone)
	}
	if snap.PendingReward != 0 || snap.LifetimeReward != 200 || snap.ContinuesUsed != 1 || snap.ContinueCost != 400 {
		t.Fatalf("after continue: pending=%d lifetime=%d continues=%d cost=%d",
			snap.PendingReward, snap.LifetimeReward, snap.ContinuesUsed, snap.ContinueCost)
	}
	if len(snap.Collected) != 0 || snap.CollectedCurrency != 0 {
		t.Fatalf("collected ledger not charged: %+v", snap.Collected)
	}

	want := []EventKind{EventReward, EventReward, EventBomb, EventRevive}
	if got := h.events.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if h.events.events[3].Cost != 200 || !h.events.events[2].Forced {
		t.Fatalf("event details wrong: %+v", h.events.events[2:])
	}
	wantPulses := []Haptic{
		HapticMedium, HapticHeavy, HapticSuccess,
		HapticMedium, HapticHeavy, HapticSuccess,
		HapticMedium, HapticHeavy, HapticError,
		HapticLight,
	}
	if !reflect.DeepEqual(h.haptics.pulses, wantPulses) {
		t.Fatalf("haptics = %v, want %v", h.haptics.pulses, wantPulses)
	}
}

func TestBombThenGiveUp(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	h.spinTo(0)
	g.TryForceBombSlice()
	g.RequestSpin()

	for i := 0; i < 3; i++ {
		if g.RequestContinue() {
			t.Fatal("continue succeeded with 100 pending")
		}
	}
	snap := g.Snapshot()
	if snap.PendingReward != 100 || !snap.PendingBomb || snap.ContinuesUsed != 0 {
		t.Fatalf("failed continue changed state: %+v", snap)
	}

	if !g.RequestGiveUp() {
		t.Fatal("give up refused")
	}
	snap = g.Snapshot()
	if snap.State != StatePlaying || snap.Zone.Zone != 1 || snap.PendingReward != 0 || snap.PendingBomb {
		t.Fatalf("after give up: %+v", snap)
	}
	if snap.LifetimeReward != 100 || len(snap.Collected) != 0 || !snap.CanSpin {
		t.Fatalf("after give up: lifetime=%d collected=%v canSpin=%v", snap.LifetimeReward, snap.Collected, snap.CanSpin)
	}
	if g.RequestGiveUp() || g.RequestContinue() {
		t.Fatal("bomb actions accepted while playing")
	}
}

func TestLeave(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	if g.CanLeave() {
		t.Fatal("leave offered with nothing pending")
	}
	h.spinTo(0)
	h.spinTo(6)
	if !g.CanLeave() || !h.display.last().CanLeave {
		t.Fatal("leave not offered")
	}
	snap := g.Snapshot()
	if snap.PendingReward != 101 || len(snap.Collected) != 2 {
		t.Fatalf("pending=%d collected=%v", snap.PendingReward, snap.Collected)
	}

	if !g.RequestLeave() {
		t.Fatal("leave refused")
	}
	snap = g.Snapshot()
	if snap.Zone.Zone != 1 || snap.PendingReward != 0 || snap.LifetimeReward != 101 || len(snap.Collected) != 0 {
		t.Fatalf("after leave: %+v", snap)
	}
	if !h.audio.has(CueButtonLeave) {
		t.Fatal("leave cue not played")
	}
}

func TestManualAnimatorCompletesOnce(t *testing.T) {
	h := newHarness(testProfile(), ManualAnimator{})
	g := h.game

	g.ForceNextSlice(2)
	if !g.RequestSpin() {
		t.Fatal("spin refused")
	}
	if req := g.Snapshot().ActiveRequest; req == nil || req.TargetSliceIndex != 2 || !req.Forced {
		t.Fatalf("active request = %+v", req)
	}
	if g.CanSpin() || g.RequestSpin() || g.RequestLeave() {
		t.Fatal("second spin or leave accepted mid-spin")
	}
	if h.display.last().CanSpin {
		t.Fatal("spinning frame allows a spin")
	}

	if !g.CompleteSpin() {
		t.Fatal("completion refused")
	}
	if g.CompleteSpin() {
		t.Fatal("spin completed twice")
	}
	snap := g.Snapshot()
	if snap.Zone.Zone != 2 || snap.PendingReward != 100 || snap.Spinning {
		t.Fatalf("after completion: %+v", snap)
	}
}

func TestLateAnimatorCallbackIgnored(t *testing.T) {
	anim := &recordingAnimator{}
	h := newHarness(testProfile(), anim)
	g := h.game

	g.ForceNextSlice(0)
	g.RequestSpin()
	call := anim.lastCall()
	if call.target != 0 || call.count != wheel.SliceCount {
		t.Fatalf("animator call = %+v", call)
	}

	call.done(0)
	call.done(0)
	if snap := g.Snapshot(); snap.Zone.Zone != 2 || snap.PendingReward != 100 {
		t.Fatalf("duplicate completion applied: %+v", snap)
	}

	g.ForceNextSlice(0)
	g.RequestSpin()
	stale := anim.lastCall()
	g.ResetToInitialState()
	stale.done(0)

	snap := g.Snapshot()
	if snap.Zone.Zone != 1 || snap.PendingReward != 0 || snap.Spinning || !snap.CanSpin {
		t.Fatalf("stale completion after reset applied: %+v", snap)
	}
	if kinds := h.events.kinds(); kinds[len(kinds)-1] != EventReset {
		t.Fatalf("events = %v", kinds)
	}
}

func TestInvalidCompletionIndex(t *testing.T) {
	anim := &recordingAnimator{}
	h := newHarness(testProfile(), anim)
	g := h.game

	g.RequestSpin()
	anim.lastCall().done(42)

	snap := g.Snapshot()
	if snap.Spinning || snap.Zone.Zone != 1 || snap.PendingReward != 0 || !snap.CanSpin {
		t.Fatalf("invalid completion changed the run: %+v", snap)
	}
}

func TestPostSpinDelay(t *testing.T) {
	profile := testProfile()
	profile.PostSpinDelay = 500 * time.Millisecond
	h := newHarness(profile, InstantAnimator{})
	g := h.game

	h.spinTo(0)
	snap := g.Snapshot()
	if !snap.Settling || snap.Zone.Zone != 2 {
		t.Fatalf("expected a pending re-entry: %+v", snap)
	}
	frames := h.display.count()
	h.sched.fireAll()
	if h.display.count() != frames+1 || g.Snapshot().Settling {
		t.Fatal("timer did not re-enter playing")
	}
}

func TestPostSpinTimerCancelledByLeave(t *testing.T) {
	profile := testProfile()
	profile.PostSpinDelay = time.Second
	h := newHarness(profile, InstantAnimator{})
	g := h.game

	h.spinTo(0)
	if !g.RequestLeave() {
		t.Fatal("leave refused during the post-spin delay")
	}
	frames := h.display.count()
	h.sched.fireAll()
	if h.display.count() != frames {
		t.Fatal("stale timer re-entered playing")
	}
}

func TestSpinDuringPostSpinDelay(t *testing.T) {
	profile := testProfile()
	profile.PostSpinDelay = time.Second
	h := newHarness(profile, InstantAnimator{})
	g := h.game

	for i := 0; i < 4; i++ {
		if !h.spinTo(0) {
			t.Fatalf("spin %d refused during settle", i)
		}
	}
	if snap := g.Snapshot(); snap.Zone.Zone != 5 {
		t.Fatalf("zone = %d, want 5", snap.Zone.Zone)
	}
	g.RequestSpin()
	if snap := g.Snapshot(); snap.PendingReward != 650 {
		t.Fatalf("settled spin did not use the safe wheel: pending=%d", snap.PendingReward)
	}
}

func TestForceNextSliceClamps(t *testing.T) {
	h := newHarness(testProfile(), ManualAnimator{})
	g := h.game

	g.ForceNextSlice(99)
	if snap := g.Snapshot(); snap.PendingRequest == nil || snap.PendingRequest.TargetSliceIndex != 7 {
		t.Fatalf("pending request = %+v", snap.PendingRequest)
	}
	g.ForceNextSlice(-4)
	if snap := g.Snapshot(); snap.PendingRequest.TargetSliceIndex != 0 {
		t.Fatalf("pending request = %+v", snap.PendingRequest)
	}

	g.RequestSpin()
	g.ForceNextSlice(5)
	g.ClearForcedSlice()
	snap := g.Snapshot()
	if snap.PendingRequest != nil {
		t.Fatal("pending force survived ClearForcedSlice")
	}
	if snap.ActiveRequest == nil || snap.ActiveRequest.TargetSliceIndex != 0 {
		t.Fatal("ClearForcedSlice dropped the in-flight target")
	}
}

func TestForceRandomNonBomb(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	for i := 0; i < 20; i++ {
		if !g.TryForceRandomNonBombSlice() {
			t.Fatal("no reward slice to force")
		}
		g.RequestSpin()
		if g.Snapshot().PendingBomb {
			t.Fatalf("spin %d landed on the bomb", i)
		}
	}
}

func TestForceCheatsReadTheNextWheel(t *testing.T) {
	profile := testProfile()
	profile.PostSpinDelay = time.Second

	t.Run("safe after a silver win", func(t *testing.T) {
		h := newHarness(profile, InstantAnimator{})
		g := h.game
		for i := 0; i < 40; i++ {
			if !g.SetZoneIndex(5) {
				t.Fatalf("round %d: SetZoneIndex refused", i)
			}
			h.spinTo(0)
			if snap := g.Snapshot(); !snap.Settling || snap.Zone.Zone != 6 {
				t.Fatalf("round %d: expected a pending re-entry at zone 6: %+v", i, snap)
			}
			if !g.TryForceRandomNonBombSlice() {
				t.Fatalf("round %d: no reward slice to force", i)
			}
			snap := g.Snapshot()
			if snap.Settling || wheel.BombIndex(snap.Slices) != testBombIndex {
				t.Fatalf("round %d: zone 6 wheel not in place: settling=%v", i, snap.Settling)
			}
			if snap.PendingRequest.TargetSliceIndex == testBombIndex {
				t.Fatalf("round %d: forced target is the bomb", i)
			}
			g.RequestSpin()
			if g.Snapshot().PendingBomb {
				t.Fatalf("round %d: forced reward landed on the bomb", i)
			}
		}
	})

	t.Run("bomb after entering a safe zone", func(t *testing.T) {
		h := newHarness(profile, InstantAnimator{})
		g := h.game
		for i := 0; i < 4; i++ {
			h.spinTo(0)
		}
		if snap := g.Snapshot(); !snap.Settling || snap.Zone.Zone != 5 {
			t.Fatalf("expected a pending re-entry at zone 5: %+v", snap)
		}
		if g.TryForceBombSlice() {
			t.Fatal("forced a bomb onto the safe wheel")
		}
	})

	t.Run("bomb after leaving a safe zone", func(t *testing.T) {
		h := newHarness(profile, InstantAnimator{})
		g := h.game
		g.SetZoneIndex(5)
		h.spinTo(0)
		if !g.TryForceBombSlice() {
			t.Fatal("bomb not forceable on the zone 6 wheel")
		}
		g.RequestSpin()
		snap := g.Snapshot()
		if !snap.PendingBomb || snap.Zone.Zone != 6 {
			t.Fatalf("forced bomb missed: bomb=%v zone=%d", snap.PendingBomb, snap.Zone.Zone)
		}
	})
}

func TestForceRandomNonBombKeepsSeededStream(t *testing.T) {
	draws := func(cheat bool) []int {
		h := newHarness(testProfile(), ManualAnimator{})
		g := h.game
		g.SetSeed(7)
		if cheat {
			g.TryForceRandomNonBombSlice()
			g.ClearForcedSlice()
		}
		slices := g.WorkingSlices()
		out := make([]int, 8)
		for i := range out {
			out[i] = g.Randomizer().ResolveSliceIndex(slices, 1)
		}
		return out
	}
	if plain, cheated := draws(false), draws(true); !reflect.DeepEqual(plain, cheated) {
		t.Fatalf("cheat shifted the seeded sequence:\n%v\n%v", plain, cheated)
	}
}

func TestZoneHooksRefusedMidSpinAndOnBomb(t *testing.T) {
	h := newHarness(testProfile(), ManualAnimator{})
	g := h.game

	g.RequestSpin()
	if g.SetZoneIndex(10) || g.SetZoneCategory(wheel.CategorySuper) {
		t.Fatal("zone hook accepted mid-spin")
	}
	g.CompleteSpin()

	g.TryForceBombSlice()
	g.RequestSpin()
	g.CompleteSpin()
	if g.SetZoneIndex(10) {
		t.Fatal("zone hook accepted with a pending bomb")
	}

	g.RequestGiveUp()
	if !g.SetZoneCategory(wheel.CategorySafe) || g.Snapshot().Zone.Zone != 5 {
		t.Fatalf("SetZoneCategory(safe) landed on zone %d", g.Snapshot().Zone.Zone)
	}
	if !g.SetZoneIndex(0) || g.Snapshot().Zone.Zone != 1 {
		t.Fatal("SetZoneIndex did not clamp to 1")
	}
}

func TestSeedReproducibility(t *testing.T) {
	play := func() []int {
		h := newHarness(testProfile(), InstantAnimator{})
		h.game.SetSeed(7)
		h.game.SetBombChance(0.25)
		var zones []int
		for i := 0; i < 30; i++ {
			if !h.game.RequestSpin() {
				h.game.RequestGiveUp()
			}
			zones = append(zones, h.game.Snapshot().Zone.Zone)
		}
		return zones
	}
	if a, b := play(), play(); !reflect.DeepEqual(a, b) {
		t.Fatalf("seeded runs diverged:\n%v\n%v", a, b)
	}
}

func TestNilCollaborators(t *testing.T) {
	g := New(Options{Profile: testProfile()})
	if g.CanSpin() {
		t.Fatal("spin allowed before Start")
	}
	g.Start()
	g.Start()
	g.ForceNextSlice(0)
	if !g.RequestSpin() {
		t.Fatal("spin refused")
	}
	if g.Snapshot().Zone.Zone != 2 {
		t.Fatal("spin did not land")
	}
	g.Close()
}

func TestInvalidProfileDoesNotPanic(t *testing.T) {
	g := New(Options{Profile: wheel.Profile{}})
	g.Start()
	g.RequestSpin()
	g.RequestLeave()
	g.ResetToInitialState()
}

func TestConcurrentRequests(t *testing.T) {
	h := newHarness(testProfile(), InstantAnimator{})
	g := h.game

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if !g.RequestSpin() {
					g.RequestContinue()
					g.RequestGiveUp()
				}
				g.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := g.Snapshot()
	if snap.Spinning || snap.Zone.Zone < 1 {
		t.Fatalf("inconsistent state: %+v", snap)
	}
}
