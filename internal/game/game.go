package game

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/engine"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

// SpinRequest pins the outcome of one spin.
type SpinRequest struct {
	TargetSliceIndex int  `json:"target_slice_index"`
	Forced           bool `json:"forced"`
}

type dispatch struct {
	target int
	count  int
	done   func(int)
}

// Options wires a Game. Only Profile is required; a nil Randomizer gets
// the default curve with an entropy seed and nil collaborators are
// replaced by no-ops.
type Options struct {
	Profile    wheel.Profile
	Randomizer *spin.Randomizer
	Animator   Animator
	Display    Display
	Audio      Audio
	Haptics    Haptics
	Recorder   Recorder
	Scheduler  Scheduler
	Logger     *zap.Logger
}

// Game is one play session. All methods are safe for concurrent use; the
// session lock serializes every mutation so the game logic behaves as if
// it ran on a single thread. Collaborators other than the Animator are
// called with the lock held and must not call back into the Game.
type Game struct {
	mu sync.Mutex

	profile    wheel.Profile
	model      *wheel.Model
	collected  wheel.Collected
	randomizer *spin.Randomizer

	// cheatRand picks cheat targets so the seeded spin stream is untouched.
	cheatRand *engine.Source

	machine *Machine
	playing *playingState
	bomb    *bombState
	revival *Revival

	animator  Animator
	display   Display
	audio     Audio
	haptics   Haptics
	recorder  Recorder
	scheduler Scheduler
	log       *zap.Logger

	started  bool
	spinning bool
	// spinToken identifies the in-flight spin; completions carrying an
	// older token are ignored.
	spinToken      uint64
	pendingRequest *SpinRequest
	activeRequest  *SpinRequest
	dispatch       *dispatch

	timerGen     uint64
	timerPending bool
	timerStop    func() bool
}

// New builds a session. Call Start to enter the first zone.
func New(opts Options) *Game {
	g := &Game{
		profile:    opts.Profile,
		randomizer: opts.Randomizer,
		animator:   opts.Animator,
		display:    opts.Display,
		audio:      opts.Audio,
		haptics:    opts.Haptics,
		recorder:   opts.Recorder,
		scheduler:  opts.Scheduler,
		log:        opts.Logger,
		machine:    &Machine{},
		cheatRand:  engine.NewFromEntropy(),
	}
	if g.randomizer == nil {
		g.randomizer = spin.New(spin.DefaultConfig())
	}
	if g.animator == nil {
		g.animator = InstantAnimator{}
	}
	if g.display == nil {
		g.display = nopDisplay{}
	}
	if g.audio == nil {
		g.audio = nopAudio{}
	}
	if g.haptics == nil {
		g.haptics = nopHaptics{}
	}
	if g.recorder == nil {
		g.recorder = nopRecorder{}
	}
	if g.scheduler == nil {
		g.scheduler = TimeScheduler{}
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}

	g.model = wheel.NewModel(g.profile.SafeInterval, g.profile.SuperInterval, g.profile.BaseContinueCost)
	g.playing = &playingState{g: g}
	g.bomb = &bombState{g: g}
	g.revival = NewRevival(g.model, g.machine, g.playing)
	return g
}

// Start plays the background loop and enters the first zone. Calling it
// again has no effect.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.audio.Play(CueBackgroundLoop)
	g.machine.ChangeState(g.playing)
}

// Close cancels the post-spin timer, drops any in-flight spin and stops
// the background loop.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelTimerLocked()
	g.invalidateSpinLocked()
	g.audio.Stop(CueBackgroundLoop)
}

// RequestSpin starts a spin if the wheel can spin. The outcome is the
// armed forced request if there is one, otherwise the randomizer's pick.
// It reports whether a spin was dispatched to the animator.
func (g *Game) RequestSpin() bool {
	g.mu.Lock()
	g.settleLocked()
	if !g.canSpinLocked() {
		g.mu.Unlock()
		return false
	}

	if g.pendingRequest != nil {
		g.activeRequest = g.pendingRequest
		g.pendingRequest = nil
	} else {
		g.activeRequest = &SpinRequest{TargetSliceIndex: g.resolveTargetLocked()}
	}

	g.machine.HandleSpinRequested()
	d := g.dispatch
	g.dispatch = nil
	if d == nil {
		g.activeRequest = nil
	}
	g.mu.Unlock()

	if d == nil {
		return false
	}
	g.animator.SpinToSlice(d.target, d.count, d.done)
	return true
}

// CompleteSpin lands the in-flight spin on its resolved target. It is the
// completion path for animators that report back out of band.
func (g *Game) CompleteSpin() bool {
	g.mu.Lock()
	if !g.spinning || g.activeRequest == nil {
		g.mu.Unlock()
		return false
	}
	token := g.spinToken
	target := clampSlice(g.activeRequest.TargetSliceIndex, g.model.SliceCount())
	g.mu.Unlock()

	return g.finishSpin(token, target)
}

func (g *Game) finishSpin(token uint64, sliceIndex int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.spinning || token != g.spinToken {
		return false
	}
	forced := g.activeRequest != nil && g.activeRequest.Forced
	g.spinning = false
	g.activeRequest = nil
	g.audio.Stop(CueWheelRotate)
	g.haptics.Pulse(HapticHeavy)

	slice, ok := g.model.Slice(sliceIndex)
	if !ok {
		g.log.Warn("spin completed on invalid slice", zap.Int("slice_index", sliceIndex))
		g.playing.render(false)
		return true
	}

	if slice.IsBomb() {
		g.haptics.Pulse(HapticError)
		g.audio.Play(CueBombHit)
		g.recordSpin(EventBomb, sliceIndex, slice, forced)
		g.log.Info("bomb hit",
			zap.Int("zone", g.model.Zone()),
			zap.Int("pending", g.model.PendingReward()))
		g.machine.ChangeState(g.bomb)
		return true
	}

	g.haptics.Pulse(HapticSuccess)
	g.audio.Play(CueReward)
	g.model.AddReward(slice.Value)
	g.collected.Add(slice)
	g.recordSpin(EventReward, sliceIndex, slice, forced)
	g.model.AdvanceZone()
	g.log.Debug("reward collected",
		zap.String("slice", slice.ID),
		zap.Int("value", slice.Value),
		zap.Int("next_zone", g.model.Zone()))

	g.cancelTimerLocked()
	if delay := g.profile.PostSpinDelay; delay > 0 {
		g.schedulePlayingLocked(delay)
	} else {
		g.machine.ChangeState(g.playing)
	}
	return true
}

// RequestLeave banks the run and starts over at zone 1.
func (g *Game) RequestLeave() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.HandleLeaveRequested()
}

// RequestContinue buys back a bomb if the pending reward covers the cost.
func (g *Game) RequestContinue() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.HandleContinueRequested()
}

// RequestGiveUp abandons the run after a bomb.
func (g *Game) RequestGiveUp() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.HandleGiveUpRequested()
}

// ResetToInitialState drops every piece of run state, including an
// in-flight spin, and enters zone 1.
func (g *Game) ResetToInitialState() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelTimerLocked()
	g.invalidateSpinLocked()
	g.pendingRequest = nil
	g.record(EventReset, -1, wheel.Slice{}, 0)
	g.model.ResetGame()
	g.model.ClearPendingRewards()
	g.collected.Clear()
	g.machine.ChangeState(g.playing)
}

func (g *Game) CanSpin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpinLocked()
}

func (g *Game) CanLeave() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpinLocked() && g.model.PendingReward() > 0
}

// CanContinue reports whether a bomb is pending and affordable.
func (g *Game) CanContinue() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canContinueLocked()
}

func (g *Game) canSpinLocked() bool {
	current := g.machine.Current()
	return g.started && current != nil && current.Name() == StatePlaying &&
		!g.spinning && !g.model.PendingBomb()
}

func (g *Game) canContinueLocked() bool {
	return g.model.PendingBomb() && g.model.PendingReward() >= g.model.ContinueCost()
}

func (g *Game) resolveTargetLocked() int {
	idx := g.randomizer.ResolveSliceIndex(g.model.Slices(), g.model.Zone())
	return clampSlice(idx, g.model.SliceCount())
}

// settleLocked applies a pending post-spin re-entry right away.
func (g *Game) settleLocked() {
	if !g.timerPending {
		return
	}
	g.cancelTimerLocked()
	g.machine.ChangeState(g.playing)
}

func (g *Game) schedulePlayingLocked(delay time.Duration) {
	g.timerGen++
	gen := g.timerGen
	g.timerPending = true
	g.timerStop = g.scheduler.AfterFunc(delay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if !g.timerPending || gen != g.timerGen {
			return
		}
		g.timerPending = false
		g.timerStop = nil
		g.machine.ChangeState(g.playing)
	})
}

func (g *Game) cancelTimerLocked() {
	if g.timerStop != nil {
		g.timerStop()
	}
	g.timerStop = nil
	g.timerPending = false
	g.timerGen++
}

func (g *Game) invalidateSpinLocked() {
	if g.spinning {
		g.audio.Stop(CueWheelRotate)
	}
	g.spinning = false
	g.spinToken++
	g.activeRequest = nil
}

func (g *Game) recordSpin(kind EventKind, sliceIndex int, slice wheel.Slice, forced bool) {
	ev := g.event(kind, sliceIndex, slice, 0)
	ev.Forced = forced
	g.recorder.Record(ev)
}

func (g *Game) record(kind EventKind, sliceIndex int, slice wheel.Slice, cost int) {
	g.recorder.Record(g.event(kind, sliceIndex, slice, cost))
}

func (g *Game) event(kind EventKind, sliceIndex int, slice wheel.Slice, cost int) Event {
	zone := g.model.Zone()
	return Event{
		Kind:       kind,
		Zone:       zone,
		Category:   g.model.Category(),
		SliceIndex: sliceIndex,
		Slice:      slice,
		BombChance: g.randomizer.BombChance(zone),
		Cost:       cost,
		Pending:    g.model.PendingReward(),
		Lifetime:   g.model.LifetimeReward(),
		At:         time.Now().UTC(),
	}
}
