package game

import (
	"sync"
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/spin"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

const testBombIndex = 3

func fill(id string, kind wheel.RewardKind, value int) []wheel.Slice {
	out := make([]wheel.Slice, wheel.SliceCount)
	for i := range out {
		out[i] = wheel.Slice{ID: id, Kind: kind, Value: value}
	}
	return out
}

func testProfile() wheel.Profile {
	normal := fill("gold", wheel.RewardCurrency, 100)
	normal[testBombIndex] = wheel.Slice{ID: "bomb_slot", Kind: wheel.RewardBomb}
	normal[6] = wheel.Slice{ID: "chest", Kind: wheel.RewardItem, Value: 1}

	return wheel.Profile{
		SafeInterval:     5,
		SuperInterval:    30,
		BaseContinueCost: 200,
		Normal:           wheel.ZoneProfile{Visual: wheel.Visual{Title: "BRONZE"}, Slices: normal},
		Safe:             wheel.ZoneProfile{Visual: wheel.Visual{Title: "SILVER"}, Slices: fill("silver", wheel.RewardCurrency, 250)},
		Super:            wheel.ZoneProfile{Visual: wheel.Visual{Title: "GOLD"}, Slices: fill("super", wheel.RewardCurrency, 1000)},
		Bomb:             wheel.BombSlice("bomb"),
	}
}

func seededRandomizer(seed int64) *spin.Randomizer {
	cfg := spin.DefaultConfig()
	cfg.Seed = seed
	cfg.UseSeed = true
	return spin.New(cfg)
}

type recordingDisplay struct {
	mu     sync.Mutex
	frames []Frame
}

func (d *recordingDisplay) Render(f Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *recordingDisplay) last() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames[len(d.frames)-1]
}

type recordingAudio struct {
	mu     sync.Mutex
	played []Cue
}

func (a *recordingAudio) Play(c Cue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.played = append(a.played, c)
}

func (a *recordingAudio) Stop(Cue) {}

func (a *recordingAudio) has(c Cue) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.played {
		if p == c {
			return true
		}
	}
	return false
}

type recordingHaptics struct {
	pulses []Haptic
}

func (h *recordingHaptics) Pulse(p Haptic) { h.pulses = append(h.pulses, p) }

type eventLog struct {
	events []Event
}

func (l *eventLog) Record(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) kinds() []EventKind {
	out := make([]EventKind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

// manualScheduler keeps callbacks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	f       func()
	stopped bool
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{f: f}
	s.tasks = append(s.tasks, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

// fireAll runs every callback, including stopped ones, to model a timer
// that already fired when it was cancelled.
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t.f()
	}
}

// recordingAnimator remembers each dispatch and completes nothing.
type recordingAnimator struct {
	mu    sync.Mutex
	calls []animCall
}

type animCall struct {
	target, count int
	done          func(int)
}

func (a *recordingAnimator) SpinToSlice(target, count int, done func(int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, animCall{target: target, count: count, done: done})
}

func (a *recordingAnimator) lastCall() animCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[len(a.calls)-1]
}

type harness struct {
	game     *Game
	display  *recordingDisplay
	audio    *recordingAudio
	haptics  *recordingHaptics
	events   *eventLog
	sched    *manualScheduler
	animator Animator
}

func newHarness(profile wheel.Profile, animator Animator) *harness {
	h := &harness{
		display:  &recordingDisplay{},
		audio:    &recordingAudio{},
		haptics:  &recordingHaptics{},
		events:   &eventLog{},
		sched:    &manualScheduler{},
		animator: animator,
	}
	h.game = New(Options{
		Profile:    profile,
		Randomizer: seededRandomizer(12345),
		Animator:   animator,
		Display:    h.display,
		Audio:      h.audio,
		Haptics:    h.haptics,
		Recorder:   h.events,
		Scheduler:  h.sched,
	})
	h.game.Start()
	return h
}

// spinTo forces and plays one spin with an instant animator.
func (h *harness) spinTo(index int) bool {
	h.game.ForceNextSlice(index)
	return h.game.RequestSpin()
}
