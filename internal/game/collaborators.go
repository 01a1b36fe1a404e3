package game

import (
	"time"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

// Animator plays the spin and reports where the wheel stopped by calling
// done. done may be called from any goroutine, including synchronously;
// only its first call for a request is applied.
type Animator interface {
	SpinToSlice(target, sliceCount int, done func(sliceIndex int))
}

// Frame is everything the display needs for one render.
type Frame struct {
	Slices      []wheel.Slice     `json:"slices"`
	Zone        wheel.ZoneDisplay `json:"zone"`
	ZoneChanged bool              `json:"zone_changed"`
	CanSpin     bool              `json:"can_spin"`
	CanLeave    bool              `json:"can_leave"`
}

// Display receives render frames. It never reads back into the game.
type Display interface {
	Render(Frame)
}

// Cue is an audio event.
type Cue string

const (
	CueBackgroundLoop  Cue = "background_loop"
	CueWheelRotate     Cue = "wheel_rotate"
	CueReward          Cue = "reward"
	CueBombHit         Cue = "bomb_hit"
	CueButtonLeave     Cue = "button_leave"
	CueButtonGiveUp    Cue = "button_give_up"
	CueButtonContinue  Cue = "button_continue"
	CueSilverZoneEnter Cue = "silver_zone_enter"
	CueSuperZoneEnter  Cue = "super_zone_enter"
)

// Audio is best-effort sound output.
type Audio interface {
	Play(Cue)
	Stop(Cue)
}

// Haptic is a vibration pattern.
type Haptic string

const (
	HapticLight   Haptic = "light"
	HapticMedium  Haptic = "medium"
	HapticHeavy   Haptic = "heavy"
	HapticSuccess Haptic = "success"
	HapticError   Haptic = "error"
)

// Duration is the pulse length of the simple patterns. Success and Error
// are platform defined and report zero.
func (h Haptic) Duration() time.Duration {
	switch h {
	case HapticLight:
		return 10 * time.Millisecond
	case HapticMedium:
		return 20 * time.Millisecond
	case HapticHeavy:
		return 40 * time.Millisecond
	}
	return 0
}

// Haptics is best-effort vibration output.
type Haptics interface {
	Pulse(Haptic)
}

// EventKind classifies recorded game events.
type EventKind string

const (
	EventReward EventKind = "reward"
	EventBomb   EventKind = "bomb"
	EventRevive EventKind = "revive"
	EventGiveUp EventKind = "give_up"
	EventLeave  EventKind = "leave"
	EventReset  EventKind = "reset"
)

// Event is one state-changing outcome of a session.
type Event struct {
	Kind       EventKind      `json:"kind"`
	Zone       int            `json:"zone"`
	Category   wheel.Category `json:"category"`
	SliceIndex int            `json:"slice_index"`
	Slice      wheel.Slice    `json:"slice"`
	Forced     bool           `json:"forced"`
	BombChance float64        `json:"bomb_chance"`
	Cost       int            `json:"cost,omitempty"`
	Pending    int            `json:"pending"`
	Lifetime   int            `json:"lifetime"`
	At         time.Time      `json:"at"`
}

// Recorder observes game events, for persistence or metrics.
type Recorder interface {
	Record(Event)
}

// MultiRecorder fans an event out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(ev Event) {
	for _, r := range m {
		if r != nil {
			r.Record(ev)
		}
	}
}

// Scheduler runs f after d. The returned function cancels the call and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// TimeScheduler schedules with the runtime timer.
type TimeScheduler struct{}

func (TimeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// InstantAnimator lands on the target immediately.
type InstantAnimator struct{}

func (InstantAnimator) SpinToSlice(target, _ int, done func(int)) { done(target) }

// DelayedAnimator lands on the target after a fixed spin time.
type DelayedAnimator struct {
	Scheduler Scheduler
	Duration  time.Duration
}

func (a DelayedAnimator) SpinToSlice(target, _ int, done func(int)) {
	if a.Duration <= 0 {
		done(target)
		return
	}
	s := a.Scheduler
	if s == nil {
		s = TimeScheduler{}
	}
	s.AfterFunc(a.Duration, func() { done(target) })
}

// ManualAnimator leaves completion to an outside caller of
// Game.CompleteSpin, e.g. a client that animates the wheel itself.
type ManualAnimator struct{}

func (ManualAnimator) SpinToSlice(int, int, func(int)) {}

type nopDisplay struct{}

func (nopDisplay) Render(Frame) {}

type nopAudio struct{}

func (nopAudio) Play(Cue) {}
func (nopAudio) Stop(Cue) {}

type nopHaptics struct{}

func (nopHaptics) Pulse(Haptic) {}

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}
