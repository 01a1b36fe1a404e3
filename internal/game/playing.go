package game

import (
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

type playingState struct {
	g *Game

	category    wheel.Category
	initialized bool
}

func (s *playingState) Name() StateName { return StatePlaying }

func (s *playingState) Enter() { s.prepareZone() }

func (s *playingState) Exit() {}

func (s *playingState) HandleSpinRequested() bool {
	g := s.g
	if g.spinning || g.model.PendingBomb() {
		return false
	}

	var target int
	if g.activeRequest != nil {
		target = g.activeRequest.TargetSliceIndex
	} else {
		target = g.resolveTargetLocked()
		g.activeRequest = &SpinRequest{TargetSliceIndex: target}
	}
	target = clampSlice(target, g.model.SliceCount())

	g.spinning = true
	g.spinToken++
	token := g.spinToken

	g.audio.Play(CueWheelRotate)
	g.haptics.Pulse(HapticMedium)
	s.render(false)

	g.dispatch = &dispatch{
		target: target,
		count:  g.model.SliceCount(),
		done:   func(sliceIndex int) { g.finishSpin(token, sliceIndex) },
	}
	g.log.Debug("spin dispatched",
		zap.Int("zone", g.model.Zone()),
		zap.Int("target", target),
		zap.Bool("forced", g.activeRequest.Forced))
	return true
}

func (s *playingState) HandleLeaveRequested() bool {
	g := s.g
	if g.spinning {
		return false
	}
	g.cancelTimerLocked()
	g.record(EventLeave, -1, wheel.Slice{}, 0)
	g.audio.Play(CueButtonLeave)
	g.model.ResetGame()
	g.collected.Clear()
	s.prepareZone()
	return true
}

func (s *playingState) HandleContinueRequested() bool { return false }

func (s *playingState) HandleGiveUpRequested() bool { return false }

// prepareZone rebuilds the wheel for the current zone and renders it.
func (s *playingState) prepareZone() {
	g := s.g
	if !g.profile.HasValidBaseline() {
		g.log.Warn("profile has no valid baseline, zone not prepared")
		return
	}

	g.model.SetIntervals(g.profile.SafeInterval, g.profile.SuperInterval)
	category := g.model.Category()
	g.model.SetSlices(g.profile.ForCategory(category).Slices, g.profile.Bomb)

	changed := s.initialized && category != s.category
	s.category = category
	s.initialized = true

	if changed {
		switch category {
		case wheel.CategorySafe:
			g.audio.Play(CueSilverZoneEnter)
		case wheel.CategorySuper:
			g.audio.Play(CueSuperZoneEnter)
		}
	}
	s.render(changed)
}

func (s *playingState) render(zoneChanged bool) {
	g := s.g
	canSpin := g.canSpinLocked()
	g.display.Render(Frame{
		Slices:      g.model.Slices(),
		Zone:        g.profile.Display(g.model.Zone()),
		ZoneChanged: zoneChanged,
		CanSpin:     canSpin,
		CanLeave:    canSpin && g.model.PendingReward() > 0,
	})
}

func clampSlice(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
