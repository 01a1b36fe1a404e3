package game

import (
	"go.uber.org/zap"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

type bombState struct {
	g *Game
}

func (s *bombState) Name() StateName { return StateBomb }

func (s *bombState) Enter() {
	g := s.g
	g.model.SetPendingBomb(true)
	g.display.Render(Frame{
		Slices: g.model.Slices(),
		Zone:   g.profile.Display(g.model.Zone()),
	})
}

func (s *bombState) Exit() {}

func (s *bombState) HandleSpinRequested() bool { return false }

func (s *bombState) HandleLeaveRequested() bool { return false }

func (s *bombState) HandleContinueRequested() bool {
	g := s.g
	cost := g.model.ContinueCost()
	if !g.revival.TryRevive(cost, g.model.PendingReward()) {
		g.log.Debug("revive rejected",
			zap.Int("cost", cost),
			zap.Int("pending", g.model.PendingReward()))
		return false
	}
	g.collected.SpendCurrency(cost)
	g.audio.Play(CueButtonContinue)
	g.haptics.Pulse(HapticLight)
	g.record(EventRevive, -1, wheel.Slice{}, cost)
	return true
}

func (s *bombState) HandleGiveUpRequested() bool {
	g := s.g
	g.record(EventGiveUp, -1, wheel.Slice{}, 0)
	g.audio.Play(CueButtonGiveUp)
	g.haptics.Pulse(HapticLight)
	g.model.ClearPendingRewards()
	g.model.ResetGame()
	g.collected.Clear()
	g.machine.ChangeState(g.playing)
	return true
}
