package autoplay

import (
	"context"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

// Threshold spins until LeaveAtZone, then leaves. After a bomb it buys back
// while affordable and under MaxContinues, otherwise gives up.
// A zero LeaveAtZone never leaves.
type Threshold struct {
	LeaveAtZone  int `json:"leave_at_zone"`
	MaxContinues int `json:"max_continues"`
}

func (s Threshold) Decide(_ context.Context, snap game.Snapshot) (Action, error) {
	if snap.PendingBomb {
		if snap.CanContinue && snap.ContinuesUsed < s.MaxContinues {
			return ActionContinue, nil
		}
		return ActionGiveUp, nil
	}
	if s.LeaveAtZone > 0 && snap.Zone.Zone >= s.LeaveAtZone && snap.CanLeave {
		return ActionLeave, nil
	}
	return ActionSpin, nil
}
