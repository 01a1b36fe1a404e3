// Package scripting runs autoplay strategies written in JavaScript.
//
// A script defines decide(), which is called before every action with the
// session state in globals and returns "spin", "leave", "continue",
// "giveup" or "stop". Calling stop() also ends the loop.
package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/autoplay"
	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

// Strategy is an autoplay.Strategy backed by a script.
type Strategy struct {
	vm    *VM
	calls int
}

var _ autoplay.Strategy = (*Strategy)(nil)

// NewStrategy compiles source and checks that it defines decide().
func NewStrategy(ctx context.Context, source string) (*Strategy, error) {
	vm := NewVM()
	if err := vm.Execute(ctx, source); err != nil {
		return nil, err
	}
	if !vm.HasFunc("decide") {
		return nil, fmt.Errorf("decide() function is not defined")
	}
	return &Strategy{vm: vm}, nil
}

// Decide implements autoplay.Strategy.
func (s *Strategy) Decide(ctx context.Context, snap game.Snapshot) (autoplay.Action, error) {
	s.calls++
	out, err := s.vm.Call(ctx, "decide", globals(snap, s.calls))
	if err != nil {
		return "", err
	}
	if s.vm.TakeStopRequest() {
		return autoplay.ActionStop, nil
	}
	if out == nil || goja.IsUndefined(out) || goja.IsNull(out) {
		return "", fmt.Errorf("decide() returned no action")
	}
	return autoplay.ParseAction(out.String())
}

// Logs returns what the script printed with log() or console.log().
func (s *Strategy) Logs() []LogEntry { return s.vm.Logs() }

func globals(snap game.Snapshot, step int) map[string]any {
	slices := make([]map[string]any, len(snap.Slices))
	for i, sl := range snap.Slices {
		slices[i] = map[string]any{"id": sl.ID, "kind": sl.Kind.String(), "value": sl.Value}
	}
	return map[string]any{
		"step":        step,
		"zone":        snap.Zone.Zone,
		"category":    snap.Zone.Category.String(),
		"tier":        snap.Zone.Tier,
		"pending":     snap.PendingReward,
		"lifetime":    snap.LifetimeReward,
		"bomb":        snap.PendingBomb,
		"cost":        snap.ContinueCost,
		"continues":   snap.ContinuesUsed,
		"bombChance":  snap.BombChance,
		"canSpin":     snap.CanSpin,
		"canLeave":    snap.CanLeave,
		"canContinue": snap.CanContinue,
		"slices":      slices,
	}
}
