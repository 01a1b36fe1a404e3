// Package autoplay drives a game session without a player.
package autoplay

import (
	"context"
	"fmt"
	"strings"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

// Action is what a strategy wants to do next.
type Action string

const (
	ActionSpin     Action = "spin"
	ActionLeave    Action = "leave"
	ActionContinue Action = "continue"
	ActionGiveUp   Action = "giveup"
	ActionStop     Action = "stop"
)

// ParseAction accepts the action names with "give_up" as an alias.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionSpin, ActionLeave, ActionContinue, ActionGiveUp, ActionStop:
		return a, nil
	case "give_up":
		return ActionGiveUp, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Strategy picks the next action from the session state.
type Strategy interface {
	Decide(ctx context.Context, snap game.Snapshot) (Action, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, snap game.Snapshot) (Action, error)

func (f StrategyFunc) Decide(ctx context.Context, snap game.Snapshot) (Action, error) {
	return f(ctx, snap)
}

type StopReason string

const (
	StopMaxSteps StopReason = "max_steps"
	StopMaxRuns  StopReason = "max_runs"
	StopStrategy StopReason = "strategy"
	StopRejected StopReason = "rejected"
	StopCanceled StopReason = "canceled"
)

// Options bounds a Play loop. A run ends when the player leaves or gives up.
type Options struct {
	MaxSteps int
	MaxRuns  int
	// MaxRejected stops the loop after that many consecutive refused actions.
	MaxRejected int
}

// Result summarizes a Play loop.
type Result struct {
	Steps    int            `json:"steps"`
	Spins    int            `json:"spins"`
	Bombs    int            `json:"bombs"`
	Revives  int            `json:"revives"`
	GiveUps  int            `json:"give_ups"`
	Leaves   int            `json:"leaves"`
	Runs     int            `json:"runs"`
	Rejected int            `json:"rejected"`
	MaxZone  int            `json:"max_zone"`
	Banked   int            `json:"banked"`
	Spent    int            `json:"spent"`
	Reason   StopReason     `json:"reason"`
	Final    *game.Snapshot `json:"final,omitempty"`
}

const defaultMaxSteps = 10_000

// Play asks strategy for actions and applies them to g until a limit is
// reached, the strategy stops or ctx is done. Spins left in flight by an
// out-of-band animator are completed immediately.
func Play(ctx context.Context, g *game.Game, strategy Strategy, opts Options) (Result, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	if opts.MaxRejected <= 0 {
		opts.MaxRejected = 3
	}

	var (
		res      Result
		rejected int
	)
	finish := func(reason StopReason) Result {
		snap := g.Snapshot()
		res.Reason = reason
		res.Final = &snap
		res.MaxZone = max(res.MaxZone, snap.Zone.Zone)
		return res
	}

	for res.Steps < opts.MaxSteps {
		if err := ctx.Err(); err != nil {
			return finish(StopCanceled), nil
		}
		if opts.MaxRuns > 0 && res.Runs >= opts.MaxRuns {
			return finish(StopMaxRuns), nil
		}

		snap := settle(g)
		res.MaxZone = max(res.MaxZone, snap.Zone.Zone)

		action, err := strategy.Decide(ctx, snap)
		if err != nil {
			return finish(StopStrategy), fmt.Errorf("autoplay: decide at step %d: %w", res.Steps, err)
		}
		if action == ActionStop {
			return finish(StopStrategy), nil
		}
		res.Steps++

		if apply(g, action, snap, &res) {
			rejected = 0
			continue
		}
		res.Rejected++
		rejected++
		if rejected >= opts.MaxRejected {
			return finish(StopRejected), nil
		}
	}
	return finish(StopMaxSteps), nil
}

func apply(g *game.Game, action Action, before game.Snapshot, res *Result) bool {
	switch action {
	case ActionSpin:
		if !g.RequestSpin() {
			return false
		}
		res.Spins++
		if after := settle(g); after.PendingBomb {
			res.Bombs++
		}
		return true
	case ActionLeave:
		if !g.RequestLeave() {
			return false
		}
		res.Leaves++
		res.Runs++
		res.Banked += before.PendingReward
		return true
	case ActionContinue:
		if !g.RequestContinue() {
			return false
		}
		res.Revives++
		res.Spent += before.ContinueCost
		return true
	case ActionGiveUp:
		if !g.RequestGiveUp() {
			return false
		}
		res.GiveUps++
		res.Runs++
		return true
	default:
		return false
	}
}

// settle completes an in-flight spin and returns the resulting state.
func settle(g *game.Game) game.Snapshot {
	snap := g.Snapshot()
	if snap.Spinning {
		g.CompleteSpin()
		snap = g.Snapshot()
	}
	return snap
}
