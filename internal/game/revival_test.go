package game

import (
	"testing"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"
)

func TestRevivalFailureIsIdempotent(t *testing.T) {
	model := wheel.NewModel(5, 30, 200)
	model.AddReward(150)
	model.SetPendingBomb(true)

	var trace []string
	resume := &traceState{name: StatePlaying, trace: &trace}
	r := NewRevival(model, &Machine{}, resume)

	for i := 0; i < 5; i++ {
		if r.TryRevive(model.ContinueCost(), model.PendingReward()) {
			t.Fatalf("attempt %d: revive succeeded without funds", i)
		}
	}
	if model.PendingReward() != 150 || !model.PendingBomb() || model.ContinuesUsed() != 0 || len(trace) != 0 {
		t.Fatalf("failed revive mutated state: pending=%d bomb=%v continues=%d trace=%v",
			model.PendingReward(), model.PendingBomb(), model.ContinuesUsed(), trace)
	}
}

func TestRevivalSuccess(t *testing.T) {
	model := wheel.NewModel(5, 30, 200)
	model.AddReward(500)
	model.SetZoneIndex(12)
	model.SetPendingBomb(true)

	var trace []string
	resume := &traceState{name: StatePlaying, trace: &trace}
	machine := &Machine{}
	r := NewRevival(model, machine, resume)

	if !r.CanRevive(200, 500) || r.CanRevive(201, 200) {
		t.Fatal("CanRevive predicate wrong")
	}
	if !r.TryRevive(model.ContinueCost(), model.PendingReward()) {
		t.Fatal("revive failed")
	}
	if model.PendingReward() != 300 || model.PendingBomb() || model.ContinuesUsed() != 1 || model.Zone() != 12 {
		t.Fatalf("unexpected state after revive: pending=%d bomb=%v continues=%d zone=%d",
			model.PendingReward(), model.PendingBomb(), model.ContinuesUsed(), model.Zone())
	}
	if machine.Current() != resume {
		t.Fatal("machine did not resume")
	}
	if model.ContinueCost() != 400 {
		t.Fatalf("next cost = %d, want 400", model.ContinueCost())
	}
}
