package game

import "github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"

// Revival decides whether a bomb can be bought back.
type Revival struct {
	model   *wheel.Model
	machine *Machine
	resume  State
}

// NewRevival creates a revival policy that resumes into resume.
func NewRevival(model *wheel.Model, machine *Machine, resume State) *Revival {
	return &Revival{model: model, machine: machine, resume: resume}
}

// CanRevive reports whether available covers cost.
func (r *Revival) CanRevive(cost, available int) bool {
	return available >= cost
}

// TryRevive spends cost from the bank, clears the bomb and resumes play at
// the same zone. A failed attempt changes nothing.
func (r *Revival) TryRevive(cost, available int) bool {
	if !r.CanRevive(cost, available) {
		return false
	}
	if !r.model.TrySpend(cost) {
		return false
	}
	r.model.SetPendingBomb(false)
	r.model.RegisterContinue()
	r.machine.ChangeState(r.resume)
	return true
}
