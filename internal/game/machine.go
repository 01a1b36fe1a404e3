package game

// StateName identifies a state of the session machine.
type StateName string

const (
	StatePlaying StateName = "playing"
	StateBomb    StateName = "bomb"
)

// State is one state of the session machine. Handlers report whether the
// request had an effect.
type State interface {
	Name() StateName
	Enter()
	Exit()
	HandleSpinRequested() bool
	HandleLeaveRequested() bool
	HandleContinueRequested() bool
	HandleGiveUpRequested() bool
}

// Machine holds the current state and sequences transitions.
type Machine struct {
	current State
}

// ChangeState exits the current state and enters next. Re-entering the
// same state runs both hooks.
func (m *Machine) ChangeState(next State) {
	if next == nil {
		return
	}
	if m.current != nil {
		m.current.Exit()
	}
	m.current = next
	next.Enter()
}

// Current returns the active state, or nil before the first transition.
func (m *Machine) Current() State { return m.current }

func (m *Machine) HandleSpinRequested() bool {
	return m.current != nil && m.current.HandleSpinRequested()
}

func (m *Machine) HandleLeaveRequested() bool {
	return m.current != nil && m.current.HandleLeaveRequested()
}

func (m *Machine) HandleContinueRequested() bool {
	return m.current != nil && m.current.HandleContinueRequested()
}

func (m *Machine) HandleGiveUpRequested() bool {
	return m.current != nil && m.current.HandleGiveUpRequested()
}
