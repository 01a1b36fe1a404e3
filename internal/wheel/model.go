package wheel

const initialZone = 1

// Model is the mutable state of one play session.
type Model struct {
	zone          int
	continuesUsed int
	pendingBomb   bool

	safeInterval  int
	superInterval int
	baseCost      int

	table Table
	bank  RewardBank
}

// NewModel creates a session model at zone 1.
func NewModel(safeInterval, superInterval, baseContinueCost int) *Model {
	m := &Model{zone: initialZone, baseCost: baseContinueCost}
	m.SetIntervals(safeInterval, superInterval)
	return m
}

func (m *Model) Zone() int { return m.zone }
func (m *Model) ContinuesUsed() int { return m.continuesUsed }
func (m *Model) PendingBomb() bool { return m.pendingBomb }
func (m *Model) PendingReward() int { return m.bank.Pending() }
func (m *Model) LifetimeReward() int { return m.bank.Lifetime() }
func (m *Model) SafeInterval() int { return m.safeInterval }
func (m *Model) SuperInterval() int { return m.superInterval }
func (m *Model) SetPendingBomb(v bool) { m.pendingBomb = v }

// SetIntervals updates the zone schedule. Values below 1 become 1.
func (m *Model) SetIntervals(safeInterval, superInterval int) {
	m.safeInterval = max(1, safeInterval)
	m.superInterval = max(1, superInterval)
}

// Category resolves the current zone's category.
func (m *Model) Category() Category {
	return ResolveCategory(m.zone, m.safeInterval, m.superInterval)
}


// AdvanceZone moves one step forward.
func (m *Model) AdvanceZone() { m.zone++ }

// SetZoneIndex jumps to zone, clamped to at least 1.
func (m *Model) SetZoneIndex(zone int) { m.zone = max(initialZone, zone) }

// ResetGame returns to zone 1 and drops pending rewards. Lifetime reward
// and the zone schedule survive.
func (m *Model) ResetGame() {
	m.zone = initialZone
	m.continuesUsed = 0
	m.pendingBomb = false
	m.bank.ClearPending()
}

// SetSlices rebuilds the working table. Empty source is a no-op.
func (m *Model) SetSlices(source []Slice, bomb Slice) bool {
	return m.table.Build(source, bomb)
}

// Slices returns a copy of the working slices.
func (m *Model) Slices() []Slice { return m.table.Slices() }

// Slice returns the working slice at i.
func (m *Model) Slice(i int) (Slice, bool) { return m.table.At(i) }

func (m *Model) SliceCount() int { return m.table.Len() }

func (m *Model) AddReward(value int) { m.bank.Add(value) }
func (m *Model) ClearPendingRewards() { m.bank.ClearPending() }
func (m *Model) TrySpend(amount int) bool { return m.bank.TrySpend(amount) }

// ContinueCost is the price of the next revive.
func (m *Model) ContinueCost() int { return ContinueCost(m.baseCost, m.continuesUsed) }

// RegisterContinue records a successful revive.
func (m *Model) RegisterContinue() { m.continuesUsed++ }
