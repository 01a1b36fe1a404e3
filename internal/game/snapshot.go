package game

import "github.com/ceoabdo/Wheel-Of-Fortune/internal/wheel"

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State          StateName             `json:"state"`
	Zone           wheel.ZoneDisplay     `json:"zone"`
	ContinuesUsed  int                   `json:"continues_used"`
	ContinueCost   int                   `json:"continue_cost"`
	PendingBomb    bool                  `json:"pending_bomb"`
	PendingReward  int                   `json:"pending_reward"`
	LifetimeReward int                   `json:"lifetime_reward"`
	Spinning       bool                  `json:"spinning"`
	Settling       bool                  `json:"settling"`
	CanSpin        bool                  `json:"can_spin"`
	CanLeave       bool                  `json:"can_leave"`
	CanContinue    bool                  `json:"can_continue"`
	BombChance     float64               `json:"bomb_chance"`
	Slices         []wheel.Slice         `json:"slices"`
	ActiveRequest  *SpinRequest          `json:"active_request,omitempty"`
	PendingRequest *SpinRequest          `json:"pending_request,omitempty"`
	Collected      []wheel.CollectedItem `json:"collected"`

	// CollectedCurrency is the currency total of Collected.
	CollectedCurrency int `json:"collected_currency"`
}

// Snapshot captures the session state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	var state StateName
	if current := g.machine.Current(); current != nil {
		state = current.Name()
	}
	canSpin := g.canSpinLocked()
	zone := g.model.Zone()

	return Snapshot{
		State:          state,
		Zone:           g.profile.Display(zone),
		ContinuesUsed:  g.model.ContinuesUsed(),
		ContinueCost:   g.model.ContinueCost(),
		PendingBomb:    g.model.PendingBomb(),
		PendingReward:  g.model.PendingReward(),
		LifetimeReward: g.model.LifetimeReward(),
		Spinning:       g.spinning,
		Settling:       g.timerPending,
		CanSpin:        canSpin,
		CanLeave:       canSpin && g.model.PendingReward() > 0,
		CanContinue:    g.canContinueLocked(),
		BombChance:     g.randomizer.BombChance(zone),
		Slices:         g.model.Slices(),
		ActiveRequest:  copyRequest(g.activeRequest),
		PendingRequest: copyRequest(g.pendingRequest),
		Collected:      g.collected.Items(),

		CollectedCurrency: g.collected.TotalCurrency(),
	}
}

// WorkingSlices returns a copy of the current wheel.
func (g *Game) WorkingSlices() []wheel.Slice {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.model.Slices()
}

func copyRequest(r *SpinRequest) *SpinRequest {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
