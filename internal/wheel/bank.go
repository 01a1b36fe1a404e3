package wheel

// RewardBank tracks rewards collected in the current run (pending) and
// over the whole session (lifetime). Spending only touches pending.
type RewardBank struct {
	pending  int
	lifetime int
}

func (b *RewardBank) Pending() int { return b.pending }
func (b *RewardBank) Lifetime() int { return b.lifetime }

// Add credits value to both totals. Non-positive values are ignored.
func (b *RewardBank) Add(value int) {
	if value <= 0 {
		return
	}
	b.pending += value
	b.lifetime += value
}

// TrySpend deducts amount from pending if it is covered.
// Non-positive amounts always succeed and change nothing.
func (b *RewardBank) TrySpend(amount int) bool {
	if amount <= 0 {
		return true
	}
	if b.pending < amount {
		return false
	}
	b.pending -= amount
	return true
}

// ClearPending drops the pending total. Lifetime is kept.
func (b *RewardBank) ClearPending() {
	b.pending = 0
}
