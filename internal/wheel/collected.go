package wheel

// CollectedItem is the running total of one reward id.
type CollectedItem struct {
	ID     string     `json:"id"`
	Kind   RewardKind `json:"kind"`
	Amount int        `json:"amount"`
}

// Collected aggregates the rewards won in the current run, in the order
// each id was first won.
type Collected struct {
	items []CollectedItem
	index map[string]int
}

// Add merges a won slice into the ledger. Bombs are not rewards.
func (c *Collected) Add(s Slice) {
	if s.IsBomb() {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[s.ID]; ok {
		c.items[i].Amount += s.Value
		return
	}
	c.index[s.ID] = len(c.items)
	c.items = append(c.items, CollectedItem{ID: s.ID, Kind: s.Kind, Amount: s.Value})
}

// Items returns a copy of the ledger.
func (c *Collected) Items() []CollectedItem {
	out := make([]CollectedItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collected) Clear() {
	c.items = nil
	c.index = nil
}

// TotalCurrency sums the currency items.
func (c *Collected) TotalCurrency() int {
	total := 0
	for _, it := range c.items {
		if it.Kind == RewardCurrency {
			total += it.Amount
		}
	}
	return total
}

// SpendCurrency removes up to amount from currency items in ledger order
// and returns how much was removed. Items spent down to zero leave the
// ledger.
func (c *Collected) SpendCurrency(amount int) int {
	if amount <= 0 {
		return 0
	}
	removed := 0
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Kind == RewardCurrency && removed < amount {
			take := min(it.Amount, amount-removed)
			it.Amount -= take
			removed += take
			if it.Amount == 0 {
				continue
			}
		}
		kept = append(kept, it)
	}
	c.items = kept
	c.reindex()
	return removed
}

func (c *Collected) reindex() {
	if len(c.items) == 0 {
		c.items = nil
		c.index = nil
		return
	}
	c.index = make(map[string]int, len(c.items))
	for i, it := range c.items {
		c.index[it.ID] = i
	}
}
