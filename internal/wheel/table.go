package wheel

// SliceCount is the number of wedges on the wheel.
const SliceCount = 8

// Table holds the working slices for the current spin round.
type Table struct {
	slices [SliceCount]Slice
}

// Build fills the table from a zone profile's source slices.
//
// An empty source leaves the table untouched and returns false. A source
// entry flagged as bomb is replaced by the live bomb definition at the
// same position. Positions past the end of source repeat its last entry.
func (t *Table) Build(source []Slice, bomb Slice) bool {
	if len(source) == 0 {
		return false
	}

	last := len(source) - 1
	for i := 0; i < SliceCount; i++ {
		if i > last {
			t.slices[i] = source[last]
			continue
		}
		if source[i].IsBomb() {
			t.slices[i] = bomb
			continue
		}
		t.slices[i] = source[i]
	}
	return true
}

// Slices returns a copy of the working slices.
func (t *Table) Slices() []Slice {
	out := make([]Slice, SliceCount)
	copy(out, t.slices[:])
	return out
}

// At returns the slice at index i.
func (t *Table) At(i int) (Slice, bool) {
	if i < 0 || i >= SliceCount {
		return Slice{}, false
	}
	return t.slices[i], true
}

// BombIndex returns the position of the first bomb slice, or -1.
func (t *Table) BombIndex() int {
	return BombIndex(t.slices[:])
}

// Len is always SliceCount.
func (t *Table) Len() int { return SliceCount }

// BombIndex returns the position of the first bomb in slices, or -1.
func BombIndex(slices []Slice) int {
	for i, s := range slices {
		if s.IsBomb() {
			return i
		}
	}
	return -1
}
