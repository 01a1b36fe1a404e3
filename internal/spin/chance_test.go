package spin

import "testing"

func TestChanceAt(t *testing.T) {
	c := Chance{Base: 0, Increment: 0.02, Max: 0.3, IncrementInterval: 5}

	tests := []struct {
		zone int
		want float64
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{2, 0},
		{5, 0},
		{6, 0.02},
		{11, 0.04},
		{76, 0.3},
		{500, 0.3},
	}
	for _, tt := range tests {
		if got := c.At(tt.zone); got != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.zone, got, tt.want)
		}
	}
}

func TestChanceMonotonic(t *testing.T) {
	curves := []Chance{
		{Base: 0, Increment: 0.02, Max: 0.3, IncrementInterval: 5},
		{Base: 0.1, Increment: 0.05, Max: 0.5, IncrementInterval: 1},
		{Base: 0.2, Increment: 0, Max: 0.2, IncrementInterval: 3},
		{Base: 0.4, Increment: 0.1, Max: 0.25, IncrementInterval: 0},
	}

	for _, c := range curves {
		prev := c.At(1)
		if prev != 0 {
			t.Fatalf("%+v: At(1) = %v, want 0", c, prev)
		}
		for zone := 2; zone <= 400; zone++ {
			got := c.At(zone)
			if got < prev {
				t.Fatalf("%+v: chance dropped at zone %d: %v < %v", c, zone, got, prev)
			}
			if got > c.Max {
				t.Fatalf("%+v: chance %v above max at zone %d", c, got, zone)
			}
			prev = got
		}
	}
}

func TestChanceBaseAboveMax(t *testing.T) {
	c := Chance{Base: 0.4, Increment: 0.1, Max: 0.25, IncrementInterval: 1}
	if got := c.At(10); got != 0.25 {
		t.Fatalf("At(10) = %v, want max 0.25", got)
	}
}
