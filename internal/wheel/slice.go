package wheel

import (
	"fmt"
	"strings"
)

// RewardKind identifies what a wheel slice pays out.
type RewardKind int

const (
	RewardCurrency RewardKind = iota
	RewardItem
	RewardBomb
)

var rewardKindNames = map[RewardKind]string{
	RewardCurrency: "currency",
	RewardItem:     "item",
	RewardBomb:     "bomb",
}

func (k RewardKind) String() string {
	if name, ok := rewardKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RewardKind(%d)", int(k))
}

// MarshalText encodes the kind by name for JSON and YAML.
func (k RewardKind) MarshalText() ([]byte, error) {
	name, ok := rewardKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown reward kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText parses a reward kind name, case-insensitively.
func (k *RewardKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRewardKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseRewardKind parses "currency", "item" or "bomb".
func ParseRewardKind(s string) (RewardKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for kind, n := range rewardKindNames {
		if n == name {
			return kind, nil
		}
	}
	return RewardCurrency, fmt.Errorf("unknown reward kind %q", s)
}

// Slice is one wedge of the wheel.
type Slice struct {
	ID    string     `json:"id" yaml:"id"`
	Kind  RewardKind `json:"kind" yaml:"kind"`
	Value int        `json:"value" yaml:"value"`
}

// IsBomb reports whether landing on the slice ends the run.
func (s Slice) IsBomb() bool { return s.Kind == RewardBomb }


// BombSlice builds the live bomb definition. Bombs never carry a value.
func BombSlice(id string) Slice {
	return Slice{ID: id, Kind: RewardBomb}
}
