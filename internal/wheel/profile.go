package wheel

import "time"

// Visual is the presentation data attached to a zone category. The core
// only selects and forwards it.
type Visual struct {
	Title           string `json:"title" yaml:"title"`
	Status          string `json:"status" yaml:"status"`
	TextColor       string `json:"text_color" yaml:"text_color"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
	WheelSprite     string `json:"wheel_sprite" yaml:"wheel_sprite"`
	IndicatorSprite string `json:"indicator_sprite" yaml:"indicator_sprite"`
}

// ZoneProfile is the authored wheel content for one category.
type ZoneProfile struct {
	Visual Visual  `json:"visual" yaml:"visual"`
	Slices []Slice `json:"slices" yaml:"slices"`
}

// Profile is the full progression profile of a session.
type Profile struct {
	SafeInterval     int
	SuperInterval    int
	BaseContinueCost int
	PostSpinDelay    time.Duration

	Normal ZoneProfile
	Safe   ZoneProfile
	Super  ZoneProfile
	Bomb   Slice
}

// ForCategory selects the zone profile of c.
func (p *Profile) ForCategory(c Category) ZoneProfile {
	switch c {
	case CategorySuper:
		return p.Super
	case CategorySafe:
		return p.Safe
	default:
		return p.Normal
	}
}

// HasValidBaseline reports whether the normal profile can fill the wheel.
func (p *Profile) HasValidBaseline() bool {
	return p != nil && len(p.Normal.Slices) >= SliceCount
}

// ZoneDisplay is what the display collaborator needs to draw a zone.
type ZoneDisplay struct {
	Zone     int      `json:"zone"`
	Category Category `json:"category"`
	Tier     string   `json:"tier"`
	Visual
}

// Display builds the zone display data for zone.
func (p *Profile) Display(zone int) ZoneDisplay {
	c := ResolveCategory(zone, p.SafeInterval, p.SuperInterval)
	return ZoneDisplay{
		Zone:     zone,
		Category: c,
		Tier:     c.DisplayName(),
		Visual:   p.ForCategory(c).Visual,
	}
}
