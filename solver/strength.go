package solver

// Strength orders constraints when they cannot all be satisfied
type Strength float64

// NewStrength packs three priority tiers and a weight into a Strength.
// Each tier is clamped to [0, 1000] so a lower tier can never outweigh a
// higher one.
func NewStrength(strong, medium, weak, weight float64) Strength {
	s := clamp(strong*weight) * 1000000
	s += clamp(medium*weight) * 1000
	s += clamp(weak * weight)
	return Strength(s)
}

var (
	Required = NewStrength(1000, 1000, 1000, 1)
	Strong   = NewStrength(1, 0, 0, 1)
	Medium   = NewStrength(0, 1, 0, 1)
	Weak     = NewStrength(0, 0, 1, 1)
)

// Clip bounds s to [0, Required]
func (s Strength) Clip() Strength {
	if s < 0 {
		return 0
	}
	if s > Required {
		return Required
	}
	return s
}

// IsRequired reports whether s is at least Required
func (s Strength) IsRequired() bool {
	return s >= Required
}

func (s Strength) String() string {
	switch s {
	case Required:
		return "required"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	}
	return "custom"
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}
