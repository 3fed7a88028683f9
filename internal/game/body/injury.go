package body

// Severity grades an injured zone for reporting.
type Severity int

const (
	Minor Severity = iota
	Moderate
	Serious
	Severe
	Critical
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case Minor:
		return "Minor"
	case Moderate:
		return "Moderate"
	case Serious:
		return "Serious"
	case Severe:
		return "Severe"
	default:
		return "Critical"
	}
}

// Description returns a short narrative for the severity.
func (s Severity) Description() string {
	switch s {
	case Minor:
		return "Light bruising"
	case Moderate:
		return "Noticeable injury"
	case Serious:
		return "Significant damage"
	case Severe:
		return "Major injury"
	default:
		return "Life-threatening"
	}
}

// SeverityFor grades a zone health value.
func SeverityFor(hp int) Severity {
	switch {
	case hp >= 80:
		return Minor
	case hp >= 60:
		return Moderate
	case hp >= 40:
		return Serious
	case hp >= 20:
		return Severe
	default:
		return Critical
	}
}

// Injury is one damaged zone in an injury report.
type Injury struct {
	Zone     Zone
	Health   int
	Damage   int
	Severity Severity
}

// Injuries lists every zone below full health in canonical zone order.
// An empty result means the body is uninjured.
func Injuries(s State) []Injury {
	var out []Injury
	for _, z := range Zones {
		hp := s.health[z]
		if hp >= MaxHealth {
			continue
		}
		out = append(out, Injury{Zone: z, Health: hp, Damage: MaxHealth - hp, Severity: SeverityFor(hp)})
	}
	return out
}

// Healed records one zone's change during a healing pass.
type Healed struct {
	Zone   Zone
	Before int
	After  int
}

// Roller is the subset of dice.Roller used for healing.
type Roller interface {
	Between(reason string, lo, hi int) int
}

// NaturalHeal restores 1-3 points to every damaged zone, as happens once per
// world tick while a character rests.
//
// Postcondition: no zone exceeds MaxHealth; returns the zones that changed.
func NaturalHeal(s *State, r Roller) []Healed {
	var out []Healed
	for _, z := range Zones {
		before := s.health[z]
		if before >= MaxHealth {
			continue
		}
		amount := r.Between("natural healing", 1, 3)
		if s.Heal(z, amount, MaxHealth) > 0 {
			out = append(out, Healed{Zone: z, Before: before, After: s.health[z]})
		}
	}
	return out
}

// Stabilize lifts every zone below 20 health by 15 points, capped at 50.
// This is the healing applied when a near-death episode ends in recovery.
func Stabilize(s *State) []Healed {
	var out []Healed
	for _, z := range Zones {
		before := s.health[z]
		if before >= 20 {
			continue
		}
		if s.Heal(z, 15, 50) > 0 {
			out = append(out, Healed{Zone: z, Before: before, After: s.health[z]})
		}
	}
	return out
}
