// Package confidence implements the bounded morale value each fighter carries
// through a fight and the modifier tiers it maps to.
package confidence

import (
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Min and Max bound every confidence value.
const (
	Min = 0
	Max = 100
)

// Tier is one of the four discrete confidence bands.
type Tier int

const (
	Panicked Tier = iota
	Shaky
	Steady
	AdrenalineRush
)

// String returns the tier's display name.
func (t Tier) String() string {
	switch t {
	case AdrenalineRush:
		return "Adrenaline Rush"
	case Steady:
		return "Steady"
	case Shaky:
		return "Shaky"
	default:
		return "Panicked"
	}
}

// Modifiers are the combat adjustments derived from a confidence value.
type Modifiers struct {
	Tier           Tier
	CritBonus      int
	AccuracyBonus  int
	DamageMult     float64
	SkipTurnChance int
	SlipChance     int
}

var tiers = [...]Modifiers{
	Panicked:       {Tier: Panicked, CritBonus: 0, AccuracyBonus: -15, DamageMult: 0.75, SkipTurnChance: 10, SlipChance: 10},
	Shaky:          {Tier: Shaky, CritBonus: 0, AccuracyBonus: -10, DamageMult: 1.0},
	Steady:         {Tier: Steady, CritBonus: 0, AccuracyBonus: 0, DamageMult: 1.0},
	AdrenalineRush: {Tier: AdrenalineRush, CritBonus: 5, AccuracyBonus: 5, DamageMult: 1.10},
}

// TierFor returns the band containing value.
func TierFor(value int) Tier {
	switch {
	case value >= 80:
		return AdrenalineRush
	case value >= 50:
		return Steady
	case value >= 20:
		return Shaky
	default:
		return Panicked
	}
}

// ModifiersFor returns the modifiers for value. It is a pure lookup.
func ModifiersFor(value int) Modifiers {
	return tiers[TierFor(value)]
}

// Change records one confidence adjustment.
type Change struct {
	Before int
	After  int
	Delta  int
	Reason string
	// TierChanged is true when the adjustment moved the value into a new band.
	TierChanged bool
}

// State is a fighter's confidence and the modifiers derived from it.
//
// Invariant: Mods always equals ModifiersFor(Value).
type State struct {
	value int
	mods  Modifiers
}

// New returns a State at value, clamped into [Min, Max].
func New(value int) State {
	v := clamp(value)
	return State{value: v, mods: ModifiersFor(v)}
}

// Value returns the current confidence.
func (s State) Value() int { return s.value }

// Modifiers returns the modifiers for the current confidence.
func (s State) Modifiers() Modifiers { return s.mods }

// Update adds delta to the confidence, clamps into [Min, Max] and recomputes
// the modifiers. It is the only way to change a State.
//
// Postcondition: Min <= Value() <= Max.
func (s *State) Update(delta int, reason string) Change {
	before := s.value
	after := clamp(before + delta)
	oldTier := s.mods.Tier
	s.value = after
	s.mods = ModifiersFor(after)
	return Change{
		Before:      before,
		After:       after,
		Delta:       delta,
		Reason:      reason,
		TierChanged: oldTier != s.mods.Tier,
	}
}

// Starting derives both fighters' opening confidence from their combat
// stats. The advantage is the difference between the sums of the first eight
// combat stats; each side gets 50 plus or minus a fifth of that advantage,
// plus its own willpower.
func Starting(self, opponent stats.Block) (selfConf, oppConf int) {
	advantage := power(self) - power(opponent)
	selfConf = clamp(50 + floorDiv(advantage, 5) + self.Get(stats.Willpower))
	oppConf = clamp(50 - floorDiv(advantage, 5) + opponent.Get(stats.Willpower))
	return selfConf, oppConf
}

func power(b stats.Block) int {
	sum := 0
	for i := 0; i < 8; i++ {
		sum += b[i]
	}
	return sum
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
