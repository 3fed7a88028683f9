// Package body models the six independently damageable zones of a
// combatant's body and the stat penalties injuries impose.
package body

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// MaxHealth is the health of an uninjured zone.
const MaxHealth = 100

// Zone identifies one damageable body region.
type Zone int

const (
	Head Zone = iota
	Torso
	LeftArm
	RightArm
	LeftLeg
	RightLeg
)

// ZoneCount is the number of zones on every body.
const ZoneCount = 6

// Zones lists every zone in canonical order.
var Zones = [ZoneCount]Zone{Head, Torso, LeftArm, RightArm, LeftLeg, RightLeg}

var zoneNames = [ZoneCount]string{"head", "torso", "left_arm", "right_arm", "left_leg", "right_leg"}

var zoneMultipliers = [ZoneCount]float64{1.5, 1.0, 0.8, 0.8, 0.9, 0.9}

// String returns the persisted name of the zone, e.g. "left_arm".
func (z Zone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// Valid reports whether z is one of the six zones.
func (z Zone) Valid() bool { return z >= 0 && int(z) < ZoneCount }

// IsLeg reports whether z is a leg.
func (z Zone) IsLeg() bool { return z == LeftLeg || z == RightLeg }

// IsArm reports whether z is an arm.
func (z Zone) IsArm() bool { return z == LeftArm || z == RightArm }

// ParseZone resolves a persisted zone name.
//
// Postcondition: ok is false iff name is not one of the six zone names.
func ParseZone(name string) (Zone, bool) {
	for i, n := range zoneNames {
		if n == name {
			return Zone(i), true
		}
	}
	return 0, false
}

// ZoneMultiplier returns the damage multiplier applied to hits on z.
func ZoneMultiplier(z Zone) float64 {
	if !z.Valid() {
		return 1.0
	}
	return zoneMultipliers[z]
}

// State is the per-zone health of one character.
//
// Invariant: every zone's health is in [0, MaxHealth].
type State struct {
	health [ZoneCount]int
}

// New returns a body with every zone at MaxHealth.
func New() State {
	var s State
	for i := range s.health {
		s.health[i] = MaxHealth
	}
	return s
}

// FromMap builds a State from persisted zone health values, clamping each
// into range. Zones absent from m are set to MaxHealth.
func FromMap(m map[string]int) State {
	s := New()
	for name, hp := range m {
		if z, ok := ParseZone(name); ok {
			s.health[z] = clampHealth(hp)
		}
	}
	return s
}

// Map returns the zone health keyed by zone name.
func (s State) Map() map[string]int {
	m := make(map[string]int, ZoneCount)
	for _, z := range Zones {
		m[z.String()] = s.health[z]
	}
	return m
}

// Health returns the current health of z.
func (s State) Health(z Zone) int { return s.health[z] }

// Set overwrites the health of z, clamping into [0, MaxHealth].
func (s *State) Set(z Zone, hp int) { s.health[z] = clampHealth(hp) }

// ApplyDamage subtracts amount from z, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: Health(z) >= 0; returns the damage actually absorbed.
func (s *State) ApplyDamage(z Zone, amount int) int {
	if amount <= 0 {
		return 0
	}
	before := s.health[z]
	after := before - amount
	if after < 0 {
		after = 0
	}
	s.health[z] = after
	return before - after
}

// Heal adds amount to z without exceeding limit (or MaxHealth).
// Returns the health actually restored.
func (s *State) Heal(z Zone, amount, limit int) int {
	if limit <= 0 || limit > MaxHealth {
		limit = MaxHealth
	}
	before := s.health[z]
	if before >= limit || amount <= 0 {
		return 0
	}
	after := before + amount
	if after > limit {
		after = limit
	}
	s.health[z] = after
	return after - before
}

// IsDefeated reports whether the head or torso has been reduced to zero.
// Limb zones at zero never end a fight.
func (s State) IsDefeated() bool {
	return s.health[Head] <= 0 || s.health[Torso] <= 0
}

// Total returns the summed health of all zones.
func (s State) Total() int {
	t := 0
	for _, hp := range s.health {
		t += hp
	}
	return t
}

// HealthPercent returns Total as a percentage of full health.
func (s State) HealthPercent() float64 {
	return float64(s.Total()) / float64(ZoneCount*MaxHealth) * 100
}

// CountBelow returns the number of zones with health strictly below threshold.
func (s State) CountBelow(threshold int) int {
	n := 0
	for _, hp := range s.health {
		if hp < threshold {
			n++
		}
	}
	return n
}

// Store persists body state per character.
//
// LoadBody returns an error wrapping storage.ErrMissingRecord when no body
// has been saved for id.
type Store interface {
	LoadBody(ctx context.Context, id string) (State, error)
	SaveBody(ctx context.Context, id string, s State) error
	DeleteBody(ctx context.Context, id string) error
}

// Penalty describes one injury-driven stat reduction.
type Penalty struct {
	Zone   Zone
	Stat   stats.CombatStat
	Before int
	After  int
}

// Penalize applies injury penalties to a combat stat block. The returned
// block is used for a single turn's calculations and is never persisted.
//
//   - head < 20 scales accuracy by head/100
//   - torso < 20 scales endurance by torso/100
//   - either leg < 20 scales speed by 0.7
//   - either arm < 20 scales strength by 0.8
//
// Every scaled stat floors at 1; the rest pass through unchanged.
func Penalize(b stats.Block, s State) (stats.Block, []Penalty) {
	out := b
	var penalties []Penalty
	scale := func(z Zone, stat stats.CombatStat, factor float64) {
		before := out[stat]
		after := int(math.Floor(float64(before) * factor))
		if after < 1 {
			after = 1
		}
		out[stat] = after
		penalties = append(penalties, Penalty{Zone: z, Stat: stat, Before: before, After: after})
	}
	if hp := s.health[Head]; hp < 20 {
		scale(Head, stats.Accuracy, float64(hp)/100)
	}
	if hp := s.health[Torso]; hp < 20 {
		scale(Torso, stats.Endurance, float64(hp)/100)
	}
	if s.health[LeftLeg] < 20 || s.health[RightLeg] < 20 {
		z := LeftLeg
		if s.health[LeftLeg] >= 20 {
			z = RightLeg
		}
		scale(z, stats.Speed, 0.7)
	}
	if s.health[LeftArm] < 20 || s.health[RightArm] < 20 {
		z := LeftArm
		if s.health[LeftArm] >= 20 {
			z = RightArm
		}
		scale(z, stats.Strength, 0.8)
	}
	return out, penalties
}

func clampHealth(hp int) int {
	if hp < 0 {
		return 0
	}
	if hp > MaxHealth {
		return MaxHealth
	}
	return hp
}

// InjuredZones returns the zones with health strictly below threshold, in
// canonical order.
func (s State) InjuredZones(threshold int) []Zone {
	var out []Zone
	for _, z := range Zones {
		if s.health[z] < threshold {
			out = append(out, z)
		}
	}
	return out
}

// LoadOrNew loads the body for id, returning a fresh body when none has
// been saved yet.
//
// Postcondition: created is true iff the store had no record for id.
func LoadOrNew(ctx context.Context, st Store, id string) (s State, created bool, err error) {
	s, err = st.LoadBody(ctx, id)
	if errors.Is(err, storage.ErrMissingRecord) {
		return New(), true, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("loading body %s: %w", id, err)
	}
	return s, false, nil
}
