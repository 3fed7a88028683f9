// Package combat implements the turn-based brawl engine: cooldown-driven turn
// order, zone-targeted attacks, escape and surrender, and the hand-off to the
// post-fight mortality pipeline.
package combat

import (
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/confidence"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Rules are the tunable constants of a fight.
type Rules struct {
	// BaseCooldown is the per-round cooldown decrement before the speed bonus.
	BaseCooldown int
	// BaseDamage is the flat damage term of a normal attack.
	BaseDamage int
	// CooldownIncrement is added to a side's cooldown after it acts.
	CooldownIncrement int
	// MaxRounds ends a fight as Aborted once exceeded. Zero means no cap.
	MaxRounds int
}

// DefaultRules returns the standard fight constants.
func DefaultRules() Rules {
	return Rules{BaseCooldown: 20, BaseDamage: 10, CooldownIncrement: 200, MaxRounds: 1000}
}

// Role identifies which seat a side occupies.
type Role int

const (
	RolePlayer Role = iota
	RoleNPC
)

// String returns "player" or "npc".
func (r Role) String() string {
	if r == RolePlayer {
		return "player"
	}
	return "npc"
}

// Phase is the fight state machine position.
type Phase int

const (
	Idle Phase = iota
	RoundStart
	PlayerTurn
	NpcTurn
	RoundEnd
	Resolved
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case RoundStart:
		return "round_start"
	case PlayerTurn:
		return "player_turn"
	case NpcTurn:
		return "npc_turn"
	case RoundEnd:
		return "round_end"
	default:
		return "resolved"
	}
}

// Result is the terminal outcome of a fight.
type Result int

const (
	Undecided Result = iota
	PlayerDefeated
	NpcDefeated
	Escaped
	SurrenderMercy
	// SurrenderBrutal follows a refused surrender: the player was beaten,
	// the fight returned to RoundStart once and the player was still standing.
	SurrenderBrutal
	Aborted
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case PlayerDefeated:
		return "player_defeated"
	case NpcDefeated:
		return "npc_defeated"
	case Escaped:
		return "escaped"
	case SurrenderMercy:
		return "surrender_mercy"
	case SurrenderBrutal:
		return "surrender_brutal"
	case Aborted:
		return "aborted"
	default:
		return "undecided"
	}
}

// Attack is a normal attack type.
type Attack struct {
	Name          string
	AccuracyBonus int
	DamageMult    float64
	StaminaCost   int
}

// The two normal attacks.
var (
	Punch = Attack{Name: "Punch", AccuracyBonus: 20, DamageMult: 1.0, StaminaCost: 10}
	Kick  = Attack{Name: "Kick", AccuracyBonus: 5, DamageMult: 1.5, StaminaCost: 15}
)

// Side is one fighter's per-fight state.
type Side struct {
	Role Role
	ID   string
	Name string
	// Stats are the unpenalized combat stats; injury penalties are derived
	// from Body each turn.
	Stats       stats.Block
	Personality stats.Block
	Body        body.State
	Confidence  confidence.State

	Stamina      float64
	MaxStamina   float64
	Cooldown     int
	CooldownCost int
}

// NewSide seats c in a fight.
//
// Postcondition: Stamina == MaxStamina == 10 + 5*stamina stat; Cooldown == 0.
func NewSide(role Role, c *character.Character, b body.State, startConfidence int, rules Rules) *Side {
	maxStamina := float64(10 + c.Combat.Get(stats.Stamina)*5)
	return &Side{
		Role:         role,
		ID:           c.ID,
		Name:         c.Name,
		Stats:        c.Combat,
		Personality:  c.Personality,
		Body:         b,
		Confidence:   confidence.New(startConfidence),
		Stamina:      maxStamina,
		MaxStamina:   maxStamina,
		CooldownCost: CooldownCost(rules.BaseCooldown, c.Combat.Get(stats.Speed)),
	}
}

// CooldownCost returns the per-round cooldown decrement for a speed stat.
//
// Postcondition: Returns >= 10.
func CooldownCost(base, speed int) int {
	v := int(float64(base) - float64(speed)*0.5)
	if v < 10 {
		return 10
	}
	return v
}

// Effective returns the side's combat stats after injury penalties.
func (s *Side) Effective() stats.Block {
	b, _ := body.Penalize(s.Stats, s.Body)
	return b
}

// regenerate adds the per-round stamina regeneration.
func (s *Side) regenerate() {
	s.Stamina += 1 + float64(s.Stats.Get(stats.Endurance))*0.5
	if s.Stamina > s.MaxStamina {
		s.Stamina = s.MaxStamina
	}
}

func (s *Side) tickCooldown() {
	s.Cooldown -= s.CooldownCost
	if s.Cooldown < 0 {
		s.Cooldown = 0
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
