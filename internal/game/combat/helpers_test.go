package combat_test

import (
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// script is a deterministic combat.Roller. Each roll shape pops its own
// queue; an exhausted queue returns 100 for Percent, the lower bound for
// Between and 0 for Pick and Weighted.
type script struct {
	percents []int
	betweens []int
	picks    []int
	weighted []int
}

func pop(q *[]int, def int) int {
	if len(*q) == 0 {
		return def
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func (s *script) Percent(string) int { return pop(&s.percents, 100) }
func (s *script) Between(_ string, lo, _ int) int { return pop(&s.betweens, lo) }
func (s *script) Pick(string, int) int { return pop(&s.picks, 0) }
func (s *script) Weighted(string, []float64) int { return pop(&s.weighted, 0) }

// plain has every combat stat at 20 except experience, which is 0.
const plain = "20202020002020202020"

func fighter(id, combatStats string) *character.Character {
	return &character.Character{
		ID:          id,
		Name:        id,
		Combat:      stats.MustDecode(combatStats),
		Personality: stats.MustDecode("50505050505050505050"),
		LocationID:  "lisbon",
	}
}

// newFight seats two fighters at confidence 50 with full bodies and puts the
// fight in phase.
func newFight(phase combat.Phase, playerStats, npcStats string) *combat.Fight {
	rules := combat.DefaultRules()
	p := combat.NewSide(combat.RolePlayer, fighter(character.PlayerID, playerStats), body.New(), 50, rules)
	n := combat.NewSide(combat.RoleNPC, fighter("npc_1", npcStats), body.New(), 50, rules)
	f := combat.NewFight("fight-1", rules, p, n)
	f.Phase = phase
	return f
}
