package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

func TestResolveAttack_Hit(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	r := &script{percents: []int{40, 100}, betweens: []int{15}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Torso, body.Head)

	assert.True(t, res.Hit)
	assert.False(t, res.Critical)
	assert.False(t, res.Parried)
	assert.Equal(t, 40, res.Accuracy)
	assert.Equal(t, 15, res.Damage)
	assert.Equal(t, 85, f.NPC.Body.Health(body.Torso))
	assert.Equal(t, 57, f.Player.Confidence.Value())
	assert.Equal(t, 40, f.NPC.Confidence.Value())
	assert.Equal(t, 200, f.Player.Cooldown)
	assert.Equal(t, 100.0, f.Player.Stamina)
	assert.Equal(t, combat.RoundEnd, f.Phase)
}

func TestResolveAttack_Miss(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	r := &script{percents: []int{41}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Torso, body.Head)

	assert.False(t, res.Hit)
	assert.Equal(t, 0, res.Damage)
	assert.Equal(t, body.New(), f.NPC.Body)
	assert.Equal(t, 40, f.Player.Confidence.Value())
	assert.Equal(t, 50, f.NPC.Confidence.Value())
	assert.Equal(t, 200, f.Player.Cooldown)

	var kinds []combat.EventKind
	for _, e := range f.Drain() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []combat.EventKind{combat.EventMiss, combat.EventConfidence}, kinds)
}

func TestResolveAttack_ParryHalvesZoneDamage(t *testing.T) {
	f := newFight(combat.NpcTurn, plain, plain)
	r := &script{percents: []int{1, 100}, betweens: []int{0, 20}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Head, body.Head)

	require.True(t, res.Parried)
	// 20 * 1.5 head = 30, halved.
	assert.Equal(t, 15, res.Damage)
	assert.Equal(t, 85, f.Player.Body.Health(body.Head))
	// +5 parry, -10 took damage
	assert.Equal(t, 45, f.Player.Confidence.Value())
	assert.Equal(t, 57, f.NPC.Confidence.Value())
	assert.Equal(t, 200, f.NPC.Cooldown)
}

func TestResolveAttack_PredictionCanFail(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	r := &script{percents: []int{1, 100}, betweens: []int{70, 20}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Torso, body.Torso)

	assert.False(t, res.Parried)
	assert.Equal(t, 20, res.Damage)
}

func TestResolveAttack_CriticalKick(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	// kick accuracy 5+20+0 = 25, crit chance 5+5+0 = 10
	r := &script{percents: []int{25, 10}, betweens: []int{52}}

	res := combat.ResolveAttack(f, r, combat.Kick, body.Torso, body.Head)

	assert.Equal(t, 25, res.Accuracy)
	assert.True(t, res.Critical)
	// raw = int(20 * 1.5 * 1.75) = 52
	assert.Equal(t, 52, res.Damage)
	assert.Equal(t, 95.0, f.Player.Stamina)
}

func TestResolveAttack_ExhaustedHalvesDamage(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	f.Player.Stamina = 5
	r := &script{percents: []int{1, 100}, betweens: []int{10}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Torso, body.Head)

	assert.True(t, res.Exhausted)
	assert.Equal(t, 10, res.Damage)
	// -3 exhausted, +7 hit
	assert.Equal(t, 54, f.Player.Confidence.Value())
}

func TestResolveAttack_HeadInjuryLowersAccuracy(t *testing.T) {
	f := newFight(combat.PlayerTurn, plain, plain)
	f.Player.Body.Set(body.Head, 10)
	// accuracy stat 20 -> 2, so punch accuracy 20+2+0 = 22
	r := &script{percents: []int{23}}

	res := combat.ResolveAttack(f, r, combat.Punch, body.Torso, body.Head)

	assert.Equal(t, 22, res.Accuracy)
	assert.False(t, res.Hit)
}

func TestAccuracy_Clamped(t *testing.T) {
	assert.Equal(t, 95, combat.Accuracy(combat.Punch, stats.MustDecode("99999999999999999999"), 5))
	assert.Equal(t, 5, combat.Accuracy(combat.Kick, stats.Block{}, -15))
}

func TestCritChance_CapsBeforeBonus(t *testing.T) {
	assert.Equal(t, 35, combat.CritChance(stats.MustDecode("99999999999999999999"), 5))
	assert.Equal(t, 5, combat.CritChance(stats.Block{}, 0))
}

func TestDamageRange(t *testing.T) {
	low, raw := combat.DamageRange(10, 20, 1.0, 0)
	assert.Equal(t, 10, low)
	assert.Equal(t, 20, raw)

	low, raw = combat.DamageRange(10, 20, 1.0, 100)
	assert.Equal(t, 20, low)
	assert.Equal(t, 20, raw)

	low, raw = combat.DamageRange(15, 21, 1.2, 50)
	assert.Equal(t, 30, raw)
	assert.Equal(t, 22, low)
}

func TestProperty_DamageRangeOrdered(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		str := rapid.IntRange(0, 99).Draw(t, "strength")
		exp := rapid.IntRange(0, 99).Draw(t, "experience")
		mult := rapid.SampledFrom([]float64{0.375, 0.5, 0.75, 1.0, 1.1, 1.5, 1.75, 2.625}).Draw(t, "mult")
		low, raw := combat.DamageRange(10, str, mult, exp)
		if low < 0 || low > raw {
			t.Fatalf("range [%d, %d] out of order", low, raw)
		}
	})
}
