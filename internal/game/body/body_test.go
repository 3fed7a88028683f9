package body_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

func TestNew_AllZonesFull(t *testing.T) {
	s := body.New()
	for _, z := range body.Zones {
		assert.Equal(t, body.MaxHealth, s.Health(z), z.String())
	}
	assert.False(t, s.IsDefeated())
	assert.InDelta(t, 100.0, s.HealthPercent(), 0.0001)
}

func TestParseZone(t *testing.T) {
	for _, z := range body.Zones {
		got, ok := body.ParseZone(z.String())
		require.True(t, ok)
		assert.Equal(t, z, got)
	}
	_, ok := body.ParseZone("tail")
	assert.False(t, ok)
}

func TestZoneMultiplier(t *testing.T) {
	assert.Equal(t, 1.5, body.ZoneMultiplier(body.Head))
	assert.Equal(t, 1.0, body.ZoneMultiplier(body.Torso))
	assert.Equal(t, 0.8, body.ZoneMultiplier(body.LeftArm))
	assert.Equal(t, 0.8, body.ZoneMultiplier(body.RightArm))
	assert.Equal(t, 0.9, body.ZoneMultiplier(body.LeftLeg))
	assert.Equal(t, 0.9, body.ZoneMultiplier(body.RightLeg))
}

func TestApplyDamage_TruncatesAtZero(t *testing.T) {
	s := body.New()
	s.Set(body.LeftArm, 12)
	got := s.ApplyDamage(body.LeftArm, 40)
	assert.Equal(t, 12, got)
	assert.Equal(t, 0, s.Health(body.LeftArm))
	assert.False(t, s.IsDefeated(), "a limb at zero never ends the fight")
}

func TestIsDefeated_HeadOrTorso(t *testing.T) {
	s := body.New()
	s.ApplyDamage(body.Head, 100)
	assert.True(t, s.IsDefeated())

	s = body.New()
	s.ApplyDamage(body.Torso, 150)
	assert.True(t, s.IsDefeated())
}

func TestFromMap_ClampsAndDefaults(t *testing.T) {
	s := body.FromMap(map[string]int{"head": -4, "torso": 140, "left_leg": 33, "wing": 5})
	assert.Equal(t, 0, s.Health(body.Head))
	assert.Equal(t, 100, s.Health(body.Torso))
	assert.Equal(t, 33, s.Health(body.LeftLeg))
	assert.Equal(t, 100, s.Health(body.RightArm))
	assert.Len(t, s.Map(), body.ZoneCount)
}

func TestPenalize(t *testing.T) {
	var b stats.Block
	for i := range b {
		b[i] = 50
	}
	s := body.New()
	s.Set(body.Head, 10)
	s.Set(body.Torso, 0)
	s.Set(body.RightLeg, 5)
	s.Set(body.LeftArm, 19)

	got, penalties := body.Penalize(b, s)
	assert.Equal(t, 5, got.Get(stats.Accuracy))
	assert.Equal(t, 1, got.Get(stats.Endurance), "scaled stats floor at 1")
	assert.Equal(t, 35, got.Get(stats.Speed))
	assert.Equal(t, 40, got.Get(stats.Strength))
	assert.Equal(t, 50, got.Get(stats.Reflex))
	assert.Len(t, penalties, 4)
	assert.Equal(t, 50, b.Get(stats.Accuracy), "input block must not be mutated")
}

func TestPenalize_FloorsOnlyScaledStats(t *testing.T) {
	b := stats.MustDecode("00000000000000000000")
	s := body.New()
	s.Set(body.Head, 3)

	got, penalties := body.Penalize(b, s)
	assert.Equal(t, 1, got.Get(stats.Accuracy))
	assert.Equal(t, 0, got.Get(stats.Endurance), "unscaled stats keep their stored value")
	assert.Equal(t, 0, got.Get(stats.Speed))
	require.Len(t, penalties, 1)
	assert.Equal(t, body.Penalty{Zone: body.Head, Stat: stats.Accuracy, Before: 0, After: 1}, penalties[0])
}

func TestPenalize_HealthyBodyUnchanged(t *testing.T) {
	b := stats.MustDecode("10203040506070809099")
	got, penalties := body.Penalize(b, body.New())
	assert.Equal(t, b, got)
	assert.Empty(t, penalties)
}

func TestInjuries_Severity(t *testing.T) {
	s := body.New()
	s.Set(body.Head, 85)
	s.Set(body.Torso, 19)
	s.Set(body.LeftLeg, 45)
	injuries := body.Injuries(s)
	require.Len(t, injuries, 3)
	assert.Equal(t, body.Minor, injuries[0].Severity)
	assert.Equal(t, body.Critical, injuries[1].Severity)
	assert.Equal(t, 81, injuries[1].Damage)
	assert.Equal(t, body.Serious, injuries[2].Severity)
	assert.Equal(t, "Life-threatening", body.Critical.Description())
}

type maxRoller struct{}

func (maxRoller) Between(_ string, _, hi int) int { return hi }

func TestNaturalHeal_CapsAtMax(t *testing.T) {
	s := body.New()
	s.Set(body.Head, 99)
	s.Set(body.Torso, 50)
	healed := body.NaturalHeal(&s, maxRoller{})
	require.Len(t, healed, 2)
	assert.Equal(t, 100, s.Health(body.Head))
	assert.Equal(t, 53, s.Health(body.Torso))
}

func TestStabilize(t *testing.T) {
	s := body.New()
	s.Set(body.Head, 4)
	s.Set(body.Torso, 19)
	s.Set(body.LeftArm, 20)
	s.Set(body.RightArm, 40)
	healed := body.Stabilize(&s)
	assert.Len(t, healed, 2)
	assert.Equal(t, 19, s.Health(body.Head))
	assert.Equal(t, 34, s.Health(body.Torso))
	assert.Equal(t, 20, s.Health(body.LeftArm))
}

func TestInjuredZones(t *testing.T) {
	s := body.New()
	s.Set(body.LeftLeg, 49)
	s.Set(body.Torso, 50)
	assert.Equal(t, []body.Zone{body.LeftLeg}, s.InjuredZones(50))
	assert.Equal(t, 1, s.CountBelow(50))
}

func TestProperty_DamageNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := body.New()
		hits := rapid.IntRange(0, 40).Draw(rt, "hits")
		for i := 0; i < hits; i++ {
			z := body.Zone(rapid.IntRange(0, body.ZoneCount-1).Draw(rt, "zone"))
			amount := rapid.IntRange(0, 250).Draw(rt, "amount")
			before := s.Health(z)
			got := s.ApplyDamage(z, amount)
			if got < 0 || got > before {
				rt.Fatalf("realized damage %d outside [0,%d]", got, before)
			}
		}
		for _, z := range body.Zones {
			if s.Health(z) < 0 {
				rt.Fatalf("zone %s negative: %d", z, s.Health(z))
			}
		}
		want := s.Health(body.Head) <= 0 || s.Health(body.Torso) <= 0
		if s.IsDefeated() != want {
			rt.Fatalf("IsDefeated=%v, want %v", s.IsDefeated(), want)
		}
	})
}

func TestProperty_LimbsNeverDefeat(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := body.New()
		for _, z := range []body.Zone{body.LeftArm, body.RightArm, body.LeftLeg, body.RightLeg} {
			if rapid.Bool().Draw(rt, z.String()) {
				s.Set(z, 0)
			}
		}
		if s.IsDefeated() {
			rt.Fatal("limb damage alone must not defeat")
		}
	})
}
