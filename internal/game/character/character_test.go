package character_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/dice"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

func TestNewPlayer(t *testing.T) {
	c, err := character.NewPlayer("  Ada ", character.Female, 10000, "lisbon")
	require.NoError(t, err)
	assert.Equal(t, character.PlayerID, c.ID)
	assert.Equal(t, "Ada", c.Name)
	assert.True(t, c.IsPlayer())
	assert.Equal(t, 18, c.Age(10000))
	assert.Equal(t, 20, c.Combat.Get(stats.Speed))
	assert.Equal(t, 50, c.Personality.Trait(stats.Empathy))
	combat, personality := c.Encoded()
	assert.Equal(t, character.DefaultPlayerCombat, combat)
	assert.Equal(t, character.DefaultPlayerPersonality, personality)
}

func TestNewPlayer_BlankName(t *testing.T) {
	_, err := character.NewPlayer("   ", character.Male, 0, "x")
	assert.Error(t, err)
}

func TestAge_NeverNegative(t *testing.T) {
	c := &character.Character{BirthTick: 500}
	assert.Equal(t, 0, c.Age(100))
	assert.Equal(t, 1, c.Age(865))
}

func TestSetEncoded_Malformed(t *testing.T) {
	c := &character.Character{ID: "npc_1"}
	c.Combat[0] = 7
	err := c.SetEncoded("12", character.DefaultPlayerPersonality)
	assert.True(t, errors.Is(err, stats.ErrMalformedStat))
	assert.Equal(t, 7, c.Combat[0], "failed decode must not modify the record")
}

func TestGender_String(t *testing.T) {
	assert.Equal(t, "male", character.Male.String())
	assert.Equal(t, "female", character.Female.String())
	assert.Equal(t, "other", character.Other.String())
}

func TestNewNPC_Validation(t *testing.T) {
	r := dice.NewRoller(dice.NewSeededSource(1), nil)
	_, err := character.NewNPC(r, "", 0, []string{"a"})
	assert.Error(t, err)
	_, err = character.NewNPC(r, "npc_1", 0, nil)
	assert.Error(t, err)
}

func TestProperty_NewNPCInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		r := dice.NewRoller(dice.NewSeededSource(seed), nil)
		cities := []string{"lisbon", "evora", "porto"}
		c, err := character.NewNPC(r, "npc_x", 100000, cities)
		if err != nil {
			rt.Fatal(err)
		}
		if age := c.Age(100000); age < 0 || age > 100 {
			rt.Fatalf("age %d out of range", age)
		}
		for i := 0; i < stats.Width; i++ {
			if c.Combat[i] < 0 || c.Combat[i] > stats.MaxValue {
				rt.Fatalf("combat stat %d = %d", i, c.Combat[i])
			}
		}
		assert.Contains(rt, cities, c.LocationID)
		assert.False(rt, c.IsPlayer())
	})
}
