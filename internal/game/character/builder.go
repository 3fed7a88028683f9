package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Default stat encodings for a freshly created player.
const (
	DefaultPlayerPersonality = "50505050505050505050"
	DefaultPlayerCombat      = "20202020202020202020"
)

// NewPlayer constructs the player character. The player starts at 18 years
// old with the default stat blocks.
//
// Precondition: name must be non-blank.
// Postcondition: Returns a Character with ID PlayerID, or a non-nil error.
func NewPlayer(name string, gender Gender, currentTick int, locationID string) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	c := &Character{
		ID:         PlayerID,
		Name:       name,
		Gender:     gender,
		BirthTick:  currentTick - 18*365,
		Traits:     []string{"beginner", "curious"},
		LocationID: locationID,
	}
	if err := c.SetEncoded(DefaultPlayerCombat, DefaultPlayerPersonality); err != nil {
		return nil, err
	}
	return c, nil
}

// Roller is the randomness NewNPC draws from.
type Roller interface {
	Between(reason string, lo, hi int) int
	Pick(reason string, n int) int
}

// NPCNames is the default name pool for generated NPCs.
var NPCNames = []string{
	"Jordan", "Taylor", "Alex", "Riley", "Quinn", "Sky", "Avery", "Phoenix", "Reese", "River",
	"Kai", "Zane", "Leo", "Max", "Jasper", "Milo", "Ezra", "Orion", "Silas", "Luca",
	"Lena", "Nova", "Rhea", "Mira", "Aria", "Zara", "Ivy", "Nina", "Clio", "Talia",
}

// NewNPC generates a random NPC with uniformly rolled stat blocks, aged
// between 0 and 100 years.
//
// Precondition: id must be non-empty; cityIDs must be non-empty.
func NewNPC(r Roller, id string, currentTick int, cityIDs []string) (*Character, error) {
	if id == "" {
		return nil, errors.New("npc id must not be empty")
	}
	if len(cityIDs) == 0 {
		return nil, errors.New("npc generation requires at least one city")
	}
	c := &Character{
		ID:         id,
		Name:       NPCNames[r.Pick("npc name", len(NPCNames))],
		Gender:     Gender(r.Pick("npc gender", 2)),
		BirthTick:  currentTick - r.Between("npc age", 0, 100)*365,
		LocationID: cityIDs[r.Pick("npc city", len(cityIDs))],
	}
	for i := 0; i < stats.Width; i++ {
		c.Combat[i] = r.Between(fmt.Sprintf("npc %s", stats.CombatStat(i)), 0, stats.MaxValue)
		c.Personality[i] = r.Between(fmt.Sprintf("npc %s", stats.PersonalityStat(i)), 0, stats.MaxValue)
	}
	return c, nil
}
