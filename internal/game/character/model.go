// Package character defines the character record the combat and mortality
// rules read, and pure construction helpers for players and NPCs.
package character

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// PlayerID is the reserved id of the player character.
const PlayerID = "player_001"

// Gender is a character's recorded gender.
type Gender int

const (
	Male Gender = iota
	Female
	Other
)

// String returns the gender label.
func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "other"
	}
}

// Character is the record supplied to the combat engine.
type Character struct {
	ID         string
	Name       string
	Gender     Gender
	BirthTick  int
	Experience int
	Traits     []string

	Combat      stats.Block
	Personality stats.Block

	// LocationID is the city the character is currently in.
	LocationID string
}

// IsPlayer reports whether c is the player character.
func (c *Character) IsPlayer() bool { return c.ID == PlayerID }

// Age returns the character's age in years at currentTick. A year is 365
// ticks' worth of days.
//
// Postcondition: Returns >= 0.
func (c *Character) Age(currentTick int) int {
	d := currentTick - c.BirthTick
	if d < 0 {
		return 0
	}
	return d / 365
}

// Encoded returns the persisted two-digit encodings of both stat blocks.
func (c *Character) Encoded() (combat, personality string) {
	return stats.Encode(c.Combat), stats.Encode(c.Personality)
}

// SetEncoded decodes both stat blocks into c.
//
// Postcondition: On error c is unchanged and the error wraps stats.ErrMalformedStat.
func (c *Character) SetEncoded(combat, personality string) error {
	cb, err := stats.Decode(combat)
	if err != nil {
		return fmt.Errorf("combat stats for %s: %w", c.ID, err)
	}
	pb, err := stats.Decode(personality)
	if err != nil {
		return fmt.Errorf("personality stats for %s: %w", c.ID, err)
	}
	c.Combat, c.Personality = cb, pb
	return nil
}

// Repository looks up characters by id.
//
// GetCharacter returns an error wrapping storage.ErrNotFound for unknown ids.
type Repository interface {
	GetCharacter(ctx context.Context, id string) (*Character, error)
}
