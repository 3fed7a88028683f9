package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// PutCharacter inserts c or replaces the stored character with the same id.
//
// Precondition: c.ID must be non-empty.
func (r *CharacterRepository) PutCharacter(ctx context.Context, c *character.Character) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("saving character: empty id")
	}
	combat, personality := c.Encoded()
	traits := c.Traits
	if traits == nil {
		traits = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters
			(id, name, gender, birth_tick, experience, traits,
			 combat_stats, personality_stats, location_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			gender = EXCLUDED.gender,
			birth_tick = EXCLUDED.birth_tick,
			experience = EXCLUDED.experience,
			traits = EXCLUDED.traits,
			combat_stats = EXCLUDED.combat_stats,
			personality_stats = EXCLUDED.personality_stats,
			location_id = EXCLUDED.location_id,
			updated_at = NOW()`,
		c.ID, c.Name, int(c.Gender), c.BirthTick, c.Experience, traits,
		combat, personality, c.LocationID,
	)
	if err != nil {
		return fmt.Errorf("saving character %s: %w", c.ID, err)
	}
	return nil
}

// GetCharacter retrieves a character by id.
//
// Postcondition: Returns the Character, an error wrapping storage.ErrNotFound,
// or an error wrapping storage.ErrCorruptRecord when a stat column does not decode.
func (r *CharacterRepository) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	var (
		c                   character.Character
		gender              int
		combat, personality string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, gender, birth_tick, experience, traits,
		       combat_stats, personality_stats, location_id
		FROM characters WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.Name, &gender, &c.BirthTick, &c.Experience, &c.Traits,
		&combat, &personality, &c.LocationID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("character %s: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	c.Gender = character.Gender(gender)
	if err := c.SetEncoded(combat, personality); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptRecord, err)
	}
	return &c, nil
}

// SetLocation moves the character to locationID.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound if no row was updated.
func (r *CharacterRepository) SetLocation(ctx context.Context, id, locationID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET location_id = $2, updated_at = NOW()
		WHERE id = $1`,
		id, locationID,
	)
	if err != nil {
		return fmt.Errorf("saving character location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
