package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// BodyRepository persists zone health, one row per character.
type BodyRepository struct {
	db *pgxpool.Pool
}

// NewBodyRepository creates a BodyRepository backed by the given pool.
func NewBodyRepository(db *pgxpool.Pool) *BodyRepository {
	return &BodyRepository{db: db}
}

// LoadBody implements body.Store.
func (r *BodyRepository) LoadBody(ctx context.Context, id string) (body.State, error) {
	var head, torso, la, ra, ll, rl int
	err := r.db.QueryRow(ctx, `
		SELECT head, torso, left_arm, right_arm, left_leg, right_leg
		FROM bodies WHERE character_id = $1`,
		id,
	).Scan(&head, &torso, &la, &ra, &ll, &rl)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return body.State{}, fmt.Errorf("body %s: %w", id, storage.ErrMissingRecord)
		}
		return body.State{}, fmt.Errorf("querying body: %w", err)
	}
	return body.FromMap(map[string]int{
		"head": head, "torso": torso,
		"left_arm": la, "right_arm": ra,
		"left_leg": ll, "right_leg": rl,
	}), nil
}

// SaveBody implements body.Store.
func (r *BodyRepository) SaveBody(ctx context.Context, id string, s body.State) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bodies (character_id, head, torso, left_arm, right_arm, left_leg, right_leg)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (character_id) DO UPDATE SET
			head = EXCLUDED.head,
			torso = EXCLUDED.torso,
			left_arm = EXCLUDED.left_arm,
			right_arm = EXCLUDED.right_arm,
			left_leg = EXCLUDED.left_leg,
			right_leg = EXCLUDED.right_leg,
			updated_at = NOW()`,
		id,
		s.Health(body.Head), s.Health(body.Torso),
		s.Health(body.LeftArm), s.Health(body.RightArm),
		s.Health(body.LeftLeg), s.Health(body.RightLeg),
	)
	if err != nil {
		return fmt.Errorf("saving body %s: %w", id, err)
	}
	return nil
}

// DeleteBody implements body.Store. Deleting a missing body is not an error.
func (r *BodyRepository) DeleteBody(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM bodies WHERE character_id = $1`, id); err != nil {
		return fmt.Errorf("deleting body %s: %w", id, err)
	}
	return nil
}
