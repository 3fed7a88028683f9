package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// ClockRepository persists the single world time row.
type ClockRepository struct {
	db *pgxpool.Pool
}

// NewClockRepository creates a ClockRepository backed by the given pool.
func NewClockRepository(db *pgxpool.Pool) *ClockRepository {
	return &ClockRepository{db: db}
}

// LoadTime implements clock.Store.
func (r *ClockRepository) LoadTime(ctx context.Context) (clock.Time, error) {
	var t clock.Time
	err := r.db.QueryRow(ctx,
		`SELECT tick, year, month, day FROM world_time WHERE id = 1`,
	).Scan(&t.Tick, &t.Year, &t.Month, &t.Day)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clock.Time{}, fmt.Errorf("world time: %w", storage.ErrMissingRecord)
		}
		return clock.Time{}, fmt.Errorf("querying world time: %w", err)
	}
	return t, nil
}

// SaveTime implements clock.Store.
func (r *ClockRepository) SaveTime(ctx context.Context, t clock.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO world_time (id, tick, year, month, day) VALUES (1,$1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
			tick = EXCLUDED.tick, year = EXCLUDED.year,
			month = EXCLUDED.month, day = EXCLUDED.day`,
		t.Tick, t.Year, t.Month, t.Day,
	)
	if err != nil {
		return fmt.Errorf("saving world time: %w", err)
	}
	return nil
}
