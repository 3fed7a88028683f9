package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// NearDeathRepository persists active near-death episodes.
type NearDeathRepository struct {
	db *pgxpool.Pool
}

// NewNearDeathRepository creates a NearDeathRepository backed by the given pool.
func NewNearDeathRepository(db *pgxpool.Pool) *NearDeathRepository {
	return &NearDeathRepository{db: db}
}

const nearDeathColumns = `character_id, active, cause, severity, start_tick,
	medical_attention, recovery_chance, deterioration_chance`

func scanNearDeath(row pgx.Row) (neardeath.Record, error) {
	var (
		rec      neardeath.Record
		cause    string
		severity int
	)
	err := row.Scan(
		&rec.CharacterID, &rec.Active, &cause, &severity, &rec.StartTick,
		&rec.MedicalAttention, &rec.RecoveryChance, &rec.DeteriorationChance,
	)
	rec.Cause = mortality.Cause(cause)
	rec.Severity = mortality.Stage(severity)
	return rec, err
}

// LoadNearDeath implements neardeath.Store.
func (r *NearDeathRepository) LoadNearDeath(ctx context.Context, id string) (neardeath.Record, error) {
	rec, err := scanNearDeath(r.db.QueryRow(ctx,
		`SELECT `+nearDeathColumns+` FROM near_death WHERE character_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return neardeath.Record{}, fmt.Errorf("near-death %s: %w", id, storage.ErrMissingRecord)
		}
		return neardeath.Record{}, fmt.Errorf("querying near-death record: %w", err)
	}
	return rec, nil
}

// SaveNearDeath implements neardeath.Store.
func (r *NearDeathRepository) SaveNearDeath(ctx context.Context, rec neardeath.Record) error {
	if rec.CharacterID == "" {
		return fmt.Errorf("saving near-death record: empty character id")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO near_death (`+nearDeathColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (character_id) DO UPDATE SET
			active = EXCLUDED.active,
			cause = EXCLUDED.cause,
			severity = EXCLUDED.severity,
			start_tick = EXCLUDED.start_tick,
			medical_attention = EXCLUDED.medical_attention,
			recovery_chance = EXCLUDED.recovery_chance,
			deterioration_chance = EXCLUDED.deterioration_chance`,
		rec.CharacterID, rec.Active, string(rec.Cause), int(rec.Severity), rec.StartTick,
		rec.MedicalAttention, rec.RecoveryChance, rec.DeteriorationChance,
	)
	if err != nil {
		return fmt.Errorf("saving near-death record %s: %w", rec.CharacterID, err)
	}
	return nil
}

// DeleteNearDeath implements neardeath.Store.
func (r *NearDeathRepository) DeleteNearDeath(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM near_death WHERE character_id = $1`, id); err != nil {
		return fmt.Errorf("deleting near-death record %s: %w", id, err)
	}
	return nil
}

// ListNearDeath implements neardeath.Store.
func (r *NearDeathRepository) ListNearDeath(ctx context.Context) ([]neardeath.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+nearDeathColumns+` FROM near_death ORDER BY character_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing near-death records: %w", err)
	}
	defer rows.Close()

	out := make([]neardeath.Record, 0)
	for rows.Next() {
		rec, err := scanNearDeath(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning near-death row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeathRepository is the append-only death registry.
type DeathRepository struct {
	db *pgxpool.Pool
}

// NewDeathRepository creates a DeathRepository backed by the given pool.
func NewDeathRepository(db *pgxpool.Pool) *DeathRepository {
	return &DeathRepository{db: db}
}

// AppendDeath implements mortality.Registry.
func (r *DeathRepository) AppendDeath(ctx context.Context, rec mortality.DeathRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO deaths
			(id, character_id, name, tick, date, cause, cause_description, location, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.CharacterID, rec.Name, rec.Tick, rec.Date,
		string(rec.Cause), rec.CauseDescription, rec.Location, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("recording death of %s: %w", rec.CharacterID, err)
	}
	return nil
}

// Deaths implements mortality.Registry. The newest record is first.
func (r *DeathRepository) Deaths(ctx context.Context) ([]mortality.DeathRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, character_id, name, tick, date, cause, cause_description, location, recorded_at
		FROM deaths ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing deaths: %w", err)
	}
	defer rows.Close()

	out := make([]mortality.DeathRecord, 0)
	for rows.Next() {
		var (
			d     mortality.DeathRecord
			cause string
		)
		if err := rows.Scan(
			&d.ID, &d.CharacterID, &d.Name, &d.Tick, &d.Date,
			&cause, &d.CauseDescription, &d.Location, &d.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning death row: %w", err)
		}
		d.Cause = mortality.Cause(cause)
		d.RecordedAt = d.RecordedAt.UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}
