// Package sqlite provides single-file persistence for local play. One DB
// implements every game store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the save file at path and ensures the schema exists.
//
// Postcondition: Returns a ready DB or a non-nil error.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between them.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gender INTEGER NOT NULL,
		birth_tick INTEGER NOT NULL,
		experience INTEGER NOT NULL,
		traits_json TEXT NOT NULL,
		combat_stats TEXT NOT NULL,
		personality_stats TEXT NOT NULL,
		location_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bodies (
		character_id TEXT PRIMARY KEY,
		head INTEGER NOT NULL,
		torso INTEGER NOT NULL,
		left_arm INTEGER NOT NULL,
		right_arm INTEGER NOT NULL,
		left_leg INTEGER NOT NULL,
		right_leg INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS near_death (
		character_id TEXT PRIMARY KEY,
		active INTEGER NOT NULL,
		cause TEXT NOT NULL,
		severity INTEGER NOT NULL,
		start_tick INTEGER NOT NULL,
		medical_attention INTEGER NOT NULL,
		recovery_chance INTEGER NOT NULL,
		deterioration_chance INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deaths (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		character_id TEXT NOT NULL,
		name TEXT NOT NULL,
		tick INTEGER NOT NULL,
		date TEXT NOT NULL,
		cause TEXT NOT NULL,
		cause_description TEXT NOT NULL,
		location TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_time (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		tick INTEGER NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		day INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deaths_character ON deaths(character_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type characterRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Gender      int    `db:"gender"`
	BirthTick   int    `db:"birth_tick"`
	Experience  int    `db:"experience"`
	TraitsJSON  string `db:"traits_json"`
	Combat      string `db:"combat_stats"`
	Personality string `db:"personality_stats"`
	LocationID  string `db:"location_id"`
}

// PutCharacter inserts c or replaces the stored character with the same id.
func (db *DB) PutCharacter(ctx context.Context, c *character.Character) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("saving character: empty id")
	}
	traits, err := json.Marshal(c.Traits)
	if err != nil {
		return fmt.Errorf("encoding traits for %s: %w", c.ID, err)
	}
	combat, personality := c.Encoded()
	row := characterRow{
		ID: c.ID, Name: c.Name, Gender: int(c.Gender), BirthTick: c.BirthTick,
		Experience: c.Experience, TraitsJSON: string(traits),
		Combat: combat, Personality: personality, LocationID: c.LocationID,
	}
	_, err = db.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO characters
		(id, name, gender, birth_tick, experience, traits_json, combat_stats, personality_stats, location_id)
		VALUES (:id, :name, :gender, :birth_tick, :experience, :traits_json, :combat_stats, :personality_stats, :location_id)`,
		row)
	if err != nil {
		return fmt.Errorf("saving character %s: %w", c.ID, err)
	}
	return nil
}

// GetCharacter implements character.Repository.
func (db *DB) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	var row characterRow
	err := db.conn.GetContext(ctx, &row, `SELECT * FROM characters WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("character %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying character: %w", err)
	}
	c := &character.Character{
		ID: row.ID, Name: row.Name, Gender: character.Gender(row.Gender),
		BirthTick: row.BirthTick, Experience: row.Experience, LocationID: row.LocationID,
	}
	if err := json.Unmarshal([]byte(row.TraitsJSON), &c.Traits); err != nil {
		return nil, fmt.Errorf("traits for %s: %w: %w", id, storage.ErrCorruptRecord, err)
	}
	if err := c.SetEncoded(row.Combat, row.Personality); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptRecord, err)
	}
	return c, nil
}

type bodyRow struct {
	Head     int `db:"head"`
	Torso    int `db:"torso"`
	LeftArm  int `db:"left_arm"`
	RightArm int `db:"right_arm"`
	LeftLeg  int `db:"left_leg"`
	RightLeg int `db:"right_leg"`
}

// LoadBody implements body.Store.
func (db *DB) LoadBody(ctx context.Context, id string) (body.State, error) {
	var row bodyRow
	err := db.conn.GetContext(ctx, &row, `SELECT head, torso, left_arm, right_arm, left_leg, right_leg
		FROM bodies WHERE character_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return body.State{}, fmt.Errorf("body %s: %w", id, storage.ErrMissingRecord)
	}
	if err != nil {
		return body.State{}, fmt.Errorf("querying body: %w", err)
	}
	return body.FromMap(map[string]int{
		"head": row.Head, "torso": row.Torso,
		"left_arm": row.LeftArm, "right_arm": row.RightArm,
		"left_leg": row.LeftLeg, "right_leg": row.RightLeg,
	}), nil
}

// SaveBody implements body.Store.
func (db *DB) SaveBody(ctx context.Context, id string, s body.State) error {
	_, err := db.conn.ExecContext(ctx, `INSERT OR REPLACE INTO bodies
		(character_id, head, torso, left_arm, right_arm, left_leg, right_leg)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
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

// DeleteBody implements body.Store.
func (db *DB) DeleteBody(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM bodies WHERE character_id = ?`, id); err != nil {
		return fmt.Errorf("deleting body %s: %w", id, err)
	}
	return nil
}

type nearDeathRow struct {
	CharacterID         string `db:"character_id"`
	Active              bool   `db:"active"`
	Cause               string `db:"cause"`
	Severity            int    `db:"severity"`
	StartTick           int    `db:"start_tick"`
	MedicalAttention    bool   `db:"medical_attention"`
	RecoveryChance      int    `db:"recovery_chance"`
	DeteriorationChance int    `db:"deterioration_chance"`
}

func (r nearDeathRow) record() neardeath.Record {
	return neardeath.Record{
		CharacterID:         r.CharacterID,
		Active:              r.Active,
		Cause:               mortality.Cause(r.Cause),
		Severity:            mortality.Stage(r.Severity),
		StartTick:           r.StartTick,
		MedicalAttention:    r.MedicalAttention,
		RecoveryChance:      r.RecoveryChance,
		DeteriorationChance: r.DeteriorationChance,
	}
}

// LoadNearDeath implements neardeath.Store.
func (db *DB) LoadNearDeath(ctx context.Context, id string) (neardeath.Record, error) {
	var row nearDeathRow
	err := db.conn.GetContext(ctx, &row, `SELECT * FROM near_death WHERE character_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return neardeath.Record{}, fmt.Errorf("near-death %s: %w", id, storage.ErrMissingRecord)
	}
	if err != nil {
		return neardeath.Record{}, fmt.Errorf("querying near-death record: %w", err)
	}
	return row.record(), nil
}

// SaveNearDeath implements neardeath.Store.
func (db *DB) SaveNearDeath(ctx context.Context, rec neardeath.Record) error {
	if rec.CharacterID == "" {
		return fmt.Errorf("saving near-death record: empty character id")
	}
	row := nearDeathRow{
		CharacterID: rec.CharacterID, Active: rec.Active, Cause: string(rec.Cause),
		Severity: int(rec.Severity), StartTick: rec.StartTick,
		MedicalAttention: rec.MedicalAttention, RecoveryChance: rec.RecoveryChance,
		DeteriorationChance: rec.DeteriorationChance,
	}
	_, err := db.conn.NamedExecContext(ctx, `INSERT OR REPLACE INTO near_death
		(character_id, active, cause, severity, start_tick, medical_attention, recovery_chance, deterioration_chance)
		VALUES (:character_id, :active, :cause, :severity, :start_tick, :medical_attention, :recovery_chance, :deterioration_chance)`,
		row)
	if err != nil {
		return fmt.Errorf("saving near-death record %s: %w", rec.CharacterID, err)
	}
	return nil
}

// DeleteNearDeath implements neardeath.Store.
func (db *DB) DeleteNearDeath(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM near_death WHERE character_id = ?`, id); err != nil {
		return fmt.Errorf("deleting near-death record %s: %w", id, err)
	}
	return nil
}

// ListNearDeath implements neardeath.Store.
func (db *DB) ListNearDeath(ctx context.Context) ([]neardeath.Record, error) {
	var rows []nearDeathRow
	if err := db.conn.SelectContext(ctx, &rows, `SELECT * FROM near_death ORDER BY character_id`); err != nil {
		return nil, fmt.Errorf("listing near-death records: %w", err)
	}
	out := make([]neardeath.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

type deathRow struct {
	ID               string `db:"id"`
	CharacterID      string `db:"character_id"`
	Name             string `db:"name"`
	Tick             int    `db:"tick"`
	Date             string `db:"date"`
	Cause            string `db:"cause"`
	CauseDescription string `db:"cause_description"`
	Location         string `db:"location"`
	RecordedAt       string `db:"recorded_at"`
}

// AppendDeath implements mortality.Registry.
func (db *DB) AppendDeath(ctx context.Context, rec mortality.DeathRecord) error {
	row := deathRow{
		ID: rec.ID, CharacterID: rec.CharacterID, Name: rec.Name, Tick: rec.Tick,
		Date: rec.Date, Cause: string(rec.Cause), CauseDescription: rec.CauseDescription,
		Location: rec.Location, RecordedAt: rec.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
	_, err := db.conn.NamedExecContext(ctx, `INSERT INTO deaths
		(id, character_id, name, tick, date, cause, cause_description, location, recorded_at)
		VALUES (:id, :character_id, :name, :tick, :date, :cause, :cause_description, :location, :recorded_at)`,
		row)
	if err != nil {
		return fmt.Errorf("recording death of %s: %w", rec.CharacterID, err)
	}
	return nil
}

// Deaths implements mortality.Registry. The newest record is first.
func (db *DB) Deaths(ctx context.Context) ([]mortality.DeathRecord, error) {
	var rows []deathRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT id, character_id, name, tick, date, cause,
		cause_description, location, recorded_at FROM deaths ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing deaths: %w", err)
	}
	out := make([]mortality.DeathRecord, 0, len(rows))
	for _, r := range rows {
		at, err := time.Parse(time.RFC3339Nano, r.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("death %s: %w: %w", r.ID, storage.ErrCorruptRecord, err)
		}
		out = append(out, mortality.DeathRecord{
			ID: r.ID, CharacterID: r.CharacterID, Name: r.Name, Tick: r.Tick, Date: r.Date,
			Cause: mortality.Cause(r.Cause), CauseDescription: r.CauseDescription,
			Location: r.Location, RecordedAt: at,
		})
	}
	return out, nil
}

// LoadTime implements clock.Store.
func (db *DB) LoadTime(ctx context.Context) (clock.Time, error) {
	var t clock.Time
	err := db.conn.QueryRowxContext(ctx, `SELECT tick, year, month, day FROM world_time WHERE id = 1`).
		Scan(&t.Tick, &t.Year, &t.Month, &t.Day)
	if errors.Is(err, sql.ErrNoRows) {
		return clock.Time{}, fmt.Errorf("world time: %w", storage.ErrMissingRecord)
	}
	if err != nil {
		return clock.Time{}, fmt.Errorf("querying world time: %w", err)
	}
	return t, nil
}

// SaveTime implements clock.Store.
func (db *DB) SaveTime(ctx context.Context, t clock.Time) error {
	_, err := db.conn.ExecContext(ctx, `INSERT OR REPLACE INTO world_time (id, tick, year, month, day)
		VALUES (1, ?, ?, ?, ?)`, t.Tick, t.Year, t.Month, t.Day)
	if err != nil {
		return fmt.Errorf("saving world time: %w", err)
	}
	return nil
}
