package neardeath

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Status is the outcome of one tick.
type Status int

const (
	NotNearDeath Status = iota
	NoChange
	Recovered
	Worsened
	DeathRisk
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case NoChange:
		return "no_change"
	case Recovered:
		return "recovered"
	case Worsened:
		return "worsened"
	case DeathRisk:
		return "death_risk"
	default:
		return "not_near_death"
	}
}

// Advance applies one d100 roll to r. It is the pure transition used by
// Machine.Tick.
//
//   - roll <= recovery: Recovered
//   - roll <= recovery+deterioration: severity drops one stage, deterioration
//     rises by 10 and recovery falls by 5 (floor 5). Dropping below Critical
//     is DeathRisk and leaves the record at Critical.
//   - otherwise NoChange
func Advance(r Record, roll int) (Record, Status) {
	r = r.Normalize()
	if roll <= r.RecoveryChance {
		return r, Recovered
	}
	if roll > r.RecoveryChance+r.DeteriorationChance {
		return r, NoChange
	}
	r.DeteriorationChance += 10
	r.RecoveryChance -= 5
	if r.RecoveryChance < 5 {
		r.RecoveryChance = 5
	}
	if r.Severity-1 < mortality.Critical {
		r.Severity = mortality.Critical
		return r, DeathRisk
	}
	r.Severity--
	return r, Worsened
}

// TickResult reports what a tick or recovery did to a character.
type TickResult struct {
	Status Status
	Roll   int
	Record Record
	// Healed lists zones lifted by recovery; empty unless Status is Recovered.
	Healed []body.Healed
}

// Percenter rolls a d100.
type Percenter interface {
	Percent(reason string) int
}

// Machine drives persisted near-death episodes.
type Machine struct {
	store  Store
	bodies body.Store
	dice   Percenter
	logger *zap.Logger
}

// NewMachine creates a Machine.
//
// Precondition: store, bodies and dice must be non-nil.
func NewMachine(store Store, bodies body.Store, dice Percenter, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{store: store, bodies: bodies, dice: dice, logger: logger}
}

// Begin persists a new episode for id.
func (m *Machine) Begin(ctx context.Context, id string, cause mortality.Cause, severity mortality.Stage, tick int) (Record, error) {
	rec := Enter(id, cause, severity, tick)
	if err := m.store.SaveNearDeath(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("saving near-death record: %w", err)
	}
	m.logger.Info("near death",
		zap.String("character_id", id),
		zap.String("cause", string(cause)),
		zap.Stringer("stage", severity),
	)
	return rec, nil
}

// Current returns the active record for id. Missing records report ok=false.
// Corrupt or inactive records are deleted and also report ok=false.
func (m *Machine) Current(ctx context.Context, id string) (rec Record, ok bool, err error) {
	rec, err = m.store.LoadNearDeath(ctx, id)
	if err == nil {
		err = rec.Validate()
	}
	switch {
	case err == nil:
		return rec.Normalize(), true, nil
	case errors.Is(err, storage.ErrMissingRecord):
		return Record{}, false, nil
	case errors.Is(err, storage.ErrCorruptRecord):
		m.logger.Warn("discarding near-death record", zap.String("character_id", id), zap.Error(err))
		if derr := m.store.DeleteNearDeath(ctx, id); derr != nil && !errors.Is(derr, storage.ErrMissingRecord) {
			return Record{}, false, fmt.Errorf("deleting corrupt near-death record: %w", derr)
		}
		return Record{}, false, nil
	default:
		return Record{}, false, fmt.Errorf("loading near-death record: %w", err)
	}
}

// MarkTreated sets the medical-attention flag on the active record for id.
func (m *Machine) MarkTreated(ctx context.Context, id string) error {
	rec, ok, err := m.Current(ctx, id)
	if err != nil || !ok {
		return err
	}
	rec.MedicalAttention = true
	return m.store.SaveNearDeath(ctx, rec)
}

// Tick advances the episode for id by one world tick.
//
// Postcondition: Recovered deletes the record and stabilizes the body;
// Worsened and DeathRisk persist the updated record.
func (m *Machine) Tick(ctx context.Context, id string) (TickResult, error) {
	rec, ok, err := m.Current(ctx, id)
	if err != nil {
		return TickResult{}, err
	}
	if !ok {
		return TickResult{Status: NotNearDeath}, nil
	}
	roll := m.dice.Percent("near-death tick")
	next, status := Advance(rec, roll)
	switch status {
	case Recovered:
		res, err := m.Recover(ctx, id, "natural")
		res.Roll = roll
		return res, err
	case Worsened, DeathRisk:
		if err := m.store.SaveNearDeath(ctx, next); err != nil {
			return TickResult{}, fmt.Errorf("saving near-death record: %w", err)
		}
		m.logger.Info("near-death condition worsened",
			zap.String("character_id", id),
			zap.Stringer("stage", next.Severity),
			zap.Stringer("status", status),
			zap.Int("roll", roll),
		)
	}
	return TickResult{Status: status, Roll: roll, Record: next}, nil
}

// Recover ends the episode for id: zones below 20 health are lifted by 15
// (capped at 50) and the record is deleted. how is logged, e.g. "natural",
// "miracle", or the care tier that succeeded.
func (m *Machine) Recover(ctx context.Context, id, how string) (TickResult, error) {
	if err := m.store.DeleteNearDeath(ctx, id); err != nil && !errors.Is(err, storage.ErrMissingRecord) {
		return TickResult{}, fmt.Errorf("deleting near-death record: %w", err)
	}
	st, _, err := body.LoadOrNew(ctx, m.bodies, id)
	if err != nil {
		return TickResult{}, err
	}
	healed := body.Stabilize(&st)
	if err := m.bodies.SaveBody(ctx, id, st); err != nil {
		return TickResult{}, fmt.Errorf("saving body: %w", err)
	}
	m.logger.Info("recovered from near death", zap.String("character_id", id), zap.String("how", how))
	return TickResult{Status: Recovered, Healed: healed}, nil
}

// End deletes the record for id without healing. Used when the episode is
// superseded by a death outcome.
func (m *Machine) End(ctx context.Context, id string) error {
	if err := m.store.DeleteNearDeath(ctx, id); err != nil && !errors.Is(err, storage.ErrMissingRecord) {
		return fmt.Errorf("deleting near-death record: %w", err)
	}
	return nil
}

// Active lists the ids of every character with a stored record. Invalid
// records are discarded by the next Tick for that id.
func (m *Machine) Active(ctx context.Context) ([]string, error) {
	recs, err := m.store.ListNearDeath(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing near-death records: %w", err)
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.CharacterID)
	}
	return ids, nil
}
