// Package neardeath tracks persisted near-death episodes and advances them
// once per world tick until the character recovers or faces a death roll.
package neardeath

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Default chances used when a stored record carries an invalid value.
const (
	DefaultRecoveryChance      = 10
	DefaultDeteriorationChance = 30
)

// Record is one character's active near-death episode.
type Record struct {
	CharacterID         string
	Active              bool
	Cause               mortality.Cause
	Severity            mortality.Stage
	StartTick           int
	MedicalAttention    bool
	RecoveryChance      int
	DeteriorationChance int
}

// Enter opens a new episode at severity. Worse stages start with a higher
// deterioration chance and a lower recovery chance.
//
// Precondition: severity.Valid().
func Enter(characterID string, cause mortality.Cause, severity mortality.Stage, tick int) Record {
	return Record{
		CharacterID:         characterID,
		Active:              true,
		Cause:               cause,
		Severity:            severity,
		StartTick:           tick,
		DeteriorationChance: 30 - int(severity)*5,
		RecoveryChance:      10 + int(severity)*15,
	}
}

// Validate reports whether r is a usable active record.
//
// Postcondition: a non-nil error wraps storage.ErrCorruptRecord.
func (r Record) Validate() error {
	switch {
	case r.CharacterID == "":
		return fmt.Errorf("near-death record without character id: %w", storage.ErrCorruptRecord)
	case !r.Active:
		return fmt.Errorf("near-death record for %s is inactive: %w", r.CharacterID, storage.ErrCorruptRecord)
	case !r.Severity.Valid():
		return fmt.Errorf("near-death record for %s has severity %d: %w", r.CharacterID, r.Severity, storage.ErrCorruptRecord)
	}
	return nil
}

// Normalize replaces negative chances with the defaults.
func (r Record) Normalize() Record {
	if r.RecoveryChance < 0 {
		r.RecoveryChance = DefaultRecoveryChance
	}
	if r.DeteriorationChance < 0 {
		r.DeteriorationChance = DefaultDeteriorationChance
	}
	if r.Cause == "" {
		r.Cause = mortality.Shock
	}
	return r
}

// Store persists near-death records keyed by character id.
//
// LoadNearDeath returns an error wrapping storage.ErrMissingRecord when no
// record exists and storage.ErrCorruptRecord when the stored record cannot
// be decoded.
type Store interface {
	LoadNearDeath(ctx context.Context, id string) (Record, error)
	SaveNearDeath(ctx context.Context, r Record) error
	DeleteNearDeath(ctx context.Context, id string) error
	// ListNearDeath returns every stored record in character id order.
	ListNearDeath(ctx context.Context) ([]Record, error)
}
