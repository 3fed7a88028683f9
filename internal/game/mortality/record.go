package mortality

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeathRecord is one entry in the append-only death registry.
type DeathRecord struct {
	ID               string
	CharacterID      string
	Name             string
	Tick             int
	Date             string
	Cause            Cause
	CauseDescription string
	Location         string
	RecordedAt       time.Time
}

// Registry is the append-only list of deaths.
type Registry interface {
	// AppendDeath stores rec. Records are never updated.
	AppendDeath(ctx context.Context, rec DeathRecord) error
	// Deaths returns every record, most recent first.
	Deaths(ctx context.Context) ([]DeathRecord, error)
}

// NewDeathRecord builds a record with a fresh id.
//
// Precondition: characterID must be non-empty.
func NewDeathRecord(characterID, name string, c Cause, info CauseInfo, tick int, date, location string, now time.Time) DeathRecord {
	if location == "" {
		location = "unknown"
	}
	return DeathRecord{
		ID:               uuid.NewString(),
		CharacterID:      characterID,
		Name:             name,
		Tick:             tick,
		Date:             date,
		Cause:            c,
		CauseDescription: info.Description,
		Location:         location,
		RecordedAt:       now.UTC(),
	}
}

// String renders the record on one line.
func (r DeathRecord) String() string {
	return fmt.Sprintf("%s died %s in %s: %s", r.Name, r.Date, r.Location, r.CauseDescription)
}
