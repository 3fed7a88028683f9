// Package aftermath resolves what happens to a defeated fighter: the body is
// evaluated, a near-death episode or death risk is opened, medical care is
// offered and rolled, and the character either recovers or dies. It also
// advances near-death episodes once per world tick.
package aftermath

import (
	"context"
	"time"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
)

// Status is the final disposition of a casualty.
type Status int

const (
	// Unharmed means the body evaluated as stable.
	Unharmed Status = iota
	// Recovered means a near-death episode ended in recovery.
	Recovered
	// NearDeath means the episode is still open and will tick.
	NearDeath
	// Survived means every death-risk roll was survived.
	Survived
	Dead
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Recovered:
		return "recovered"
	case NearDeath:
		return "near_death"
	case Survived:
		return "survived"
	case Dead:
		return "dead"
	default:
		return "unharmed"
	}
}

// Casualty is a defeated fighter handed over by the combat engine.
type Casualty struct {
	Character *character.Character
	Body      body.State
	// Controlled is true when the player makes the medical choice.
	Controlled bool
}

// Disposition is the outcome of Resolve.
type Disposition struct {
	CharacterID string
	Condition   mortality.Condition
	Status      Status
	// Care is nil when no medical care was chosen.
	Care      *medical.Care
	Treatment *medical.Outcome
	Rolls     []mortality.DeathRoll
	// NearDeath is the open episode when Status is NearDeath.
	NearDeath *neardeath.Record
	Death     *mortality.DeathRecord
	Healed    []body.Healed
}

// TickOutcome is the outcome of AdvanceNearDeathTick.
type TickOutcome struct {
	neardeath.TickResult
	// Roll is set when the tick escalated to a death roll.
	Roll  *mortality.DeathRoll
	Death *mortality.DeathRecord
}

// CareChooser picks medical care for a controlled casualty. ok is false when
// the character declines care.
type CareChooser interface {
	ChooseCare(ctx context.Context, who *character.Character, cond mortality.Condition, options []medical.Care) (care medical.Care, ok bool, err error)
}

// BestCare always chooses the most effective available care. It is used for
// computer-controlled casualties.
type BestCare struct{}

// ChooseCare implements CareChooser.
func (BestCare) ChooseCare(_ context.Context, _ *character.Character, _ mortality.Condition, options []medical.Care) (medical.Care, bool, error) {
	if len(options) == 0 {
		return medical.Care{}, false, nil
	}
	return options[len(options)-1], true, nil
}

// Describer names a location for the death registry.
type Describer interface {
	Describe(ctx context.Context, locationID string) string
}

// Calendar reads the world clock.
type Calendar interface {
	Now() clock.Time
}

// Dice is the randomness consumed directly by the service.
type Dice interface {
	mortality.Checker
	body.Roller
}

// Deps are the collaborators of a Service.
type Deps struct {
	Machine    *neardeath.Machine
	Resolver   *medical.Resolver
	Causes     mortality.Table
	Registry   mortality.Registry
	Bodies     body.Store
	Characters character.Repository
	Places     Describer
	Calendar   Calendar
	Dice       Dice
	// Chooser makes the player's medical choice. Nil selects BestCare.
	Chooser CareChooser
	// WallClock stamps death records. Nil selects time.Now.
	WallClock func() time.Time
}
