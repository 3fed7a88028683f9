package medical

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// PopulationLookup resolves a city's population.
type PopulationLookup interface {
	Population(ctx context.Context, locationID string) (int, error)
}

// Checker rolls a d100 against a chance.
type Checker interface {
	Check(reason string, chance int) (roll int, ok bool)
}

// Outcome is the result of one treatment.
type Outcome struct {
	Care    Care
	Chance  int
	Roll    int
	Success bool
}

// Resolver offers and applies medical care.
type Resolver struct {
	catalog Catalog
	places  PopulationLookup
	dice    Checker
	logger  *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: catalog must be valid; places and dice must be non-nil.
func NewResolver(catalog Catalog, places PopulationLookup, dice Checker, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{catalog: catalog, places: places, dice: dice, logger: logger}
}

// Options returns the care available at locationID. A location whose
// population cannot be resolved is treated as empty, so only care marked
// Always is offered.
func (r *Resolver) Options(ctx context.Context, locationID string) []Care {
	pop, err := r.places.Population(ctx, locationID)
	if err != nil {
		r.logger.Warn("population lookup failed", zap.String("location", locationID), zap.Error(err))
		pop = 0
	}
	return r.catalog.Available(pop)
}

// Best returns the most effective care available at locationID.
func (r *Resolver) Best(ctx context.Context, locationID string) Care {
	opts := r.Options(ctx, locationID)
	return opts[len(opts)-1]
}

// Treat rolls one treatment attempt.
func (r *Resolver) Treat(care Care, severity int, combat stats.Block) Outcome {
	chance := SuccessChance(care, severity, combat)
	roll, ok := r.dice.Check(fmt.Sprintf("treatment: %s", care.Tier), chance)
	r.logger.Info("medical treatment",
		zap.String("care", string(care.Tier)),
		zap.Int("chance", chance),
		zap.Int("roll", roll),
		zap.Bool("success", ok),
	)
	return Outcome{Care: care, Chance: chance, Roll: roll, Success: ok}
}
