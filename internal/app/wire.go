//go:build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/lifesim/internal/config"
	"github.com/cory-johannsen/lifesim/internal/game/aftermath"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
)

// Build assembles an App. controller plays the player's seat and chooser
// makes the player's medical choices; chooser may be nil.
func Build(ctx context.Context, cfg config.Config, seed Seed, controller combat.Controller, chooser aftermath.CareChooser) (*App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideStores,
		ProvideDice,
		ProvideWorld,
		ProvideRules,
		ProvideClock,
		ProvideMachine,
		ProvideResolver,
		ProvideAftermath,
		ProvideTactics,
		ProvideCombatRules,
		ProvideEngine,
		NewApp,
	)
	return nil, nil, nil
}
