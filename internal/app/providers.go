// Package app assembles the combat engine, the mortality pipeline and their
// stores from configuration. Injection is generated by wire; see wire.go.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/config"
	"github.com/cory-johannsen/lifesim/internal/game/aftermath"
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/dice"
	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/game/rules"
	"github.com/cory-johannsen/lifesim/internal/game/world"
	"github.com/cory-johannsen/lifesim/internal/observability"
	"github.com/cory-johannsen/lifesim/internal/scripting"
	"github.com/cory-johannsen/lifesim/internal/storage/memory"
	"github.com/cory-johannsen/lifesim/internal/storage/postgres"
	"github.com/cory-johannsen/lifesim/internal/storage/sqlite"
)

// Seed selects the dice source. 0 draws from crypto/rand; any other value
// replays a deterministic sequence.
type Seed int64

// CharacterStore reads and writes characters.
type CharacterStore interface {
	character.Repository
	PutCharacter(ctx context.Context, c *character.Character) error
}

// Stores are the persistence backends selected by storage.driver.
type Stores struct {
	Bodies     body.Store
	NearDeath  neardeath.Store
	Deaths     mortality.Registry
	Characters CharacterStore
	Time       clock.Store
}

// ProvideLogger builds the configured logger.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideStores opens the configured backend.
//
// Postcondition: the cleanup func closes any connection that was opened.
func ProvideStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (Stores, func(), error) {
	start := time.Now()
	switch cfg.Storage.Driver {
	case "memory":
		m := memory.New()
		return Stores{Bodies: m, NearDeath: m, Deaths: m, Characters: m, Time: m}, func() {}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return Stores{}, nil, fmt.Errorf("opening save file %s: %w", cfg.Storage.Path, err)
		}
		logger.Info("save file opened",
			zap.String("path", cfg.Storage.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
		return Stores{Bodies: db, NearDeath: db, Deaths: db, Characters: db, Time: db},
			func() { _ = db.Close() }, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return Stores{}, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		repos := pool.Repositories()
		return Stores{
			Bodies:     repos.Bodies,
			NearDeath:  repos.NearDeath,
			Deaths:     repos.Deaths,
			Characters: repos.Characters,
			Time:       repos.Clock,
		}, pool.Close, nil
	default:
		return Stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// ProvideDice returns the shared roller.
func ProvideDice(seed Seed, logger *zap.Logger) *dice.Roller {
	if seed == 0 {
		return dice.NewRoller(dice.NewCryptoSource(), logger)
	}
	return dice.NewRoller(dice.NewSeededSource(int64(seed)), logger)
}

// ProvideWorld loads the country directory.
func ProvideWorld(cfg config.Config, logger *zap.Logger) (*world.Manager, error) {
	countries, err := world.LoadCountriesFromDir(cfg.Content.WorldDir)
	if err != nil {
		return nil, err
	}
	m, err := world.NewManager(countries)
	if err != nil {
		return nil, fmt.Errorf("creating world manager: %w", err)
	}
	logger.Info("world loaded", zap.Int("countries", len(countries)), zap.Int("cities", m.CityCount()))
	return m, nil
}

// ProvideRules loads the death-cause and medical-care tables.
func ProvideRules(cfg config.Config) (rules.Set, error) {
	return rules.Load(cfg.Content.RulesFile)
}

// ProvideClock restores the world clock, starting today on first run.
func ProvideClock(ctx context.Context, s Stores, cfg config.Config, logger *zap.Logger) (*clock.Clock, error) {
	return clock.Load(ctx, s.Time, cfg.Clock.DaysPerTick, time.Now(), logger)
}

// ProvideMachine builds the near-death state machine.
func ProvideMachine(s Stores, roller *dice.Roller, logger *zap.Logger) *neardeath.Machine {
	return neardeath.NewMachine(s.NearDeath, s.Bodies, roller, logger)
}

// ProvideResolver builds the medical resolver over the loaded world.
func ProvideResolver(r rules.Set, w *world.Manager, roller *dice.Roller, logger *zap.Logger) *medical.Resolver {
	return medical.NewResolver(r.Care, w, roller, logger)
}

// ProvideAftermath builds the mortality pipeline. chooser may be nil.
func ProvideAftermath(m *neardeath.Machine, res *medical.Resolver, r rules.Set, s Stores, w *world.Manager, c *clock.Clock, roller *dice.Roller, chooser aftermath.CareChooser, logger *zap.Logger) *aftermath.Service {
	return aftermath.NewService(aftermath.Deps{
		Machine:    m,
		Resolver:   res,
		Causes:     r.Causes,
		Registry:   s.Deaths,
		Bodies:     s.Bodies,
		Characters: s.Characters,
		Places:     w,
		Calendar:   c,
		Dice:       roller,
		Chooser:    chooser,
	}, logger)
}

// ProvideTactics returns the Lua tactics when combat.tactics_script is set
// and the built-in weighted AI otherwise.
func ProvideTactics(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (combat.Tactics, func(), error) {
	builtin := combat.NewWeightedTactics(roller)
	if cfg.Combat.TacticsScript == "" {
		return builtin, func() {}, nil
	}
	mgr := scripting.NewManager(roller, logger)
	if err := mgr.LoadFile("npc", cfg.Combat.TacticsScript, 0); err != nil {
		return nil, nil, fmt.Errorf("loading tactics script: %w", err)
	}
	logger.Info("tactics script loaded", zap.String("path", cfg.Combat.TacticsScript))
	return scripting.NewTactics(mgr, "npc", builtin, logger), mgr.Close, nil
}

// ProvideCombatRules converts the combat section of cfg.
func ProvideCombatRules(cfg config.Config) combat.Rules {
	return combat.Rules{
		BaseCooldown:      cfg.Combat.BaseCooldown,
		BaseDamage:        cfg.Combat.BaseDamage,
		CooldownIncrement: cfg.Combat.CooldownIncrement,
		MaxRounds:         cfg.Combat.MaxRounds,
	}
}

// ProvideEngine builds the fight engine.
func ProvideEngine(s Stores, after *aftermath.Service, roller *dice.Roller, tactics combat.Tactics, controller combat.Controller, r combat.Rules, logger *zap.Logger) *combat.Engine {
	return combat.NewEngine(s.Characters, s.Bodies, after, roller, tactics, controller, r, logger)
}
