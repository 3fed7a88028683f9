package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/config"
	"github.com/cory-johannsen/lifesim/internal/game/aftermath"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/dice"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/world"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// App is the assembled game.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Stores    Stores
	World     *world.Manager
	Clock     *clock.Clock
	Dice      *dice.Roller
	Aftermath *aftermath.Service
	Engine    *combat.Engine
}

// NewApp ties the pieces together and subscribes the mortality pipeline to
// the world clock.
func NewApp(cfg config.Config, logger *zap.Logger, s Stores, w *world.Manager, c *clock.Clock, roller *dice.Roller, after *aftermath.Service, engine *combat.Engine) *App {
	after.SetBusy(engine.InFight)
	c.Subscribe("aftermath", after.OnWorldTick)
	return &App{
		Config:    cfg,
		Logger:    logger,
		Stores:    s,
		World:     w,
		Clock:     c,
		Dice:      roller,
		Aftermath: after,
		Engine:    engine,
	}
}

func (a *App) cityIDs() []string {
	cities := a.World.AllCities()
	ids := make([]string, 0, len(cities))
	for _, c := range cities {
		ids = append(ids, c.ID)
	}
	return ids
}

// EnsurePlayer returns the stored player, creating one named name in a
// random city when none exists.
func (a *App) EnsurePlayer(ctx context.Context, name string) (*character.Character, error) {
	p, err := a.Stores.Characters.GetCharacter(ctx, character.PlayerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	ids := a.cityIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("creating player: world has no cities")
	}
	p, err = character.NewPlayer(name, character.Other, a.Clock.CurrentTick(), ids[a.Dice.Pick("player city", len(ids))])
	if err != nil {
		return nil, err
	}
	if err := a.Stores.Characters.PutCharacter(ctx, p); err != nil {
		return nil, err
	}
	a.Logger.Info("player created", zap.String("name", p.Name), zap.String("location", p.LocationID))
	return p, nil
}

// SpawnNPC generates and stores a random NPC. When near is set the NPC is
// placed in the same city.
func (a *App) SpawnNPC(ctx context.Context, id string, near *character.Character) (*character.Character, error) {
	n, err := character.NewNPC(a.Dice, id, a.Clock.CurrentTick(), a.cityIDs())
	if err != nil {
		return nil, err
	}
	if near != nil {
		n.LocationID = near.LocationID
	}
	if err := a.Stores.Characters.PutCharacter(ctx, n); err != nil {
		return nil, err
	}
	a.Logger.Debug("npc spawned", zap.String("id", n.ID), zap.String("name", n.Name))
	return n, nil
}

// DeathOf returns the death record for id, or nil while the character lives.
func (a *App) DeathOf(ctx context.Context, id string) (*mortality.DeathRecord, error) {
	deaths, err := a.Stores.Deaths.Deaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading death registry: %w", err)
	}
	for i := range deaths {
		if deaths[i].CharacterID == id {
			return &deaths[i], nil
		}
	}
	return nil, nil
}
