// Package main runs the headless simulation: the world clock advances on a
// timer and the player, driven by the built-in AI, is periodically jumped by
// a random NPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/app"
	"github.com/cory-johannsen/lifesim/internal/config"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/game/dice"
	"github.com/cory-johannsen/lifesim/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty uses defaults")
	name := flag.String("name", "Wanderer", "player name used when creating a new save")
	seed := flag.Int64("seed", 0, "dice seed; 0 = crypto/rand")
	tickInterval := flag.Duration("tick", 5*time.Second, "real time between world ticks")
	brawlEvery := flag.Int("brawl-every", 1, "world ticks between fights; 0 disables fights")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	var src dice.Source = dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed + 1)
	}
	autopilot := combat.NewAutoPilot(combat.NewWeightedTactics(dice.NewRoller(src, nil)))
	a, cleanup, err := app.Build(ctx, cfg, app.Seed(*seed), autopilot, nil)
	if err != nil {
		log.Fatalf("building simulation: %v", err)
	}
	defer cleanup()
	logger := a.Logger

	player, err := a.EnsurePlayer(ctx, *name)
	if err != nil {
		logger.Fatal("loading player", zap.Error(err))
	}
	logger.Info("simulation ready",
		zap.String("player", player.Name),
		zap.String("location", a.World.Describe(ctx, player.LocationID)),
		zap.String("date", a.Clock.Now().Date()),
		zap.Duration("startup", time.Since(start)),
	)

	lc := server.NewLifecycle(logger)
	// World ticks and fights share one goroutine so a tick never lands
	// while a fight holds the player's body.
	ticks := 0
	lc.Add("world", server.NewTicker("world", *tickInterval, func(ctx context.Context) error {
		if _, err := a.Clock.Advance(ctx); err != nil {
			return err
		}
		ticks++
		if *brawlEvery <= 0 || ticks%*brawlEvery != 0 {
			return nil
		}
		return brawl(ctx, a)
	}, logger))

	if err := lc.Run(ctx); err != nil {
		logger.Error("simulation stopped", zap.Error(err))
	}
}

// brawl pits a fresh NPC against the player unless the player is dead.
func brawl(ctx context.Context, a *app.App) error {
	player, err := a.EnsurePlayer(ctx, "")
	if err != nil {
		return err
	}
	rec, err := a.DeathOf(ctx, player.ID)
	if err != nil {
		return err
	}
	if rec != nil {
		a.Logger.Debug("player is dead; no more fights", zap.String("cause", rec.CauseDescription))
		return nil
	}
	npc, err := a.SpawnNPC(ctx, "npc_"+uuid.NewString()[:8], player)
	if err != nil {
		return err
	}
	out, err := a.Engine.StartFight(ctx, npc.ID, player.ID)
	if err != nil {
		return fmt.Errorf("brawl with %s: %w", npc.Name, err)
	}
	fields := []zap.Field{
		zap.String("fight_id", out.FightID),
		zap.String("npc", npc.Name),
		zap.Stringer("result", out.Result),
		zap.Int("rounds", out.Rounds),
	}
	if out.Disposition != nil {
		fields = append(fields, zap.Stringer("status", out.Disposition.Status))
	}
	a.Logger.Info("brawl finished", fields...)
	return nil
}
