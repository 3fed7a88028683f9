// Package main runs one interactive fight between the player and a freshly
// generated NPC on the terminal, then advances the world clock by one tick.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/app"
	"github.com/cory-johannsen/lifesim/internal/config"
	"github.com/cory-johannsen/lifesim/internal/frontend/console"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty uses defaults")
	name := flag.String("name", "", "player name used when creating a new save")
	seed := flag.Int64("seed", 0, "dice seed; 0 = crypto/rand")
	color := flag.Bool("color", true, "enable ANSI color")
	flag.Parse()

	if err := run(*configPath, *name, *seed, *color); err != nil {
		fmt.Fprintf(os.Stderr, "brawl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, name string, seed int64, color bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	term := console.NewTerminal(os.Stdin, os.Stdout, color)
	controller := console.NewController(term)

	a, cleanup, err := app.Build(ctx, cfg, app.Seed(seed), controller, controller)
	if err != nil {
		return err
	}
	defer cleanup()

	if name == "" {
		name, err = term.Ask("What is your name? ")
		if err != nil {
			return err
		}
		if name == "" {
			name = "Nameless"
		}
	}
	player, err := a.EnsurePlayer(ctx, name)
	if err != nil {
		return err
	}
	if rec, err := a.DeathOf(ctx, player.ID); err != nil {
		return err
	} else if rec != nil {
		return term.WriteLine(console.Colorf(console.Red, "%s died on %s: %s.", rec.Name, rec.Date, rec.CauseDescription))
	}

	npc, err := a.SpawnNPC(ctx, "npc_"+uuid.NewString()[:8], player)
	if err != nil {
		return err
	}
	_ = term.WriteLine(fmt.Sprintf("%s squares up to %s in %s.", npc.Name, player.Name,
		a.World.Describe(ctx, player.LocationID)))

	a.Engine.SetSink(console.Sink(term))
	out, err := a.Engine.StartFight(ctx, npc.ID, player.ID)
	if err != nil {
		if errors.Is(err, console.ErrClosed) {
			return nil
		}
		return err
	}
	_ = term.WriteLine(console.RenderOutcome(out))

	now, err := a.Clock.Advance(ctx)
	if err != nil {
		a.Logger.Warn("world tick finished with errors", zap.Error(err))
	}
	return term.WriteLine(fmt.Sprintf("The date is now %s.", now.Date()))
}
