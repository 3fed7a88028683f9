package combat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/game/aftermath"
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/confidence"
)

// ErrAlreadyFighting is returned when a character is already in a fight.
var ErrAlreadyFighting = errors.New("character is already in a fight")

// Aftermath resolves the post-fight mortality pipeline for a defeated side.
type Aftermath interface {
	Resolve(ctx context.Context, c aftermath.Casualty) (aftermath.Disposition, error)
}

// Outcome is the terminal result of StartFight.
type Outcome struct {
	FightID string
	Result  Result
	Rounds  int
	Player  Snapshot
	NPC     Snapshot
	// Disposition is set when a defeat ran the mortality pipeline.
	Disposition *aftermath.Disposition
	Events      []Event
}

// Engine runs fights between stored characters. Concurrent fights are
// allowed as long as they share no character.
type Engine struct {
	mu     sync.Mutex
	active map[string]string // character ID -> fight ID

	chars      character.Repository
	bodies     body.Store
	after      Aftermath
	dice       Roller
	tactics    Tactics
	fallback   *WeightedTactics
	controller Controller
	rules      Rules
	sink       Sink
	logger     *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: chars, bodies, dice and controller must be non-nil.
// A nil after skips the mortality pipeline; nil tactics selects the built-in
// AI; a nil logger is replaced by a no-op logger.
func NewEngine(chars character.Repository, bodies body.Store, after Aftermath, dice Roller, tactics Tactics, controller Controller, rules Rules, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := NewWeightedTactics(dice)
	if tactics == nil {
		tactics = fallback
	}
	return &Engine{
		active:     make(map[string]string),
		chars:      chars,
		bodies:     bodies,
		after:      after,
		dice:       dice,
		tactics:    tactics,
		fallback:   fallback,
		controller: controller,
		rules:      rules,
		logger:     logger,
	}
}

// SetSink registers fn to receive every event as it happens.
func (e *Engine) SetSink(fn Sink) {
	e.sink = fn
}

// InFight reports whether the character with id is currently fighting.
func (e *Engine) InFight(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.active[id]
	return ok
}

func (e *Engine) claim(fightID string, ids ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		if other, ok := e.active[id]; ok {
			return fmt.Errorf("%s in fight %s: %w", id, other, ErrAlreadyFighting)
		}
	}
	for _, id := range ids {
		e.active[id] = fightID
	}
	return nil
}

func (e *Engine) release(ids ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		delete(e.active, id)
	}
}

// StartFight runs a fight between attackerID and defenderID to completion.
// The player character always takes the controlled seat; when neither is the
// player the attacker does. Both bodies are persisted before the defeated
// side, if any, is handed to the mortality pipeline.
//
// Precondition: attackerID != defenderID.
// Postcondition: Returns an Outcome whose Result is never Undecided whenever
// the fight was started. A non-nil error with a non-empty Outcome.FightID
// means the fight ran but was aborted or could not be fully persisted.
func (e *Engine) StartFight(ctx context.Context, attackerID, defenderID string) (Outcome, error) {
	if attackerID == defenderID {
		return Outcome{}, fmt.Errorf("fighting oneself (%s): %w", attackerID, ErrInvalidSelection)
	}
	fightID := uuid.NewString()
	if err := e.claim(fightID, attackerID, defenderID); err != nil {
		return Outcome{}, err
	}
	defer e.release(attackerID, defenderID)

	player, err := e.chars.GetCharacter(ctx, attackerID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading attacker: %w", err)
	}
	npc, err := e.chars.GetCharacter(ctx, defenderID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading defender: %w", err)
	}
	if npc.IsPlayer() && !player.IsPlayer() {
		player, npc = npc, player
	}

	pBody, err := e.loadBody(ctx, player.ID)
	if err != nil {
		return Outcome{}, err
	}
	nBody, err := e.loadBody(ctx, npc.ID)
	if err != nil {
		return Outcome{}, err
	}

	pConf, nConf := confidence.Starting(player.Combat, npc.Combat)
	f := NewFight(fightID, e.rules,
		NewSide(RolePlayer, player, pBody, pConf, e.rules),
		NewSide(RoleNPC, npc, nBody, nConf, e.rules))

	log := e.logger.With(zap.String("fight_id", fightID))
	log.Info("fight started",
		zap.String("player", player.ID),
		zap.String("npc", npc.ID),
		zap.Int("player_confidence", pConf),
		zap.Int("npc_confidence", nConf),
	)

	var events []Event
	flush := func() {
		for _, ev := range f.Drain() {
			if ev.Kind == EventConfidence && ev.Confidence.TierChanged {
				log.Info("confidence tier changed",
					zap.String("character", ev.ActorID),
					zap.Int("confidence", ev.Confidence.After),
					zap.String("reason", ev.Confidence.Reason),
				)
			}
			if e.sink != nil {
				e.sink(ev)
			}
			events = append(events, ev)
		}
	}

	var runErr error
	for !f.Done() {
		if err := ctx.Err(); err != nil {
			runErr = err
			f.Abort()
			break
		}
		switch f.BeginRound() {
		case PlayerTurn:
			runErr = e.playerTurn(ctx, f)
		case NpcTurn:
			runErr = e.npcTurn(ctx, f)
		}
		if runErr != nil {
			log.Warn("aborting fight", zap.Error(runErr))
			f.Abort()
		}
		flush()
	}
	flush()

	out := Outcome{
		FightID: fightID,
		Result:  f.Result,
		Rounds:  f.Round,
		Player:  snapshot(f.Player),
		NPC:     snapshot(f.NPC),
	}

	saveErr := errors.Join(
		e.saveBody(ctx, f.Player),
		e.saveBody(ctx, f.NPC),
	)
	if saveErr != nil {
		log.Warn("persisting bodies", zap.Error(saveErr))
	}

	log.Info("fight resolved", zap.Stringer("result", f.Result), zap.Int("rounds", f.Round))

	var casualty *aftermath.Casualty
	switch f.Result {
	case PlayerDefeated:
		casualty = &aftermath.Casualty{Character: player, Body: f.Player.Body, Controlled: true}
	case NpcDefeated:
		casualty = &aftermath.Casualty{Character: npc, Body: f.NPC.Body}
	}
	if casualty != nil && e.after != nil {
		d, err := e.after.Resolve(ctx, *casualty)
		if err != nil {
			saveErr = errors.Join(saveErr, fmt.Errorf("resolving aftermath for %s: %w", casualty.Character.ID, err))
		} else {
			out.Disposition = &d
		}
	}
	out.Events = events

	if runErr != nil {
		return out, fmt.Errorf("fight %s aborted: %w", fightID, errors.Join(runErr, saveErr))
	}
	return out, saveErr
}

func (e *Engine) loadBody(ctx context.Context, id string) (body.State, error) {
	b, created, err := body.LoadOrNew(ctx, e.bodies, id)
	if err != nil {
		return body.State{}, err
	}
	if created {
		e.logger.Warn("no body record; starting at full health", zap.String("character", id))
	}
	return b, nil
}

func (e *Engine) saveBody(ctx context.Context, s *Side) error {
	if err := e.bodies.SaveBody(ctx, s.ID, s.Body); err != nil {
		return fmt.Errorf("saving body %s: %w", s.ID, err)
	}
	return nil
}

func (e *Engine) playerTurn(ctx context.Context, f *Fight) error {
	if f.SkipCheck(e.dice) {
		return nil
	}
	v := ViewFor(f, f.Player)
	action, err := ask(ctx, e.logger, func() (Action, error) {
		a, err := e.controller.ChooseAction(ctx, v)
		if err == nil && (a < ActionPunch || a > ActionSurrender) {
			err = fmt.Errorf("action %d: %w", a, ErrInvalidSelection)
		}
		return a, err
	})
	if err != nil {
		return fmt.Errorf("choosing action: %w", err)
	}

	switch action {
	case ActionEscape:
		AttemptEscape(f, e.dice)
		return nil
	case ActionSurrender:
		_, err := Surrender(f, e.dice)
		return err
	}

	atk, _ := action.Attack()
	target, err := ask(ctx, e.logger, func() (body.Zone, error) {
		z, err := e.controller.ChooseTarget(ctx, v)
		if err == nil && !z.Valid() {
			err = fmt.Errorf("zone %d: %w", z, ErrInvalidSelection)
		}
		return z, err
	})
	if err != nil {
		return fmt.Errorf("choosing target: %w", err)
	}
	block, err := e.tactics.Block(ctx, ViewFor(f, f.NPC))
	if err != nil || !block.Valid() {
		e.logger.Warn("npc tactics failed; using built-in block", zap.Error(err))
		block, _ = e.fallback.Block(ctx, v)
	}
	ResolveAttack(f, e.dice, atk, target, block)
	return nil
}

func (e *Engine) npcTurn(ctx context.Context, f *Fight) error {
	if f.SkipCheck(e.dice) {
		return nil
	}
	nv := ViewFor(f, f.NPC)
	plan, err := e.tactics.Attack(ctx, nv)
	if err != nil || !plan.Target.Valid() || (plan.Attack != Punch && plan.Attack != Kick) {
		e.logger.Warn("npc tactics failed; using built-in attack", zap.Error(err))
		plan, _ = e.fallback.Attack(ctx, nv)
	}

	hint := Prediction{
		Zone:       body.Zones[e.dice.Weighted("block hint", HintWeights)],
		Confidence: e.dice.Between("block hint confidence", 30, 60),
	}
	pv := ViewFor(f, f.Player)
	block, ok, err := e.controller.ChooseBlock(ctx, pv, hint)
	if err != nil {
		return fmt.Errorf("choosing block: %w", err)
	}
	if !ok || !block.Valid() {
		block = body.Zones[e.dice.Pick("random block", body.ZoneCount)]
	}
	ResolveAttack(f, e.dice, plan.Attack, plan.Target, block)
	return nil
}

// ask repeats fn while it reports an invalid selection.
func ask[T any](ctx context.Context, logger *zap.Logger, fn func() (T, error)) (T, error) {
	for {
		v, err := fn()
		if err == nil || !errors.Is(err, ErrInvalidSelection) {
			return v, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return v, ctxErr
		}
		logger.Debug("invalid selection; asking again", zap.Error(err))
	}
}
