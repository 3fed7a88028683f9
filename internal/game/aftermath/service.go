package aftermath

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/medical"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Service runs the post-fight mortality pipeline.
type Service struct {
	d      Deps
	busy   func(id string) bool
	logger *zap.Logger
}

// NewService creates a Service.
//
// Precondition: every field of d except Chooser and WallClock is non-nil.
func NewService(d Deps, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.Chooser == nil {
		d.Chooser = BestCare{}
	}
	if d.WallClock == nil {
		d.WallClock = time.Now
	}
	return &Service{d: d, busy: func(string) bool { return false }, logger: logger}
}

// SetBusy registers the check OnWorldTick uses to leave alone characters
// whose body is held by a running fight, e.g. Engine.InFight.
//
// Precondition: called before the clock starts ticking.
func (s *Service) SetBusy(fn func(id string) bool) {
	if fn == nil {
		fn = func(string) bool { return false }
	}
	s.busy = fn
}

// Resolve evaluates a casualty's body and drives the outcome to a final
// disposition: unharmed, recovered, still near death, survived or dead.
//
// Postcondition: Status Dead appends exactly one DeathRecord to the registry.
func (s *Service) Resolve(ctx context.Context, c Casualty) (Disposition, error) {
	cond := mortality.Evaluate(c.Body)
	d := Disposition{CharacterID: c.Character.ID, Condition: cond}
	log := s.logger.With(zap.String("character_id", c.Character.ID))
	log.Info("mortality evaluated", zap.Stringer("status", cond.Status), zap.String("cause", string(cond.Cause)))

	switch cond.Status {
	case mortality.NearDeath:
		return s.nearDeath(ctx, c, cond, d)
	case mortality.DeathRisk:
		return s.deathRisk(ctx, c, cond, d)
	default:
		d.Status = Unharmed
		return d, nil
	}
}

func (s *Service) nearDeath(ctx context.Context, c Casualty, cond mortality.Condition, d Disposition) (Disposition, error) {
	ch := c.Character
	rec, err := s.d.Machine.Begin(ctx, ch.ID, cond.Cause, cond.Severity, s.d.Calendar.Now().Tick)
	if err != nil {
		return d, err
	}
	d.NearDeath = &rec

	care, ok, err := s.choose(ctx, c, cond)
	if err != nil {
		return d, err
	}
	if !ok {
		roll := s.d.Causes.RollDeath(s.d.Dice, cond.Cause, false, ch.Combat)
		d.Rolls = append(d.Rolls, roll)
		if roll.Died {
			return s.die(ctx, ch, cond.Cause, d)
		}
		res, err := s.d.Machine.Recover(ctx, ch.ID, "miracle")
		if err != nil {
			return d, err
		}
		d.Status, d.Healed, d.NearDeath = Recovered, res.Healed, nil
		return d, nil
	}

	d.Care = &care
	if err := s.d.Machine.MarkTreated(ctx, ch.ID); err != nil {
		return d, err
	}
	rec.MedicalAttention = true
	out := s.d.Resolver.Treat(care, int(cond.Severity), ch.Combat)
	d.Treatment = &out
	if out.Success {
		res, err := s.d.Machine.Recover(ctx, ch.ID, string(care.Tier))
		if err != nil {
			return d, err
		}
		d.Status, d.Healed, d.NearDeath = Recovered, res.Healed, nil
		return d, nil
	}

	roll := s.d.Causes.RollDeath(s.d.Dice, cond.Cause, true, ch.Combat)
	d.Rolls = append(d.Rolls, roll)
	if roll.Died {
		return s.die(ctx, ch, cond.Cause, d)
	}
	d.Status = NearDeath
	return d, nil
}

func (s *Service) deathRisk(ctx context.Context, c Casualty, cond mortality.Condition, d Disposition) (Disposition, error) {
	care, ok, err := s.choose(ctx, c, cond)
	if err != nil {
		return d, err
	}
	if ok {
		d.Care = &care
	}
	d.Rolls = s.d.Causes.RollAll(s.d.Dice, cond.Causes, ok, c.Character.Combat)
	if n := len(d.Rolls); n > 0 && d.Rolls[n-1].Died {
		return s.die(ctx, c.Character, d.Rolls[n-1].Cause, d)
	}
	d.Status = Survived
	return d, nil
}

func (s *Service) choose(ctx context.Context, c Casualty, cond mortality.Condition) (medical.Care, bool, error) {
	options := s.d.Resolver.Options(ctx, c.Character.LocationID)
	var chooser CareChooser = BestCare{}
	if c.Controlled {
		chooser = s.d.Chooser
	}
	care, ok, err := chooser.ChooseCare(ctx, c.Character, cond, options)
	if err != nil {
		return medical.Care{}, false, fmt.Errorf("choosing medical care: %w", err)
	}
	return care, ok, nil
}

// die records the death, closes any near-death episode and, for an NPC,
// removes its body record.
func (s *Service) die(ctx context.Context, ch *character.Character, cause mortality.Cause, d Disposition) (Disposition, error) {
	now := s.d.Calendar.Now()
	rec := mortality.NewDeathRecord(ch.ID, ch.Name, cause, s.d.Causes.Lookup(cause),
		now.Tick, now.Date(), s.d.Places.Describe(ctx, ch.LocationID), s.d.WallClock())
	if err := s.d.Registry.AppendDeath(ctx, rec); err != nil {
		return d, fmt.Errorf("recording death: %w", err)
	}
	d.Status, d.Death, d.NearDeath = Dead, &rec, nil
	s.logger.Info("character died",
		zap.String("character_id", ch.ID),
		zap.String("cause", string(cause)),
		zap.String("location", rec.Location),
	)

	var errs []error
	if err := s.d.Machine.End(ctx, ch.ID); err != nil {
		errs = append(errs, err)
	}
	if !ch.IsPlayer() {
		if err := s.d.Bodies.DeleteBody(ctx, ch.ID); err != nil && !errors.Is(err, storage.ErrMissingRecord) {
			errs = append(errs, fmt.Errorf("deleting body: %w", err))
		}
	}
	return d, errors.Join(errs...)
}

// AdvanceNearDeathTick advances the near-death episode of id by one world
// tick. A tick that reaches DeathRisk rolls death for the recorded cause,
// with medical help if the episode was treated.
func (s *Service) AdvanceNearDeathTick(ctx context.Context, id string) (TickOutcome, error) {
	res, err := s.d.Machine.Tick(ctx, id)
	if err != nil {
		return TickOutcome{}, err
	}
	out := TickOutcome{TickResult: res}
	if res.Status != neardeath.DeathRisk {
		return out, nil
	}
	ch, err := s.d.Characters.GetCharacter(ctx, id)
	if err != nil {
		return out, fmt.Errorf("loading character %s: %w", id, err)
	}
	roll := s.d.Causes.RollDeath(s.d.Dice, res.Record.Cause, res.Record.MedicalAttention, ch.Combat)
	out.Roll = &roll
	if !roll.Died {
		return out, nil
	}
	d, err := s.die(ctx, ch, res.Record.Cause, Disposition{CharacterID: id})
	out.Death = d.Death
	return out, err
}

// OnWorldTick is a clock.Subscriber: the player heals naturally and every
// open near-death episode advances one tick.
//
// Characters in a running fight are skipped for this tick: the fight owns
// their body until it is saved.
func (s *Service) OnWorldTick(ctx context.Context, now clock.Time) error {
	var errs []error
	if s.busy(character.PlayerID) {
		s.logger.Debug("player in a fight; skipping natural healing", zap.Int("tick", now.Tick))
	} else if err := s.heal(ctx, character.PlayerID); err != nil {
		errs = append(errs, err)
	}
	ids, err := s.d.Machine.Active(ctx)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	for _, id := range ids {
		if s.busy(id) {
			s.logger.Debug("character in a fight; skipping near-death tick",
				zap.String("character_id", id), zap.Int("tick", now.Tick))
			continue
		}
		out, err := s.AdvanceNearDeathTick(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("near-death tick %s: %w", id, err))
			continue
		}
		s.logger.Debug("near-death tick",
			zap.String("character_id", id),
			zap.Int("tick", now.Tick),
			zap.Stringer("status", out.Status),
		)
	}
	return errors.Join(errs...)
}

func (s *Service) heal(ctx context.Context, id string) error {
	st, created, err := body.LoadOrNew(ctx, s.d.Bodies, id)
	if err != nil || created {
		return err
	}
	if healed := body.NaturalHeal(&st, s.d.Dice); len(healed) == 0 {
		return nil
	}
	if err := s.d.Bodies.SaveBody(ctx, id, st); err != nil {
		return fmt.Errorf("saving healed body: %w", err)
	}
	return nil
}
