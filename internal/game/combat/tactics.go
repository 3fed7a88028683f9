package combat

import (
	"context"

	"github.com/cory-johannsen/lifesim/internal/game/body"
)

// TargetWeights are the NPC zone preferences, in body.Zones order.
var TargetWeights = []float64{15, 30, 10, 10, 17.5, 17.5}

// HintWeights weight the block hint offered to the player, in body.Zones
// order.
var HintWeights = []float64{25, 30, 10, 10, 12.5, 12.5}

// Plan is an NPC's attack decision.
type Plan struct {
	Attack Attack
	Target body.Zone
}

// Tactics decides for a computer-controlled side.
type Tactics interface {
	Attack(ctx context.Context, v View) (Plan, error)
	Block(ctx context.Context, v View) (body.Zone, error)
}

// WeightedTactics is the built-in NPC AI: a uniform choice of attack type,
// a weighted choice of target zone and a uniform block guess.
type WeightedTactics struct {
	Dice Roller
}

// NewWeightedTactics returns the built-in AI drawing from r.
func NewWeightedTactics(r Roller) *WeightedTactics {
	return &WeightedTactics{Dice: r}
}

// Attack implements Tactics.
func (t *WeightedTactics) Attack(_ context.Context, _ View) (Plan, error) {
	atk := Punch
	if t.Dice.Pick("npc attack", 2) == 1 {
		atk = Kick
	}
	zone := body.Zones[t.Dice.Weighted("npc target", TargetWeights)]
	return Plan{Attack: atk, Target: zone}, nil
}

// Block implements Tactics.
func (t *WeightedTactics) Block(_ context.Context, _ View) (body.Zone, error) {
	return body.Zones[t.Dice.Pick("npc block", body.ZoneCount)], nil
}

// AutoPilot plays the player's seat with a Tactics. It only ever attacks.
type AutoPilot struct {
	tactics Tactics
	plan    Plan
}

// NewAutoPilot returns a Controller that delegates to t.
func NewAutoPilot(t Tactics) *AutoPilot {
	return &AutoPilot{tactics: t}
}

// ChooseAction implements Controller.
func (a *AutoPilot) ChooseAction(ctx context.Context, v View) (Action, error) {
	p, err := a.tactics.Attack(ctx, v)
	if err != nil {
		return 0, err
	}
	a.plan = p
	if p.Attack == Kick {
		return ActionKick, nil
	}
	return ActionPunch, nil
}

// ChooseTarget implements Controller.
func (a *AutoPilot) ChooseTarget(_ context.Context, _ View) (body.Zone, error) {
	return a.plan.Target, nil
}

// ChooseBlock implements Controller.
func (a *AutoPilot) ChooseBlock(ctx context.Context, v View, _ Prediction) (body.Zone, bool, error) {
	z, err := a.tactics.Block(ctx, v)
	if err != nil {
		return 0, false, err
	}
	return z, true, nil
}
