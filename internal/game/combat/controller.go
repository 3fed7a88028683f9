package combat

import (
	"context"
	"errors"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/confidence"
)

// ErrInvalidSelection reports an out-of-range menu choice. The engine
// re-prompts on it and never propagates it.
var ErrInvalidSelection = errors.New("invalid selection")

// Action is a turn choice.
type Action int

const (
	ActionPunch Action = iota
	ActionKick
	ActionEscape
	ActionSurrender
)

// String returns the action label.
func (a Action) String() string {
	switch a {
	case ActionPunch:
		return "punch"
	case ActionKick:
		return "kick"
	case ActionEscape:
		return "escape"
	case ActionSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Attack returns the attack an action performs.
//
// Postcondition: ok is false for escape and surrender.
func (a Action) Attack() (Attack, bool) {
	switch a {
	case ActionPunch:
		return Punch, true
	case ActionKick:
		return Kick, true
	default:
		return Attack{}, false
	}
}

// Snapshot is a read-only view of one side.
type Snapshot struct {
	ID         string
	Name       string
	Body       body.State
	Confidence int
	Tier       confidence.Tier
	Stamina    float64
	MaxStamina float64
	Cooldown   int
}

func snapshot(s *Side) Snapshot {
	return Snapshot{
		ID:         s.ID,
		Name:       s.Name,
		Body:       s.Body,
		Confidence: s.Confidence.Value(),
		Tier:       s.Confidence.Modifiers().Tier,
		Stamina:    s.Stamina,
		MaxStamina: s.MaxStamina,
		Cooldown:   s.Cooldown,
	}
}

// View is what a decision maker sees when asked to choose.
type View struct {
	FightID  string
	Round    int
	Self     Snapshot
	Opponent Snapshot
}

// ViewFor returns the view of f from s's seat.
func ViewFor(f *Fight, s *Side) View {
	return View{FightID: f.ID, Round: f.Round, Self: snapshot(s), Opponent: snapshot(f.Opponent(s))}
}

// Prediction is the hint offered before choosing a block zone.
type Prediction struct {
	Zone body.Zone
	// Confidence is the displayed certainty of the hint, in percent.
	Confidence int
}

// Controller supplies the player's decisions. Each call blocks until the
// decision is made. Returning an error wrapping ErrInvalidSelection makes
// the engine ask again; any other error aborts the fight.
type Controller interface {
	ChooseAction(ctx context.Context, v View) (Action, error)
	ChooseTarget(ctx context.Context, v View) (body.Zone, error)
	// ChooseBlock picks the zone to guard against the opponent's attack.
	// ok is false when the answer named no zone; a random zone is used then.
	ChooseBlock(ctx context.Context, v View, hint Prediction) (zone body.Zone, ok bool, err error)
}
