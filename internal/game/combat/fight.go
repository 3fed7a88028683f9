package combat

import (
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/confidence"
)

// Fight is the explicit state value of one fight: the current phase, the
// round counter and the per-side sub-state. Transition functions mutate it
// and append events; the Engine drives it to Resolved.
type Fight struct {
	ID     string
	Rules  Rules
	Phase  Phase
	Round  int
	Result Result

	Player *Side
	NPC    *Side

	// refused is set by a refused surrender; the next RoundStart resolves
	// the fight.
	refused bool
	events  []Event
}

// NewFight seats player and npc in a fight in the Idle phase.
//
// Precondition: player.Role == RolePlayer and npc.Role == RoleNPC.
func NewFight(id string, rules Rules, player, npc *Side) *Fight {
	return &Fight{ID: id, Rules: rules, Phase: Idle, Player: player, NPC: npc}
}

// Opponent returns the side facing s.
func (f *Fight) Opponent(s *Side) *Side {
	if s == f.Player {
		return f.NPC
	}
	return f.Player
}

// Actor returns the side whose turn it is, or nil outside a turn phase.
func (f *Fight) Actor() *Side {
	switch f.Phase {
	case PlayerTurn:
		return f.Player
	case NpcTurn:
		return f.NPC
	default:
		return nil
	}
}

// Done reports whether the fight has reached Resolved.
func (f *Fight) Done() bool { return f.Phase == Resolved }

// Drain returns the events recorded since the last Drain.
func (f *Fight) Drain() []Event {
	out := f.events
	f.events = nil
	return out
}

func (f *Fight) emit(e Event) {
	e.Round = f.Round
	f.events = append(f.events, e)
}

func (f *Fight) confidence(s *Side, delta int, reason string) confidence.Change {
	c := s.Confidence.Update(delta, reason)
	f.emit(Event{Kind: EventConfidence, ActorID: s.ID, Confidence: &c,
		Narrative: fmt.Sprintf("%s: %s (%+d confidence, now %d)", s.Name, reason, delta, c.After)})
	if c.TierChanged && c.After < c.Before && s.Confidence.Modifiers().Tier == confidence.Panicked {
		f.emit(Event{Kind: EventPanicked, ActorID: s.ID, Narrative: s.Name + " is starting to panic!"})
	}
	return c
}

func (f *Fight) resolve(r Result) {
	f.Phase = Resolved
	f.Result = r
	f.emit(Event{Kind: EventResolved, Result: r, Narrative: "Fight over: " + r.String()})
}

// BeginRound enters RoundStart: the round counter advances, both sides
// recover stamina and tick down their cooldowns, then the defeat check runs
// and the acting side is chosen.
//
// Precondition: f.Phase is Idle or RoundEnd.
// Postcondition: f.Phase is PlayerTurn, NpcTurn, RoundEnd (nobody ready) or
// Resolved.
func (f *Fight) BeginRound() Phase {
	if f.Phase == Resolved {
		return f.Phase
	}
	f.Round++
	f.Phase = RoundStart
	f.emit(Event{Kind: EventRoundStarted, Narrative: fmt.Sprintf("Round %d", f.Round)})

	for _, s := range []*Side{f.Player, f.NPC} {
		s.regenerate()
		s.tickCooldown()
	}

	switch {
	case f.Player.Body.IsDefeated():
		f.emit(Event{Kind: EventDefeated, ActorID: f.Player.ID, Narrative: f.Player.Name + " has been defeated!"})
		f.resolve(PlayerDefeated)
		return f.Phase
	case f.NPC.Body.IsDefeated():
		f.emit(Event{Kind: EventDefeated, ActorID: f.NPC.ID, Narrative: f.NPC.Name + " has been defeated!"})
		f.resolve(NpcDefeated)
		return f.Phase
	case f.refused:
		f.resolve(SurrenderBrutal)
		return f.Phase
	case f.Rules.MaxRounds > 0 && f.Round > f.Rules.MaxRounds:
		f.resolve(Aborted)
		return f.Phase
	}

	actor := f.Player
	next := PlayerTurn
	if f.NPC.Cooldown < f.Player.Cooldown {
		actor, next = f.NPC, NpcTurn
	}
	if actor.Cooldown > 0 {
		f.Phase = RoundEnd
		return f.Phase
	}
	f.Phase = next
	return f.Phase
}

// SkipCheck applies the panic skip-turn roll for the acting side. It
// reports true when the turn was forfeited.
//
// Precondition: f.Phase is PlayerTurn or NpcTurn.
func (f *Fight) SkipCheck(r Roller) bool {
	s := f.Actor()
	chance := s.Confidence.Modifiers().SkipTurnChance
	if chance <= 0 {
		return false
	}
	roll := r.Percent("skip turn")
	if roll > chance {
		return false
	}
	s.Cooldown += f.Rules.CooldownIncrement
	f.emit(Event{Kind: EventTurnSkipped, ActorID: s.ID, Roll: roll, Chance: chance,
		Narrative: s.Name + " is too panicked to act!"})
	f.Phase = RoundEnd
	return true
}

// EndTurn moves an unresolved fight to RoundEnd.
func (f *Fight) EndTurn() {
	if f.Phase != Resolved {
		f.Phase = RoundEnd
	}
}

// Abort resolves the fight as Aborted.
func (f *Fight) Abort() {
	if f.Phase != Resolved {
		f.resolve(Aborted)
	}
}
