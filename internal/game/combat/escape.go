package combat

import (
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

var escapeLines = [...]string{
	"You slip away into the crowd!",
	"You duck around a corner and disappear!",
	"You sprint away through narrow alleys!",
	"You vault over a fence and escape!",
	"You blend into the shadows and vanish!",
	"You dash through a building and out the back!",
}

var failedEscapeLines = [...]string{
	"You stumble while trying to run!",
	"Your opponent blocks your escape route!",
	"You trip over debris in your path!",
	"They grab you before you can get away!",
	"You run into a dead end!",
	"Your injuries slow you down too much!",
}

// punishZones are the zones a punishment strike can land on.
var punishZones = [...]body.Zone{body.Torso, body.Head, body.LeftArm, body.RightArm}

// Strike is one fixed-formula blow landed outside the normal attack path.
type Strike struct {
	Zone   body.Zone
	Damage int
}

// EscapeResult is the outcome of an escape attempt.
type EscapeResult struct {
	Chance  int
	Roll    int
	Escaped bool
	// Punishment is the opponent's free strike after a failed attempt.
	Punishment *Strike
}

// InjuryPenalty sums the escape penalty for every zone below 50 health:
// 15 per leg, 10 for the torso, 5 for any other zone.
func InjuryPenalty(b body.State) int {
	pen := 0
	for _, z := range b.InjuredZones(50) {
		switch {
		case z.IsLeg():
			pen += 15
		case z == body.Torso:
			pen += 10
		default:
			pen += 5
		}
	}
	return pen
}

// EscapeChance returns the escape chance for self fleeing from opponent.
//
// Postcondition: Returns a value in [5, 85].
func EscapeChance(self, opponent *Side) int {
	chance := 30 + 2*(self.Stats.Get(stats.Speed)-opponent.Stats.Get(stats.Speed))
	chance += floorDiv(self.Confidence.Value()-50, 10)
	chance += self.Stats.Get(stats.Experience) / 10
	chance -= InjuryPenalty(self.Body)
	return clampInt(5, 85, chance)
}

// AttemptEscape resolves an escape attempt by the acting side. Success
// resolves the fight as Escaped. Failure costs confidence and stamina, gives
// the opponent a free punishment strike and consumes the turn.
//
// Precondition: f.Phase is PlayerTurn or NpcTurn.
func AttemptEscape(f *Fight, r Roller) EscapeResult {
	actor := f.Actor()
	opp := f.Opponent(actor)
	res := EscapeResult{Chance: EscapeChance(actor, opp)}
	res.Roll = r.Percent("escape")

	if res.Roll <= res.Chance {
		res.Escaped = true
		line := escapeLines[r.Pick("escape line", len(escapeLines))]
		f.emit(Event{Kind: EventEscaped, ActorID: actor.ID, Roll: res.Roll, Chance: res.Chance,
			Narrative: "Success! " + line})
		f.confidence(actor, +15, "Successful escape")
		f.resolve(Escaped)
		return res
	}

	line := failedEscapeLines[r.Pick("failed escape line", len(failedEscapeLines))]
	f.emit(Event{Kind: EventEscapeFailed, ActorID: actor.ID, Roll: res.Roll, Chance: res.Chance,
		Narrative: "Failed! " + line})
	f.confidence(actor, -20, "Failed escape attempt")
	f.confidence(opp, +10, "Prevented enemy escape")
	actor.Stamina -= 15
	if actor.Stamina < 0 {
		actor.Stamina = 0
	}
	s := punishment(f, r, opp, actor)
	res.Punishment = &s
	actor.Cooldown += f.Rules.CooldownIncrement
	f.EndTurn()
	return res
}

// punishment is the free strike after a failed escape: base 15, multiplier
// 1.2, no zone multiplier, from the striker's unpenalized stats.
func punishment(f *Fight, r Roller, striker, victim *Side) Strike {
	dmg := rollDamage(r, "punishment damage", 15, striker.Stats.Get(stats.Strength), 1.2, striker.Stats.Get(stats.Experience))
	zone := punishZones[r.Pick("punishment zone", len(punishZones))]
	s := Strike{Zone: zone, Damage: victim.Body.ApplyDamage(zone, dmg)}
	f.emit(Event{Kind: EventStrike, ActorID: striker.ID, TargetID: victim.ID, Zone: zone, Damage: s.Damage,
		Narrative: fmt.Sprintf("%s strikes %s's %s while they're vulnerable for %d damage", striker.Name, victim.Name, zone, s.Damage)})
	return s
}
