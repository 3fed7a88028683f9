package combat

import (
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

var mercyLines = [...]string{
	"Fine, you're not worth my time anyway.",
	"Smart choice. Get out of here before I change my mind.",
	"I respect someone who knows when they're beaten.",
	"You show wisdom in surrender. Go, and remember this lesson.",
	"I'm not a monster. Just... stay down.",
	"Consider this a warning. Next time won't be so easy.",
}

var brutalLines = [...]string{
	"Surrender won't save you now!",
	"Too late for mercy!",
	"You should have thought of that earlier!",
	"Begging won't help you now!",
	"I finish what I start!",
	"Weakness disgusts me!",
}

// SurrenderResult is the outcome of a surrender.
type SurrenderResult struct {
	Chance int
	Roll   int
	Mercy  bool
	// Strikes are the blows of the beating after a refused surrender.
	Strikes []Strike
}

// MercyChance returns the chance the opponent accepts a surrender.
//
//   - personality: the opponent's personality block
//   - healthPercent: the surrendering side's overall health
//   - oppConfidence: the opponent's current confidence
//   - round: the current round number
//
// Postcondition: Returns a value in [5, 80].
func MercyChance(personality stats.Block, healthPercent float64, oppConfidence, round int) int {
	score := float64(personality.Trait(stats.Empathy))*2.0 -
		float64(personality.Trait(stats.Assertiveness))*1.0 +
		float64(personality.Trait(stats.Intelligence))*1.0 +
		float64(personality.Trait(stats.Social))*1.5 +
		float64(personality.Trait(stats.Wisdom))*1.2 +
		float64(personality.Trait(stats.Patience))*1.3
	chance := 25 + int(score/100)
	if healthPercent < 30 {
		chance += 15
	}
	if oppConfidence > 70 {
		chance += 10
	}
	if round > 5 {
		chance -= 10
	}
	return clampInt(5, 80, chance)
}

// Surrender resolves the player's surrender. Mercy resolves the fight as
// SurrenderMercy. A refused surrender is followed by a beating of 2 to 4
// strikes; the fight then returns to RoundStart once, where it resolves as
// PlayerDefeated if the beating was decisive or SurrenderBrutal otherwise.
//
// Precondition: f.Phase is PlayerTurn.
// Postcondition: Returns an error wrapping ErrInvalidSelection when called on
// the NPC's turn; the fight is unchanged in that case.
func Surrender(f *Fight, r Roller) (SurrenderResult, error) {
	if f.Phase != PlayerTurn {
		return SurrenderResult{}, fmt.Errorf("surrender in phase %s: %w", f.Phase, ErrInvalidSelection)
	}
	player, npc := f.Player, f.NPC
	res := SurrenderResult{
		Chance: MercyChance(npc.Personality, player.Body.HealthPercent(), npc.Confidence.Value(), f.Round),
	}
	res.Roll = r.Percent("mercy")

	if res.Roll <= res.Chance {
		res.Mercy = true
		line := mercyLines[r.Pick("mercy line", len(mercyLines))]
		f.emit(Event{Kind: EventMercy, ActorID: npc.ID, TargetID: player.ID, Roll: res.Roll, Chance: res.Chance,
			Narrative: fmt.Sprintf("%s: %q", npc.Name, line)})
		f.confidence(player, -10, "Surrendered but survived")
		f.resolve(SurrenderMercy)
		return res, nil
	}

	line := brutalLines[r.Pick("brutal line", len(brutalLines))]
	f.emit(Event{Kind: EventNoMercy, ActorID: npc.ID, TargetID: player.ID, Roll: res.Roll, Chance: res.Chance,
		Narrative: fmt.Sprintf("%s: %q", npc.Name, line)})
	res.Strikes = beating(f, r, npc, player)
	f.confidence(player, -30, "Beaten while helpless")
	f.confidence(npc, +20, "Dominated surrendered opponent")
	f.refused = true
	player.Cooldown += f.Rules.CooldownIncrement
	f.EndTurn()
	return res, nil
}

// beating lands 2 to 4 strikes of base 12, multiplier 1.0 on uniformly
// chosen zones, from the striker's unpenalized stats.
func beating(f *Fight, r Roller, striker, victim *Side) []Strike {
	n := r.Between("beating strikes", 2, 4)
	out := make([]Strike, 0, n)
	for i := 0; i < n; i++ {
		dmg := rollDamage(r, "beating damage", 12, striker.Stats.Get(stats.Strength), 1.0, striker.Stats.Get(stats.Experience))
		zone := body.Zones[r.Pick("beating zone", body.ZoneCount)]
		s := Strike{Zone: zone, Damage: victim.Body.ApplyDamage(zone, dmg)}
		out = append(out, s)
		f.emit(Event{Kind: EventStrike, ActorID: striker.ID, TargetID: victim.ID, Zone: zone, Damage: s.Damage,
			Narrative: fmt.Sprintf("Strike %d: %d damage to %s", i+1, s.Damage, zone)})
	}
	return out
}
