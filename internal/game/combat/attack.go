package combat

import (
	"fmt"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Roller supplies the randomness the combat rules consume.
//
// Defined locally so tests can substitute deterministic sequences; the
// production implementation is *dice.Roller.
type Roller interface {
	Percent(reason string) int
	Between(reason string, lo, hi int) int
	Pick(reason string, n int) int
	Weighted(reason string, weights []float64) int
}

// ParryChance is the percentage chance that a correctly predicted block
// parries the strike.
const ParryChance = 70

// AttackResult is the structured outcome of one normal attack.
type AttackResult struct {
	Attack    Attack
	Target    body.Zone
	Exhausted bool
	Accuracy  int
	Roll      int
	Hit       bool
	Critical  bool
	Parried   bool
	// Damage is the damage actually removed from the zone.
	Damage int
}

// Accuracy returns the hit chance of atk for the (penalized) stat block.
//
// Postcondition: Returns a value in [5, 95].
func Accuracy(atk Attack, st stats.Block, confAccBonus int) int {
	return clampInt(5, 95, atk.AccuracyBonus+st.Get(stats.Accuracy)+st.Get(stats.Experience)+confAccBonus)
}

// CritChance returns the critical-hit chance for the (penalized) stat block.
func CritChance(st stats.Block, confCritBonus int) int {
	c := 5 + st.Get(stats.Accuracy)/4 + st.Get(stats.Experience)/10
	if c > 30 {
		c = 30
	}
	return c + confCritBonus
}

// DamageRange returns the low and high bounds of a damage roll.
func DamageRange(base, strength int, mult float64, experience int) (low, raw int) {
	raw = int((float64(base) + float64(strength)*0.5) * mult)
	low = int(float64(raw) * (0.5 + float64(experience)/200))
	return low, raw
}

func rollDamage(r Roller, reason string, base, strength int, mult float64, experience int) int {
	low, raw := DamageRange(base, strength, mult, experience)
	return r.Between(reason, low, raw)
}

// ResolveAttack resolves one normal attack from the acting side against its
// opponent. block is the defender's predicted zone.
//
// Precondition: f.Phase is PlayerTurn or NpcTurn.
// Postcondition: the attacker's cooldown grew by Rules.CooldownIncrement and
// f.Phase is RoundEnd.
func ResolveAttack(f *Fight, r Roller, atk Attack, target, block body.Zone) AttackResult {
	attacker := f.Actor()
	defender := f.Opponent(attacker)
	res := AttackResult{Attack: atk, Target: target}
	defer f.EndTurn()
	defer func() { attacker.Cooldown += f.Rules.CooldownIncrement }()

	st, penalties := body.Penalize(attacker.Stats, attacker.Body)
	for _, p := range penalties {
		f.emit(Event{Kind: EventPenalty, ActorID: attacker.ID, Zone: p.Zone,
			Narrative: fmt.Sprintf("%s's injured %s reduces %s to %d", attacker.Name, p.Zone, p.Stat, p.After)})
	}
	mods := attacker.Confidence.Modifiers()

	mult := atk.DamageMult
	attacker.Stamina -= float64(atk.StaminaCost)
	if attacker.Stamina <= 0 {
		res.Exhausted = true
		f.emit(Event{Kind: EventExhausted, ActorID: attacker.ID, Narrative: attacker.Name + " is exhausted!"})
		f.confidence(attacker, -3, "Exhausted")
		mult *= 0.5
	}

	res.Accuracy = Accuracy(atk, st, mods.AccuracyBonus)
	predicted := block == target && r.Between("parry", 0, 100) < ParryChance

	res.Roll = r.Percent("hit")
	if res.Roll > res.Accuracy {
		f.emit(Event{Kind: EventMiss, ActorID: attacker.ID, TargetID: defender.ID, Zone: target,
			Roll: res.Roll, Chance: res.Accuracy,
			Narrative: fmt.Sprintf("%s missed the attack! (%d > %d)", attacker.Name, res.Roll, res.Accuracy)})
		f.confidence(attacker, -10, "Attack missed")
		return res
	}
	res.Hit = true

	mult *= mods.DamageMult
	if r.Percent("critical") <= CritChance(st, mods.CritBonus) {
		res.Critical = true
		mult *= 1.75
	}
	dmg := rollDamage(r, "damage", f.Rules.BaseDamage, st.Get(stats.Strength), mult, st.Get(stats.Experience))
	dmg = int(float64(dmg) * body.ZoneMultiplier(target))
	if predicted {
		res.Parried = true
		dmg = int(float64(dmg) * 0.5)
	}
	res.Damage = defender.Body.ApplyDamage(target, dmg)

	narrative := fmt.Sprintf("%s lands a %s on %s's %s for %d damage", attacker.Name, atk.Name, defender.Name, target, res.Damage)
	if res.Critical {
		narrative = "CRITICAL HIT! " + narrative
	}
	if res.Parried {
		narrative += " (parried)"
	}
	f.emit(Event{Kind: EventHit, ActorID: attacker.ID, TargetID: defender.ID, Zone: target,
		Damage: res.Damage, Roll: res.Roll, Chance: res.Accuracy, Critical: res.Critical, Parried: res.Parried,
		Narrative: narrative})
	if res.Parried {
		f.confidence(defender, +5, "Successful parry")
	}
	f.confidence(attacker, +7, "Landed a solid hit")
	f.confidence(defender, -10, "Took damage")
	return res
}
