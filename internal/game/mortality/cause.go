// Package mortality decides whether a defeated fighter is stable, near death,
// or at risk of dying, and resolves death rolls against the cause tables.
package mortality

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Cause names a fatal trauma category.
type Cause string

const (
	HeadTrauma   Cause = "head_trauma"
	BloodLoss    Cause = "blood_loss"
	OrganFailure Cause = "organ_failure"
	Shock        Cause = "shock"
	Suffocation  Cause = "suffocation"
)

// CauseInfo is the rule data for one Cause.
type CauseInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// BaseChance is the percent chance of death when the cause is rolled.
	BaseChance int `yaml:"chance_base"`
	// MedicalReduction is subtracted from BaseChance when medical care was applied.
	MedicalReduction int `yaml:"medical_help_reduction"`
}

// unknownCause is used for causes missing from a Table.
var unknownCause = CauseInfo{Name: "Unknown", Description: "Unknown cause", BaseChance: 50}

// Table maps causes to their rule data.
type Table map[Cause]CauseInfo

// DefaultCauses returns the built-in cause table.
func DefaultCauses() Table {
	return Table{
		HeadTrauma:   {Name: "Severe Head Trauma", Description: "Critical brain injury from combat", BaseChance: 85, MedicalReduction: 40},
		BloodLoss:    {Name: "Massive Blood Loss", Description: "Hemorrhaging from multiple wounds", BaseChance: 70, MedicalReduction: 50},
		OrganFailure: {Name: "Organ Failure", Description: "Critical damage to vital organs", BaseChance: 75, MedicalReduction: 35},
		Shock:        {Name: "Traumatic Shock", Description: "Body shutting down from trauma", BaseChance: 60, MedicalReduction: 60},
		Suffocation:  {Name: "Suffocation", Description: "Cannot breathe due to injuries", BaseChance: 80, MedicalReduction: 45},
	}
}

// Lookup returns the info for c, or the generic unknown-cause entry
// (base chance 50, no medical reduction) when c is not in the table.
func (t Table) Lookup(c Cause) CauseInfo {
	if info, ok := t[c]; ok {
		return info
	}
	return unknownCause
}

// Validate reports the first entry with an out-of-range chance.
func (t Table) Validate() error {
	for c, info := range t {
		if info.BaseChance < 0 || info.BaseChance > 100 {
			return fmt.Errorf("cause %q: chance_base %d outside [0,100]", c, info.BaseChance)
		}
		if info.MedicalReduction < 0 || info.MedicalReduction > 100 {
			return fmt.Errorf("cause %q: medical_help_reduction %d outside [0,100]", c, info.MedicalReduction)
		}
	}
	return nil
}

// DeathChance returns the percent chance that cause kills a character with
// the given combat stats.
//
// Postcondition: Returns a value in [5, 95].
func (t Table) DeathChance(c Cause, medicalHelp bool, combat stats.Block) int {
	info := t.Lookup(c)
	chance := float64(info.BaseChance)
	if medicalHelp {
		chance -= float64(info.MedicalReduction)
	}
	chance -= float64(combat.Get(stats.Endurance)+combat.Get(stats.Toughness)+combat.Get(stats.Willpower)) / 10
	// d100 rolls are integers so flooring leaves every outcome unchanged.
	v := int(math.Floor(chance))
	if v < 5 {
		return 5
	}
	if v > 95 {
		return 95
	}
	return v
}

// Checker rolls a d100 against a chance.
type Checker interface {
	Check(reason string, chance int) (roll int, ok bool)
}

// DeathRoll is the outcome of one death roll.
type DeathRoll struct {
	Cause  Cause
	Chance int
	Roll   int
	Died   bool
}

// RollDeath rolls once against the death chance for c.
func (t Table) RollDeath(r Checker, c Cause, medicalHelp bool, combat stats.Block) DeathRoll {
	chance := t.DeathChance(c, medicalHelp, combat)
	roll, died := r.Check("death roll: "+string(c), chance)
	return DeathRoll{Cause: c, Chance: chance, Roll: roll, Died: died}
}

// RollAll rolls each cause in order with the same medical-help flag and stops
// at the first fatal roll.
//
// Postcondition: if any roll is fatal it is the last element returned.
func (t Table) RollAll(r Checker, causes []Cause, medicalHelp bool, combat stats.Block) []DeathRoll {
	rolls := make([]DeathRoll, 0, len(causes))
	for _, c := range causes {
		dr := t.RollDeath(r, c, medicalHelp, combat)
		rolls = append(rolls, dr)
		if dr.Died {
			break
		}
	}
	return rolls
}
