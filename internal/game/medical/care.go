// Package medical resolves medical interventions for characters near death.
// What care is on offer depends only on the population of the character's
// city.
package medical

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/lifesim/internal/game/stats"
)

// Tier identifies a kind of medical care.
type Tier string

const (
	FieldMedicine Tier = "field_medicine"
	Paramedic     Tier = "paramedic"
	EmergencyRoom Tier = "emergency_room"
	TraumaCenter  Tier = "trauma_center"
	Experimental  Tier = "experimental"
)

// Care is the rule data for one Tier.
type Care struct {
	Tier        Tier   `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Effectiveness is the base treatment success percentage.
	Effectiveness int `yaml:"effectiveness"`
	Cost          int `yaml:"cost"`
	Hours         int `yaml:"hours"`
	// MinPopulation is the population a city must exceed to offer this care.
	// Always marks care that is available everywhere.
	MinPopulation int  `yaml:"min_population"`
	Always        bool `yaml:"always"`
}

// Catalog lists every care tier, ordered from least to most effective.
type Catalog []Care

// DefaultCatalog returns the built-in care tiers.
func DefaultCatalog() Catalog {
	return Catalog{
		{Tier: FieldMedicine, Name: "Field Medicine", Description: "Basic first aid and emergency care", Effectiveness: 30, Cost: 0, Hours: 1, Always: true},
		{Tier: Paramedic, Name: "Paramedic Response", Description: "Professional emergency medical technician", Effectiveness: 55, Cost: 200, Hours: 2, MinPopulation: 10},
		{Tier: EmergencyRoom, Name: "Emergency Room", Description: "Hospital emergency department", Effectiveness: 75, Cost: 1000, Hours: 4, MinPopulation: 50},
		{Tier: TraumaCenter, Name: "Trauma Center", Description: "Specialized trauma surgery unit", Effectiveness: 90, Cost: 5000, Hours: 8, MinPopulation: 200},
		{Tier: Experimental, Name: "Experimental Treatment", Description: "Cutting-edge medical procedures", Effectiveness: 95, Cost: 25000, Hours: 12, MinPopulation: 500},
	}
}

// Validate checks catalog invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("care catalog must not be empty")
	}
	seen := make(map[Tier]bool, len(c))
	always := false
	for _, care := range c {
		if care.Tier == "" {
			return fmt.Errorf("care entry %q: id must not be empty", care.Name)
		}
		if seen[care.Tier] {
			return fmt.Errorf("duplicate care id %q", care.Tier)
		}
		seen[care.Tier] = true
		if care.Effectiveness < 0 || care.Effectiveness > 100 {
			return fmt.Errorf("care %q: effectiveness %d outside [0,100]", care.Tier, care.Effectiveness)
		}
		always = always || care.Always
	}
	if !always {
		return fmt.Errorf("care catalog needs at least one tier marked always")
	}
	return nil
}

// Available returns the care offered in a city of the given population, least
// effective first.
//
// Postcondition: every tier marked Always is included.
func (c Catalog) Available(population int) []Care {
	var out []Care
	for _, care := range c {
		if care.Always || population > care.MinPopulation {
			out = append(out, care)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Effectiveness < out[j].Effectiveness })
	return out
}

// Lookup returns the care entry for t.
func (c Catalog) Lookup(t Tier) (Care, bool) {
	for _, care := range c {
		if care.Tier == t {
			return care, true
		}
	}
	return Care{}, false
}

// SuccessChance returns the percent chance that care stabilizes a character
// at the given near-death severity (0 is the worst stage).
//
// Postcondition: Returns a value in [10, 95].
func SuccessChance(care Care, severity int, combat stats.Block) int {
	// Stat bonus is fractional; the floor keeps integer d100 outcomes exact.
	tenths := care.Effectiveness*10 + combat.Get(stats.Endurance) + combat.Get(stats.Toughness) - severity*50
	chance := floorDiv(tenths, 10)
	if chance < 10 {
		return 10
	}
	if chance > 95 {
		return 95
	}
	return chance
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
