// Package world provides the static world directory: countries and the
// cities characters live in.
package world

import "fmt"

// City is a location a character can be in.
type City struct {
	// ID uniquely identifies this city across all countries.
	ID string
	// CountryID identifies the country this city belongs to.
	CountryID string
	// Name is the display name of the city.
	Name string
	// Description is a short flavour line.
	Description string
	// Population is the number of residents. It gates the medical care
	// available in the city.
	Population int
}

// Country groups cities.
type Country struct {
	// ID uniquely identifies this country.
	ID string
	// Name is the display name of the country.
	Name string
	// Cities contains every city in this country, keyed by city ID.
	Cities map[string]*City
}

// Validate checks country invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (c *Country) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("country ID must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("country %q: name must not be empty", c.ID)
	}
	if len(c.Cities) == 0 {
		return fmt.Errorf("country %q: must contain at least one city", c.ID)
	}
	for id, city := range c.Cities {
		if city.ID != id {
			return fmt.Errorf("country %q: city key %q does not match city ID %q", c.ID, id, city.ID)
		}
		if city.Name == "" {
			return fmt.Errorf("country %q: city %q: name must not be empty", c.ID, id)
		}
		if city.Population < 0 {
			return fmt.Errorf("country %q: city %q: population must not be negative", c.ID, id)
		}
	}
	return nil
}
