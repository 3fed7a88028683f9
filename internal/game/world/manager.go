package world

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Manager provides thread-safe access to the loaded world directory.
// It indexes cities across all countries for O(1) lookup by city ID.
type Manager struct {
	mu        sync.RWMutex
	countries map[string]*Country
	cities    map[string]*City
}

// NewManager creates a Manager from the given countries.
//
// Postcondition: Returns a Manager with all cities indexed by ID, or an error
// on duplicate country or city IDs.
func NewManager(countries []*Country) (*Manager, error) {
	m := &Manager{
		countries: make(map[string]*Country, len(countries)),
		cities:    make(map[string]*City),
	}
	for _, c := range countries {
		if _, exists := m.countries[c.ID]; exists {
			return nil, fmt.Errorf("duplicate country ID: %q", c.ID)
		}
		m.countries[c.ID] = c
		for id, city := range c.Cities {
			if existing, exists := m.cities[id]; exists {
				return nil, fmt.Errorf("duplicate city ID %q: in country %q and %q", id, existing.CountryID, c.ID)
			}
			m.cities[id] = city
		}
	}
	return m, nil
}

// City returns the city with the given ID.
//
// Postcondition: Returns (city, true) if found, or (nil, false) otherwise.
func (m *Manager) City(id string) (*City, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cities[id]
	return c, ok
}

// Population returns the population of the city with the given ID.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound for unknown IDs.
func (m *Manager) Population(_ context.Context, id string) (int, error) {
	c, ok := m.City(id)
	if !ok {
		return 0, fmt.Errorf("city %q: %w", id, storage.ErrNotFound)
	}
	return c.Population, nil
}

// Describe returns "City, Country" for id, or "unknown" when the city is not
// loaded.
func (m *Manager) Describe(_ context.Context, id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cities[id]
	if !ok {
		return "unknown"
	}
	country := c.CountryID
	if co, ok := m.countries[c.CountryID]; ok {
		country = co.Name
	}
	return c.Name + ", " + country
}

// SetPopulation updates a city's population, e.g. after a resident dies.
func (m *Manager) SetPopulation(id string, pop int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cities[id]
	if !ok {
		return fmt.Errorf("city %q: %w", id, storage.ErrNotFound)
	}
	if pop < 0 {
		pop = 0
	}
	c.Population = pop
	return nil
}

// CityCount returns the total number of cities across all countries.
func (m *Manager) CityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cities)
}

// AllCities returns every loaded city sorted by ID.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (m *Manager) AllCities() []*City {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*City, 0, len(m.cities))
	for _, c := range m.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
