// Package memory provides in-process implementations of every store. It is
// used by tests and by the CLI when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Store holds every record in maps guarded by one mutex.
type Store struct {
	mu         sync.RWMutex
	bodies     map[string]body.State
	nearDeath  map[string]neardeath.Record
	deaths     []mortality.DeathRecord
	characters map[string]*character.Character
	now        *clock.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		bodies:     make(map[string]body.State),
		nearDeath:  make(map[string]neardeath.Record),
		characters: make(map[string]*character.Character),
	}
}

// LoadBody implements body.Store.
func (s *Store) LoadBody(_ context.Context, id string) (body.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[id]
	if !ok {
		return body.State{}, fmt.Errorf("body %s: %w", id, storage.ErrMissingRecord)
	}
	return b, nil
}

// SaveBody implements body.Store.
func (s *Store) SaveBody(_ context.Context, id string, b body.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[id] = b
	return nil
}

// DeleteBody implements body.Store.
func (s *Store) DeleteBody(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bodies, id)
	return nil
}

// LoadNearDeath implements neardeath.Store.
func (s *Store) LoadNearDeath(_ context.Context, id string) (neardeath.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.nearDeath[id]
	if !ok {
		return neardeath.Record{}, fmt.Errorf("near-death %s: %w", id, storage.ErrMissingRecord)
	}
	return r, nil
}

// SaveNearDeath implements neardeath.Store.
func (s *Store) SaveNearDeath(_ context.Context, r neardeath.Record) error {
	if r.CharacterID == "" {
		return fmt.Errorf("saving near-death record: empty character id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nearDeath[r.CharacterID] = r
	return nil
}

// DeleteNearDeath implements neardeath.Store.
func (s *Store) DeleteNearDeath(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nearDeath, id)
	return nil
}

// ListNearDeath implements neardeath.Store.
func (s *Store) ListNearDeath(_ context.Context) ([]neardeath.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]neardeath.Record, 0, len(s.nearDeath))
	for _, r := range s.nearDeath {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CharacterID < out[j].CharacterID })
	return out, nil
}

// AppendDeath implements mortality.Registry.
func (s *Store) AppendDeath(_ context.Context, rec mortality.DeathRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deaths = append(s.deaths, rec)
	return nil
}

// Deaths implements mortality.Registry. The newest record is first.
func (s *Store) Deaths(_ context.Context) ([]mortality.DeathRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mortality.DeathRecord, len(s.deaths))
	for i, d := range s.deaths {
		out[len(s.deaths)-1-i] = d
	}
	return out, nil
}

// PutCharacter stores c, replacing any character with the same id.
func (s *Store) PutCharacter(_ context.Context, c *character.Character) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("saving character: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.characters[c.ID] = &cp
	return nil
}

// GetCharacter implements character.Repository.
func (s *Store) GetCharacter(_ context.Context, id string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %s: %w", id, storage.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// LoadTime implements clock.Store.
func (s *Store) LoadTime(_ context.Context) (clock.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now == nil {
		return clock.Time{}, fmt.Errorf("world time: %w", storage.ErrMissingRecord)
	}
	return *s.now, nil
}

// SaveTime implements clock.Store.
func (s *Store) SaveTime(_ context.Context, t clock.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = &t
	return nil
}
