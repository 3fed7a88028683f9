// Package clock implements the synchronous world clock. The surrounding game
// loop advances it; every advance notifies subscribers in registration order.
package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/storage"
)

// Calendar constants. Every month has 30 days.
const (
	DaysPerMonth   = 30
	MonthsPerYear  = 12
	DefaultPerTick = 30
)

// Time is a point on the world calendar. Tick counts elapsed days.
type Time struct {
	Tick  int
	Year  int
	Month int
	Day   int
}

// Date returns the calendar date as YYYY-MM-DD.
func (t Time) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
}

// Advance returns t moved forward by days. A day past the end of the month
// starts the next month on day 1 and a month past December starts the next
// year.
func (t Time) Advance(days int) Time {
	t.Tick += days
	t.Day += days
	if t.Day > DaysPerMonth {
		t.Day = 1
		t.Month++
	}
	if t.Month > MonthsPerYear {
		t.Month = 1
		t.Year++
	}
	return t
}

// FromWallClock returns tick zero dated at now.
func FromWallClock(now time.Time) Time {
	return Time{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

// Store persists the current world time.
//
// LoadTime returns an error wrapping storage.ErrMissingRecord before the
// first save.
type Store interface {
	LoadTime(ctx context.Context) (Time, error)
	SaveTime(ctx context.Context, t Time) error
}

// Subscriber is called once per tick with the new time.
type Subscriber func(ctx context.Context, now Time) error

type subscription struct {
	name string
	fn   Subscriber
}

// Clock is the world clock.
type Clock struct {
	mu          sync.Mutex
	now         Time
	daysPerTick int
	store       Store
	subs        []subscription
	logger      *zap.Logger
}

// New creates a Clock at start.
//
// Precondition: daysPerTick > 0. store may be nil for an unpersisted clock.
func New(start Time, daysPerTick int, store Store, logger *zap.Logger) *Clock {
	if daysPerTick <= 0 {
		daysPerTick = DefaultPerTick
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clock{now: start, daysPerTick: daysPerTick, store: store, logger: logger}
}

// Load restores the clock from store, starting at today's date when nothing
// has been saved yet.
func Load(ctx context.Context, store Store, daysPerTick int, today time.Time, logger *zap.Logger) (*Clock, error) {
	t, err := store.LoadTime(ctx)
	if errors.Is(err, storage.ErrMissingRecord) {
		t = FromWallClock(today)
		if err := store.SaveTime(ctx, t); err != nil {
			return nil, fmt.Errorf("initializing world time: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading world time: %w", err)
	}
	return New(t, daysPerTick, store, logger), nil
}

// Now returns the current world time.
func (c *Clock) Now() Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// CurrentTick returns the current tick.
func (c *Clock) CurrentTick() int { return c.Now().Tick }

// Subscribe registers fn to run on every Advance.
//
// Precondition: fn must not be nil.
func (c *Clock) Subscribe(name string, fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, subscription{name: name, fn: fn})
}

// Advance moves the clock forward one tick, persists it, then runs every
// subscriber. A failing subscriber is logged and does not stop the others.
//
// Postcondition: Returns the new time and the joined subscriber errors.
func (c *Clock) Advance(ctx context.Context) (Time, error) {
	c.mu.Lock()
	c.now = c.now.Advance(c.daysPerTick)
	now := c.now
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.SaveTime(ctx, now); err != nil {
			return now, fmt.Errorf("saving world time: %w", err)
		}
	}
	c.logger.Info("world tick", zap.Int("tick", now.Tick), zap.String("date", now.Date()))

	var errs []error
	for _, s := range subs {
		if err := s.fn(ctx, now); err != nil {
			c.logger.Error("tick subscriber failed", zap.String("subscriber", s.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return now, errors.Join(errs...)
}
