// Package postgres persists characters, bodies, near-death episodes, the
// death registry and world time in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/config"
)

// connectAttempts bounds how often NewPool pings a database that is still
// starting up.
const connectAttempts = 5

// Pool wraps a pgx connection pool shared by every repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the configured database, retrying the initial ping
// with a doubling delay while the server comes up.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	delay := 200 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			pool.Close()
			return nil, fmt.Errorf("pinging database after %d attempts: %w", attempt, err)
		}
		logger.Warn("database not ready; retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return &Pool{pool: pool}, nil
}

// Health checks that the database is reachable within the given timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// Repositories bundles one repository per store over a shared pool.
type Repositories struct {
	Characters *CharacterRepository
	Bodies     *BodyRepository
	NearDeath  *NearDeathRepository
	Deaths     *DeathRepository
	Clock      *ClockRepository
}

// Repositories returns every repository backed by p.
func (p *Pool) Repositories() Repositories {
	return Repositories{
		Characters: NewCharacterRepository(p.pool),
		Bodies:     NewBodyRepository(p.pool),
		NearDeath:  NewNearDeathRepository(p.pool),
		Deaths:     NewDeathRepository(p.pool),
		Clock:      NewClockRepository(p.pool),
	}
}
