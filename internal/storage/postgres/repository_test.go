package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/character"
	"github.com/cory-johannsen/lifesim/internal/game/clock"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/game/stats"
	"github.com/cory-johannsen/lifesim/internal/storage"
	"github.com/cory-johannsen/lifesim/internal/storage/postgres"
	"github.com/cory-johannsen/lifesim/internal/testutil"
)

// The repositories share one container; each subtest uses distinct ids.
func TestRepositories(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	t.Run("character round trip", func(t *testing.T) {
		repo := postgres.NewCharacterRepository(pool)
		c := &character.Character{
			ID:          "npc_pg_1",
			Name:        "Marta Silva",
			Gender:      character.Female,
			BirthTick:   120,
			Experience:  40,
			Traits:      []string{"stubborn", "quick"},
			Combat:      stats.MustDecode("60206020402020202020"),
			Personality: stats.MustDecode("50505050505050505050"),
			LocationID:  "lisbon",
		}
		require.NoError(t, repo.PutCharacter(ctx, c))

		got, err := repo.GetCharacter(ctx, "npc_pg_1")
		require.NoError(t, err)
		assert.Equal(t, c, got)

		require.NoError(t, repo.SetLocation(ctx, "npc_pg_1", "porto"))
		got, err = repo.GetCharacter(ctx, "npc_pg_1")
		require.NoError(t, err)
		assert.Equal(t, "porto", got.LocationID)
	})

	t.Run("character not found", func(t *testing.T) {
		repo := postgres.NewCharacterRepository(pool)
		_, err := repo.GetCharacter(ctx, "nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, repo.SetLocation(ctx, "nobody", "porto"), storage.ErrNotFound)
	})

	t.Run("body save load delete", func(t *testing.T) {
		repo := postgres.NewBodyRepository(pool)
		_, err := repo.LoadBody(ctx, "pg_body")
		assert.ErrorIs(t, err, storage.ErrMissingRecord)

		st := body.New()
		st.Set(body.Head, 12)
		st.Set(body.LeftLeg, 0)
		require.NoError(t, repo.SaveBody(ctx, "pg_body", st))
		st.Set(body.Torso, 40)
		require.NoError(t, repo.SaveBody(ctx, "pg_body", st))

		got, err := repo.LoadBody(ctx, "pg_body")
		require.NoError(t, err)
		assert.Equal(t, st.Map(), got.Map())

		require.NoError(t, repo.DeleteBody(ctx, "pg_body"))
		require.NoError(t, repo.DeleteBody(ctx, "pg_body"))
		_, err = repo.LoadBody(ctx, "pg_body")
		assert.ErrorIs(t, err, storage.ErrMissingRecord)
	})

	t.Run("near death records", func(t *testing.T) {
		repo := postgres.NewNearDeathRepository(pool)
		_, err := repo.LoadNearDeath(ctx, "pg_nd_b")
		assert.ErrorIs(t, err, storage.ErrMissingRecord)

		b := neardeath.Enter("pg_nd_b", mortality.BloodLoss, mortality.Grave, 30)
		a := neardeath.Enter("pg_nd_a", mortality.HeadTrauma, mortality.Critical, 60)
		a.MedicalAttention = true
		require.NoError(t, repo.SaveNearDeath(ctx, b))
		require.NoError(t, repo.SaveNearDeath(ctx, a))

		got, err := repo.LoadNearDeath(ctx, "pg_nd_a")
		require.NoError(t, err)
		assert.Equal(t, a, got)

		list, err := repo.ListNearDeath(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "pg_nd_a", list[0].CharacterID)
		assert.Equal(t, "pg_nd_b", list[1].CharacterID)

		require.NoError(t, repo.DeleteNearDeath(ctx, "pg_nd_a"))
		require.NoError(t, repo.DeleteNearDeath(ctx, "pg_nd_b"))
		list, err = repo.ListNearDeath(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("death registry newest first", func(t *testing.T) {
		repo := postgres.NewDeathRepository(pool)
		causes := mortality.DefaultCauses()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		first := mortality.NewDeathRecord("pg_dead_1", "Ana", mortality.Shock, causes.Lookup(mortality.Shock), 30, "2026-03-01", "Lisbon, Portugal", now)
		second := mortality.NewDeathRecord("pg_dead_2", "Rui", mortality.BloodLoss, causes.Lookup(mortality.BloodLoss), 60, "2026-04-01", "", now.Add(time.Hour))
		require.NoError(t, repo.AppendDeath(ctx, first))
		require.NoError(t, repo.AppendDeath(ctx, second))

		deaths, err := repo.Deaths(ctx)
		require.NoError(t, err)
		require.Len(t, deaths, 2)
		assert.Equal(t, second, deaths[0])
		assert.Equal(t, first, deaths[1])
		assert.Equal(t, "unknown", deaths[0].Location)
	})

	t.Run("world time", func(t *testing.T) {
		repo := postgres.NewClockRepository(pool)
		_, err := repo.LoadTime(ctx)
		assert.ErrorIs(t, err, storage.ErrMissingRecord)

		now := clock.Time{Tick: 90, Year: 2026, Month: 5, Day: 1}
		require.NoError(t, repo.SaveTime(ctx, now))
		require.NoError(t, repo.SaveTime(ctx, now.Advance(30)))
		got, err := repo.LoadTime(ctx)
		require.NoError(t, err)
		assert.Equal(t, now.Advance(30), got)
	})
}

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
}

func TestPool_RepositoriesShareThePool(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()
	repos := pc.Pool.Repositories()

	require.NoError(t, repos.Clock.SaveTime(ctx, clock.Time{Tick: 30, Year: 2026, Month: 2, Day: 1}))
	got, err := postgres.NewClockRepository(pc.RawPool).LoadTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Tick)
}
