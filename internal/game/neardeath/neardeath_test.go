package neardeath_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/mortality"
	"github.com/cory-johannsen/lifesim/internal/game/neardeath"
	"github.com/cory-johannsen/lifesim/internal/storage/memory"
)

type fixedPercent struct{ roll int }

func (f fixedPercent) Percent(string) int { return f.roll }

func TestEnter_Chances(t *testing.T) {
	r := neardeath.Enter("p", mortality.HeadTrauma, mortality.Critical, 12)
	assert.True(t, r.Active)
	assert.Equal(t, 30, r.DeteriorationChance)
	assert.Equal(t, 10, r.RecoveryChance)
	assert.Equal(t, 12, r.StartTick)

	r = neardeath.Enter("p", mortality.BloodLoss, mortality.Steady, 0)
	assert.Equal(t, 15, r.DeteriorationChance)
	assert.Equal(t, 55, r.RecoveryChance)
}

func TestAdvance_CertainRecovery(t *testing.T) {
	r := neardeath.Record{CharacterID: "p", Active: true, Severity: mortality.Serious, RecoveryChance: 100, DeteriorationChance: 0}
	for roll := 1; roll <= 100; roll++ {
		_, st := neardeath.Advance(r, roll)
		assert.Equal(t, neardeath.Recovered, st)
	}
}

func TestAdvance_CertainDeathRisk(t *testing.T) {
	r := neardeath.Record{CharacterID: "p", Active: true, Cause: mortality.OrganFailure, Severity: mortality.Critical, RecoveryChance: 0, DeteriorationChance: 100}
	for roll := 1; roll <= 100; roll++ {
		next, st := neardeath.Advance(r, roll)
		assert.Equal(t, neardeath.DeathRisk, st)
		assert.Equal(t, mortality.Critical, next.Severity)
		assert.Equal(t, mortality.OrganFailure, next.Cause)
	}
}

func TestAdvance_Worsens(t *testing.T) {
	r := neardeath.Enter("p", mortality.Shock, mortality.Serious, 0) // recovery 40, deterioration 20
	next, st := neardeath.Advance(r, 55)
	assert.Equal(t, neardeath.Worsened, st)
	assert.Equal(t, mortality.Grave, next.Severity)
	assert.Equal(t, 30, next.DeteriorationChance)
	assert.Equal(t, 35, next.RecoveryChance)

	_, st = neardeath.Advance(r, 61)
	assert.Equal(t, neardeath.NoChange, st)
}

func TestAdvance_RecoveryFloor(t *testing.T) {
	r := neardeath.Record{CharacterID: "p", Active: true, Severity: mortality.Grave, RecoveryChance: 7, DeteriorationChance: 50}
	next, st := neardeath.Advance(r, 20)
	assert.Equal(t, neardeath.Worsened, st)
	assert.Equal(t, 5, next.RecoveryChance)
}

func TestAdvance_NegativeChancesUseDefaults(t *testing.T) {
	r := neardeath.Record{CharacterID: "p", Active: true, Severity: mortality.Serious, RecoveryChance: -1, DeteriorationChance: -1}
	_, st := neardeath.Advance(r, 10)
	assert.Equal(t, neardeath.Recovered, st)
	_, st = neardeath.Advance(r, 40)
	assert.Equal(t, neardeath.Worsened, st)
	_, st = neardeath.Advance(r, 41)
	assert.Equal(t, neardeath.NoChange, st)
}

func TestMachine_TickWithoutRecord(t *testing.T) {
	st := memory.New()
	m := neardeath.NewMachine(st, st, fixedPercent{1}, nil)
	res, err := m.Tick(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, neardeath.NotNearDeath, res.Status)
}

func TestMachine_CorruptRecordIsDiscarded(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	core, logs := observer.New(zap.WarnLevel)
	m := neardeath.NewMachine(st, st, fixedPercent{1}, zap.New(core))

	rec := neardeath.Enter("p", mortality.Shock, mortality.Serious, 0)
	rec.Active = false
	require.NoError(t, st.SaveNearDeath(ctx, rec))

	res, err := m.Tick(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, neardeath.NotNearDeath, res.Status)
	_, err = st.LoadNearDeath(ctx, "p")
	assert.Error(t, err, "inactive record must be deleted")
	assert.Equal(t, 1, logs.FilterMessage("discarding near-death record").Len())
}

func TestMachine_TickRecovers(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	b := body.New()
	b.Set(body.Head, 10)
	b.Set(body.Torso, 45)
	require.NoError(t, st.SaveBody(ctx, "p", b))

	m := neardeath.NewMachine(st, st, fixedPercent{5}, nil)
	_, err := m.Begin(ctx, "p", mortality.HeadTrauma, mortality.Critical, 0)
	require.NoError(t, err)

	res, err := m.Tick(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, neardeath.Recovered, res.Status)
	assert.Equal(t, 5, res.Roll)
	require.Len(t, res.Healed, 1)

	got, err := st.LoadBody(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 25, got.Health(body.Head))
	assert.Equal(t, 45, got.Health(body.Torso))

	_, ok, err := m.Current(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMachine_TickPersistsDeterioration(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	m := neardeath.NewMachine(st, st, fixedPercent{30}, nil)
	_, err := m.Begin(ctx, "p", mortality.OrganFailure, mortality.Grave, 0) // recovery 25, deterioration 25

	require.NoError(t, err)
	res, err := m.Tick(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, neardeath.Worsened, res.Status)

	rec, ok, err := m.Current(ctx, "p")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mortality.Critical, rec.Severity)
	assert.Equal(t, 35, rec.DeteriorationChance)
	assert.Equal(t, 20, rec.RecoveryChance)

	res, err = m.Tick(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, neardeath.DeathRisk, res.Status)
	assert.Equal(t, mortality.OrganFailure, res.Record.Cause)
}

func TestMachine_MarkTreatedAndActive(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	m := neardeath.NewMachine(st, st, fixedPercent{100}, nil)
	_, err := m.Begin(ctx, "b", mortality.Shock, mortality.Serious, 0)
	require.NoError(t, err)
	_, err = m.Begin(ctx, "a", mortality.Shock, mortality.Serious, 0)
	require.NoError(t, err)

	require.NoError(t, m.MarkTreated(ctx, "a"))
	rec, _, err := m.Current(ctx, "a")
	require.NoError(t, err)
	assert.True(t, rec.MedicalAttention)

	ids, err := m.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, m.End(ctx, "a"))
	ids, _ = m.Active(ctx)
	assert.Equal(t, []string{"b"}, ids)
}

func TestProperty_AdvanceKeepsSeverityValid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := neardeath.Enter("p", mortality.Shock, mortality.Stage(rapid.IntRange(0, 4).Draw(rt, "sev")), 0)
		for i := 0; i < 20; i++ {
			next, st := neardeath.Advance(r, rapid.IntRange(1, 100).Draw(rt, "roll"))
			if !next.Severity.Valid() {
				rt.Fatalf("severity %d invalid", next.Severity)
			}
			if next.RecoveryChance < 5 && st == neardeath.Worsened {
				rt.Fatalf("recovery chance %d below floor", next.RecoveryChance)
			}
			if st == neardeath.Recovered || st == neardeath.DeathRisk {
				return
			}
			r = next
		}
	})
}
