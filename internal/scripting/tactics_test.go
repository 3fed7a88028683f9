package scripting_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
	"github.com/cory-johannsen/lifesim/internal/scripting"
)

type fixedTactics struct {
	plan  combat.Plan
	block body.Zone
	calls int
}

func (f *fixedTactics) Attack(context.Context, combat.View) (combat.Plan, error) {
	f.calls++
	return f.plan, nil
}

func (f *fixedTactics) Block(context.Context, combat.View) (body.Zone, error) {
	f.calls++
	return f.block, nil
}

func testView() combat.View {
	hurt := body.New()
	hurt.Set(body.LeftLeg, 10)
	return combat.View{
		FightID: "f1",
		Round:   7,
		Self:    combat.Snapshot{ID: "npc_1", Name: "Rui", Body: body.New(), Confidence: 80, Stamina: 40, MaxStamina: 110, Cooldown: 0},
		Opponent: combat.Snapshot{
			ID: "player_001", Name: "Joana", Body: hurt, Confidence: 30, Stamina: 12, MaxStamina: 110, Cooldown: 35,
		},
	}
}

func loadTactics(t *testing.T, src string) (*scripting.Tactics, *fixedTactics) {
	t.Helper()
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "tactics.lua", src)
	require.NoError(t, mgr.LoadFile("npc", filepath.Join(dir, "tactics.lua"), 0))
	fb := &fixedTactics{plan: combat.Plan{Attack: combat.Punch, Target: body.Torso}, block: body.Head}
	return scripting.NewTactics(mgr, "npc", fb, nil), fb
}

func TestTactics_ScriptDecides(t *testing.T) {
	tac, fb := loadTactics(t, `
		function choose_attack(self, foe, round)
			if foe.health.left_leg < 20 and round > 5 then
				return { attack = "kick", zone = "left_leg" }
			end
			return { attack = "punch", zone = "head" }
		end
		function choose_block(self, foe, round)
			if self.confidence > 70 then return "right_arm" end
			return "torso"
		end
	`)
	ctx := context.Background()

	plan, err := tac.Attack(ctx, testView())
	require.NoError(t, err)
	assert.Equal(t, combat.Plan{Attack: combat.Kick, Target: body.LeftLeg}, plan)

	zone, err := tac.Block(ctx, testView())
	require.NoError(t, err)
	assert.Equal(t, body.RightArm, zone)
	assert.Zero(t, fb.calls)
}

func TestTactics_SnapshotFields(t *testing.T) {
	tac, _ := loadTactics(t, `
		function choose_block(self, foe, round)
			if self.id ~= "npc_1" or foe.name ~= "Joana" then return "bad" end
			if self.max_stamina ~= 110 or foe.cooldown ~= 35 then return "bad" end
			if self.health_percent ~= 100 or foe.health_percent >= 100 then return "bad" end
			if type(self.tier) ~= "string" then return "bad" end
			return "left_arm"
		end
	`)
	zone, err := tac.Block(context.Background(), testView())
	require.NoError(t, err)
	assert.Equal(t, body.LeftArm, zone)
}

func TestTactics_FallsBack(t *testing.T) {
	cases := map[string]string{
		"no hooks":      `-- empty`,
		"runtime error": `function choose_attack() error("boom") end function choose_block() error("boom") end`,
		"bad attack":    `function choose_attack() return { attack = "headbutt", zone = "head" } end function choose_block() return 42 end`,
		"bad zone":      `function choose_attack() return { attack = "kick", zone = "tail" } end function choose_block() return "tail" end`,
		"not a table":   `function choose_attack() return "kick" end function choose_block() return {} end`,
		"runaway":       `function choose_attack() while true do end end function choose_block() while true do end end`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			tac, fb := loadTactics(t, src)
			ctx := context.Background()

			plan, err := tac.Attack(ctx, testView())
			require.NoError(t, err)
			assert.Equal(t, fb.plan, plan)

			zone, err := tac.Block(ctx, testView())
			require.NoError(t, err)
			assert.Equal(t, fb.block, zone)
			assert.Equal(t, 2, fb.calls)
		})
	}
}

func TestTactics_CancelledContext(t *testing.T) {
	tac, fb := loadTactics(t, `function choose_attack() return { attack = "kick", zone = "head" } end`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tac.Attack(ctx, testView())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fb.calls)
}

func TestTactics_DrivesEngineFight(t *testing.T) {
	tac, _ := loadTactics(t, `
		function choose_attack(self, foe, round)
			local zones = { "head", "torso", "left_leg" }
			return { attack = "kick", zone = zones[engine.dice.pick(#zones)] }
		end
	`)
	var _ combat.Tactics = tac
	plan, err := tac.Attack(context.Background(), testView())
	require.NoError(t, err)
	assert.Equal(t, combat.Kick, plan.Attack)
	assert.Contains(t, []body.Zone{body.Head, body.Torso, body.LeftLeg}, plan.Target)
}
