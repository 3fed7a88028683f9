package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/combat"
)

// Hook names a tactics script may define.
const (
	HookChooseAttack = "choose_attack"
	HookChooseBlock  = "choose_block"
)

// Tactics implements combat.Tactics with a Lua profile.
//
// choose_attack(self, foe, round) returns {attack = "punch"|"kick", zone = "<zone>"}.
// choose_block(self, foe, round) returns a zone name. A missing hook, a
// runtime error or an unusable return value defers to the fallback.
type Tactics struct {
	mgr      *Manager
	profile  string
	fallback combat.Tactics
	logger   *zap.Logger
}

// NewTactics returns Lua-driven tactics for profile.
//
// Precondition: mgr and fallback must be non-nil.
func NewTactics(mgr *Manager, profile string, fallback combat.Tactics, logger *zap.Logger) *Tactics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tactics{mgr: mgr, profile: profile, fallback: fallback, logger: logger}
}

// Attack implements combat.Tactics.
func (t *Tactics) Attack(ctx context.Context, v combat.View) (combat.Plan, error) {
	ret, err := t.call(ctx, HookChooseAttack, v)
	if err != nil {
		return combat.Plan{}, err
	}
	if ret == lua.LNil {
		return t.fallback.Attack(ctx, v)
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		t.reject(HookChooseAttack, ret)
		return t.fallback.Attack(ctx, v)
	}
	var atk combat.Attack
	switch lua.LVAsString(tbl.RawGetString("attack")) {
	case "punch":
		atk = combat.Punch
	case "kick":
		atk = combat.Kick
	default:
		t.reject(HookChooseAttack, ret)
		return t.fallback.Attack(ctx, v)
	}
	zone, ok := body.ParseZone(lua.LVAsString(tbl.RawGetString("zone")))
	if !ok {
		t.reject(HookChooseAttack, ret)
		return t.fallback.Attack(ctx, v)
	}
	return combat.Plan{Attack: atk, Target: zone}, nil
}

// Block implements combat.Tactics.
func (t *Tactics) Block(ctx context.Context, v combat.View) (body.Zone, error) {
	ret, err := t.call(ctx, HookChooseBlock, v)
	if err != nil {
		return 0, err
	}
	if ret == lua.LNil {
		return t.fallback.Block(ctx, v)
	}
	zone, ok := body.ParseZone(lua.LVAsString(ret))
	if !ok {
		t.reject(HookChooseBlock, ret)
		return t.fallback.Block(ctx, v)
	}
	return zone, nil
}

func (t *Tactics) call(ctx context.Context, hook string, v combat.View) (lua.LValue, error) {
	if err := ctx.Err(); err != nil {
		return lua.LNil, err
	}
	return t.mgr.callWith(ctx, t.profile, hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{
			snapshotTable(L, v.Self),
			snapshotTable(L, v.Opponent),
			lua.LNumber(v.Round),
		}
	})
}

func (t *Tactics) reject(hook string, ret lua.LValue) {
	t.logger.Warn("scripting: unusable tactics result",
		zap.String("profile", t.profile),
		zap.String("hook", hook),
		zap.String("value", ret.String()),
	)
}

func snapshotTable(L *lua.LState, s combat.Snapshot) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "id", lua.LString(s.ID))
	L.SetField(tbl, "name", lua.LString(s.Name))
	L.SetField(tbl, "confidence", lua.LNumber(s.Confidence))
	L.SetField(tbl, "tier", lua.LString(s.Tier.String()))
	L.SetField(tbl, "stamina", lua.LNumber(s.Stamina))
	L.SetField(tbl, "max_stamina", lua.LNumber(s.MaxStamina))
	L.SetField(tbl, "cooldown", lua.LNumber(s.Cooldown))
	L.SetField(tbl, "health_percent", lua.LNumber(s.Body.HealthPercent()))
	health := L.NewTable()
	for _, z := range body.Zones {
		L.SetField(health, z.String(), lua.LNumber(s.Body.Health(z)))
	}
	L.SetField(tbl, "health", health)
	return tbl
}
