package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	mod := L.NewTable()
	for name, fn := range levels {
		log := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			log(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

// diceModule exposes percent(), between(lo, hi) and pick(n). pick returns a
// 1-based index to match Lua arrays.
func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.Percent("lua percent")))
		return 1
	}))
	L.SetField(mod, "between", L.NewFunction(func(L *lua.LState) int {
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		L.Push(lua.LNumber(m.roller.Between("lua between", lo, hi)))
		return 1
	}))
	L.SetField(mod, "pick", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "pick needs at least one option")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Pick("lua pick", n) + 1))
		return 1
	}))
	return mod
}
