package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Roller is the dice surface exposed to scripts as engine.dice.
type Roller interface {
	Percent(reason string) int
	Between(reason string, lo, hi int) int
	Pick(reason string, n int) int
}

type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per tactics profile and exposes hook
// dispatch.
//
// Manager is safe for concurrent Call. Each profile's LState is
// single-threaded; calls to the same profile are serialized while different
// profiles run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a non-nil Manager with no profiles loaded.
func NewManager(roller Roller, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadFile creates a sandboxed VM for profile from the single script at path.
//
// Postcondition: profile is registered, replacing any earlier VM; returns
// error on read or Lua load failure.
func (m *Manager) LoadFile(profile, path string, instLimit int) error {
	return m.loadInto(profile, []string{path}, instLimit)
}

// LoadDir creates a sandboxed VM for profile and executes every *.lua file in
// scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
func (m *Manager) LoadDir(profile, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, profile, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)
	return m.loadInto(profile, luaFiles, instLimit)
}

func (m *Manager) loadInto(profile string, paths []string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	for _, path := range paths {
		release := budget(context.Background(), L, instLimit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, profile, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[profile]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[profile] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	return nil
}

// Loaded reports whether profile has a VM.
func (m *Manager) Loaded(profile string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[profile]
	return ok
}

// Call calls the named Lua global function in profile's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or no
// VM exists. Lua runtime errors, including an exhausted budget, are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) Call(ctx context.Context, profile, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.callWith(ctx, profile, hook, func(*lua.LState) []lua.LValue { return args })
}

// callWith is Call with arguments built on the target VM while its lock is
// held, so tables never cross VMs.
func (m *Manager) callWith(ctx context.Context, profile, hook string, build func(*lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[profile]
	m.mu.RUnlock()

	if !ok {
		m.logger.Info("scripting: no VM for profile",
			zap.String("profile", profile),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := budget(ctx, v.L, v.limit)
	defer release()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(v.L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("profile", profile),
			zap.String("hook", hook),
			zap.Error(err),
		)
		// A cancelled call can leave values on the stack.
		v.L.SetTop(0)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, name)
	}
}
