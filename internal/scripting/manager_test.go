package scripting_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/lifesim/internal/game/dice"
	"github.com/cory-johannsen/lifesim/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewRoller(dice.NewSeededSource(1), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func hasLevel(logs *observer.ObservedLogs, level zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == level {
			return true
		}
	}
	return false
}

func TestManager_LoadDir_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadDir("brawler", dir, 0))
	assert.True(t, mgr.Loaded("brawler"))
	ret, err := mgr.Call(context.Background(), "brawler", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_LoadDir_LexicographicOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`value = value .. "b"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`value = "a"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.lua"), []byte(`function get() return value end`), 0644))
	require.NoError(t, mgr.LoadDir("ordered", dir, 0))

	ret, err := mgr.Call(context.Background(), "ordered", "get")
	require.NoError(t, err)
	assert.Equal(t, lua.LString("ab"), ret)
}

func TestManager_LoadFile_SyntaxError(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "broken.lua", `function (`)
	err := mgr.LoadFile("broken", filepath.Join(dir, "broken.lua"), 0)
	assert.Error(t, err)
	assert.False(t, mgr.Loaded("broken"))
}

func TestManager_LoadDir_MissingDir(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.LoadDir("x", filepath.Join(t.TempDir(), "missing"), 0))
}

func TestManager_Call_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "empty.lua", `-- no functions`)
	require.NoError(t, mgr.LoadDir("quiet", dir, 0))
	ret, err := mgr.Call(context.Background(), "quiet", "nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_Call_UnknownProfile_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.Call(context.Background(), "no_such_profile", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.InfoLevel), "expected Info log for missing profile")
}

func TestManager_Call_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadDir("bad", dir, 0))
	ret, err := mgr.Call(context.Background(), "bad", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_Call_BudgetResetsPerCall(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "loop.lua", `
		function count(n)
			local s = 0
			for i = 1, n do s = s + i end
			return s
		end
		function forever()
			while true do end
		end
	`)
	require.NoError(t, mgr.LoadDir("budget", dir, 2000))
	ctx := context.Background()

	// Many small calls in a row would exhaust a shared budget.
	for i := 0; i < 50; i++ {
		ret, err := mgr.Call(ctx, "budget", "count", lua.LNumber(10))
		require.NoError(t, err)
		require.Equal(t, lua.LNumber(55), ret)
	}

	ret, err := mgr.Call(ctx, "budget", "forever")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	// The VM stays usable after a runaway call is cut off.
	ret, err = mgr.Call(ctx, "budget", "count", lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(6), ret)
}

func TestManager_Reload_ReplacesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	first := writeTempLua(t, "v.lua", `function version() return 1 end`)
	second := writeTempLua(t, "v.lua", `function version() return 2 end`)
	require.NoError(t, mgr.LoadDir("p", first, 0))
	require.NoError(t, mgr.LoadDir("p", second, 0))
	ret, err := mgr.Call(context.Background(), "p", "version")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestManager_ConcurrentCalls(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "double.lua", `function double(x) return x * 2 end`)
	require.NoError(t, mgr.LoadDir("p", dir, 0))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ret, err := mgr.Call(context.Background(), "p", "double", lua.LNumber(n))
			assert.NoError(t, err)
			assert.Equal(t, lua.LNumber(2*n), ret)
		}(i)
	}
	wg.Wait()
}
