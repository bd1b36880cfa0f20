package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/data"
)

//go:embed scripts/*.lua
var embedded embed.FS

// Engine wraps a single gopher-lua VM holding the meta-progression formulas.
// Calls are serialized; an LState must not be shared across goroutines.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine loads the embedded scripts, then every .lua file in overrideDir
// (if non-empty), so overrides redefine embedded functions.
func NewEngine(overrideDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("embedded scripts: %w", err)
	}
	if err := e.loadFS(sub, "embedded"); err != nil {
		vm.Close()
		return nil, err
	}
	if overrideDir != "" {
		if _, err := os.Stat(overrideDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("script override dir: %w", err)
		}
		if err := e.loadFS(os.DirFS(overrideDir), overrideDir); err != nil {
			vm.Close()
			return nil, err
		}
	}
	return e, nil
}

// loadFS runs all top-level .lua files of fsys in name order.
func (e *Engine) loadFS(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("list %s scripts: %w", origin, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		src, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("read %s/%s: %w", origin, entry.Name(), err)
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s/%s: %w", origin, entry.Name(), err)
		}
		e.log.Debug("loaded lua script", zap.String("origin", origin), zap.String("file", entry.Name()))
	}
	return nil
}

// Bonuses mirrors the permanent stat additions returned by compute_bonuses.
type Bonuses struct {
	MaxHP           float64
	DamagePct       float64
	AttackSpeedPct  float64
	CritChance      float64
	DamageReduction float64
}

// DefaultBonuses is the built-in formula used when the script call fails.
func DefaultBonuses(levels [data.NumUpgrades]int) Bonuses {
	return Bonuses{
		MaxHP:           float64(levels[data.UpgradeMaxHP]) * 10,
		DamagePct:       float64(levels[data.UpgradeAttackDamage]) * 0.10,
		AttackSpeedPct:  float64(levels[data.UpgradeAttackSpeed]) * 0.08,
		CritChance:      float64(levels[data.UpgradeCritChance]) * 0.03,
		DamageReduction: float64(levels[data.UpgradeDamageReduction]),
	}
}

// DefaultUpgradeCost is the built-in cost curve.
func DefaultUpgradeCost(level int) int { return 20 + 10*level }

// ComputeBonuses calls Lua compute_bonuses(levels).
func (e *Engine) ComputeBonuses(levels [data.NumUpgrades]int) Bonuses {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("compute_bonuses")
	if fn == lua.LNil {
		e.log.Error("lua function compute_bonuses not found")
		return DefaultBonuses(levels)
	}

	t := e.vm.NewTable()
	for id := data.UpgradeID(0); id < data.NumUpgrades; id++ {
		t.RawSetString(id.String(), lua.LNumber(levels[id]))
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua compute_bonuses error", zap.Error(err))
		return DefaultBonuses(levels)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua compute_bonuses returned non-table")
		return DefaultBonuses(levels)
	}
	return Bonuses{
		MaxHP:           lNum(rt, "max_hp"),
		DamagePct:       lNum(rt, "damage_pct"),
		AttackSpeedPct:  lNum(rt, "attack_speed_pct"),
		CritChance:      lNum(rt, "crit_chance"),
		DamageReduction: lNum(rt, "damage_reduction"),
	}
}

// UpgradeCost calls Lua upgrade_cost(level).
func (e *Engine) UpgradeCost(level int) int {
	v, ok := e.callNumber("upgrade_cost", float64(level))
	if !ok {
		return DefaultUpgradeCost(level)
	}
	return int(v)
}

// lNum reads a numeric field from a Lua table; missing fields read as 0.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// callNumber calls a Lua function with numeric args and returns its numeric
// result. ok is false when the function is missing, fails or returns a
// non-number.
func (e *Engine) callNumber(name string, args ...float64) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0, false
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua call returned non-number", zap.String("func", name))
		return 0, false
	}
	return float64(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
