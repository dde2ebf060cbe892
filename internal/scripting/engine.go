package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for house AI decision logic.
// Single-goroutine access only (game loop). Go detects and executes; Lua
// only decides.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory tree.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, sub := range []string{"ai"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HouseContext is the pre-packed situation report handed to the script for
// one house. Everything the script may weigh is detected on the Go side
// first; the script never reaches back into world state.
type HouseContext struct {
	HouseID     int
	Credits     int
	PowerOutput int
	PowerDrain  int

	Buildings  int
	Infantry   int
	Units      int
	Aircraft   int
	Harvesters int
	Refineries int

	InfantryFactoryFree bool
	UnitFactoryFree     bool
	AircraftFactoryFree bool

	EnemyCount    int
	IdleDefenders int
}

// HouseDecision is what the script asked for this cycle. Empty fields mean
// no action of that sort.
type HouseDecision struct {
	ProduceKind string // "infantry", "unit" or "aircraft"
	ProduceType string // type name in the matching rules table
	Attack      bool   // send idle combat units hunting
	Retreat     bool   // pull combat units home
}

// DecideHouse calls the Lua house_ai function. A missing function or a
// script error yields the zero decision, so a broken script makes the house
// passive rather than crashing the tick.
func (e *Engine) DecideHouse(ctx HouseContext) HouseDecision {
	fn := e.vm.GetGlobal("house_ai")
	if fn == lua.LNil {
		return HouseDecision{}
	}

	t := e.vm.NewTable()
	e.vm.SetField(t, "house_id", lua.LNumber(ctx.HouseID))
	e.vm.SetField(t, "credits", lua.LNumber(ctx.Credits))
	e.vm.SetField(t, "power_output", lua.LNumber(ctx.PowerOutput))
	e.vm.SetField(t, "power_drain", lua.LNumber(ctx.PowerDrain))
	e.vm.SetField(t, "buildings", lua.LNumber(ctx.Buildings))
	e.vm.SetField(t, "infantry", lua.LNumber(ctx.Infantry))
	e.vm.SetField(t, "units", lua.LNumber(ctx.Units))
	e.vm.SetField(t, "aircraft", lua.LNumber(ctx.Aircraft))
	e.vm.SetField(t, "harvesters", lua.LNumber(ctx.Harvesters))
	e.vm.SetField(t, "refineries", lua.LNumber(ctx.Refineries))
	e.vm.SetField(t, "infantry_factory_free", lua.LBool(ctx.InfantryFactoryFree))
	e.vm.SetField(t, "unit_factory_free", lua.LBool(ctx.UnitFactoryFree))
	e.vm.SetField(t, "aircraft_factory_free", lua.LBool(ctx.AircraftFactoryFree))
	e.vm.SetField(t, "enemy_count", lua.LNumber(ctx.EnemyCount))
	e.vm.SetField(t, "idle_defenders", lua.LNumber(ctx.IdleDefenders))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("house_ai script error", zap.Error(err))
		return HouseDecision{}
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	res, ok := ret.(*lua.LTable)
	if !ok {
		return HouseDecision{}
	}
	var d HouseDecision
	if v := res.RawGetString("produce_kind"); v != lua.LNil {
		d.ProduceKind = lua.LVAsString(v)
	}
	if v := res.RawGetString("produce_type"); v != lua.LNil {
		d.ProduceType = lua.LVAsString(v)
	}
	d.Attack = lua.LVAsBool(res.RawGetString("attack"))
	d.Retreat = lua.LVAsBool(res.RawGetString("retreat"))
	return d
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
