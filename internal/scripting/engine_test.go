package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngineWith(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestDecideHouseReadsContextFields(t *testing.T) {
	e := newEngineWith(t, map[string]string{
		"house_ai.lua": `
function house_ai(ctx)
  if ctx.credits >= 400 and ctx.infantry_factory_free then
    return { produce_kind = "infantry", produce_type = "rifleman" }
  end
  if ctx.enemy_count > ctx.idle_defenders then
    return { retreat = true }
  end
  return { attack = true }
end
`,
	})

	d := e.DecideHouse(HouseContext{Credits: 500, InfantryFactoryFree: true})
	assert.Equal(t, "infantry", d.ProduceKind)
	assert.Equal(t, "rifleman", d.ProduceType)
	assert.False(t, d.Attack)

	d = e.DecideHouse(HouseContext{Credits: 100, EnemyCount: 5, IdleDefenders: 2})
	assert.True(t, d.Retreat)

	d = e.DecideHouse(HouseContext{Credits: 100})
	assert.True(t, d.Attack)
	assert.Empty(t, d.ProduceType)
}

func TestDecideHouseWithoutFunctionIsPassive(t *testing.T) {
	e := newEngineWith(t, map[string]string{
		"util.lua": `function helper() return 1 end`,
	})
	assert.Equal(t, HouseDecision{}, e.DecideHouse(HouseContext{Credits: 500}))
}

func TestDecideHouseScriptErrorIsPassive(t *testing.T) {
	e := newEngineWith(t, map[string]string{
		"house_ai.lua": `
function house_ai(ctx)
  error("boom")
end
`,
	})
	assert.Equal(t, HouseDecision{}, e.DecideHouse(HouseContext{}))
}

func TestDecideHouseNonTableReturnIsPassive(t *testing.T) {
	e := newEngineWith(t, map[string]string{
		"house_ai.lua": `
function house_ai(ctx)
  return 42
end
`,
	})
	assert.Equal(t, HouseDecision{}, e.DecideHouse(HouseContext{}))
}

func TestNewEngineLoadsAISubdirectory(t *testing.T) {
	e := newEngineWith(t, map[string]string{
		"ai/house_ai.lua": `
function house_ai(ctx)
  return { attack = true }
end
`,
	})
	assert.True(t, e.DecideHouse(HouseContext{}).Attack)
}

func TestNewEngineToleratesMissingDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nowhere"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, HouseDecision{}, e.DecideHouse(HouseContext{}))
}

func TestNewEngineReportsBrokenScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`function (`), 0o644))
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
