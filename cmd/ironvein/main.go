package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/ironvein/engine/internal/command"
	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/config"
	"github.com/ironvein/engine/internal/data"
	"github.com/ironvein/engine/internal/metrics"
	"github.com/ironvein/engine/internal/persist"
	"github.com/ironvein/engine/internal/scripting"
	"github.com/ironvein/engine/internal/system"
	"github.com/ironvein/engine/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           Ironvein  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      鐵脈 · Go 即時戰略模擬核心           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(種子: %d)\033[0m\n\n", serverName, seed)
}

func printSection(title string) {
	// Use rune count for CJK width calculation (each CJK char = 2 columns)
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := 46 - displayWidth - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	// Use display width for CJK characters
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := 42 - displayWidth - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/engine.toml"
	if p := os.Getenv("IRONVEIN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, seed)

	// 3. Load rules tables
	printSection("資料載入")

	rules, err := data.LoadRules(cfg.Rules.Dir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	printStat("彈頭", rules.Warheads.Count())
	printStat("彈道", rules.Bullets.Count())
	printStat("武器", rules.Weapons.Count())
	printStat("動畫", rules.Anims.Count())
	printStat("步兵模板", rules.Infantry.Count())
	printStat("載具模板", rules.Units.Count())
	printStat("飛行器模板", rules.Aircraft.Count())
	printStat("建築模板", rules.Buildings.Count())

	scenario, err := data.LoadScenario(cfg.Sim.ScenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	printStat("劇本陣營", len(scenario.Houses))
	printStat("劇本單位", len(scenario.Spawns))

	// 4. Initialize Lua scripting engine
	luaEngine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua 腳本載入完成")
	fmt.Println()

	// 5. Connect to PostgreSQL and run migrations (optional)
	var saveRepo *persist.SaveRepo
	var repRepo *persist.ReplayRepo
	var replayID uuid.UUID
	if cfg.Database.Enabled {
		printSection("資料庫")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")

		saveRepo = persist.NewSaveRepo(db)
		repRepo = persist.NewReplayRepo(db)
		replayID, err = repRepo.Create(ctx, cfg.Server.Name, seed, scenario.Name)
		if err != nil {
			return fmt.Errorf("create replay: %w", err)
		}
		printOK(fmt.Sprintf("回放記錄建立 %s", replayID))
		fmt.Println()
	}

	// 6. Build the world and place the scenario
	grid := world.NewGridMap(cfg.Map.Width, cfg.Map.Height)
	for _, o := range scenario.Ore {
		grid.SetOre(world.Cell{X: int16(o.CellX), Y: int16(o.CellY)}, o.Amount)
	}

	ws := world.NewState(world.Options{
		Log:       log,
		Rules:     rules,
		Map:       grid,
		Ore:       grid,
		Seed:      seed,
		Buildings: cfg.Heaps.Buildings,
		Infantry:  cfg.Heaps.Infantry,
		Units:     cfg.Heaps.Units,
		Aircraft:  cfg.Heaps.Aircraft,
		Bullets:   cfg.Heaps.Bullets,
		Anims:     cfg.Heaps.Anims,
	})

	spawned, err := placeScenario(ws, scenario, log)
	if err != nil {
		return fmt.Errorf("place scenario: %w", err)
	}

	printSection("世界")
	printStat("地圖", cfg.Map.Width*cfg.Map.Height)
	printStat("陣營", len(ws.Houses))
	printStat("初始單位", spawned)
	fmt.Println()

	// 7. Metrics endpoint (optional)
	var mtr *metrics.Metrics
	if cfg.Metrics.Enabled {
		mtr = metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", mtr.Handler())
		srv := &http.Server{Addr: cfg.Metrics.BindAddress, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("指標伺服器停止", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	// 8. Create systems and register with runner
	queue := command.NewQueue()
	persistSys := system.NewPersistenceSystem(ws, saveRepo, repRepo, replayID, cfg.Server.Name, log, cfg.Sim.SaveInterval)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(ws, queue, persistSys, log))
	runner.Register(system.NewHouseAISystem(ws, luaEngine, queue, int64(cfg.Sim.AIInterval), log))
	runner.Register(system.NewLogicSystem(ws, mtr))
	if mtr != nil {
		runner.Register(system.NewMetricsSystem(ws, mtr))
	}
	if cfg.Database.Enabled && cfg.Sim.SaveInterval > 0 {
		runner.Register(persistSys)
	}

	// 9. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("模擬就緒")
	if cfg.Metrics.Enabled {
		printReady(fmt.Sprintf("指標位址 %s", cfg.Metrics.BindAddress))
	}
	printReady(fmt.Sprintf("模擬迴圈啟動 (tick: %s)", cfg.Sim.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			if cfg.Database.Enabled {
				persistSys.SaveNow()
			}
			log.Info("模擬已停止", zap.Int64("frame", ws.Frame))
			return nil
		}
	}
}

// placeScenario creates the scenario's houses and entities in the world.
func placeScenario(ws *world.State, sc *data.Scenario, log *zap.Logger) (int, error) {
	for _, sh := range sc.Houses {
		h := world.NewHouse(sh.ID, sh.Name)
		h.Human = sh.Human
		h.Credits = sh.Credits
		for _, ally := range sh.Allies {
			h.Ally(ally)
		}
		ws.AddHouse(h)
	}

	spawned := 0
	for _, sp := range sc.Spawns {
		cell := world.Cell{X: int16(sp.CellX), Y: int16(sp.CellY)}
		var mis world.Missioner
		var ok bool
		switch sp.Kind {
		case "building":
			mis, ok = ws.CreateBuilding(sp.Type, sp.House, cell)
		case "infantry":
			mis, ok = ws.CreateInfantry(sp.Type, sp.House, cell)
		case "unit":
			mis, ok = ws.CreateUnit(sp.Type, sp.House, cell)
		case "aircraft":
			mis, ok = ws.CreateAircraft(sp.Type, sp.House, cell)
		default:
			return spawned, fmt.Errorf("spawn kind %q unknown", sp.Kind)
		}
		if !ok {
			log.Warn("劇本生成失敗",
				zap.String("kind", sp.Kind),
				zap.String("type", sp.Type),
				zap.Int16("x", cell.X),
				zap.Int16("y", cell.Y))
			continue
		}
		if sp.Mission != "" {
			m, err := world.ParseMission(sp.Mission)
			if err != nil {
				return spawned, fmt.Errorf("spawn %s %q: %w", sp.Kind, sp.Type, err)
			}
			world.AssignMission(ws, mis, m)
		}
		spawned++
	}
	return spawned, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
