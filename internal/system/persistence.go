package system

import (
	"context"
	"sync"
	"time"

	"github.com/ironvein/engine/internal/command"
	coresys "github.com/ironvein/engine/internal/core/system"
	"github.com/ironvein/engine/internal/persist"
	"github.com/ironvein/engine/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersistenceSystem periodically auto-saves the full simulation state and
// flushes the replay order log. Phase 5 (Persist).
//
// It also implements OrderSink: InputSystem hands it every accepted order so
// the replay covers player and scripted house commands alike.
type PersistenceSystem struct {
	world    *world.State
	saveRepo *persist.SaveRepo
	repRepo  *persist.ReplayRepo
	replayID uuid.UUID
	saveName string
	log      *zap.Logger

	mu      sync.Mutex
	pending []persist.ReplayOrder
	seq     int64

	tickCount int
	interval  int // auto-save every N ticks
	keep      int // old saves retained per name
}

func NewPersistenceSystem(ws *world.State, saveRepo *persist.SaveRepo, repRepo *persist.ReplayRepo, replayID uuid.UUID, saveName string, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		saveRepo: saveRepo,
		repRepo:  repRepo,
		replayID: replayID,
		saveName: saveName,
		log:      log,
		interval: intervalTicks,
		keep:     5,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// Append records an accepted order for the replay log. Satisfies OrderSink.
func (s *PersistenceSystem) Append(frame int64, o command.Order) {
	if s.repRepo == nil {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, persist.ReplayOrder{Seq: s.seq, Frame: frame, Order: o})
	s.seq++
	s.mu.Unlock()
}

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.flushOrders()
	s.saveWorld()
}

// SaveNow persists immediately, regardless of the autosave interval.
// Called on graceful shutdown so the final frames are not lost.
func (s *PersistenceSystem) SaveNow() {
	s.flushOrders()
	s.saveWorld()
}

func (s *PersistenceSystem) flushOrders() {
	if s.repRepo == nil {
		return
	}
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repRepo.WriteBatch(ctx, s.replayID, batch); err != nil {
		s.log.Error("寫入回放指令失敗", zap.Error(err), zap.Int("orders", len(batch)))
		// Re-queue so the next flush retries. Seq numbers are already assigned.
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
		return
	}
	s.log.Debug("回放指令已寫入", zap.Int("orders", len(batch)))
}

func (s *PersistenceSystem) saveWorld() {
	if s.saveRepo == nil {
		return
	}
	save := s.world.Encode()
	save.Name = s.saveName
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	id, err := s.saveRepo.Insert(ctx, s.saveName, save)
	if err != nil {
		s.log.Error("自動存檔失敗", zap.Error(err), zap.Int64("frame", save.Frame))
		return
	}
	if err := s.saveRepo.Prune(ctx, s.saveName, s.keep); err != nil {
		s.log.Warn("清理舊存檔失敗", zap.Error(err))
	}
	s.log.Info("自動存檔完成", zap.String("id", id.String()), zap.Int64("frame", save.Frame))
}
