package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ironvein/engine/internal/command"
	"github.com/ironvein/engine/internal/core/target"
)

func targetFromInt(v int64) target.Target {
	return target.Target(uint32(v))
}

// ReplayOrder is one accepted order tagged with the frame it applied on.
// A replay is the scenario, the seed, and this stream; nothing else.
type ReplayOrder struct {
	Seq   int64
	Frame int64
	Order command.Order
}

// ReplayRepo is the order write-ahead log. Orders are buffered in memory by
// the persistence system and flushed here in batches; a flush that fails
// leaves the buffer intact for the next attempt.
type ReplayRepo struct {
	db *DB
}

func NewReplayRepo(db *DB) *ReplayRepo {
	return &ReplayRepo{db: db}
}

// Create registers a new replay and returns its id.
func (r *ReplayRepo) Create(ctx context.Context, name string, seed int64, scenario string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO replays (id, name, seed, scenario) VALUES ($1, $2, $3, $4)`,
		id, name, seed, scenario,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create replay: %w", err)
	}
	return id, nil
}

// WriteBatch atomically appends a batch of orders in a single transaction.
func (r *ReplayRepo) WriteBatch(ctx context.Context, replay uuid.UUID, orders []ReplayOrder) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replay begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range orders {
		if _, err := tx.Exec(ctx,
			`INSERT INTO replay_orders (replay_id, seq, frame, house, kind, subject, target, cell_x, cell_y, type_name)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			replay, e.Seq, e.Frame, e.Order.House, int16(e.Order.Kind),
			int64(e.Order.Subject), int64(e.Order.Target),
			e.Order.CellX, e.Order.CellY, e.Order.TypeName,
		); err != nil {
			return fmt.Errorf("replay insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LoadOrders returns a replay's full order stream in sequence order.
func (r *ReplayRepo) LoadOrders(ctx context.Context, replay uuid.UUID) ([]ReplayOrder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT seq, frame, house, kind, subject, target, cell_x, cell_y, type_name
		 FROM replay_orders WHERE replay_id = $1 ORDER BY seq`, replay,
	)
	if err != nil {
		return nil, fmt.Errorf("load replay orders: %w", err)
	}
	defer rows.Close()

	var out []ReplayOrder
	for rows.Next() {
		var e ReplayOrder
		var kind int16
		var subject, tgt int64
		if err := rows.Scan(&e.Seq, &e.Frame, &e.Order.House, &kind,
			&subject, &tgt, &e.Order.CellX, &e.Order.CellY, &e.Order.TypeName); err != nil {
			return nil, fmt.Errorf("scan replay order: %w", err)
		}
		e.Order.Kind = command.Kind(kind)
		e.Order.Subject = targetFromInt(subject)
		e.Order.Target = targetFromInt(tgt)
		out = append(out, e)
	}
	return out, rows.Err()
}
