package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ironvein/engine/internal/world"
)

// SaveRepo stores full game snapshots as JSONB rows.
type SaveRepo struct {
	db *DB
}

func NewSaveRepo(db *DB) *SaveRepo {
	return &SaveRepo{db: db}
}

// ErrSaveNotFound is returned when no snapshot matches.
var ErrSaveNotFound = errors.New("save not found")

// Insert stores a snapshot under a name and returns its id.
func (r *SaveRepo) Insert(ctx context.Context, name string, sg *world.SaveGame) (uuid.UUID, error) {
	blob, err := json.Marshal(sg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal save: %w", err)
	}
	id := uuid.New()
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO saves (id, name, frame, seed, state) VALUES ($1, $2, $3, $4, $5)`,
		id, name, sg.Frame, sg.Seed, blob,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert save: %w", err)
	}
	return id, nil
}

// Load fetches a snapshot by id.
func (r *SaveRepo) Load(ctx context.Context, id uuid.UUID) (*world.SaveGame, error) {
	var blob []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT state FROM saves WHERE id = $1`, id,
	).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}
	var sg world.SaveGame
	if err := json.Unmarshal(blob, &sg); err != nil {
		return nil, fmt.Errorf("unmarshal save: %w", err)
	}
	return &sg, nil
}

// LoadLatest fetches the most recent snapshot with the given name.
func (r *SaveRepo) LoadLatest(ctx context.Context, name string) (*world.SaveGame, error) {
	var blob []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT state FROM saves WHERE name = $1 ORDER BY created_at DESC LIMIT 1`, name,
	).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest save: %w", err)
	}
	var sg world.SaveGame
	if err := json.Unmarshal(blob, &sg); err != nil {
		return nil, fmt.Errorf("unmarshal save: %w", err)
	}
	return &sg, nil
}

// Prune keeps the newest n snapshots per name and drops the rest.
func (r *SaveRepo) Prune(ctx context.Context, name string, keep int) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM saves WHERE name = $1 AND id NOT IN (
		     SELECT id FROM saves WHERE name = $1
		     ORDER BY created_at DESC LIMIT $2)`,
		name, keep,
	)
	if err != nil {
		return fmt.Errorf("prune saves: %w", err)
	}
	return nil
}
