package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// StateRepository stores each in-process store's full state as a named,
// schema-versioned JSON blob ("one store = one named persisted slot").
type StateRepository interface {
	// Save writes a store's state blob, replacing any previous one.
	Save(ctx context.Context, name string, version int, state any) error

	// Load reads a store's state blob into target. It returns the stored
	// schema version and whether a blob existed. A corrupt blob is
	// reported as an error so callers can fall back to defaults.
	Load(ctx context.Context, name string, target any) (version int, ok bool, err error)

	// Delete removes a store's state blob.
	Delete(ctx context.Context, name string) error
}

// stateRepository implements StateRepository using SQLite.
type stateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a state repository.
func NewStateRepository(db *sql.DB) StateRepository {
	return &stateRepository{db: db}
}

// Save writes a store's state blob.
func (r *stateRepository) Save(ctx context.Context, name string, version int, state any) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state %s: %w", name, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO store_states (name, version, state, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			state = excluded.state,
			updated_at = excluded.updated_at
	`, name, version, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", name, err)
	}
	return nil
}

// Load reads a store's state blob into target.
func (r *stateRepository) Load(ctx context.Context, name string, target any) (int, bool, error) {
	var version int
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT version, state FROM store_states WHERE name = ?`, name,
	).Scan(&version, &payload)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load state %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal state %s: %w", name, err)
	}
	return version, true, nil
}

// Delete removes a store's state blob.
func (r *stateRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM store_states WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", name, err)
	}
	return nil
}

// BlobPersister adapts a StateRepository to the stores' fire-and-forget
// Persister interface. Save failures are logged, not surfaced: a missed
// write costs at most the latest mutation on the next load.
type BlobPersister struct {
	repo StateRepository
}

// NewBlobPersister creates a persister over a state repository.
func NewBlobPersister(repo StateRepository) *BlobPersister {
	return &BlobPersister{repo: repo}
}

// Persist writes a store snapshot, logging any failure.
func (p *BlobPersister) Persist(name string, version int, state any) {
	if err := p.repo.Save(context.Background(), name, version, state); err != nil {
		log.Printf("[Storage] Failed to persist %s state: %v", name, err)
	}
}
