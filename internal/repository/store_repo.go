package repository

import (
	"fmt"
	"log"

	"examtrack/internal/codec"
	"examtrack/internal/database"
	"examtrack/internal/migrate"
	"examtrack/internal/models"
	"examtrack/internal/stats"
)

// StoreRepository persists the whole statistics store as a single value
// behind a key-value gateway. The engine works on an in-memory copy and
// writes it back after every change, so reads never touch the backend.
type StoreRepository struct {
	kv        database.KV
	key       string
	threshold int
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(kv database.KV, key string, corruptionThreshold int) *StoreRepository {
	return &StoreRepository{kv: kv, key: key, threshold: corruptionThreshold}
}

// Load reads the persisted store and brings it up to date: legacy
// payloads are migrated, inflated counters repaired, and aggregates
// recomputed from session history. The reconciled store is written back
// so the next start decodes the current generation directly.
func (r *StoreRepository) Load() (*models.StudyStore, error) {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read statistics store: %w", err)
	}
	if !ok {
		return models.NewStore(), nil
	}

	store := codec.Decode(raw)
	migrate.RepairStore(store, r.threshold)
	stats.RecomputeGlobalAggregate(store)

	if err := r.Save(store); err != nil {
		log.Printf("Warning: Failed to persist reconciled statistics: %v", err)
	}
	return store, nil
}

// Save encodes the store and writes it through the gateway.
func (r *StoreRepository) Save(store *models.StudyStore) error {
	encoded, err := codec.Encode(store)
	if err != nil {
		return err
	}
	if err := r.kv.Set(r.key, encoded); err != nil {
		return fmt.Errorf("failed to write statistics store: %w", err)
	}
	return nil
}

// Clear removes the persisted value entirely.
func (r *StoreRepository) Clear() error {
	if err := r.kv.Remove(r.key); err != nil {
		return fmt.Errorf("failed to clear statistics store: %w", err)
	}
	return nil
}
