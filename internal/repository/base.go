// Package repository implements the donation and user collections, the
// claim ledger, and the session store over a storage.Store. Each
// collection is one JSON array slot; every mutation re-serializes and
// rewrites the whole collection.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"foodsaver/internal/observability"
	"foodsaver/internal/storage"
)

var slotMetrics = observability.NewSlotMetrics()

// loadSlot decodes a JSON slot into dest. A missing slot leaves dest
// untouched. Undecodable contents are treated as an empty collection,
// logged, and counted, favoring availability over surfacing corruption.
func loadSlot(ctx context.Context, store storage.Store, key string, logger *observability.RepoLogger, dest any) error {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return nil
	}
	if err != nil {
		logger.LogError(ctx, err, "read")
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.LogCorruptSlot(ctx, err)
		observability.SlotCorruptions.WithLabelValues(key).Inc()
		return nil
	}
	return nil
}

// saveSlot serializes v and rewrites the slot.
func saveSlot(ctx context.Context, store storage.Store, key string, v any) error {
	defer slotMetrics.TrackWrite(key)()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}
