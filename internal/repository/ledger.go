package repository

import (
	"context"

	"foodsaver/internal/observability"
	"foodsaver/internal/storage"
)

// ClaimLedger is the side-channel list of claimed donation ids, kept in
// its own slot so a recipient can see their claims without the donation
// records tracking claimant identity.
type ClaimLedger interface {
	// RecordClaim appends the id if not already present.
	RecordClaim(ctx context.Context, donationID string) error
	ListClaimedIDs(ctx context.Context) ([]string, error)
	// RemoveClaim drops the id, keeping the ledger from going stale when
	// a claim is cancelled. Removing a missing id is a no-op.
	RemoveClaim(ctx context.Context, donationID string) error
}

type claimLedger struct {
	store  storage.Store
	logger *observability.RepoLogger
}

// NewClaimLedger creates a claim ledger over the given store.
func NewClaimLedger(store storage.Store) ClaimLedger {
	return &claimLedger{
		store:  store,
		logger: observability.NewRepoLogger(storage.SlotClaimedIDs),
	}
}

func (l *claimLedger) load(ctx context.Context) ([]string, error) {
	var ids []string
	if err := loadSlot(ctx, l.store, storage.SlotClaimedIDs, l.logger, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (l *claimLedger) RecordClaim(ctx context.Context, donationID string) error {
	ids, err := l.load(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == donationID {
			return nil
		}
	}
	ids = append(ids, donationID)
	if err := saveSlot(ctx, l.store, storage.SlotClaimedIDs, ids); err != nil {
		return err
	}
	l.logger.LogCreate(ctx, map[string]interface{}{"donation_id": donationID})
	return nil
}

func (l *claimLedger) ListClaimedIDs(ctx context.Context) ([]string, error) {
	return l.load(ctx)
}

func (l *claimLedger) RemoveClaim(ctx context.Context, donationID string) error {
	ids, err := l.load(ctx)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if id == donationID {
			ids = append(ids[:i], ids[i+1:]...)
			if err := saveSlot(ctx, l.store, storage.SlotClaimedIDs, ids); err != nil {
				return err
			}
			l.logger.LogDelete(ctx, map[string]interface{}{"donation_id": donationID})
			return nil
		}
	}
	return nil
}
