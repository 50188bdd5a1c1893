package repository

import (
	"context"
	"time"

	"foodsaver/internal/models"
	"foodsaver/internal/observability"
	"foodsaver/internal/storage"
)

// CreateDonationInput carries the caller-supplied fields of a new listing.
type CreateDonationInput struct {
	FoodName       string    `json:"food_name"`
	Category       string    `json:"category"`
	Quantity       string    `json:"quantity"`
	PickupLocation string    `json:"pickup_location"`
	Description    string    `json:"description"`
	ExpiryDate     time.Time `json:"expiry_date"`
	DonorID        string    `json:"donor_id"`
}

// DonationRepository defines the interface for donation data operations.
// Lookups signal absence with a nil record, never an error.
type DonationRepository interface {
	ListAll(ctx context.Context) ([]models.Donation, error)
	ListByOwner(ctx context.Context, donorID string) ([]models.Donation, error)
	ListAvailable(ctx context.Context) ([]models.Donation, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Donation, error)
	GetByID(ctx context.Context, id string) (*models.Donation, error)
	Create(ctx context.Context, in CreateDonationInput) (*models.Donation, error)
	Delete(ctx context.Context, id string, actor models.Actor) (bool, error)
	UpdateStatus(ctx context.Context, id string, next models.Status, actor models.Actor, expectedVersion int) (*models.Donation, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

type donationRepository struct {
	store  storage.Store
	logger *observability.RepoLogger
	now    func() time.Time
}

// NewDonationRepository creates a donation repository over the given store.
func NewDonationRepository(store storage.Store) DonationRepository {
	return &donationRepository{
		store:  store,
		logger: observability.NewRepoLogger(storage.SlotDonations),
		now:    time.Now,
	}
}

func (r *donationRepository) load(ctx context.Context) ([]models.Donation, error) {
	var donations []models.Donation
	if err := loadSlot(ctx, r.store, storage.SlotDonations, r.logger, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) save(ctx context.Context, donations []models.Donation) error {
	if donations == nil {
		donations = []models.Donation{}
	}
	return saveSlot(ctx, r.store, storage.SlotDonations, donations)
}

func (r *donationRepository) ListAll(ctx context.Context) ([]models.Donation, error) {
	return r.load(ctx)
}

func (r *donationRepository) ListByOwner(ctx context.Context, donorID string) ([]models.Donation, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Donation
	for _, d := range all {
		if d.DonorID == donorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *donationRepository) ListAvailable(ctx context.Context) ([]models.Donation, error) {
	return r.ListByStatus(ctx, models.StatusAvailable)
}

func (r *donationRepository) ListByStatus(ctx context.Context, status models.Status) ([]models.Donation, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Donation
	for _, d := range all {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			d := all[i]
			return &d, nil
		}
	}
	return nil, nil
}

// Create validates required fields, stamps identity and lifecycle fields,
// and appends the record to the collection.
func (r *donationRepository) Create(ctx context.Context, in CreateDonationInput) (*models.Donation, error) {
	var missing []string
	if in.FoodName == "" {
		missing = append(missing, "food_name")
	}
	if in.Quantity == "" {
		missing = append(missing, "quantity")
	}
	if in.PickupLocation == "" {
		missing = append(missing, "pickup_location")
	}
	if len(missing) > 0 {
		return nil, models.NewMissingFieldsError(missing...)
	}

	donations, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	d := models.Donation{
		ID:             models.NewDonationID(),
		FoodName:       in.FoodName,
		Category:       models.NormalizeCategory(in.Category),
		Quantity:       in.Quantity,
		PickupLocation: in.PickupLocation,
		Description:    in.Description,
		ExpiryDate:     in.ExpiryDate,
		DonorID:        in.DonorID,
		Status:         models.StatusAvailable,
		Version:        1,
		CreatedAt:      r.now().UTC(),
	}
	donations = append(donations, d)

	if err := r.save(ctx, donations); err != nil {
		return nil, err
	}
	observability.DonationTransitions.WithLabelValues(string(models.StatusAvailable)).Inc()
	r.logger.LogCreate(ctx, map[string]interface{}{"id": d.ID, "donor_id": d.DonorID, "category": d.Category})
	return &d, nil
}

// Delete removes the record with matching id. Idempotent: a missing id
// is reported as (false, nil), not an error. Only the owner or an admin
// may delete.
func (r *donationRepository) Delete(ctx context.Context, id string, actor models.Actor) (bool, error) {
	donations, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range donations {
		if donations[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}
	if !actor.IsAdmin() && donations[idx].DonorID != actor.UserID {
		return false, models.NewForbiddenError("Only the listing owner or an admin may delete a donation")
	}

	donations = append(donations[:idx], donations[idx+1:]...)
	if err := r.save(ctx, donations); err != nil {
		return false, err
	}
	r.logger.LogDelete(ctx, map[string]interface{}{"id": id, "actor": actor.UserID})
	return true, nil
}

// authorizeTransition enforces who may drive each transition target.
func authorizeTransition(d models.Donation, next models.Status, actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	switch next {
	case models.StatusClaimed:
		if actor.Role != models.RoleRecipient {
			return models.NewForbiddenError("Only recipients may claim donations")
		}
	case models.StatusPickedUp:
		if actor.UserID != d.ClaimedBy && actor.UserID != d.DonorID {
			return models.NewForbiddenError("Only the claimant or the listing owner may mark pickup")
		}
	case models.StatusCancelled:
		if actor.UserID != d.DonorID {
			return models.NewForbiddenError("Only the listing owner may cancel a donation")
		}
	case models.StatusExpired:
		return models.NewForbiddenError("Expiry is driven by the sweep")
	}
	return nil
}

// UpdateStatus sets status on the matching record. Returns a nil record
// when the id is unknown. Illegal transitions and stale versions are
// rejected with a conflict error; expectedVersion 0 skips the version check.
func (r *donationRepository) UpdateStatus(ctx context.Context, id string, next models.Status, actor models.Actor, expectedVersion int) (*models.Donation, error) {
	if !next.Valid() {
		return nil, models.NewValidationError("Unknown status: " + string(next))
	}

	donations, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range donations {
		if donations[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	d := donations[idx]
	if !d.Status.CanTransitionTo(next) {
		return nil, models.NewConflictError("Illegal status transition: " + string(d.Status) + " -> " + string(next))
	}
	if err := authorizeTransition(d, next, actor); err != nil {
		return nil, err
	}
	if expectedVersion > 0 && d.Version != expectedVersion {
		return nil, models.NewConflictError("Donation was modified concurrently")
	}

	d.Status = next
	d.Version++
	switch next {
	case models.StatusClaimed:
		d.ClaimedBy = actor.UserID
	case models.StatusCancelled:
		d.ClaimedBy = ""
	}
	donations[idx] = d

	if err := r.save(ctx, donations); err != nil {
		return nil, err
	}
	observability.DonationTransitions.WithLabelValues(string(next)).Inc()
	r.logger.LogUpdate(ctx, map[string]interface{}{"id": id, "status": next, "version": d.Version})
	return &d, nil
}

// ExpireOverdue transitions every available donation whose expiry date
// has passed to expired. The sweep is idempotent: a second run over the
// same snapshot transitions nothing.
func (r *donationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	donations, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range donations {
		d := &donations[i]
		if d.Status != models.StatusAvailable || d.ExpiryDate.After(now) {
			continue
		}
		d.Status = models.StatusExpired
		d.Version++
		expired++
	}
	if expired == 0 {
		return 0, nil
	}

	if err := r.save(ctx, donations); err != nil {
		return 0, err
	}
	observability.SweepTransitions.Add(float64(expired))
	r.logger.LogUpdate(ctx, map[string]interface{}{"operation": "expire_overdue", "expired": expired})
	return expired, nil
}
