// Package service provides application business logic (donations, reports, sweeping).
package service

import (
	"context"
	"fmt"
	"time"

	"foodsaver/internal/models"
	"foodsaver/internal/repository"
)

// DonationService coordinates donation mutations with the claim ledger.
type DonationService struct {
	donations repository.DonationRepository
	ledger    repository.ClaimLedger
	now       func() time.Time
}

// NewDonationService returns a new DonationService.
func NewDonationService(donations repository.DonationRepository, ledger repository.ClaimLedger) *DonationService {
	return &DonationService{
		donations: donations,
		ledger:    ledger,
		now:       time.Now,
	}
}

// List returns donations scoped to what the actor may see. Donors see
// their own listings, recipients see what is available, admins and
// analysts see everything.
func (s *DonationService) List(ctx context.Context, actor models.Actor) ([]models.Donation, error) {
	switch actor.Role {
	case models.RoleDonor:
		return s.donations.ListByOwner(ctx, actor.UserID)
	case models.RoleRecipient:
		return s.donations.ListAvailable(ctx)
	default:
		return s.donations.ListAll(ctx)
	}
}

// ListAll returns every donation regardless of actor.
func (s *DonationService) ListAll(ctx context.Context) ([]models.Donation, error) {
	return s.donations.ListAll(ctx)
}

// ListClaimedBy returns the donations the actor has claimed, including
// ones already picked up.
func (s *DonationService) ListClaimedBy(ctx context.Context, actor models.Actor) ([]models.Donation, error) {
	all, err := s.donations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	claimed := make([]models.Donation, 0)
	for _, d := range all {
		if d.ClaimedBy == actor.UserID {
			claimed = append(claimed, d)
		}
	}
	return claimed, nil
}

// Get returns one donation, or a not-found error.
func (s *DonationService) Get(ctx context.Context, id string) (*models.Donation, error) {
	d, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, models.NewNotFoundError("donation", id)
	}
	return d, nil
}

// Create lists a new donation on behalf of the actor. Only donors and
// admins may list food.
func (s *DonationService) Create(ctx context.Context, actor models.Actor, in repository.CreateDonationInput) (*models.Donation, error) {
	if actor.Role != models.RoleDonor && !actor.IsAdmin() {
		return nil, models.NewForbiddenError("only donors can list donations")
	}
	in.DonorID = actor.UserID
	return s.donations.Create(ctx, in)
}

// Claim reserves an available donation for the actor and records it in
// the claim ledger.
func (s *DonationService) Claim(ctx context.Context, actor models.Actor, id string, expectedVersion int) (*models.Donation, error) {
	d, err := s.transition(ctx, actor, id, models.StatusClaimed, expectedVersion)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RecordClaim(ctx, d.ID); err != nil {
		return nil, fmt.Errorf("recording claim: %w", err)
	}
	return d, nil
}

// Pickup marks a claimed donation as collected.
func (s *DonationService) Pickup(ctx context.Context, actor models.Actor, id string, expectedVersion int) (*models.Donation, error) {
	return s.transition(ctx, actor, id, models.StatusPickedUp, expectedVersion)
}

// Cancel withdraws a donation and releases any claim on it.
func (s *DonationService) Cancel(ctx context.Context, actor models.Actor, id string, expectedVersion int) (*models.Donation, error) {
	d, err := s.transition(ctx, actor, id, models.StatusCancelled, expectedVersion)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RemoveClaim(ctx, d.ID); err != nil {
		return nil, fmt.Errorf("releasing claim: %w", err)
	}
	return d, nil
}

func (s *DonationService) transition(ctx context.Context, actor models.Actor, id string, next models.Status, expectedVersion int) (*models.Donation, error) {
	d, err := s.donations.UpdateStatus(ctx, id, next, actor, expectedVersion)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, models.NewNotFoundError("donation", id)
	}
	return d, nil
}

// Delete removes a donation and its ledger entry. Deleting an id that
// does not exist succeeds.
func (s *DonationService) Delete(ctx context.Context, actor models.Actor, id string) error {
	removed, err := s.donations.Delete(ctx, id, actor)
	if err != nil {
		return err
	}
	if removed {
		if err := s.ledger.RemoveClaim(ctx, id); err != nil {
			return fmt.Errorf("releasing claim: %w", err)
		}
	}
	return nil
}
