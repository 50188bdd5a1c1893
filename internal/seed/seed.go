// Package seed provides helpers to create demo data for the donation
// store. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"foodsaver/internal/models"
	"foodsaver/internal/repository"
	"foodsaver/internal/storage"
)

// Options controls how much demo data is generated.
type Options struct {
	Donors     int
	Recipients int
	Donations  int
	// MaxDays spreads created_at over the past N days so trend
	// reports have something to show.
	MaxDays int
	Seed    int64
}

// DefaultOptions returns a sensible demo data volume.
func DefaultOptions() Options {
	return Options{
		Donors:     6,
		Recipients: 4,
		Donations:  60,
		MaxDays:    150,
	}
}

// foodsByCategory holds realistic item names per category. gofakeit's
// generic food names don't map onto donation categories, so the names
// are curated and only quantities and locations are generated.
var foodsByCategory = map[models.Category][]string{
	models.CategoryProduce:   {"Apples", "Bananas", "Mixed Salad Greens", "Carrots", "Tomatoes", "Potatoes"},
	models.CategoryBakery:    {"Sourdough Loaves", "Bagels", "Croissants", "Sandwich Bread", "Muffins"},
	models.CategoryDairy:     {"Whole Milk", "Greek Yogurt", "Cheddar Cheese", "Butter"},
	models.CategoryPrepared:  {"Vegetable Soup", "Pasta Trays", "Rice Bowls", "Sandwich Platters"},
	models.CategoryPantry:    {"Canned Beans", "Rice", "Pasta", "Peanut Butter", "Cereal"},
	models.CategoryBeverages: {"Orange Juice", "Bottled Water", "Cold Brew Coffee"},
	models.CategoryOther:     {"Baby Food Jars", "Protein Bars", "Frozen Berries"},
}

// Seeder writes demo users and donations through the repositories so
// the generated data passes the same validation as real requests.
type Seeder struct {
	store     storage.Store
	users     repository.UserRepository
	donations repository.DonationRepository
	ledger    repository.ClaimLedger
	opts      Options
	rng       *rand.Rand
	now       time.Time
}

// New creates a Seeder over the given store.
func New(store storage.Store, opts Options) *Seeder {
	seedVal := opts.Seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	gofakeit.Seed(seedVal)
	return &Seeder{
		store:     store,
		users:     repository.NewUserRepository(store),
		donations: repository.NewDonationRepository(store),
		ledger:    repository.NewClaimLedger(store),
		opts:      opts,
		rng:       rand.New(rand.NewSource(seedVal)),
		now:       time.Now(),
	}
}

// Result summarizes what a Run produced.
type Result struct {
	Users     int
	Donations int
	Claimed   int
}

// Run generates users and donations. It is additive: existing data is
// left in place.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	donors, recipients, err := s.seedUsers(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Users: len(donors) + len(recipients)}
	for i := 0; i < s.opts.Donations; i++ {
		donor := donors[s.rng.Intn(len(donors))]
		d, err := s.seedDonation(ctx, donor)
		if err != nil {
			return nil, fmt.Errorf("seeding donation %d: %w", i, err)
		}
		res.Donations++

		claimed, err := s.ageDonation(ctx, d, recipients)
		if err != nil {
			return nil, fmt.Errorf("aging donation %d: %w", i, err)
		}
		if claimed {
			res.Claimed++
		}
	}
	if err := s.spreadCreatedAt(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// spreadCreatedAt rewrites created_at over the past MaxDays so trend
// buckets are populated. Repositories stamp creation time themselves,
// so this adjusts the stored slot directly.
func (s *Seeder) spreadCreatedAt(ctx context.Context) error {
	maxDays := s.opts.MaxDays
	if maxDays <= 0 {
		return nil
	}

	raw, err := s.store.Get(ctx, storage.SlotDonations)
	if err != nil {
		if err == storage.ErrSlotNotFound {
			return nil
		}
		return err
	}
	var donations []models.Donation
	if err := json.Unmarshal(raw, &donations); err != nil {
		return fmt.Errorf("decoding donations slot: %w", err)
	}
	for i := range donations {
		back := time.Duration(s.rng.Intn(maxDays*24)) * time.Hour
		donations[i].CreatedAt = s.now.Add(-back)
	}
	encoded, err := json.Marshal(donations)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storage.SlotDonations, encoded)
}

func (s *Seeder) seedUsers(ctx context.Context) (donors, recipients []models.User, err error) {
	for i := 0; i < s.opts.Donors; i++ {
		u, err := s.users.Upsert(ctx, models.User{
			UserID:           fmt.Sprintf("donor-seed-%d", i+1),
			FullName:         gofakeit.Name(),
			OrganizationName: gofakeit.Company(),
			Role:             models.RoleDonor,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("seeding donor %d: %w", i, err)
		}
		donors = append(donors, *u)
	}
	for i := 0; i < s.opts.Recipients; i++ {
		u, err := s.users.Upsert(ctx, models.User{
			UserID:           fmt.Sprintf("recipient-seed-%d", i+1),
			FullName:         gofakeit.Name(),
			OrganizationName: gofakeit.Company() + " Food Bank",
			Role:             models.RoleRecipient,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("seeding recipient %d: %w", i, err)
		}
		recipients = append(recipients, *u)
	}
	return donors, recipients, nil
}

func (s *Seeder) seedDonation(ctx context.Context, donor models.User) (*models.Donation, error) {
	category := models.AllCategories[s.rng.Intn(len(models.AllCategories))]
	names := foodsByCategory[category]

	return s.donations.Create(ctx, repository.CreateDonationInput{
		FoodName:       names[s.rng.Intn(len(names))],
		Category:       string(category),
		Quantity:       fmt.Sprintf("%d kg", 1+s.rng.Intn(20)),
		PickupLocation: gofakeit.Street() + ", " + gofakeit.City(),
		Description:    gofakeit.Sentence(8),
		ExpiryDate:     s.now.Add(time.Duration(6+s.rng.Intn(240)) * time.Hour),
		DonorID:        donor.UserID,
	})
}

// ageDonation pushes some listings through their lifecycle so reports
// show a mix of statuses. Roughly half get claimed, and half of those
// get picked up.
func (s *Seeder) ageDonation(ctx context.Context, d *models.Donation, recipients []models.User) (bool, error) {
	if s.rng.Intn(100) >= 55 {
		return false, nil
	}
	recipient := recipients[s.rng.Intn(len(recipients))]
	actor := models.Actor{UserID: recipient.UserID, Role: models.RoleRecipient}

	claimed, err := s.donations.UpdateStatus(ctx, d.ID, models.StatusClaimed, actor, 0)
	if err != nil || claimed == nil {
		return false, err
	}
	if err := s.ledger.RecordClaim(ctx, d.ID); err != nil {
		return false, err
	}

	if s.rng.Intn(100) < 50 {
		if _, err := s.donations.UpdateStatus(ctx, d.ID, models.StatusPickedUp, actor, 0); err != nil {
			return true, err
		}
	}
	return true, nil
}
