package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodsaver/internal/models"
)

func donation(status models.Status, category models.Category, createdAt time.Time) models.Donation {
	return models.Donation{
		ID:        models.NewDonationID(),
		FoodName:  "Test Item",
		Category:  category,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestStatusCountsZeroFilled(t *testing.T) {
	counts := StatusCounts(nil)
	require.Len(t, counts, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		assert.Equal(t, 0, counts[s])
	}
}

func TestStatusCounts(t *testing.T) {
	now := time.Now()
	snapshot := []models.Donation{
		donation(models.StatusAvailable, models.CategoryProduce, now),
		donation(models.StatusAvailable, models.CategoryBakery, now),
		donation(models.StatusClaimed, models.CategoryDairy, now),
		donation(models.StatusExpired, models.CategoryPrepared, now),
	}
	counts := StatusCounts(snapshot)
	assert.Equal(t, 2, counts[models.StatusAvailable])
	assert.Equal(t, 1, counts[models.StatusClaimed])
	assert.Equal(t, 1, counts[models.StatusExpired])
	assert.Equal(t, 0, counts[models.StatusPickedUp])
	assert.Equal(t, 0, counts[models.StatusCancelled])
}

func TestCategoryCountsZeroFilled(t *testing.T) {
	counts := CategoryCounts(nil)
	require.Len(t, counts, len(models.AllCategories))
	for _, c := range models.AllCategories {
		assert.Equal(t, 0, counts[c])
	}
}

func TestRatesEmptySnapshot(t *testing.T) {
	assert.Equal(t, 0, ClaimRate(nil))
	assert.Equal(t, 0, WasteRate(nil))
	assert.Equal(t, 0, PickupRate(nil))
}

func TestRates(t *testing.T) {
	now := time.Now()
	// 4 donations: 1 claimed, 1 picked up, 1 available, 1 expired.
	snapshot := []models.Donation{
		donation(models.StatusClaimed, models.CategoryProduce, now),
		donation(models.StatusPickedUp, models.CategoryProduce, now),
		donation(models.StatusAvailable, models.CategoryBakery, now),
		donation(models.StatusExpired, models.CategoryDairy, now),
	}
	assert.Equal(t, 50, ClaimRate(snapshot))
	assert.Equal(t, 25, WasteRate(snapshot))
	assert.Equal(t, 50, PickupRate(snapshot))
}

func TestRateRounding(t *testing.T) {
	now := time.Now()
	// 1 of 3 claimed: 33.33 rounds to 33. 2 of 3: 66.67 rounds to 67.
	snapshot := []models.Donation{
		donation(models.StatusClaimed, models.CategoryProduce, now),
		donation(models.StatusAvailable, models.CategoryProduce, now),
		donation(models.StatusAvailable, models.CategoryProduce, now),
	}
	assert.Equal(t, 33, ClaimRate(snapshot))

	snapshot[1].Status = models.StatusPickedUp
	assert.Equal(t, 67, ClaimRate(snapshot))
}

func TestCategorySuccessSorted(t *testing.T) {
	now := time.Now()
	snapshot := []models.Donation{
		donation(models.StatusAvailable, models.CategoryProduce, now),
		donation(models.StatusClaimed, models.CategoryProduce, now),
		donation(models.StatusClaimed, models.CategoryBakery, now),
		donation(models.StatusAvailable, models.CategoryDairy, now),
	}
	rows := CategorySuccess(snapshot)
	require.Len(t, rows, 3)
	assert.Equal(t, models.CategoryBakery, rows[0].Category)
	assert.Equal(t, 100, rows[0].Rate)
	assert.Equal(t, models.CategoryProduce, rows[1].Category)
	assert.Equal(t, 50, rows[1].Rate)
	assert.Equal(t, models.CategoryDairy, rows[2].Category)
	assert.Equal(t, 0, rows[2].Rate)
}

func TestInsightTiers(t *testing.T) {
	now := time.Now()
	build := func(claimed, total int) []models.Donation {
		var snapshot []models.Donation
		for i := 0; i < total; i++ {
			status := models.StatusAvailable
			if i < claimed {
				status = models.StatusClaimed
			}
			snapshot = append(snapshot, donation(status, models.CategoryProduce, now))
		}
		return snapshot
	}

	assert.Equal(t, "Excellent! 80% of donations are claimed. Platform is performing well.",
		Insight(build(8, 10)))
	assert.Contains(t, Insight(build(5, 10)), "Notify recipient organizations")
	assert.Contains(t, Insight(build(1, 10)), "consider sending alerts")
	assert.Contains(t, Insight(nil), "No donations recorded yet")
}

func TestMonthlyTrendSixBuckets(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	var snapshot []models.Donation
	// One donation per month for the past 8 months; only the last 6
	// fall inside the window.
	for i := 0; i < 8; i++ {
		snapshot = append(snapshot, donation(models.StatusAvailable, models.CategoryProduce,
			time.Date(2026, time.August-time.Month(i), 3, 9, 0, 0, 0, time.UTC)))
	}
	snapshot = append(snapshot, donation(models.StatusClaimed, models.CategoryBakery, now))

	buckets := MonthlyTrend(snapshot, now)
	require.Len(t, buckets, 6)

	assert.Equal(t, "Mar", buckets[0].Label)
	assert.Equal(t, "Aug", buckets[5].Label)
	for i, b := range buckets {
		assert.Equal(t, 2026, b.Year)
		assert.Equal(t, int(time.March)+i, b.Month)
	}
	assert.Equal(t, 1, buckets[0].Total)
	assert.Equal(t, 2, buckets[5].Total)
	assert.Equal(t, 1, buckets[5].Claimed)
	assert.Equal(t, 50, buckets[5].Rate)
}

func TestMonthlyTrendEmptyBucketsPresent(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	buckets := MonthlyTrend(nil, now)
	require.Len(t, buckets, 6)
	assert.Equal(t, "Sep", buckets[0].Label)
	assert.Equal(t, 2025, buckets[0].Year)
	assert.Equal(t, "Feb", buckets[5].Label)
	assert.Equal(t, 2026, buckets[5].Year)
	for _, b := range buckets {
		assert.Equal(t, 0, b.Total)
		assert.Equal(t, 0, b.Rate)
	}
}

func TestDailyTrend(t *testing.T) {
	now := time.Date(2026, time.August, 15, 18, 0, 0, 0, time.UTC) // a Saturday

	snapshot := []models.Donation{
		donation(models.StatusAvailable, models.CategoryProduce, now),
		donation(models.StatusAvailable, models.CategoryProduce, now.AddDate(0, 0, -2)),
		donation(models.StatusAvailable, models.CategoryProduce, now.AddDate(0, 0, -2)),
		donation(models.StatusAvailable, models.CategoryProduce, now.AddDate(0, 0, -8)),
	}
	buckets := DailyTrend(snapshot, now)
	require.Len(t, buckets, 7)
	assert.Equal(t, "Sun", buckets[0].Label)
	assert.Equal(t, "Sat", buckets[6].Label)
	assert.Equal(t, 0, buckets[0].Total)
	assert.Equal(t, 2, buckets[4].Total)
	assert.Equal(t, 1, buckets[6].Total)
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"one hour out rounds up to a day", now.Add(time.Hour), 1},
		{"exactly now", now, 0},
		{"an hour ago", now.Add(-time.Hour), 0},
		{"yesterday", now.AddDate(0, 0, -1), -1},
		{"exactly 24h", now.Add(24 * time.Hour), 1},
		{"25h out", now.Add(25 * time.Hour), 2},
		{"three days", now.Add(72 * time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilExpiry(tt.expiry, now))
		})
	}
}

func TestUrgencyFor(t *testing.T) {
	assert.Equal(t, UrgencyExpired, UrgencyFor(0))
	assert.Equal(t, UrgencyExpired, UrgencyFor(-3))
	assert.Equal(t, UrgencyToday, UrgencyFor(1))
	assert.Equal(t, UrgencySoon, UrgencyFor(2))
	assert.Equal(t, UrgencySoon, UrgencyFor(3))
	assert.Equal(t, UrgencyLater, UrgencyFor(4))
}

func TestExpiringWithin(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	later := donation(models.StatusAvailable, models.CategoryProduce, now)
	later.ExpiryDate = now.Add(60 * time.Hour)
	soon := donation(models.StatusAvailable, models.CategoryBakery, now)
	soon.ExpiryDate = now.Add(12 * time.Hour)
	gone := donation(models.StatusAvailable, models.CategoryDairy, now)
	gone.ExpiryDate = now.Add(-time.Hour)
	claimed := donation(models.StatusClaimed, models.CategoryPrepared, now)
	claimed.ExpiryDate = now.Add(12 * time.Hour)
	faraway := donation(models.StatusAvailable, models.CategoryPantry, now)
	faraway.ExpiryDate = now.Add(10 * 24 * time.Hour)

	rows := ExpiringWithin([]models.Donation{later, soon, gone, claimed, faraway}, 3, now)
	require.Len(t, rows, 2)
	assert.Equal(t, soon.ID, rows[0].Donation.ID)
	assert.Equal(t, 1, rows[0].Days)
	assert.Equal(t, UrgencyToday, rows[0].Urgency)
	assert.Equal(t, later.ID, rows[1].Donation.ID)
	assert.Equal(t, 3, rows[1].Days)
	assert.Equal(t, UrgencySoon, rows[1].Urgency)
}

func TestComputeImpact(t *testing.T) {
	now := time.Now()
	var snapshot []models.Donation
	for i := 0; i < 3; i++ {
		snapshot = append(snapshot, donation(models.StatusAvailable, models.CategoryProduce, now))
	}
	for i := 0; i < 4; i++ {
		snapshot = append(snapshot, donation(models.StatusClaimed, models.CategoryProduce, now))
	}
	for i := 0; i < 3; i++ {
		snapshot = append(snapshot, donation(models.StatusPickedUp, models.CategoryProduce, now))
	}
	snapshot = append(snapshot, donation(models.StatusExpired, models.CategoryProduce, now))
	snapshot = append(snapshot, donation(models.StatusCancelled, models.CategoryProduce, now))

	impact := ComputeImpact(snapshot)
	assert.Equal(t, 10, impact.Rescued)
	assert.Equal(t, 23, impact.KgSaved)
	assert.Equal(t, 58, impact.CO2Kg)   // round(23 * 2.5)
	assert.Equal(t, 3910, impact.WaterL)
	assert.Equal(t, 41, impact.Meals)   // round(23 * 1.8)
	assert.Equal(t, 2, impact.WastedKg) // round(1 * 2.3)
}

func TestComputeImpactEmpty(t *testing.T) {
	impact := ComputeImpact(nil)
	assert.Equal(t, Impact{}, impact)
}
