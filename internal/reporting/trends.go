package reporting

import (
	"math"
	"sort"
	"time"

	"foodsaver/internal/models"
)

// MonthBucket is one calendar month of donation activity.
type MonthBucket struct {
	Label   string `json:"label"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Total   int    `json:"total"`
	Claimed int    `json:"claimed"`
	Rate    int    `json:"rate"`
}

// DayBucket is one day of donation activity.
type DayBucket struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// MonthlyTrend buckets the snapshot into the six calendar months ending
// at the month containing now, oldest first. Every bucket is present
// even when empty. Donations created outside the window are ignored.
func MonthlyTrend(snapshot []models.Donation, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 6)
	index := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		m := time.Date(now.Year(), now.Month()-time.Month(5-i), 1, 0, 0, 0, 0, now.Location())
		buckets[i] = MonthBucket{
			Label: m.Format("Jan"),
			Year:  m.Year(),
			Month: int(m.Month()),
		}
		index[m.Format("2006-01")] = i
	}

	for _, d := range snapshot {
		i, ok := index[d.CreatedAt.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		buckets[i].Total++
		if isClaimed(d) {
			buckets[i].Claimed++
		}
	}
	for i := range buckets {
		buckets[i].Rate = percent(buckets[i].Claimed, buckets[i].Total)
	}
	return buckets
}

// DailyTrend buckets the snapshot into the seven days ending today,
// oldest first, labelled by short weekday name.
func DailyTrend(snapshot []models.Donation, now time.Time) []DayBucket {
	buckets := make([]DayBucket, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -(6 - i))
		key := day.Format("2006-01-02")
		buckets[i] = DayBucket{Label: day.Format("Mon"), Date: key}
		index[key] = i
	}

	for _, d := range snapshot {
		if i, ok := index[d.CreatedAt.In(now.Location()).Format("2006-01-02")]; ok {
			buckets[i].Total++
		}
	}
	return buckets
}

// Urgency tiers for an upcoming expiry.
const (
	UrgencyExpired = "expired"
	UrgencyToday   = "today"
	UrgencySoon    = "soon"
	UrgencyLater   = "later"
)

// DaysUntilExpiry is the number of days until expiry, rounded up, so a
// donation expiring in one hour still counts as one day out. Zero or
// negative means already expired.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// UrgencyFor maps days-until-expiry onto a display tier.
func UrgencyFor(days int) string {
	switch {
	case days <= 0:
		return UrgencyExpired
	case days == 1:
		return UrgencyToday
	case days <= 3:
		return UrgencySoon
	default:
		return UrgencyLater
	}
}

// ExpiringRow is an available donation approaching its expiry date.
type ExpiringRow struct {
	Donation models.Donation `json:"donation"`
	Days     int             `json:"days_until_expiry"`
	Urgency  string          `json:"urgency"`
}

// ExpiringWithin lists available donations expiring within the given
// number of days, soonest first. Already-expired entries are excluded,
// that is the sweep's job.
func ExpiringWithin(snapshot []models.Donation, days int, now time.Time) []ExpiringRow {
	var rows []ExpiringRow
	for _, d := range snapshot {
		if d.Status != models.StatusAvailable {
			continue
		}
		left := DaysUntilExpiry(d.ExpiryDate, now)
		if left <= 0 || left > days {
			continue
		}
		rows = append(rows, ExpiringRow{Donation: d, Days: left, Urgency: UrgencyFor(left)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Days < rows[j].Days })
	return rows
}

// Average meal weight used to convert donation counts into kilograms.
const kgPerDonation = 2.3

// Impact is the estimated environmental footprint of rescued food.
type Impact struct {
	Rescued  int `json:"rescued"`
	KgSaved  int `json:"kg_saved"`
	CO2Kg    int `json:"co2_kg"`
	WaterL   int `json:"water_liters"`
	Meals    int `json:"meals"`
	WastedKg int `json:"wasted_kg"`
}

// ComputeImpact derives impact numbers from the snapshot. Rescued
// counts available, claimed and picked-up donations. Downstream figures
// are derived from the rounded kilogram total so the numbers shown
// stay internally consistent.
func ComputeImpact(snapshot []models.Donation) Impact {
	rescued, expired := 0, 0
	for _, d := range snapshot {
		switch d.Status {
		case models.StatusAvailable, models.StatusClaimed, models.StatusPickedUp:
			rescued++
		case models.StatusExpired:
			expired++
		}
	}
	kg := int(math.Round(float64(rescued) * kgPerDonation))
	return Impact{
		Rescued:  rescued,
		KgSaved:  kg,
		CO2Kg:    int(math.Round(float64(kg) * 2.5)),
		WaterL:   int(math.Round(float64(kg) * 170)),
		Meals:    int(math.Round(float64(kg) * 1.8)),
		WastedKg: int(math.Round(float64(expired) * kgPerDonation)),
	}
}
