// Package reporting computes aggregates over a donation snapshot. Every
// function is pure: identical snapshot in, identical output out, with
// "now" always an explicit parameter.
package reporting

import (
	"math"
	"sort"
	"strconv"

	"foodsaver/internal/models"
)

// StatusCounts returns the count per status across the full five-value
// enumeration, zero-filled.
func StatusCounts(snapshot []models.Donation) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, d := range snapshot {
		counts[d.Status]++
	}
	return counts
}

// CategoryCounts returns the count per category across the full
// enumeration, zero-filled so consumers can decide rendering.
func CategoryCounts(snapshot []models.Donation) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.AllCategories))
	for _, c := range models.AllCategories {
		counts[c] = 0
	}
	for _, d := range snapshot {
		counts[d.Category]++
	}
	return counts
}

// isClaimed reports whether the donation was successfully claimed
// (claimed or already picked up).
func isClaimed(d models.Donation) bool {
	return d.Status == models.StatusClaimed || d.Status == models.StatusPickedUp
}

// percent returns part/whole as a rounded integer percent, 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// ClaimRate is the share of donations claimed or picked up, in integer
// percent. 0 for an empty snapshot.
func ClaimRate(snapshot []models.Donation) int {
	claimed := 0
	for _, d := range snapshot {
		if isClaimed(d) {
			claimed++
		}
	}
	return percent(claimed, len(snapshot))
}

// WasteRate is the share of donations that expired, in integer percent.
func WasteRate(snapshot []models.Donation) int {
	expired := 0
	for _, d := range snapshot {
		if d.Status == models.StatusExpired {
			expired++
		}
	}
	return percent(expired, len(snapshot))
}

// PickupRate is the share of claimed donations that were actually
// picked up, in integer percent. 0 when nothing was claimed.
func PickupRate(snapshot []models.Donation) int {
	claimed, pickedUp := 0, 0
	for _, d := range snapshot {
		if isClaimed(d) {
			claimed++
		}
		if d.Status == models.StatusPickedUp {
			pickedUp++
		}
	}
	return percent(pickedUp, claimed)
}

// CategorySuccessRow is the claim performance of one category.
type CategorySuccessRow struct {
	Category models.Category `json:"category"`
	Total    int             `json:"total"`
	Claimed  int             `json:"claimed"`
	Rate     int             `json:"rate"`
}

// CategorySuccess breaks claim rate down by category, restricted to
// categories present in the snapshot, sorted by rate descending.
func CategorySuccess(snapshot []models.Donation) []CategorySuccessRow {
	totals := make(map[models.Category]int)
	claimed := make(map[models.Category]int)
	var order []models.Category
	for _, d := range snapshot {
		if totals[d.Category] == 0 && claimed[d.Category] == 0 {
			order = append(order, d.Category)
		}
		totals[d.Category]++
		if isClaimed(d) {
			claimed[d.Category]++
		}
	}

	rows := make([]CategorySuccessRow, 0, len(order))
	for _, c := range order {
		rows = append(rows, CategorySuccessRow{
			Category: c,
			Total:    totals[c],
			Claimed:  claimed[c],
			Rate:     percent(claimed[c], totals[c]),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	return rows
}

// Insight returns the analytics headline for the snapshot.
func Insight(snapshot []models.Donation) string {
	if len(snapshot) == 0 {
		return "No donations recorded yet. Data will appear once donors list food."
	}
	rate := ClaimRate(snapshot)
	switch {
	case rate >= 70:
		return "Excellent! " + strconv.Itoa(rate) + "% of donations are claimed. Platform is performing well."
	case rate >= 40:
		return strconv.Itoa(rate) + "% claim rate. Notify recipient organizations earlier to boost pickups."
	default:
		return strconv.Itoa(rate) + "% claim rate — consider sending alerts to recipients when new items are listed."
	}
}
