// Package export renders donation and user data as CSV or indented
// JSON for download endpoints.
package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"foodsaver/internal/models"
)

// escapeField quotes a CSV field when it contains a comma, a double
// quote or a newline, doubling any embedded quotes. Other fields pass
// through unchanged.
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// CSV renders a header row plus data rows. Rows are joined with a bare
// newline and the output carries no trailing newline.
func CSV(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(row []string) {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeField(field))
		}
	}
	writeRow(header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(row)
	}
	return b.String()
}

// JSON renders v as two-space indented JSON.
func JSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// DonationHeader is the column order for donation exports.
var DonationHeader = []string{
	"id", "food_name", "category", "quantity", "pickup_location",
	"description", "expiry_date", "donor_id", "claimed_by", "status",
	"created_at",
}

// DonationRows flattens donations into CSV rows matching DonationHeader.
func DonationRows(donations []models.Donation) [][]string {
	rows := make([][]string, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, []string{
			d.ID,
			d.FoodName,
			string(d.Category),
			d.Quantity,
			d.PickupLocation,
			d.Description,
			formatTime(d.ExpiryDate),
			d.DonorID,
			d.ClaimedBy,
			string(d.Status),
			formatTime(d.CreatedAt),
		})
	}
	return rows
}

// UserHeader is the column order for user exports.
var UserHeader = []string{"user_id", "full_name", "organization_name", "role", "created_at"}

// UserRows flattens users into CSV rows matching UserHeader.
func UserRows(users []models.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.UserID,
			u.FullName,
			u.OrganizationName,
			string(u.Role),
			formatTime(u.CreatedAt),
		})
	}
	return rows
}

// SummaryRows flattens a label-to-count report into two-column rows.
func SummaryRows(labels []string, counts map[string]int) [][]string {
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label, strconv.Itoa(counts[label])})
	}
	return rows
}
