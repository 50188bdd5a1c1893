package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodsaver/internal/export"
	"foodsaver/internal/models"
)

func TestReportsRequireAnalystRole(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)
	adminToken := tokenFor(t, srv, "admin-1", models.RoleAdmin)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/reports/summary", nil, donorToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	for _, token := range []string{analystToken, adminToken} {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/reports/summary", nil, token), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestSummaryReport(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	recipientToken := tokenFor(t, srv, "recipient-1", models.RoleRecipient)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	createDonation(t, app, donorToken, "Apples")
	d := createDonation(t, app, donorToken, "Bread")
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/donations/"+d.ID+"/claim", nil, recipientToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/reports/summary", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		Total     int            `json:"total"`
		ByStatus  map[string]int `json:"by_status"`
		ClaimRate int            `json:"claim_rate"`
	}
	decodeBody(t, resp, &summary)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus["available"])
	assert.Equal(t, 1, summary.ByStatus["claimed"])
	assert.Equal(t, 50, summary.ClaimRate)
}

func TestAnalyticsReport(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	createDonation(t, app, donorToken, "Apples")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/reports/analytics", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analytics struct {
		MonthlyTrend []any          `json:"monthly_trend"`
		DailyTrend   []any          `json:"daily_trend"`
		ByCategory   map[string]int `json:"by_category"`
		Insight      string         `json:"insight"`
	}
	decodeBody(t, resp, &analytics)
	assert.Len(t, analytics.MonthlyTrend, 6)
	assert.Len(t, analytics.DailyTrend, 7)
	assert.Equal(t, 1, analytics.ByCategory["produce"])
	assert.NotEmpty(t, analytics.Insight)
}

func TestSuccessReport(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	recipientToken := tokenFor(t, srv, "recipient-1", models.RoleRecipient)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	createDonation(t, app, donorToken, "Apples")
	d := createDonation(t, app, donorToken, "Bread")
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/donations/"+d.ID+"/claim", nil, recipientToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/reports/success", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		OverallRate int `json:"overall_rate"`
		ByCategory  []struct {
			Category string `json:"category"`
			Rate     int    `json:"rate"`
		} `json:"by_category"`
		Monthly []struct {
			Label string `json:"label"`
		} `json:"monthly"`
		Insight string `json:"insight"`
	}
	decodeBody(t, resp, &report)
	assert.Equal(t, 50, report.OverallRate)
	require.Len(t, report.ByCategory, 1)
	assert.Equal(t, "produce", report.ByCategory[0].Category)
	assert.Len(t, report.Monthly, 6)
	assert.NotEmpty(t, report.Insight)
}

func TestImpactReport(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	for i := 0; i < 10; i++ {
		createDonation(t, app, donorToken, "Apples")
	}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/reports/impact", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var impact struct {
		Rescued int `json:"rescued"`
		KgSaved int `json:"kg_saved"`
	}
	decodeBody(t, resp, &impact)
	assert.Equal(t, 10, impact.Rescued)
	assert.Equal(t, 23, impact.KgSaved)
}

func TestExpiringReport(t *testing.T) {
	app, srv := newTestApp(t)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/reports/expiring?days=5", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 0, body.Count)
}

func TestExportDonationsCSV(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	createDonation(t, app, donorToken, "Bread, day-old")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/exports/donations", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "donations.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(export.DonationHeader, ","), lines[0])
	assert.Contains(t, lines[1], `"Bread, day-old"`)
	assert.False(t, strings.HasSuffix(string(raw), "\n"))
}

func TestExportDonationsJSON(t *testing.T) {
	app, srv := newTestApp(t)
	donorToken := tokenFor(t, srv, "donor-1", models.RoleDonor)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	createDonation(t, app, donorToken, "Apples")

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/exports/donations?format=json", nil, analystToken), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var donations []models.Donation
	decodeBody(t, resp, &donations)
	require.Len(t, donations, 1)
	assert.Equal(t, "Apples", donations[0].FoodName)
}

func TestExportUnknownFormat(t *testing.T) {
	app, srv := newTestApp(t)
	analystToken := tokenFor(t, srv, "analyst-1", models.RoleAnalyst)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/exports/users?format=xml", nil, analystToken), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}
