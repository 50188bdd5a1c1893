package service

import (
	"context"
	"time"

	"foodsaver/internal/models"
	"foodsaver/internal/observability"
	"foodsaver/internal/reporting"
	"foodsaver/internal/repository"
)

// ReportService computes reports over a fresh snapshot. Every report
// first expires overdue listings so the numbers never count a stale
// available donation.
type ReportService struct {
	donations repository.DonationRepository
	users     repository.UserRepository
	now       func() time.Time
}

// NewReportService returns a new ReportService.
func NewReportService(donations repository.DonationRepository, users repository.UserRepository) *ReportService {
	return &ReportService{
		donations: donations,
		users:     users,
		now:       time.Now,
	}
}

// snapshot sweeps overdue listings, then loads the donation list.
func (s *ReportService) snapshot(ctx context.Context) ([]models.Donation, error) {
	if _, err := s.donations.ExpireOverdue(ctx, s.now()); err != nil {
		return nil, err
	}
	return s.donations.ListAll(ctx)
}

// Summary is the top-line dashboard report.
type Summary struct {
	Total      int                   `json:"total"`
	ByStatus   map[models.Status]int `json:"by_status"`
	ClaimRate  int                   `json:"claim_rate"`
	WasteRate  int                   `json:"waste_rate"`
	PickupRate int                   `json:"pickup_rate"`
	Users      int                   `json:"users"`
}

// Summary computes the dashboard report.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	observability.ReportRequests.WithLabelValues("summary").Inc()
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Total:      len(snapshot),
		ByStatus:   reporting.StatusCounts(snapshot),
		ClaimRate:  reporting.ClaimRate(snapshot),
		WasteRate:  reporting.WasteRate(snapshot),
		PickupRate: reporting.PickupRate(snapshot),
		Users:      len(users),
	}, nil
}

// Analytics is the full analytics report.
type Analytics struct {
	ByCategory   map[models.Category]int        `json:"by_category"`
	MonthlyTrend []reporting.MonthBucket        `json:"monthly_trend"`
	DailyTrend   []reporting.DayBucket          `json:"daily_trend"`
	Success      []reporting.CategorySuccessRow `json:"category_success"`
	Insight      string                         `json:"insight"`
}

// Analytics computes trends and the category breakdown.
func (s *ReportService) Analytics(ctx context.Context) (*Analytics, error) {
	observability.ReportRequests.WithLabelValues("analytics").Inc()
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Analytics{
		ByCategory:   reporting.CategoryCounts(snapshot),
		MonthlyTrend: reporting.MonthlyTrend(snapshot, now),
		DailyTrend:   reporting.DailyTrend(snapshot, now),
		Success:      reporting.CategorySuccess(snapshot),
		Insight:      reporting.Insight(snapshot),
	}, nil
}

// SuccessReport breaks claim performance down by category and month.
type SuccessReport struct {
	OverallRate int                            `json:"overall_rate"`
	ByCategory  []reporting.CategorySuccessRow `json:"by_category"`
	Monthly     []reporting.MonthBucket        `json:"monthly"`
	Insight     string                         `json:"insight"`
}

// Success computes the claim success-rate report.
func (s *ReportService) Success(ctx context.Context) (*SuccessReport, error) {
	observability.ReportRequests.WithLabelValues("success").Inc()
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &SuccessReport{
		OverallRate: reporting.ClaimRate(snapshot),
		ByCategory:  reporting.CategorySuccess(snapshot),
		Monthly:     reporting.MonthlyTrend(snapshot, s.now()),
		Insight:     reporting.Insight(snapshot),
	}, nil
}

// Impact computes the environmental impact report.
func (s *ReportService) Impact(ctx context.Context) (*reporting.Impact, error) {
	observability.ReportRequests.WithLabelValues("impact").Inc()
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	impact := reporting.ComputeImpact(snapshot)
	return &impact, nil
}

// Expiring lists available donations expiring within the given number
// of days, soonest first.
func (s *ReportService) Expiring(ctx context.Context, days int) ([]reporting.ExpiringRow, error) {
	observability.ReportRequests.WithLabelValues("expiring").Inc()
	if days <= 0 {
		days = 3
	}
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return reporting.ExpiringWithin(snapshot, days, s.now()), nil
}
