package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSummaryReport returns the dashboard summary.
func (s *Server) GetSummaryReport(c *fiber.Ctx) error {
	summary, err := s.reportService.Summary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// GetAnalyticsReport returns trends and category breakdowns.
func (s *Server) GetAnalyticsReport(c *fiber.Ctx) error {
	analytics, err := s.reportService.Analytics(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(analytics)
}

// GetSuccessReport returns claim success rates by category and month.
func (s *Server) GetSuccessReport(c *fiber.Ctx) error {
	report, err := s.reportService.Success(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// GetImpactReport returns the environmental impact estimate.
func (s *Server) GetImpactReport(c *fiber.Ctx) error {
	impact, err := s.reportService.Impact(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(impact)
}

// GetExpiringReport lists donations approaching expiry. The window in
// days is set with ?days=N and defaults to 3.
func (s *Server) GetExpiringReport(c *fiber.Ctx) error {
	rows, err := s.reportService.Expiring(c.UserContext(), c.QueryInt("days", 3))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"expiring": rows, "count": len(rows)})
}
