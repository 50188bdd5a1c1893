package server

import (
	"github.com/gofiber/fiber/v2"

	"foodsaver/internal/export"
	"foodsaver/internal/models"
)

// ExportDonations streams every donation as CSV or JSON, selected with
// ?format=csv|json (default csv).
func (s *Server) ExportDonations(c *fiber.Ctx) error {
	donations, err := s.donationService.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	switch c.Query("format", "csv") {
	case "json":
		payload, err := export.JSON(donations)
		if err != nil {
			return fail(c, models.NewInternalError(err))
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="donations.json"`)
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(payload)
	case "csv":
		csv := export.CSV(export.DonationHeader, export.DonationRows(donations))
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="donations.csv"`)
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.SendString(csv)
	default:
		return fail(c, models.NewValidationError("format must be csv or json"))
	}
}

// ExportUsers streams every user record as CSV or JSON.
func (s *Server) ExportUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.ListAll(c.UserContext())
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	switch c.Query("format", "csv") {
	case "json":
		payload, err := export.JSON(users)
		if err != nil {
			return fail(c, models.NewInternalError(err))
		}
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.json"`)
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(payload)
	case "csv":
		csv := export.CSV(export.UserHeader, export.UserRows(users))
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.SendString(csv)
	default:
		return fail(c, models.NewValidationError("format must be csv or json"))
	}
}
