package server

import (
	"github.com/gofiber/fiber/v2"

	"foodsaver/internal/models"
	"foodsaver/internal/repository"
)

// ListDonations returns donations scoped to the caller's role.
func (s *Server) ListDonations(c *fiber.Ctx) error {
	donations, err := s.donationService.List(c.UserContext(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"donations": donations, "count": len(donations)})
}

// ListMyClaims returns the donations the caller has claimed.
func (s *Server) ListMyClaims(c *fiber.Ctx) error {
	donations, err := s.donationService.ListClaimedBy(c.UserContext(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"donations": donations, "count": len(donations)})
}

// GetDonation returns a single donation by id.
func (s *Server) GetDonation(c *fiber.Ctx) error {
	d, err := s.donationService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

// CreateDonation lists a new donation for the caller.
func (s *Server) CreateDonation(c *fiber.Ctx) error {
	var in repository.CreateDonationInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	d, err := s.donationService.Create(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

// ClaimDonation reserves an available donation for the caller.
func (s *Server) ClaimDonation(c *fiber.Ctx) error {
	d, err := s.donationService.Claim(c.UserContext(), actor(c), c.Params("id"), expectedVersion(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

// PickupDonation marks a claimed donation as collected.
func (s *Server) PickupDonation(c *fiber.Ctx) error {
	d, err := s.donationService.Pickup(c.UserContext(), actor(c), c.Params("id"), expectedVersion(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

// CancelDonation withdraws a donation.
func (s *Server) CancelDonation(c *fiber.Ctx) error {
	d, err := s.donationService.Cancel(c.UserContext(), actor(c), c.Params("id"), expectedVersion(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

// DeleteDonation removes a donation. Succeeds even when the id is gone.
func (s *Server) DeleteDonation(c *fiber.Ctx) error {
	if err := s.donationService.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
