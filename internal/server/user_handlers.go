package server

import (
	"github.com/gofiber/fiber/v2"

	"foodsaver/internal/models"
)

// GetMyProfile returns the caller's user record.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	if user == nil {
		return fail(c, models.NewNotFoundError("user", actor(c).UserID))
	}
	return c.JSON(user)
}

type updateProfileRequest struct {
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name"`
}

// UpdateMyProfile updates the caller's display fields. Role changes
// are not possible through this endpoint.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.Update(c.UserContext(), models.User{
		UserID:           actor(c).UserID,
		FullName:         req.FullName,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	if user == nil {
		return fail(c, models.NewNotFoundError("user", actor(c).UserID))
	}
	return c.JSON(user)
}

// GetAllUsers returns every user record.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.ListAll(c.UserContext())
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// DeleteUser removes a user record. Admin only.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	removed, err := s.userRepo.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	if !removed {
		return fail(c, models.NewNotFoundError("user", c.Params("id")))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
