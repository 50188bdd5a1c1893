package server

import (
	"github.com/gofiber/fiber/v2"

	"foodsaver/internal/auth"
	"foodsaver/internal/models"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	FullName     string `json:"full_name"`
	Organization string `json:"organization_name"`
}

type authResponse struct {
	Token   string         `json:"token"`
	User    models.User    `json:"user"`
	Session models.Session `json:"session"`
}

// SignIn authenticates credentials and issues a JWT.
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.provider.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := s.generateToken(result.User.UserID, result.User.Role)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(authResponse{
		Token:   token,
		User:    result.User,
		Session: result.Session,
	})
}

// SignUp registers a new account and signs it in.
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.provider.SignUp(c.UserContext(), auth.SignUpInput{
		Email:        req.Email,
		Password:     req.Password,
		Role:         models.Role(req.Role),
		FullName:     req.FullName,
		Organization: req.Organization,
	})
	if err != nil {
		return fail(c, err)
	}

	token, err := s.generateToken(result.User.UserID, result.User.Role)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Token:   token,
		User:    result.User,
		Session: result.Session,
	})
}

// SignOut removes the caller's stored session.
func (s *Server) SignOut(c *fiber.Ctx) error {
	if err := s.provider.SignOut(c.UserContext(), actor(c).UserID); err != nil {
		return fail(c, models.NewInternalError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSession returns the caller's stored session, or 404 when signed out.
func (s *Server) GetSession(c *fiber.Ctx) error {
	session, err := s.provider.CurrentSession(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}
	if session == nil {
		return fail(c, models.NewNotFoundError("session", actor(c).UserID))
	}
	return c.JSON(session)
}
