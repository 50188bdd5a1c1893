package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"foodsaver/internal/middleware"
	"foodsaver/internal/models"
)

// actor returns the authenticated actor placed in locals by the auth
// middleware.
func actor(c *fiber.Ctx) models.Actor {
	return middleware.ActorFromContext(c)
}

// expectedVersion reads the optional optimistic concurrency version
// from the request body or query. Zero means "don't check".
func expectedVersion(c *fiber.Ctx) int {
	if v := c.Query("expected_version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	var body struct {
		ExpectedVersion int `json:"expected_version"`
	}
	if err := c.BodyParser(&body); err == nil {
		return body.ExpectedVersion
	}
	return 0
}

// fail maps an application error onto its HTTP status and renders the
// standard error body.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
