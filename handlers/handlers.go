// handlers/handlers.go - Handler wiring
package handlers

import (
	"errors"

	"bidarena/services"
	"bidarena/ws"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	auctionSvc *services.AuctionService
	teamSvc    *services.TeamService
	hub        *ws.Hub
)

// InitHandlers wires the handler package to its dependencies. Called once
// from main after the database and hub exist.
func InitHandlers(db *gorm.DB, h *ws.Hub) {
	hub = h
	auctionSvc = services.NewAuctionService(db, h)
	teamSvc = services.NewTeamService(db, h)
}

// engineError maps an engine rejection onto a response with a stable kind,
// so clients can branch without parsing messages. Non-engine errors are
// storage failures: the operation aborted with no partial state and the
// caller may retry.
func engineError(c *fiber.Ctx, err error) error {
	kind := services.ErrorKind(err)
	if kind == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Operation failed. Please retry.",
		})
	}

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrAuctionNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPlayerNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrActiveAuctionExists),
		errors.Is(err, services.ErrPlayerAlreadySold):
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"kind":    kind,
		"error":   err.Error(),
	})
}
