// handlers/bids.go - Bidding endpoints
package handlers

import (
	"errors"

	"bidarena/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlaceBidRequest struct {
	Amount int `json:"amount"`
}

// PlaceBid submits a bid for the auction's current player. The acting team
// comes from the bearer token, never from the request body.
func PlaceBid(c *fiber.Ctx) error {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	teamID, err := middleware.GetTeamID(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}

	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil || req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Bid amount must be a positive integer"})
	}

	bid, err := auctionSvc.PlaceBid(auctionID, teamID, req.Amount)
	if err != nil {
		return engineError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": bid})
}

// GetAuctionBids returns the bid history, newest first.
func GetAuctionBids(c *fiber.Ctx) error {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	bids, err := auctionSvc.GetAuctionBids(auctionID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": bids})
}

// GetCurrentBid returns the winning bid of the open round.
func GetCurrentBid(c *fiber.Ctx) error {
	auctionID, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	bid, err := auctionSvc.GetCurrentBid(auctionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "No winning bid found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": bid})
}
