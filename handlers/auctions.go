// handlers/auctions.go - Auction lifecycle endpoints
package handlers

import (
	"bidarena/database"
	"bidarena/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAuctionRequest struct {
	Title     string `json:"title"`
	QueueSeed int64  `json:"queue_seed"`
	AutoStart bool   `json:"auto_start"`
}

type AssignPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

func parseAuctionID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetAuctions lists auctions, optionally filtered by ?status=.
func GetAuctions(c *fiber.Ctx) error {
	auctions, err := auctionSvc.GetAuctions(c.Query("status"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": auctions})
}

// GetAuction returns one auction with its current player and winning team
// attached, enough for a dashboard to render the live round.
func GetAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	auction, err := auctionSvc.GetAuction(id)
	if err != nil {
		return engineError(c, err)
	}

	db := database.GetDB()
	response := fiber.Map{"auction": auction}
	if auction.CurrentPlayerID != nil {
		var player models.Player
		if err := db.First(&player, "id = ?", *auction.CurrentPlayerID).Error; err == nil {
			response["current_player"] = player
		}
	}
	if auction.WinningTeamID != nil {
		var team models.Team
		if err := db.First(&team, "id = ?", *auction.WinningTeamID).Error; err == nil {
			response["winning_team"] = team
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": response})
}

// CreateAuction creates a pending auction and seeds its queue.
func CreateAuction(c *fiber.Ctx) error {
	var req CreateAuctionRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Auction title is required"})
	}

	auction, err := auctionSvc.CreateAuction(req.Title, req.QueueSeed, req.AutoStart)
	if err != nil {
		return engineError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": auction})
}

// UpdateAuction updates auction metadata.
func UpdateAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	auction, err := auctionSvc.UpdateAuction(id, req.Title)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": auction})
}

// StartAuction opens the first bidding round.
func StartAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	auction, player, err := auctionSvc.StartAuction(id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"auction": auction,
		"player":  player,
	}})
}

// EndAuction forces the auction to completed, finalizing any open round.
func EndAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	auction, err := auctionSvc.EndAuction(id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": auction})
}

// NextPlayer closes the current round and advances the queue.
func NextPlayer(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	auction, player, err := auctionSvc.NextPlayer(id)
	if err != nil {
		return engineError(c, err)
	}

	data := fiber.Map{"auction": auction, "player": player}
	if player == nil {
		data["message"] = "Queue exhausted, auction completed"
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// AssignPlayerToAuction puts a specific unsold player up for bidding,
// bypassing queue order.
func AssignPlayerToAuction(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	var req AssignPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	auction, player, err := auctionSvc.AssignPlayer(id, playerID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"auction": auction,
		"player":  player,
	}})
}

// GetAuctionStatus returns a compact live view for the admin console:
// state, current bid, and how many players remain in the queue.
func GetAuctionStatus(c *fiber.Ctx) error {
	id, ok := parseAuctionID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid auction ID"})
	}

	auction, err := auctionSvc.GetAuction(id)
	if err != nil {
		return engineError(c, err)
	}

	remaining, err := auctionSvc.QueueLength(id)
	if err != nil {
		return engineError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"status":            auction.Status,
		"current_player_id": auction.CurrentPlayerID,
		"current_bid":       auction.CurrentBid,
		"winning_team_id":   auction.WinningTeamID,
		"queue_remaining":   remaining,
	}})
}

// GetAvailablePlayers lists unsold players for manual assignment.
func GetAvailablePlayers(c *fiber.Ctx) error {
	players, err := auctionSvc.AvailablePlayers()
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": players})
}
