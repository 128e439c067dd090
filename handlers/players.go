// handlers/players.go - Player roster endpoints
package handlers

import (
	"time"

	"bidarena/database"
	"bidarena/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreatePlayerRequest struct {
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"date_of_birth"`
	Mobile          string `json:"mobile"`
	PlayingCategory string `json:"playing_category"`
	Accomplishments string `json:"accomplishments"`
	BasePrice       int    `json:"base_price"`
}

// GetPlayers lists players with optional ?status= (sold/unsold) and
// ?category= (playing category) filters.
func GetPlayers(c *fiber.Ctx) error {
	db := database.GetDB()
	query := db.Model(&models.Player{})

	switch c.Query("status") {
	case "sold":
		query = query.Where("is_sold = ?", true)
	case "unsold":
		query = query.Where("is_sold = ?", false)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("playing_category = ?", category)
	}

	var players []models.Player
	if err := query.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch players"})
	}
	return c.JSON(fiber.Map{"success": true, "data": players})
}

// GetPlayersByCategory groups players into the auction presentation
// categories.
func GetPlayersByCategory(c *fiber.Ctx) error {
	db := database.GetDB()
	query := db.Model(&models.Player{})

	switch c.Query("status") {
	case "sold":
		query = query.Where("is_sold = ?", true)
	case "unsold":
		query = query.Where("is_sold = ?", false)
	}

	var players []models.Player
	if err := query.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch players"})
	}

	grouped := map[string][]models.Player{
		models.CategoryWomen:      {},
		models.CategoryMenUnder35: {},
		models.CategoryMen35Plus:  {},
	}
	for _, p := range players {
		if cat := p.GetPlayerCategory(); cat != "unknown" {
			grouped[cat] = append(grouped[cat], p)
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": grouped})
}

// GetPlayer returns one player.
func GetPlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	var player models.Player
	if err := database.GetDB().First(&player, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Player not found"})
	}
	return c.JSON(fiber.Map{"success": true, "data": player})
}

// CreatePlayer registers a player for the auction (admin).
func CreatePlayer(c *fiber.Ctx) error {
	var req CreatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Name == "" || req.Gender == "" || req.DateOfBirth == "" || req.PlayingCategory == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Name, gender, date of birth and playing category are required"})
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid date format, expected YYYY-MM-DD"})
	}

	basePrice := req.BasePrice
	if basePrice <= 0 {
		basePrice = models.DefaultBasePrice
	}

	player := models.Player{
		Name:            req.Name,
		Gender:          req.Gender,
		DateOfBirth:     dob,
		Mobile:          req.Mobile,
		PlayingCategory: req.PlayingCategory,
		Accomplishments: req.Accomplishments,
		BasePrice:       basePrice,
		CurrentPrice:    basePrice,
	}
	if err := database.GetDB().Create(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create player"})
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": player})
}

// UpdatePlayer updates player profile fields (admin). Ownership and sale
// state are engine-owned and not writable here.
func UpdatePlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	db := database.GetDB()
	var player models.Player
	if err := db.First(&player, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Player not found"})
	}

	var req CreatePlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if req.Name != "" {
		player.Name = req.Name
	}
	if req.Mobile != "" {
		player.Mobile = req.Mobile
	}
	if req.PlayingCategory != "" {
		player.PlayingCategory = req.PlayingCategory
	}
	if req.Accomplishments != "" {
		player.Accomplishments = req.Accomplishments
	}

	if err := db.Save(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update player"})
	}
	return c.JSON(fiber.Map{"success": true, "data": player})
}

// DeletePlayer removes an unsold player from the roster (admin).
func DeletePlayer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	db := database.GetDB()
	var player models.Player
	if err := db.First(&player, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Player not found"})
	}
	if player.IsSold {
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "Sold players cannot be deleted"})
	}

	if err := db.Delete(&player).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete player"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Player deleted successfully"})
}
