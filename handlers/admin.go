// handlers/admin.go - Admin dashboard endpoints
package handlers

import (
	"bidarena/database"
	"bidarena/models"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats is the admin landing payload.
type DashboardStats struct {
	TotalPlayers   int `json:"total_players"`
	UnsoldPlayers  int `json:"unsold_players"`
	TotalTeams     int `json:"total_teams"`
	ActiveAuctions int `json:"active_auctions"`
	TotalBids      int `json:"total_bids"`
	PointsSpent    int `json:"points_spent"`
}

// GetAdminDashboard returns aggregate counts for the admin console.
func GetAdminDashboard(c *fiber.Ctx) error {
	db := database.GetDB()
	var stats DashboardStats

	var playerCount int64
	db.Model(&models.Player{}).Count(&playerCount)
	stats.TotalPlayers = int(playerCount)

	var unsoldCount int64
	db.Model(&models.Player{}).Where("is_sold = ?", false).Count(&unsoldCount)
	stats.UnsoldPlayers = int(unsoldCount)

	var teamCount int64
	db.Model(&models.Team{}).Count(&teamCount)
	stats.TotalTeams = int(teamCount)

	var activeCount int64
	db.Model(&models.Auction{}).Where("status = ?", models.AuctionActive).Count(&activeCount)
	stats.ActiveAuctions = int(activeCount)

	var bidCount int64
	db.Model(&models.Bid{}).Count(&bidCount)
	stats.TotalBids = int(bidCount)

	var spent int64
	db.Model(&models.Team{}).Select("COALESCE(SUM(used_points), 0)").Scan(&spent)
	stats.PointsSpent = int(spent)

	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// GetAdminUsers lists all accounts for the admin console.
func GetAdminUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.GetDB().Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch users",
		})
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}
