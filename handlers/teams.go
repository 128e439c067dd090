// handlers/teams.go - Team and team-portal endpoints
package handlers

import (
	"bidarena/database"
	"bidarena/middleware"
	"bidarena/models"
	"bidarena/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TeamDashboard is the team portal's landing payload.
type TeamDashboard struct {
	TeamID          string          `json:"team_id"`
	TeamName        string          `json:"team_name"`
	TotalPoints     int             `json:"total_points"`
	UsedPoints      int             `json:"used_points"`
	RemainingPoints int             `json:"remaining_points"`
	PlayerCount     int             `json:"player_count"`
	MinPlayers      int             `json:"min_players"`
	MaxPlayers      int             `json:"max_players"`
	Players         []models.Player `json:"players"`
	RecentBids      []models.Bid    `json:"recent_bids"`
}

func parseTeamID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetTeams lists all teams with rosters.
func GetTeams(c *fiber.Ctx) error {
	teams, err := teamSvc.GetTeams()
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": teams})
}

// GetTeam returns one team with its roster.
func GetTeam(c *fiber.Ctx) error {
	id, ok := parseTeamID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamSvc.GetTeam(id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": team})
}

// CreateTeam creates a franchise (admin).
func CreateTeam(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Team name is required"})
	}

	team, err := teamSvc.CreateTeam(req.Name)
	if err != nil {
		return engineError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"success": true, "data": team})
}

// UpdateTeamPoints overrides a team's used points (admin).
func UpdateTeamPoints(c *fiber.Ctx) error {
	id, ok := parseTeamID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		UsedPoints int `json:"used_points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	team, err := teamSvc.UpdateUsedPoints(id, req.UsedPoints)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": team})
}

// AssignPlayerToTeam performs the admin override sale.
func AssignPlayerToTeam(c *fiber.Ctx) error {
	id, ok := parseTeamID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		PlayerID string `json:"player_id"`
		Points   int    `json:"points"`
	}
	if err := c.BodyParser(&req); err != nil || req.Points <= 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "player_id and positive points are required"})
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	player, team, err := teamSvc.AssignPlayerToTeam(id, playerID, req.Points)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"player": player,
		"team":   team,
	}})
}

// GetTeamPlayers lists one team's roster.
func GetTeamPlayers(c *fiber.Ctx) error {
	id, ok := parseTeamID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var players []models.Player
	if err := database.GetDB().Where("current_team_id = ?", id).Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch team players"})
	}
	return c.JSON(fiber.Map{"success": true, "data": players})
}

// GetTeamPoints returns a team's budget summary.
func GetTeamPoints(c *fiber.Ctx) error {
	id, ok := parseTeamID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamSvc.GetTeam(id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"total_points":     team.TotalPoints,
		"used_points":      team.UsedPoints,
		"remaining_points": team.RemainingPoints(),
		"min_players":      team.MinPlayers,
		"max_players":      team.MaxPlayers,
	}})
}

// ================== TEAM PORTAL (acting team from token) ==================

// GetTeamDashboard returns the acting team's dashboard.
func GetTeamDashboard(c *fiber.Ctx) error {
	teamID, err := middleware.GetTeamID(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}

	team, err := teamSvc.GetTeam(teamID)
	if err != nil {
		return engineError(c, err)
	}

	var recentBids []models.Bid
	database.GetDB().Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentBids)

	dashboard := TeamDashboard{
		TeamID:          team.ID.String(),
		TeamName:        team.Name,
		TotalPoints:     team.TotalPoints,
		UsedPoints:      team.UsedPoints,
		RemainingPoints: team.RemainingPoints(),
		PlayerCount:     len(team.Players),
		MinPlayers:      team.MinPlayers,
		MaxPlayers:      team.MaxPlayers,
		Players:         team.Players,
		RecentBids:      recentBids,
	}
	return c.JSON(fiber.Map{"success": true, "data": dashboard})
}

// GetTeamRoster lists the acting team's players.
func GetTeamRoster(c *fiber.Ctx) error {
	teamID, err := middleware.GetTeamID(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}

	var players []models.Player
	if err := database.GetDB().Where("current_team_id = ?", teamID).Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch roster"})
	}
	return c.JSON(fiber.Map{"success": true, "data": players})
}

// GetTeamBudget returns the acting team's budget.
func GetTeamBudget(c *fiber.Ctx) error {
	teamID, err := middleware.GetTeamID(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}

	team, err := teamSvc.GetTeam(teamID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"total_points":     team.TotalPoints,
		"used_points":      team.UsedPoints,
		"remaining_points": team.RemainingPoints(),
		"min_players":      team.MinPlayers,
		"max_players":      team.MaxPlayers,
	}})
}

// RetainPlayer marks a player as retained by the acting team.
func RetainPlayer(c *fiber.Ctx) error {
	teamID, err := middleware.GetTeamID(c)
	if err != nil {
		e := err.(*fiber.Error)
		return c.Status(e.Code).JSON(fiber.Map{"success": false, "error": e.Message})
	}

	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid player ID"})
	}

	player, err := teamSvc.RetainPlayer(teamID, playerID)
	if err != nil {
		if services.ErrorKind(err) != "" {
			return engineError(c, err)
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": player})
}
