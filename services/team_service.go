// services/team_service.go - Team ledger operations
package services

import (
	"errors"

	"bidarena/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamService covers the ledger operations outside live bidding: team setup,
// admin point adjustments, direct player assignment and retention.
type TeamService struct {
	db  *gorm.DB
	hub Broadcaster
}

func NewTeamService(db *gorm.DB, hub Broadcaster) *TeamService {
	return &TeamService{db: db, hub: hub}
}

func (s *TeamService) broadcast(event string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}

// CreateTeam creates a franchise with the default budget and squad limits.
func (s *TeamService) CreateTeam(name string) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}

	team := &models.Team{
		Name:        name,
		TotalPoints: models.DefaultTotalPoints,
		UsedPoints:  0,
		PlayerCount: 0,
		MinPlayers:  models.DefaultMinPlayers,
		MaxPlayers:  models.DefaultMaxPlayers,
	}
	if err := s.db.Create(team).Error; err != nil {
		return nil, err
	}

	s.broadcast("team_created", map[string]interface{}{"team": team})
	return team, nil
}

// GetTeam returns one team with its roster preloaded.
func (s *TeamService) GetTeam(teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Players").First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeams lists all teams with rosters.
func (s *TeamService) GetTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Preload("Players").Find(&teams).Error
	return teams, err
}

// UpdateUsedPoints is the admin override for a team's spent budget.
func (s *TeamService) UpdateUsedPoints(teamID uuid.UUID, usedPoints int) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if usedPoints < 0 || usedPoints > team.TotalPoints {
		return nil, ErrInsufficientBudget
	}

	team.UsedPoints = usedPoints
	if err := s.db.Save(&team).Error; err != nil {
		return nil, err
	}

	s.broadcast("team_updated", map[string]interface{}{"team": team})
	return &team, nil
}

// AssignPlayerToTeam is the admin override sale: the player joins the team
// at the stated price with no bidding round. Player, team and price move in
// one transaction, same as an auction commit.
func (s *TeamService) AssignPlayerToTeam(teamID, playerID uuid.UUID, points int) (*models.Player, *models.Team, error) {
	if points <= 0 {
		return nil, nil, ErrBidTooLow
	}

	var player models.Player
	var team models.Team
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		if team.PlayerCount >= team.MaxPlayers {
			return ErrSquadFull
		}
		if team.UsedPoints+points > team.TotalPoints {
			return ErrInsufficientBudget
		}

		if err := tx.First(&player, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		if player.IsSold {
			return ErrPlayerAlreadySold
		}

		player.IsSold = true
		player.CurrentPrice = points
		player.CurrentTeamID = &team.ID
		if err := tx.Save(&player).Error; err != nil {
			return err
		}

		team.UsedPoints += points
		team.PlayerCount++
		return tx.Save(&team).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.broadcast("player_assigned", map[string]interface{}{
		"player_id": player.ID,
		"team_id":   team.ID,
		"points":    points,
	})
	return &player, &team, nil
}

// RetainPlayer marks a player as retained by a team ahead of the auction.
// Retained players are excluded from queue seeding.
func (s *TeamService) RetainPlayer(teamID, playerID uuid.UUID) (*models.Player, error) {
	var player models.Player
	if err := s.db.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.IsRetained {
		return nil, errors.New("player is already retained")
	}
	if player.IsSold {
		return nil, ErrPlayerAlreadySold
	}

	player.IsRetained = true
	player.RetainedBy = &teamID
	if err := s.db.Save(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}
