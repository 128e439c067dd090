// models/team.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default squad constraints applied at team creation.
const (
	DefaultTotalPoints = 12000
	DefaultMinPlayers  = 12
	DefaultMaxPlayers  = 20
)

// Team is a franchise bidding in the auction. UsedPoints never exceeds
// TotalPoints and PlayerCount never exceeds MaxPlayers; both are mutated
// only inside committed sales or explicit admin adjustments.
type Team struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	TotalPoints int       `json:"total_points" gorm:"default:12000"`
	UsedPoints  int       `json:"used_points" gorm:"default:0"`
	PlayerCount int       `json:"player_count" gorm:"default:0"`
	MinPlayers  int       `json:"min_players" gorm:"default:12"`
	MaxPlayers  int       `json:"max_players" gorm:"default:20"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Players     []Player  `json:"players,omitempty" gorm:"foreignKey:CurrentTeamID"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// RemainingPoints is the budget still available for bidding.
func (t *Team) RemainingPoints() int {
	return t.TotalPoints - t.UsedPoints
}
