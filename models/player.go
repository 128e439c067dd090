// models/player.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player categories used for auction presentation order.
const (
	CategoryWomen      = "women"
	CategoryMenUnder35 = "men_under_35"
	CategoryMen35Plus  = "men_35_plus"
)

// DefaultBasePrice is the opening price for every player unless overridden.
const DefaultBasePrice = 200

// Player is a registered participant put up for auction. A player is sold
// exactly once: IsSold is true iff CurrentTeamID is set and CurrentPrice
// carries the sale amount. Admin reassignment is the only controlled
// exception.
type Player struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	User            *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name            string     `json:"name" gorm:"not null"`
	Gender          string     `json:"gender" gorm:"not null"` // male, female
	DateOfBirth     time.Time  `json:"date_of_birth" gorm:"not null"`
	Mobile          string     `json:"mobile"`
	PlayingCategory string     `json:"playing_category" gorm:"not null"` // singles, doubles, both
	Accomplishments string     `json:"accomplishments" gorm:"type:text"`
	Age             int        `json:"age" gorm:"-"`
	PlayerCategory  string     `json:"player_category" gorm:"-"`
	IsRetained      bool       `json:"is_retained" gorm:"default:false"`
	RetainedBy      *uuid.UUID `json:"retained_by" gorm:"type:uuid"`
	CurrentTeamID   *uuid.UUID `json:"current_team_id" gorm:"type:uuid;index"`
	BasePrice       int        `json:"base_price" gorm:"default:200"`
	CurrentPrice    int        `json:"current_price" gorm:"default:200"`
	IsSold          bool       `json:"is_sold" gorm:"default:false;index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

// CalculateAge derives Age from DateOfBirth.
func (p *Player) CalculateAge() {
	if p.DateOfBirth.IsZero() {
		return
	}
	now := time.Now()
	p.Age = now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		p.Age--
	}
}

// GetPlayerCategory buckets a player for presentation order:
// women first, then men under 35, then men 35 and above.
func (p *Player) GetPlayerCategory() string {
	p.CalculateAge()

	switch p.Gender {
	case "female":
		return CategoryWomen
	case "male":
		if p.Age < 35 {
			return CategoryMenUnder35
		}
		return CategoryMen35Plus
	}
	return "unknown"
}

// CategoryRank orders categories for queue seeding. Unknown sorts last.
func CategoryRank(category string) int {
	switch category {
	case CategoryWomen:
		return 0
	case CategoryMenUnder35:
		return 1
	case CategoryMen35Plus:
		return 2
	}
	return 3
}

func (p *Player) AfterFind(tx *gorm.DB) error {
	p.CalculateAge()
	p.PlayerCategory = p.GetPlayerCategory()
	return nil
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Player) BeforeSave(tx *gorm.DB) error {
	p.CalculateAge()
	return nil
}
