// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can carry. Team users act on behalf of exactly one
// team; player accounts exist so registered players can check their status.
const (
	RoleAdmin  = "admin"
	RoleTeam   = "team"
	RolePlayer = "player"
)

type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string     `json:"username" gorm:"unique;not null;size:100"`
	Email     string     `json:"email" gorm:"unique;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Role      string     `json:"role" gorm:"not null;default:'player';index"`
	TeamID    *uuid.UUID `json:"team_id" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
