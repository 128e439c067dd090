// models/auction.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auction lifecycle states.
const (
	AuctionPending   = "pending"
	AuctionActive    = "active"
	AuctionCompleted = "completed"
)

// Auction is a single auction session. At most one auction is active
// system-wide. CurrentBid is 0 when the open round has no bids yet;
// WinningTeamID tracks the team holding the highest bid of the round.
type Auction struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string     `json:"title" gorm:"not null"`
	Status          string     `json:"status" gorm:"default:'pending';index"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	CurrentPlayerID *uuid.UUID `json:"current_player_id" gorm:"type:uuid"`
	CurrentBid      int        `json:"current_bid" gorm:"default:0"`
	WinningTeamID   *uuid.UUID `json:"winning_team_id" gorm:"type:uuid"`
	QueueSeed       int64      `json:"queue_seed" gorm:"default:0"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Auction) TableName() string {
	return "auctions"
}

func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AuctionQueueEntry pins the deterministic presentation order of unsold
// players for one auction. Entries are consumed front to back; a skipped
// player leaves the queue and stays unsold until manually reassigned.
type AuctionQueueEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuctionID uuid.UUID `json:"auction_id" gorm:"type:uuid;not null;index"`
	PlayerID  uuid.UUID `json:"player_id" gorm:"type:uuid;not null"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuctionQueueEntry) TableName() string {
	return "auction_queue_entries"
}

func (e *AuctionQueueEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Bid is an immutable record of one bid submission that was accepted.
// Superseded bids keep IsWinning=false for audit history; exactly one bid
// per auction carries IsWinning=true at any time.
type Bid struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuctionID uuid.UUID `json:"auction_id" gorm:"type:uuid;not null;index"`
	PlayerID  uuid.UUID `json:"player_id" gorm:"type:uuid;not null"`
	TeamID    uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index"`
	Amount    int       `json:"amount" gorm:"not null"`
	IsWinning bool      `json:"is_winning" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	Team      *Team     `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Player    *Player   `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}

func (Bid) TableName() string {
	return "bids"
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
