// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"bidarena/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	if err := Migrate(GetDB()); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ All migrations completed successfully")
}

// Migrate creates the auction schema on the given connection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Player{},
		&models.Auction{},
		&models.AuctionQueueEntry{},
		&models.Bid{},
	); err != nil {
		return err
	}

	createIndexes(db)
	return nil
}

func createIndexes(db *gorm.DB) {
	// Hot paths: status filters on auctions/players, recency ordering on bids,
	// queue consumption order.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_auctions_status ON auctions(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_players_unsold ON players(is_sold)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_bids_auction_created ON bids(auction_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_bids_winning ON bids(auction_id, is_winning)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_queue_position ON auction_queue_entries(auction_id, position)")
}
