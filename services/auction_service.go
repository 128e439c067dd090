// services/auction_service.go - Auction lifecycle and bid sequencing
package services

import (
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"bidarena/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Broadcaster fans committed state changes out to connected clients.
// Payloads carry ids; clients refetch full state rather than applying deltas.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// AuctionService owns auction lifecycle and the bid critical section. Every
// state transition and bid commit for one auction runs under that auction's
// mutex, and broadcasts happen before the mutex is released, so events per
// auction always arrive in commit order.
type AuctionService struct {
	db    *gorm.DB
	hub   Broadcaster
	locks sync.Map // auction id -> *sync.Mutex

	// activeMu spans the "no other active auction" check and the transition
	// that acts on it. Per-auction locks alone let two pending auctions go
	// active together; this serializes activation system-wide.
	activeMu sync.Mutex
}

func NewAuctionService(db *gorm.DB, hub Broadcaster) *AuctionService {
	return &AuctionService{db: db, hub: hub}
}

func (s *AuctionService) lockFor(auctionID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(auctionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *AuctionService) broadcast(event string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}

// ================== LIFECYCLE ==================

// CreateAuction creates a pending auction and seeds its player queue from
// unsold, unretained players. Queue order is category priority (women, men
// under 35, men 35+) then name; a non-zero seed shuffles within each
// category deterministically. Creation is refused while another auction is
// active.
func (s *AuctionService) CreateAuction(title string, seed int64, autoStart bool) (*models.Auction, error) {
	auction := &models.Auction{
		Title:     title,
		Status:    models.AuctionPending,
		QueueSeed: seed,
	}

	s.activeMu.Lock()
	var active models.Auction
	if err := s.db.Where("status = ?", models.AuctionActive).First(&active).Error; err == nil {
		s.activeMu.Unlock()
		return nil, ErrActiveAuctionExists
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(auction).Error; err != nil {
			return err
		}
		return s.seedQueue(tx, auction)
	})
	s.activeMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.broadcast("auction_created", map[string]interface{}{"auction": auction})

	if autoStart {
		started, _, err := s.StartAuction(auction.ID)
		if err != nil {
			return nil, err
		}
		return started, nil
	}
	return auction, nil
}

func (s *AuctionService) seedQueue(tx *gorm.DB, auction *models.Auction) error {
	var players []models.Player
	if err := tx.Where("is_sold = ? AND is_retained = ?", false, false).Find(&players).Error; err != nil {
		return err
	}

	sort.Slice(players, func(i, j int) bool {
		ri, rj := models.CategoryRank(players[i].GetPlayerCategory()), models.CategoryRank(players[j].GetPlayerCategory())
		if ri != rj {
			return ri < rj
		}
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].ID.String() < players[j].ID.String()
	})

	if auction.QueueSeed != 0 {
		shuffleWithinCategories(players, auction.QueueSeed)
	}

	for i, p := range players {
		entry := models.AuctionQueueEntry{
			AuctionID: auction.ID,
			PlayerID:  p.ID,
			Position:  i,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// shuffleWithinCategories reorders players inside each category block using
// the auction's seed, keeping category priority intact and the overall order
// reproducible.
func shuffleWithinCategories(players []models.Player, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	start := 0
	for start < len(players) {
		cat := players[start].GetPlayerCategory()
		end := start
		for end < len(players) && players[end].GetPlayerCategory() == cat {
			end++
		}
		block := players[start:end]
		rng.Shuffle(len(block), func(i, j int) {
			block[i], block[j] = block[j], block[i]
		})
		start = end
	}
}

// StartAuction moves a pending auction to active and opens the first round.
// An empty queue leaves the auction active with no current player; the admin
// assigns players manually from there.
func (s *AuctionService) StartAuction(auctionID uuid.UUID) (*models.Auction, *models.Player, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, nil, err
	}
	if auction.Status != models.AuctionPending {
		return nil, nil, ErrInvalidStateTransition
	}

	s.activeMu.Lock()
	defer s.activeMu.Unlock()

	var other models.Auction
	if err := s.db.Where("status = ? AND id <> ?", models.AuctionActive, auctionID).First(&other).Error; err == nil {
		return nil, nil, ErrActiveAuctionExists
	}

	var player *models.Player
	err = s.db.Transaction(func(tx *gorm.DB) error {
		auction.Status = models.AuctionActive
		auction.StartTime = time.Now()
		auction.CurrentBid = 0
		auction.WinningTeamID = nil

		player, err = s.popNextPlayer(tx, auction)
		if err != nil {
			return err
		}
		if player != nil {
			auction.CurrentPlayerID = &player.ID
		}
		return tx.Save(auction).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.broadcast("auction_started", map[string]interface{}{
		"auction": auction,
		"player":  player,
	})
	return auction, player, nil
}

// popNextPlayer consumes queue entries front to back until it finds one
// whose player is still unsold, or the queue runs out.
func (s *AuctionService) popNextPlayer(tx *gorm.DB, auction *models.Auction) (*models.Player, error) {
	for {
		var entry models.AuctionQueueEntry
		err := tx.Where("auction_id = ?", auction.ID).Order("position ASC").First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return nil, err
		}

		var player models.Player
		if err := tx.First(&player, "id = ?", entry.PlayerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if !player.IsSold {
			return &player, nil
		}
	}
}

// NextPlayer closes the current round and advances the auction. A round with
// bids commits the sale atomically across player, team and auction; a round
// without bids skips the player, who stays unsold and available for manual
// reassignment. When the queue is exhausted the auction completes.
func (s *AuctionService) NextPlayer(auctionID uuid.UUID) (*models.Auction, *models.Player, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, nil, err
	}
	if auction.Status != models.AuctionActive {
		return nil, nil, ErrInvalidStateTransition
	}

	var sold *models.Player
	var next *models.Player
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sold, err = s.finalizeRound(tx, auction)
		if err != nil {
			return err
		}

		next, err = s.popNextPlayer(tx, auction)
		if err != nil {
			return err
		}

		if next != nil {
			auction.CurrentPlayerID = &next.ID
			auction.CurrentBid = 0
			auction.WinningTeamID = nil
		} else {
			now := time.Now()
			auction.Status = models.AuctionCompleted
			auction.EndTime = &now
			auction.CurrentPlayerID = nil
			auction.CurrentBid = 0
			auction.WinningTeamID = nil
		}
		return tx.Save(auction).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if sold != nil {
		s.broadcast("player_sold", map[string]interface{}{
			"auction_id": auction.ID,
			"player":     sold,
			"team_id":    sold.CurrentTeamID,
			"price":      sold.CurrentPrice,
		})
	}
	if next != nil {
		s.broadcast("next_player", map[string]interface{}{
			"auction_id":  auction.ID,
			"player":      next,
			"current_bid": auction.CurrentBid,
		})
	} else {
		s.broadcast("auction_completed", map[string]interface{}{"auction": auction})
	}
	return auction, next, nil
}

// finalizeRound applies the commit-or-skip rule for the round in flight.
// Returns the sold player, or nil when the round had no bids.
func (s *AuctionService) finalizeRound(tx *gorm.DB, auction *models.Auction) (*models.Player, error) {
	if auction.CurrentPlayerID == nil || auction.CurrentBid == 0 || auction.WinningTeamID == nil {
		return nil, nil
	}

	var player models.Player
	if err := tx.First(&player, "id = ?", *auction.CurrentPlayerID).Error; err != nil {
		return nil, err
	}
	if player.IsSold {
		return nil, ErrPlayerAlreadySold
	}

	var team models.Team
	if err := tx.First(&team, "id = ?", *auction.WinningTeamID).Error; err != nil {
		return nil, err
	}

	player.IsSold = true
	player.CurrentTeamID = auction.WinningTeamID
	player.CurrentPrice = auction.CurrentBid
	if err := tx.Save(&player).Error; err != nil {
		return nil, err
	}

	team.UsedPoints += auction.CurrentBid
	team.PlayerCount++
	if err := tx.Save(&team).Error; err != nil {
		return nil, err
	}

	log.Printf("Sold player %s to team %s for %d points", player.ID, team.ID, auction.CurrentBid)
	return &player, nil
}

// EndAuction forces an active auction to completed. The in-flight round is
// finalized with the same commit-or-skip rule as NextPlayer.
func (s *AuctionService) EndAuction(auctionID uuid.UUID) (*models.Auction, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Status != models.AuctionActive {
		return nil, ErrInvalidStateTransition
	}

	var sold *models.Player
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sold, err = s.finalizeRound(tx, auction)
		if err != nil {
			return err
		}
		now := time.Now()
		auction.Status = models.AuctionCompleted
		auction.EndTime = &now
		auction.CurrentPlayerID = nil
		auction.CurrentBid = 0
		auction.WinningTeamID = nil
		return tx.Save(auction).Error
	})
	if err != nil {
		return nil, err
	}

	if sold != nil {
		s.broadcast("player_sold", map[string]interface{}{
			"auction_id": auction.ID,
			"player":     sold,
			"team_id":    sold.CurrentTeamID,
			"price":      sold.CurrentPrice,
		})
	}
	s.broadcast("auction_completed", map[string]interface{}{"auction": auction})
	return auction, nil
}

// AssignPlayer attaches a specific unsold player to the auction, bypassing
// queue order. A completed auction is reactivated; a pending one must be
// started first. Any round in flight is finalized before the new player is
// put up.
func (s *AuctionService) AssignPlayer(auctionID, playerID uuid.UUID) (*models.Auction, *models.Player, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, nil, err
	}
	if auction.Status == models.AuctionPending {
		return nil, nil, ErrInvalidStateTransition
	}

	// Reactivating a completed auction makes it active; hold the activation
	// lock so it cannot join an already-active one.
	if auction.Status == models.AuctionCompleted {
		s.activeMu.Lock()
		defer s.activeMu.Unlock()
		var other models.Auction
		if err := s.db.Where("status = ? AND id <> ?", models.AuctionActive, auctionID).First(&other).Error; err == nil {
			return nil, nil, ErrActiveAuctionExists
		}
	}

	var player models.Player
	if err := s.db.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, err
	}
	if player.IsSold {
		return nil, nil, ErrPlayerAlreadySold
	}

	var sold *models.Player
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sold, err = s.finalizeRound(tx, auction)
		if err != nil {
			return err
		}

		auction.CurrentPlayerID = &player.ID
		auction.CurrentBid = 0
		auction.WinningTeamID = nil
		if auction.Status == models.AuctionCompleted {
			auction.Status = models.AuctionActive
			auction.EndTime = nil
		}
		return tx.Save(auction).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if sold != nil {
		s.broadcast("player_sold", map[string]interface{}{
			"auction_id": auction.ID,
			"player":     sold,
			"team_id":    sold.CurrentTeamID,
			"price":      sold.CurrentPrice,
		})
	}
	s.broadcast("player_assigned", map[string]interface{}{
		"auction_id":  auction.ID,
		"player":      player,
		"current_bid": auction.CurrentBid,
	})
	return auction, &player, nil
}

// UpdateAuction changes auction metadata (title). Lifecycle fields are not
// touchable through here.
func (s *AuctionService) UpdateAuction(auctionID uuid.UUID, title string) (*models.Auction, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		auction.Title = title
	}
	if err := s.db.Save(auction).Error; err != nil {
		return nil, err
	}

	s.broadcast("auction_updated", map[string]interface{}{"auction": auction})
	return auction, nil
}

// ================== BIDDING ==================

// PlaceBid validates and commits one bid. The whole check-and-commit runs
// under the auction mutex: concurrent submissions serialize there, and every
// later submission is re-validated against the state the earlier winner left
// behind.
func (s *AuctionService) PlaceBid(auctionID, teamID uuid.UUID, amount int) (*models.Bid, error) {
	mu := s.lockFor(auctionID)
	mu.Lock()
	defer mu.Unlock()

	auction, err := s.loadAuction(auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Status != models.AuctionActive || auction.CurrentPlayerID == nil {
		return nil, ErrAuctionNotActive
	}

	var player models.Player
	if err := s.db.First(&player, "id = ?", *auction.CurrentPlayerID).Error; err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.First(&team, "id = ?", teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if err := validateBid(auction, &player, &team, amount); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		AuctionID: auction.ID,
		PlayerID:  player.ID,
		TeamID:    team.ID,
		Amount:    amount,
		IsWinning: true,
		CreatedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bid{}).
			Where("auction_id = ? AND is_winning = ?", auction.ID, true).
			Update("is_winning", false).Error; err != nil {
			return err
		}
		if err := tx.Create(bid).Error; err != nil {
			return err
		}
		auction.CurrentBid = amount
		auction.WinningTeamID = &team.ID
		return tx.Save(auction).Error
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("new_bid", map[string]interface{}{
		"auction_id":  auction.ID,
		"bid":         bid,
		"team":        team,
		"current_bid": auction.CurrentBid,
	})
	return bid, nil
}

// ================== HELPERS / QUERIES ==================

func (s *AuctionService) loadAuction(auctionID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	if err := s.db.First(&auction, "id = ?", auctionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// GetAuction returns one auction by id.
func (s *AuctionService) GetAuction(auctionID uuid.UUID) (*models.Auction, error) {
	return s.loadAuction(auctionID)
}

// GetAuctions lists auctions, optionally filtered by status.
func (s *AuctionService) GetAuctions(status string) ([]models.Auction, error) {
	var auctions []models.Auction
	query := s.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

// GetAuctionBids returns an auction's bid history, most recent first.
func (s *AuctionService) GetAuctionBids(auctionID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.Where("auction_id = ?", auctionID).
		Preload("Team").
		Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

// GetCurrentBid returns the winning bid of the round in flight.
func (s *AuctionService) GetCurrentBid(auctionID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := s.db.Where("auction_id = ? AND is_winning = ?", auctionID, true).
		Preload("Team").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &bid, err
}

// AvailablePlayers lists unsold players for manual assignment.
func (s *AuctionService) AvailablePlayers() ([]models.Player, error) {
	var players []models.Player
	err := s.db.Where("is_sold = ?", false).Find(&players).Error
	return players, err
}

// QueueLength reports how many players remain queued for an auction.
func (s *AuctionService) QueueLength(auctionID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&models.AuctionQueueEntry{}).Where("auction_id = ?", auctionID).Count(&n).Error
	return n, err
}
