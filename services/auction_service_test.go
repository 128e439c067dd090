package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bidarena/database"
	"bidarena/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// One connection keeps the in-memory database shared and serializes
	// sqlite writes under the concurrency tests.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// recordingHub captures broadcast events in order for assertions.
type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) Broadcast(event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

func (h *recordingHub) seen(event string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e == event {
			return true
		}
	}
	return false
}

func seedTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()
	team := &models.Team{
		Name:        name,
		TotalPoints: models.DefaultTotalPoints,
		MinPlayers:  models.DefaultMinPlayers,
		MaxPlayers:  models.DefaultMaxPlayers,
	}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("seed team %s: %v", name, err)
	}
	return team
}

func seedPlayer(t *testing.T, db *gorm.DB, name, gender string, age int) *models.Player {
	t.Helper()
	player := &models.Player{
		Name:            name,
		Gender:          gender,
		DateOfBirth:     time.Now().AddDate(-age, 0, -1),
		PlayingCategory: "singles",
		BasePrice:       models.DefaultBasePrice,
		CurrentPrice:    models.DefaultBasePrice,
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("seed player %s: %v", name, err)
	}
	return player
}

func startedAuction(t *testing.T, svc *AuctionService) (*models.Auction, *models.Player) {
	t.Helper()
	auction, err := svc.CreateAuction("Season Auction", 0, false)
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	auction, player, err := svc.StartAuction(auction.ID)
	if err != nil {
		t.Fatalf("start auction: %v", err)
	}
	return auction, player
}

func TestCreateAuctionSeedsQueueInCategoryOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	seedPlayer(t, db, "Charlie", "male", 40)
	seedPlayer(t, db, "Alice", "female", 28)
	seedPlayer(t, db, "Bob", "male", 25)
	seedPlayer(t, db, "Dana", "female", 33)

	auction, err := svc.CreateAuction("Ordered", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var entries []models.AuctionQueueEntry
	if err := db.Where("auction_id = ?", auction.ID).Order("position ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load queue: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("queue length: got %d, want 4", len(entries))
	}

	var names []string
	for _, e := range entries {
		var p models.Player
		if err := db.First(&p, "id = ?", e.PlayerID).Error; err != nil {
			t.Fatalf("load player: %v", err)
		}
		names = append(names, p.Name)
	}

	// Women first alphabetically, then men under 35, then 35+.
	want := []string{"Alice", "Dana", "Bob", "Charlie"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("queue order: got %v, want %v", names, want)
		}
	}
}

func TestCreateAuctionExcludesSoldAndRetained(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	seedPlayer(t, db, "Free", "male", 25)
	sold := seedPlayer(t, db, "Sold", "male", 25)
	db.Model(sold).Update("is_sold", true)
	retained := seedPlayer(t, db, "Retained", "male", 25)
	db.Model(retained).Update("is_retained", true)

	auction, err := svc.CreateAuction("Filtered", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.QueueLength(auction.ID)
	if err != nil {
		t.Fatalf("queue length: %v", err)
	}
	if n != 1 {
		t.Fatalf("queue length: got %d, want 1", n)
	}
}

func TestSeededShuffleIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	for i := 0; i < 8; i++ {
		seedPlayer(t, db, fmt.Sprintf("Player%02d", i), "male", 25)
	}

	order := func(seed int64) []uuid.UUID {
		auction, err := svc.CreateAuction(fmt.Sprintf("Shuffle %d", seed), seed, false)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		var entries []models.AuctionQueueEntry
		if err := db.Where("auction_id = ?", auction.ID).Order("position ASC").Find(&entries).Error; err != nil {
			t.Fatalf("load queue: %v", err)
		}
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			ids[i] = e.PlayerID
		}
		return ids
	}

	first := order(42)
	second := order(42)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different orders at position %d", i)
		}
	}
}

func TestCreateAuctionRejectsSecondActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)
	seedPlayer(t, db, "Solo", "male", 25)

	if _, err := svc.CreateAuction("First", 0, true); err != nil {
		t.Fatalf("create active: %v", err)
	}
	if _, err := svc.CreateAuction("Second", 0, false); !errors.Is(err, ErrActiveAuctionExists) {
		t.Fatalf("got %v, want ErrActiveAuctionExists", err)
	}
}

func TestConcurrentStartsActivateOnlyOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)
	seedPlayer(t, db, "Solo", "male", 25)

	first, err := svc.CreateAuction("First", 0, false)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateAuction("Second", 0, false)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, _, err := svc.StartAuction(id); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if started != 1 {
		t.Fatalf("started auctions: got %d, want exactly 1", started)
	}
	var active int64
	db.Model(&models.Auction{}).Where("status = ?", models.AuctionActive).Count(&active)
	if active != 1 {
		t.Fatalf("active auctions in store: got %d, want exactly 1", active)
	}
}

func TestStartAuctionOnlyFromPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)
	seedPlayer(t, db, "Solo", "male", 25)

	auction, _ := startedAuction(t, svc)
	if _, _, err := svc.StartAuction(auction.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("got %v, want ErrInvalidStateTransition", err)
	}
}

func TestEndAuctionRejectsPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	auction, err := svc.CreateAuction("Idle", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.EndAuction(auction.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("got %v, want ErrInvalidStateTransition", err)
	}

	reloaded, err := svc.GetAuction(auction.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.AuctionPending {
		t.Fatalf("status changed to %s, want pending", reloaded.Status)
	}
}

func TestBiddingScenario(t *testing.T) {
	db := newTestDB(t)
	hub := &recordingHub{}
	svc := NewAuctionService(db, hub)

	teamA := seedTeam(t, db, "Team A")
	teamB := seedTeam(t, db, "Team B")
	seedPlayer(t, db, "Opener", "female", 28)

	auction, player := startedAuction(t, svc)
	if player == nil {
		t.Fatal("expected a current player")
	}

	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 200); err != nil {
		t.Fatalf("A opening bid: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamB.ID, 200); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("B matching bid: got %v, want ErrBidTooLow", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamB.ID, 400); err != nil {
		t.Fatalf("B raise to 400: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 600); err != nil {
		t.Fatalf("A raise to 600: %v", err)
	}

	if _, _, err := svc.NextPlayer(auction.ID); err != nil {
		t.Fatalf("next player: %v", err)
	}

	var sold models.Player
	if err := db.First(&sold, "id = ?", player.ID).Error; err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if !sold.IsSold || sold.CurrentTeamID == nil || *sold.CurrentTeamID != teamA.ID {
		t.Fatalf("player should be sold to the last accepted bidder")
	}
	if sold.CurrentPrice != 600 {
		t.Fatalf("sale price: got %d, want 600", sold.CurrentPrice)
	}

	var winner models.Team
	if err := db.First(&winner, "id = ?", teamA.ID).Error; err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if winner.UsedPoints != 600 {
		t.Fatalf("used points: got %d, want 600", winner.UsedPoints)
	}
	if winner.PlayerCount != 1 {
		t.Fatalf("player count: got %d, want 1", winner.PlayerCount)
	}

	if !hub.seen("player_sold") {
		t.Fatal("expected player_sold broadcast")
	}
}

func TestEventsFollowCommitOrder(t *testing.T) {
	db := newTestDB(t)
	hub := &recordingHub{}
	svc := NewAuctionService(db, hub)

	teamA := seedTeam(t, db, "Team A")
	teamB := seedTeam(t, db, "Team B")
	seedPlayer(t, db, "Only", "male", 25)

	auction, err := svc.CreateAuction("Ordered Feed", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := svc.StartAuction(auction.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 200); err != nil {
		t.Fatalf("bid A: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamB.ID, 400); err != nil {
		t.Fatalf("bid B: %v", err)
	}
	// Sole player sold, queue empty: the auction completes in the same call.
	if _, _, err := svc.NextPlayer(auction.ID); err != nil {
		t.Fatalf("next: %v", err)
	}

	want := []string{
		"auction_created",
		"auction_started",
		"new_bid",
		"new_bid",
		"player_sold",
		"auction_completed",
	}
	got := hub.snapshot()
	if len(got) != len(want) {
		t.Fatalf("event count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event order: got %v, want %v", got, want)
		}
	}
}

func TestSelfOutbidRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	teamA := seedTeam(t, db, "Team A")
	seedPlayer(t, db, "Opener", "male", 25)

	auction, _ := startedAuction(t, svc)
	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 200); err != nil {
		t.Fatalf("opening bid: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 400); !errors.Is(err, ErrAlreadyWinning) {
		t.Fatalf("got %v, want ErrAlreadyWinning", err)
	}
}

func TestInsufficientBudgetRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	broke := seedTeam(t, db, "Broke")
	// Full squad leaves the reserve rule out of the way; only 150 remains.
	db.Model(broke).Updates(map[string]interface{}{
		"used_points":  models.DefaultTotalPoints - 150,
		"player_count": models.DefaultMinPlayers,
	})
	seedPlayer(t, db, "Opener", "male", 25)

	auction, _ := startedAuction(t, svc)
	if _, err := svc.PlaceBid(auction.ID, broke.ID, 200); !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("got %v, want ErrInsufficientBudget", err)
	}
}

func TestFullSquadCannotWinAnotherPlayer(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	full := seedTeam(t, db, "Full House")
	db.Model(full).Update("player_count", full.MaxPlayers)
	seedPlayer(t, db, "Overflow", "male", 25)

	auction, player := startedAuction(t, svc)
	if _, err := svc.PlaceBid(auction.ID, full.ID, 200); !errors.Is(err, ErrSquadFull) {
		t.Fatalf("got %v, want ErrSquadFull", err)
	}

	// The round closes with no bids, so the squad never grows past its cap.
	if _, _, err := svc.NextPlayer(auction.ID); err != nil {
		t.Fatalf("next player: %v", err)
	}
	var reloaded models.Team
	if err := db.First(&reloaded, "id = ?", full.ID).Error; err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if reloaded.PlayerCount > reloaded.MaxPlayers {
		t.Fatalf("player count %d exceeds max %d", reloaded.PlayerCount, reloaded.MaxPlayers)
	}
	var p models.Player
	if err := db.First(&p, "id = ?", player.ID).Error; err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if p.IsSold {
		t.Fatal("player sold to a full squad")
	}
}

func TestNoBidRoundTripCompletesAuction(t *testing.T) {
	db := newTestDB(t)
	hub := &recordingHub{}
	svc := NewAuctionService(db, hub)

	const n = 5
	for i := 0; i < n; i++ {
		seedPlayer(t, db, fmt.Sprintf("Player%d", i), "male", 25)
	}

	auction, player := startedAuction(t, svc)
	if player == nil {
		t.Fatal("expected a current player")
	}

	// Skip every remaining round without bids.
	for i := 0; i < n; i++ {
		var err error
		auction, _, err = svc.NextPlayer(auction.ID)
		if err != nil {
			if errors.Is(err, ErrInvalidStateTransition) {
				break
			}
			t.Fatalf("next player %d: %v", i, err)
		}
	}

	reloaded, err := svc.GetAuction(auction.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.AuctionCompleted {
		t.Fatalf("status: got %s, want completed", reloaded.Status)
	}
	if reloaded.EndTime == nil {
		t.Fatal("completed auction should carry an end time")
	}

	var soldCount int64
	db.Model(&models.Player{}).Where("is_sold = ?", true).Count(&soldCount)
	if soldCount != 0 {
		t.Fatalf("skipped players were sold: %d", soldCount)
	}
	if !hub.seen("auction_completed") {
		t.Fatal("expected auction_completed broadcast")
	}
}

func TestSaleCommitIsAtomic(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	team := seedTeam(t, db, "Bidder")
	seedPlayer(t, db, "Opener", "male", 25)
	seedPlayer(t, db, "Follower", "male", 26)

	auction, player := startedAuction(t, svc)
	if _, err := svc.PlaceBid(auction.ID, team.ID, 200); err != nil {
		t.Fatalf("bid: %v", err)
	}

	// Deleting the winning team makes the sale commit fail mid-transaction.
	if err := db.Delete(&models.Team{}, "id = ?", team.ID).Error; err != nil {
		t.Fatalf("delete team: %v", err)
	}
	if _, _, err := svc.NextPlayer(auction.ID); err == nil {
		t.Fatal("expected sale commit to fail")
	}

	// Nothing moved: player unsold, auction still on the same round.
	var p models.Player
	if err := db.First(&p, "id = ?", player.ID).Error; err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if p.IsSold {
		t.Fatal("player sold despite failed commit")
	}
	reloaded, err := svc.GetAuction(auction.ID)
	if err != nil {
		t.Fatalf("reload auction: %v", err)
	}
	if reloaded.Status != models.AuctionActive {
		t.Fatalf("status: got %s, want active", reloaded.Status)
	}
	if reloaded.CurrentPlayerID == nil || *reloaded.CurrentPlayerID != player.ID {
		t.Fatal("auction advanced despite failed commit")
	}
	if reloaded.CurrentBid != 200 {
		t.Fatalf("current bid: got %d, want 200", reloaded.CurrentBid)
	}
}

func TestConcurrentBidsSerialize(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	const teams = 8
	teamIDs := make([]uuid.UUID, teams)
	for i := 0; i < teams; i++ {
		teamIDs[i] = seedTeam(t, db, fmt.Sprintf("Team%d", i)).ID
	}
	seedPlayer(t, db, "Contested", "male", 25)

	auction, _ := startedAuction(t, svc)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := make(map[int]bool)

	for i := 0; i < teams; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := 200 + i*200
			if _, err := svc.PlaceBid(auction.ID, teamIDs[i], amount); err == nil {
				mu.Lock()
				accepted[amount] = true
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if len(accepted) == 0 {
		t.Fatal("no bid was accepted")
	}
	maxAccepted := 0
	for amount := range accepted {
		if amount > maxAccepted {
			maxAccepted = amount
		}
	}

	reloaded, err := svc.GetAuction(auction.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentBid != maxAccepted {
		t.Fatalf("current bid %d disagrees with max accepted %d", reloaded.CurrentBid, maxAccepted)
	}

	var winning int64
	db.Model(&models.Bid{}).Where("auction_id = ? AND is_winning = ?", auction.ID, true).Count(&winning)
	if winning != 1 {
		t.Fatalf("winning bids: got %d, want exactly 1", winning)
	}

	var winner models.Bid
	if err := db.Where("auction_id = ? AND is_winning = ?", auction.ID, true).First(&winner).Error; err != nil {
		t.Fatalf("load winning bid: %v", err)
	}
	if winner.Amount != maxAccepted {
		t.Fatalf("winning bid amount %d, want %d", winner.Amount, maxAccepted)
	}
}

func TestAssignPlayerReactivatesCompleted(t *testing.T) {
	db := newTestDB(t)
	hub := &recordingHub{}
	svc := NewAuctionService(db, hub)

	seedPlayer(t, db, "First", "male", 25)
	late := seedPlayer(t, db, "Latecomer", "male", 30)

	auction, _ := startedAuction(t, svc)
	if _, err := svc.EndAuction(auction.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	reactivated, current, err := svc.AssignPlayer(auction.ID, late.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if reactivated.Status != models.AuctionActive {
		t.Fatalf("status: got %s, want active", reactivated.Status)
	}
	if reactivated.EndTime != nil {
		t.Fatal("reactivated auction should clear its end time")
	}
	if current == nil || current.ID != late.ID {
		t.Fatal("assigned player should be the current player")
	}
	if reactivated.CurrentBid != 0 {
		t.Fatalf("fresh round should reset current bid, got %d", reactivated.CurrentBid)
	}
	if !hub.seen("player_assigned") {
		t.Fatal("expected player_assigned broadcast")
	}
}

func TestAssignPlayerRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	team := seedTeam(t, db, "Owner")
	free := seedPlayer(t, db, "Free", "male", 25)
	sold := seedPlayer(t, db, "Sold", "male", 25)
	db.Model(sold).Updates(map[string]interface{}{"is_sold": true, "current_team_id": team.ID})

	pending, err := svc.CreateAuction("Pending", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := svc.AssignPlayer(pending.ID, free.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("pending assign: got %v, want ErrInvalidStateTransition", err)
	}

	if _, _, err := svc.StartAuction(pending.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := svc.AssignPlayer(pending.ID, sold.ID); !errors.Is(err, ErrPlayerAlreadySold) {
		t.Fatalf("sold assign: got %v, want ErrPlayerAlreadySold", err)
	}
	if _, _, err := svc.AssignPlayer(pending.ID, uuid.New()); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("missing assign: got %v, want ErrPlayerNotFound", err)
	}
}

func TestSkippedPlayerCanBeReassigned(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	first := seedPlayer(t, db, "Aaron", "male", 25)
	seedPlayer(t, db, "Zane", "male", 26)

	auction, player := startedAuction(t, svc)
	if player == nil || player.ID != first.ID {
		t.Fatal("expected first queued player up")
	}

	// No bids: skip to the next player.
	if _, _, err := svc.NextPlayer(auction.ID); err != nil {
		t.Fatalf("skip: %v", err)
	}

	_, current, err := svc.AssignPlayer(auction.ID, first.ID)
	if err != nil {
		t.Fatalf("reassign skipped player: %v", err)
	}
	if current == nil || current.ID != first.ID {
		t.Fatal("skipped player should be biddable again")
	}
}

func TestGetCurrentBidAndHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, nil)

	teamA := seedTeam(t, db, "Team A")
	teamB := seedTeam(t, db, "Team B")
	seedPlayer(t, db, "Opener", "male", 25)

	auction, _ := startedAuction(t, svc)
	if _, err := svc.PlaceBid(auction.ID, teamA.ID, 200); err != nil {
		t.Fatalf("bid A: %v", err)
	}
	if _, err := svc.PlaceBid(auction.ID, teamB.ID, 400); err != nil {
		t.Fatalf("bid B: %v", err)
	}

	current, err := svc.GetCurrentBid(auction.ID)
	if err != nil {
		t.Fatalf("current bid: %v", err)
	}
	if current.Amount != 400 || current.TeamID != teamB.ID {
		t.Fatalf("current bid: got %d by %s", current.Amount, current.TeamID)
	}

	bids, err := svc.GetAuctionBids(auction.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("history length: got %d, want 2", len(bids))
	}
}
