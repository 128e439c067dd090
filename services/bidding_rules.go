// services/bidding_rules.go - Bid validity rules
package services

import "bidarena/models"

// Increment policy: bids step by 200 points until the price reaches 2000,
// by 400 points after that.
const (
	incrementLow       = 200
	incrementHigh      = 400
	incrementThreshold = 2000
)

// MinNextBid is the lowest amount the next bid may carry. With no bids yet
// the floor is the player's base price.
func MinNextBid(currentBid, basePrice int) int {
	if currentBid == 0 {
		return basePrice
	}
	if currentBid < incrementThreshold {
		return currentBid + incrementLow
	}
	return currentBid + incrementHigh
}

// validateBid applies every bid rule against committed state. Callers must
// hold the auction lock so the state cannot move under the check.
func validateBid(auction *models.Auction, player *models.Player, team *models.Team, amount int) error {
	if auction.Status != models.AuctionActive || auction.CurrentPlayerID == nil {
		return ErrAuctionNotActive
	}

	if auction.CurrentBid == 0 {
		if amount < player.BasePrice {
			return ErrBidTooLow
		}
	} else {
		if amount <= auction.CurrentBid {
			return ErrBidTooLow
		}
		if amount < MinNextBid(auction.CurrentBid, player.BasePrice) {
			return ErrBidIncrementTooSmall
		}
	}

	// A full squad cannot win another player; player_count never exceeds
	// max_players on a committed sale.
	if team.PlayerCount >= team.MaxPlayers {
		return ErrSquadFull
	}

	remaining := team.RemainingPoints()
	if amount > remaining {
		return ErrInsufficientBudget
	}

	// A team must keep enough points to fill its minimum squad at base price.
	stillNeeded := team.MinPlayers - team.PlayerCount - 1
	if stillNeeded > 0 && remaining-amount < stillNeeded*models.DefaultBasePrice {
		return ErrBidUnsafe
	}

	if auction.WinningTeamID != nil && *auction.WinningTeamID == team.ID {
		return ErrAlreadyWinning
	}

	return nil
}
