// services/errors.go - Auction engine error taxonomy
package services

import "errors"

// Rejections returned by the auction engine. All are recoverable and map to
// a stable kind string on the wire; only storage failures surface as raw
// errors and abort the single operation that hit them.
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAuctionNotActive       = errors.New("auction is not active")
	ErrBidTooLow              = errors.New("bid must be higher than current bid")
	ErrBidIncrementTooSmall   = errors.New("bid below minimum increment")
	ErrInsufficientBudget     = errors.New("insufficient points")
	ErrBidUnsafe              = errors.New("bid would break minimum squad reserve")
	ErrSquadFull              = errors.New("team squad is already full")
	ErrAlreadyWinning         = errors.New("team is already winning the current bid")
	ErrPlayerAlreadySold      = errors.New("player is already sold")
	ErrActiveAuctionExists    = errors.New("another auction is already active")
	ErrAuctionNotFound        = errors.New("auction not found")
	ErrTeamNotFound           = errors.New("team not found")
	ErrPlayerNotFound         = errors.New("player not found")
)

// ErrorKind returns the stable wire identifier for an engine rejection, or
// "" when err is not an engine rejection.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStateTransition):
		return "InvalidStateTransition"
	case errors.Is(err, ErrAuctionNotActive):
		return "AuctionNotActive"
	case errors.Is(err, ErrBidTooLow):
		return "BidTooLow"
	case errors.Is(err, ErrBidIncrementTooSmall):
		return "BidIncrementTooSmall"
	case errors.Is(err, ErrInsufficientBudget):
		return "InsufficientBudget"
	case errors.Is(err, ErrBidUnsafe):
		return "BidUnsafe"
	case errors.Is(err, ErrSquadFull):
		return "SquadFull"
	case errors.Is(err, ErrAlreadyWinning):
		return "AlreadyWinning"
	case errors.Is(err, ErrPlayerAlreadySold):
		return "PlayerAlreadySold"
	case errors.Is(err, ErrActiveAuctionExists):
		return "ActiveAuctionExists"
	case errors.Is(err, ErrAuctionNotFound):
		return "AuctionNotFound"
	case errors.Is(err, ErrTeamNotFound):
		return "TeamNotFound"
	case errors.Is(err, ErrPlayerNotFound):
		return "PlayerNotFound"
	}
	return ""
}
