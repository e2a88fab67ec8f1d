// internal/game/auction.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// startAuction opens bidding on cellID after passer declined to buy it. Every
// active player takes part; the first obligation falls on the seat after the passer.
func (r *Room) startAuction(passer *models.Player, cellID int) {
	c := r.cell(cellID)
	if c == nil {
		r.endTurn()
		return
	}
	r.logAction(passer, "auction_start", fmt.Sprintf("%s declines %s. The auction begins!", passer.Name, c.Name))

	var roster []string
	for _, p := range r.Players {
		if p.Active() {
			roster = append(roster, p.ID)
		}
	}
	if len(roster) <= 1 {
		r.logAction(nil, "auction_end", "Not enough bidders, the auction is closed.")
		r.endTurn()
		return
	}

	start := 0
	for i, id := range roster {
		if id == passer.ID {
			start = (i + 1) % len(roster)
			break
		}
	}
	r.Auction = &models.AuctionState{
		CellID:            cellID,
		HighestBid:        board.AuctionStartBid,
		ParticipantIDs:    roster,
		ActiveBidderIndex: start,
		RollerID:          passer.ID,
	}
	r.Event = models.NewAuctionEvent(roster[start],
		fmt.Sprintf("Auction for %s", c.Name), cellID)
}

func (r *Room) bid(p *models.Player) {
	a := r.Auction
	if a == nil || a.ActiveBidder() != p.ID {
		return
	}
	amount := a.HighestBid + board.AuctionIncrement
	if p.Balance < amount {
		return
	}
	a.HighestBid = amount
	a.HighestBidderID = p.ID
	r.logAction(p, "bid", fmt.Sprintf("%s bids %d.", p.Name, amount))
	r.nextBidder(true)
}

func (r *Room) passAuction(p *models.Player) {
	a := r.Auction
	if a == nil {
		return
	}
	if !a.Remove(p.ID) {
		return
	}
	r.logAction(p, "auction_pass", fmt.Sprintf("%s leaves the auction.", p.Name))
	r.nextBidder(false)
}

// removeFromAuction drops id from an open auction, for instance when the
// connection is lost. A withdrawn highest bid keeps its amount as the floor.
func (r *Room) removeFromAuction(id string) {
	a := r.Auction
	if a == nil || !a.Remove(id) {
		return
	}
	if a.HighestBidderID == id {
		a.HighestBidderID = ""
	}
	r.nextBidder(false)
}

// nextBidder moves the obligation on and closes the auction when only one
// bidder is left or the obligation returns to the highest bidder.
func (r *Room) nextBidder(advance bool) {
	a := r.Auction
	if a == nil {
		return
	}
	if len(a.ParticipantIDs) <= 1 {
		r.closeAuction()
		return
	}

	if advance {
		a.ActiveBidderIndex = (a.ActiveBidderIndex + 1) % len(a.ParticipantIDs)
	} else {
		a.ActiveBidderIndex %= len(a.ParticipantIDs)
	}

	next := a.ActiveBidder()
	if next == a.HighestBidderID {
		r.closeAuction()
		return
	}
	if r.Event != nil {
		r.Event.Retarget(next)
	}
}

func (r *Room) closeAuction() {
	a := r.Auction
	if winner := r.player(a.HighestBidderID); winner != nil {
		winner.Balance -= a.HighestBid
		if c := r.cell(a.CellID); c != nil {
			c.OwnerID = winner.ID
		}
		r.logAction(winner, "auction_won", fmt.Sprintf("%s wins the auction for %d!", winner.Name, a.HighestBid))
	} else {
		r.logAction(nil, "auction_end", "The auction ended without a winner.")
	}
	r.Auction = nil
	r.Event = nil
	if r.player(a.RollerID) == nil && a.RollerID != "" {
		r.resumeAfterRemovedRoller()
		return
	}
	r.endTurn()
}

// resumeAfterRemovedRoller hands the turn to the seat the cursor moved to when
// the roller left mid-auction. That seat has not played yet.
func (r *Room) resumeAfterRemovedRoller() {
	if r.checkWinner() {
		return
	}
	r.settleCursor()
	if p := r.current(); p != nil {
		r.logAction(p, "turn", fmt.Sprintf("Turn passes to %s", p.Name))
	}
}
