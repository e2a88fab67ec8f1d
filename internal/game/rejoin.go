// internal/game/rejoin.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/models"
)

// Rejoin hands the seat of stableID to a new connection identity and rewrites
// every reference to the old one.
func (r *Room) Rejoin(stableID, connID string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.playerByStableID(stableID)
	if p == nil || stableID == "" {
		return ErrPlayerNotFound
	}
	r.guard("rejoin_room", func() { r.migrate(p, connID) })
	return nil
}

// migrate replaces p.ID by newID in ownership, the last roll, the pending
// event, the auction and every creditor reference.
func (r *Room) migrate(p *models.Player, newID string) {
	oldID := p.ID
	p.ID = newID

	if oldID != newID {
		for _, c := range r.Cells {
			if c.OwnerID == oldID {
				c.OwnerID = newID
			}
		}
		if r.LastRoll != nil && r.LastRoll.PlayerID == oldID {
			r.LastRoll.PlayerID = newID
		}
		if r.Event != nil {
			if r.Event.Target() == oldID {
				r.Event.Retarget(newID)
			}
			switch ev := r.Event.(type) {
			case *models.TradeProposal:
				if ev.InitiatorID == oldID {
					ev.InitiatorID = newID
				}
			case *models.RentEvent:
				if ev.OwnerID == oldID {
					ev.OwnerID = newID
				}
			}
		}
		if a := r.Auction; a != nil {
			if a.HighestBidderID == oldID {
				a.HighestBidderID = newID
			}
			if a.RollerID == oldID {
				a.RollerID = newID
			}
			for i, id := range a.ParticipantIDs {
				if id == oldID {
					a.ParticipantIDs[i] = newID
				}
			}
		}
		for _, other := range r.Players {
			if other.DebtTo == oldID {
				other.DebtTo = newID
			}
		}
	}

	if p.Bankrupt {
		return
	}
	if r.State == StatePlaying && !p.Ready {
		r.logAction(p, "reconnect", fmt.Sprintf("%s is back.", p.Name))
	}
	p.Ready = true
	if r.State == StatePlaying {
		r.settleCursor()
	}
}

// Disconnect handles a lost connection. In the lobby the seat is freed at once;
// during play the player leaves any auction, stops taking turns and keeps the
// seat until ExpireDisconnect. It reports whether the seat is being held.
func (r *Room) Disconnect(connID string) (held bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	idx := r.playerIndex(connID)
	if idx < 0 {
		return false
	}
	p := r.Players[idx]

	switch r.State {
	case StateLobby:
		r.guard("disconnect", func() { r.removePlayer(p) })
		return false

	case StatePlaying:
		if p.Bankrupt {
			return false
		}
		r.guard("disconnect", func() {
			r.removeFromAuction(p.ID)
			r.dropTradesOf(p.ID)
			p.Ready = false
			p.DoubleCount = 0
			r.logAction(p, "disconnect", fmt.Sprintf("%s lost connection and has time to reconnect.", p.Name))
			// an open auction ends the roller's turn when it closes
			if r.current() == p && r.Auction == nil {
				r.endTurn()
			}
		})
		return true
	}
	return false
}

// ExpireDisconnect removes the seat held for connID if nobody reclaimed it.
// It returns the number of seats left.
func (r *Room) ExpireDisconnect(connID string) int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.player(connID)
	if p == nil || p.Ready {
		return len(r.Players)
	}
	r.guard("disconnect_timeout", func() {
		r.logAction(p, "removed", fmt.Sprintf("%s was removed after the reconnect timeout.", p.Name))
		r.removePlayer(p)
	})
	return len(r.Players)
}

// dropTradesOf discards a trade proposal made by or addressed to id.
func (r *Room) dropTradesOf(id string) {
	if ev, ok := r.Event.(*models.TradeProposal); ok && (ev.Target() == id || ev.InitiatorID == id) {
		r.Event = nil
	}
}

// removePlayer deletes p's seat and releases everything that pointed at it.
func (r *Room) removePlayer(p *models.Player) {
	r.removeFromAuction(p.ID)
	r.dropTradesOf(p.ID)

	idx := r.playerIndex(p.ID)
	if idx < 0 {
		return
	}
	if r.Event != nil && r.Event.Target() == p.ID {
		r.Event = nil
	}

	for _, c := range r.Cells {
		if c.OwnerID == p.ID {
			c.Release()
		}
	}
	for _, other := range r.Players {
		if other.DebtTo == p.ID {
			other.DebtTo = ""
		}
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if idx < r.TurnIndex {
		r.TurnIndex--
	}
	if r.TurnIndex >= len(r.Players) {
		r.TurnIndex = 0
	}

	if r.State == StatePlaying {
		if !r.checkWinner() {
			r.settleCursor()
		}
	}
}
