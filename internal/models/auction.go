package models

// AuctionState tracks an open auction. ParticipantIDs only ever shrinks and
// ActiveBidderIndex always points into it while the auction is open.
type AuctionState struct {
	CellID            int      `json:"cellId"`
	HighestBid        int64    `json:"highestBid"`
	HighestBidderID   string   `json:"highestBidderId,omitempty"`
	ParticipantIDs    []string `json:"participants"`
	ActiveBidderIndex int      `json:"activeBidderIndex"`
	// RollerID is the player whose turn the auction interrupts.
	RollerID string `json:"rollerId,omitempty"`
}

// ActiveBidder returns the participant whose decision is awaited.
func (a *AuctionState) ActiveBidder() string {
	if a.ActiveBidderIndex < 0 || a.ActiveBidderIndex >= len(a.ParticipantIDs) {
		return ""
	}
	return a.ParticipantIDs[a.ActiveBidderIndex]
}

// Remove drops id from the roster and keeps ActiveBidderIndex on the same
// participant (or on the one who followed the removed bidder).
// It reports whether id was on the roster.
func (a *AuctionState) Remove(id string) bool {
	for i, p := range a.ParticipantIDs {
		if p != id {
			continue
		}
		a.ParticipantIDs = append(a.ParticipantIDs[:i], a.ParticipantIDs[i+1:]...)
		if i < a.ActiveBidderIndex {
			a.ActiveBidderIndex--
		}
		if a.ActiveBidderIndex >= len(a.ParticipantIDs) {
			a.ActiveBidderIndex = 0
		}
		return true
	}
	return false
}

func (a *AuctionState) Clone() *AuctionState {
	if a == nil {
		return nil
	}
	c := *a
	c.ParticipantIDs = append([]string(nil), a.ParticipantIDs...)
	return &c
}

// LastRoll is the most recent dice outcome, kept for the presentation layer.
// IntermediatePosition is the cell the mover reached, recorded on every move.
type LastRoll struct {
	R1                   int    `json:"r1"`
	R2                   int    `json:"r2"`
	PlayerID             string `json:"playerId"`
	IntermediatePosition *int   `json:"intermediatePosition,omitempty"`
	WasSkipTurn          bool   `json:"wasSkipTurn,omitempty"`
}

// Total returns the sum of both dice.
func (l *LastRoll) Total() int {
	return l.R1 + l.R2
}

func (l *LastRoll) Clone() *LastRoll {
	if l == nil {
		return nil
	}
	c := *l
	c.IntermediatePosition = copyInt(l.IntermediatePosition)
	return &c
}
