// internal/game/turn.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// endTurn closes the current player's turn: it liquidates them if they are
// still in debt, clears any pending decision, checks for a winner, grants the
// bonus roll after a double and otherwise hands the turn to the next active player.
func (r *Room) endTurn() {
	p := r.current()
	if p == nil {
		return
	}

	if p.Balance < 0 {
		r.bankrupt(p)
	}

	r.Event = nil
	r.Auction = nil

	if r.checkWinner() {
		return
	}

	if p.DoubleCount > 0 && !p.InJail && p.Active() {
		r.logAction(p, "bonus_roll", fmt.Sprintf("%s rolls again after a double!", p.Name))
		return
	}
	p.DoubleCount = 0

	r.advanceTurn()
}

// advanceTurn moves the cursor to the next active player, trying every seat once.
// If nobody is active the cursor still moves one seat.
func (r *Room) advanceTurn() {
	n := len(r.Players)
	if n == 0 {
		r.TurnIndex = 0
		return
	}
	next := (r.TurnIndex + 1) % n
	for tries := 0; tries < n && !r.Players[next].Active(); tries++ {
		next = (next + 1) % n
	}
	r.TurnIndex = next
	r.logAction(r.Players[next], "turn", fmt.Sprintf("Turn passes to %s", r.Players[next].Name))
}

// bankrupt eliminates p. Their negative balance is clawed back from the
// creditor, who also receives their cells; without a creditor the cells go
// back to the bank.
func (r *Room) bankrupt(p *models.Player) {
	r.logAction(p, "bankruptcy", fmt.Sprintf("Bankruptcy! %s is out of the game.", p.Name))

	var creditor *models.Player
	if p.DebtTo != "" && p.DebtTo != p.ID {
		creditor = r.player(p.DebtTo)
	}
	if creditor != nil {
		creditor.Balance += p.Balance
		r.logAction(creditor, "bankruptcy_transfer", fmt.Sprintf("Their assets go to %s.", creditor.Name))
	}

	for _, c := range r.Cells {
		if c.OwnerID != p.ID {
			continue
		}
		if creditor != nil {
			c.OwnerID = creditor.ID
		} else {
			c.Release()
		}
	}

	p.Balance = 0
	p.DebtTo = ""
	p.Ready = false
	p.Bankrupt = true
	p.DoubleCount = 0
	p.InJail = false
	p.JailRolls = 0
	p.SkipNextTurn = false
}

// checkWinner finishes the room when at most one solvent player is left.
func (r *Room) checkWinner() bool {
	if r.State != StatePlaying {
		return r.State == StateFinished
	}
	var survivors []*models.Player
	for _, p := range r.Players {
		if !p.Bankrupt {
			survivors = append(survivors, p)
		}
	}
	switch len(survivors) {
	case 0:
		r.State = StateFinished
		r.logAction(nil, "game_end", "Game over. Nobody survived.")
		return true
	case 1:
		r.State = StateFinished
		r.logAction(survivors[0], "game_end", fmt.Sprintf("🏆 %s wins! Game over!", survivors[0].Name))
		return true
	}
	return false
}

// sendToJail moves p to the jail cell without passing the start cell.
func (r *Room) sendToJail(p *models.Player) {
	p.Position = board.JailCell
	p.InJail = true
	p.JailRolls = 0
	p.DoubleCount = 0
	r.logAction(p, "jail", fmt.Sprintf("%s goes to jail!", p.Name))
}

// settleCursor makes sure an idle cursor does not rest on a seat that cannot act.
// It only moves the cursor when nothing is pending.
func (r *Room) settleCursor() {
	if len(r.Players) == 0 {
		r.TurnIndex = 0
		return
	}
	if r.TurnIndex >= len(r.Players) || r.TurnIndex < 0 {
		r.TurnIndex = 0
	}
	if r.State != StatePlaying || r.Event != nil {
		return
	}
	if p := r.current(); p != nil && !p.Active() {
		for _, other := range r.Players {
			if other.Active() {
				p.DoubleCount = 0
				r.advanceTurn()
				return
			}
		}
	}
}
