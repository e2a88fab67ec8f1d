// internal/game/dice.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// RollDice performs a roll for the player at the turn cursor. Requests from
// anyone else, or while a decision is pending, are ignored.
func (r *Room) RollDice(requesterID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StatePlaying {
		return
	}
	r.LastActivity = r.now()
	r.guard("roll_dice", func() { r.rollDice(requesterID) })
}

func (r *Room) rollDice(requesterID string) {
	p := r.current()
	if p == nil || p.ID != requesterID || r.Event != nil {
		return
	}
	if p.Balance < 0 {
		// a player in debt has to liquidate or declare bankruptcy first
		return
	}

	if p.SkipNextTurn {
		p.SkipNextTurn = false
		r.LastRoll = &models.LastRoll{PlayerID: p.ID, WasSkipTurn: true}
		r.logAction(p, "skip_turn", fmt.Sprintf("%s is on a visa run and skips this turn.", p.Name))
		r.endTurn()
		return
	}

	r1 := r.rng.Intn(6) + 1
	r2 := r.rng.Intn(6) + 1
	total := r1 + r2
	double := r1 == r2
	r.LastRoll = &models.LastRoll{R1: r1, R2: r2, PlayerID: p.ID}
	r.logAction(p, "roll", fmt.Sprintf("%s rolls %d and %d (total %d)", p.Name, r1, r2, total))

	if p.InJail {
		switch {
		case double:
			p.InJail = false
			p.JailRolls = 0
			p.DoubleCount = 0
			r.logAction(p, "jail_release", fmt.Sprintf("Double! %s leaves jail.", p.Name))
			r.move(p, total)
		case p.JailRolls >= board.MaxJailRolls:
			p.InJail = false
			p.JailRolls = 0
			r.logAction(p, "jail_release", fmt.Sprintf("Third failed attempt! %s is released.", p.Name))
			r.move(p, total)
		default:
			p.JailRolls++
			r.logAction(p, "jail_stay", fmt.Sprintf("No double. %s stays in jail (attempt %d/3).", p.Name, p.JailRolls))
			r.endTurn()
		}
		return
	}

	if double {
		p.DoubleCount++
		if p.DoubleCount >= board.MaxDoubles {
			r.logAction(p, "three_doubles", fmt.Sprintf("%s rolled three doubles in a row!", p.Name))
			r.sendToJail(p)
			r.endTurn()
			return
		}
	} else {
		p.DoubleCount = 0
	}
	r.move(p, total)
}

// move advances p by steps, paying the start reward once when the board wraps,
// then evaluates the landing cell.
func (r *Room) move(p *models.Player, steps int) {
	target := p.Position + steps
	passedGo := target >= board.Size
	target %= board.Size

	if r.LastRoll != nil {
		pos := target
		r.LastRoll.IntermediatePosition = &pos
	}
	p.Position = target

	msg := fmt.Sprintf("%s moves %d cells.", p.Name, steps)
	if passedGo {
		p.Balance += board.PassGoReward
		msg += fmt.Sprintf(" Lap completed: +%d.", board.PassGoReward)
	}
	r.logAction(p, "move", msg)

	r.land(p, r.cell(target))
}
