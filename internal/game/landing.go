// internal/game/landing.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// land decides what happens on the cell p arrived at. It either opens a
// pending event for p or ends the turn.
func (r *Room) land(p *models.Player, c *models.Cell) {
	if c == nil {
		r.endTurn()
		return
	}

	switch c.Type {
	case models.CellProperty, models.CellStation, models.CellUtility:
		r.landOwnable(p, c)

	case models.CellTax:
		r.Event = models.NewTaxEvent(p.ID,
			fmt.Sprintf("%s must pay %d in tax.", p.Name, c.Price), c.ID, c.Price)

	case models.CellChance, models.CellChest:
		amount, msg := board.ChancePenalty, "Tax office fine!"
		if r.rng.Intn(2) == 1 {
			amount, msg = board.ChanceReward, "Lucky dividends!"
		}
		r.Event = models.NewChanceEvent(p.ID, msg, c.ID, amount)

	case models.CellGoToJail:
		r.sendToJail(p)
		r.endTurn()

	case models.CellParking:
		p.SkipNextTurn = true
		r.logAction(p, "parking", fmt.Sprintf("%s lands on %s and will skip the next turn!", p.Name, c.Name))
		r.endTurn()

	case models.CellJail:
		r.logAction(p, "visit_jail", fmt.Sprintf("%s is just visiting.", p.Name))
		r.endTurn()

	default:
		r.logAction(p, "rest", fmt.Sprintf("%s rests on %s.", p.Name, c.Name))
		r.endTurn()
	}
}

func (r *Room) landOwnable(p *models.Player, c *models.Cell) {
	switch c.OwnerID {
	case "":
		r.Event = models.NewBuyEvent(p.ID,
			fmt.Sprintf("%s can buy %s for %d.", p.Name, c.Name, c.Price), c.ID, c.Price)

	case p.ID:
		if c.Type != models.CellProperty || c.Level >= models.MaxLevel {
			r.endTurn()
			return
		}
		if !r.ownsGroup(p.ID, c.Group) {
			r.logAction(p, "upgrade_blocked", fmt.Sprintf("Collect the whole %s group to build.", c.Group))
			r.endTurn()
			return
		}
		r.Event = models.NewUpgradeEvent(p.ID,
			fmt.Sprintf("%s can improve %s for %d.", p.Name, c.Name, c.BuildCost), c.ID, c.BuildCost)

	default:
		total := board.DefaultDiceTotal
		if r.LastRoll != nil && r.LastRoll.Total() > 0 {
			total = r.LastRoll.Total()
		}
		rent := CalculateRent(r.Cells, c, total)
		r.Event = models.NewRentEvent(p.ID,
			fmt.Sprintf("%s owes %d rent for %s.", p.Name, rent, c.Name), c.ID, rent, c.OwnerID)
	}
}
