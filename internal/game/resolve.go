// internal/game/resolve.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// Resolve applies a resolve_event request. Free actions are available to the
// player at the turn cursor; everything else answers the pending event and is
// only accepted from its target. Rejected requests change nothing.
func (r *Room) Resolve(requesterID string, action models.Action) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StatePlaying || action == nil {
		return
	}
	r.LastActivity = r.now()
	r.guard(string(action.Kind()), func() { r.resolve(requesterID, action) })
}

func (r *Room) resolve(requesterID string, action models.Action) {
	p := r.player(requesterID)
	if p == nil || p.Bankrupt {
		return
	}

	if isFreeAction(action.Kind()) {
		if r.current() == p {
			r.freeAction(p, action)
		}
		return
	}

	if r.Event == nil || r.Event.Target() != p.ID {
		return
	}
	r.answerEvent(p, action)
}

func isFreeAction(kind models.ActionKind) bool {
	switch kind {
	case models.ActionPayBail, models.ActionEndTurn, models.ActionDeclareBankruptcy,
		models.ActionManualUpgrade, models.ActionSellUpgrade,
		models.ActionMortgage, models.ActionUnmortgage, models.ActionProposeTrade:
		return true
	}
	return false
}

func (r *Room) freeAction(p *models.Player, action models.Action) {
	switch a := action.(type) {
	case models.Plain:
		switch a.Of {
		case models.ActionPayBail:
			r.payBail(p)
		case models.ActionEndTurn:
			if r.Event == nil && p.Balance >= 0 {
				r.endTurn()
			}
		case models.ActionDeclareBankruptcy:
			if p.Balance < 0 {
				r.endTurn()
			}
		}

	case models.CellAction:
		c := r.cell(a.CellID)
		if c == nil || c.OwnerID != p.ID {
			return
		}
		switch a.Of {
		case models.ActionManualUpgrade:
			r.manualUpgrade(p, c)
		case models.ActionSellUpgrade:
			r.sellUpgrade(p, c)
		case models.ActionMortgage:
			r.mortgage(p, c)
		case models.ActionUnmortgage:
			r.unmortgage(p, c)
		}

	case models.TradeOffer:
		if r.Event == nil {
			r.proposeTrade(p, a)
		}
	}
}

func (r *Room) payBail(p *models.Player) {
	if r.Event != nil || !p.InJail || p.Balance < board.BailAmount {
		return
	}
	p.Balance -= board.BailAmount
	p.InJail = false
	p.JailRolls = 0
	r.logAction(p, "pay_bail", fmt.Sprintf("%s pays %d bail and is free. Roll the dice.", p.Name, board.BailAmount))
}

func (r *Room) manualUpgrade(p *models.Player, c *models.Cell) {
	if r.Event != nil || c.Type != models.CellProperty || c.Mortgaged || c.Level >= models.MaxLevel {
		return
	}
	if !r.ownsGroup(p.ID, c.Group) || p.Balance < c.BuildCost {
		return
	}
	p.Balance -= c.BuildCost
	c.Level++
	r.logAction(p, "manual_upgrade", fmt.Sprintf("%s improves %s (level %d)", p.Name, c.Name, c.Level))
}

func (r *Room) sellUpgrade(p *models.Player, c *models.Cell) {
	if c.Level <= 0 {
		return
	}
	gain := board.SellUpgradeRefund(c)
	p.Balance += gain
	c.Level--
	r.logAction(p, "sell_upgrade", fmt.Sprintf("%s sells an improvement on %s (+%d)", p.Name, c.Name, gain))
	r.settleDebt(p)
}

func (r *Room) mortgage(p *models.Player, c *models.Cell) {
	if c.Level != 0 || c.Mortgaged {
		return
	}
	val := board.MortgageValue(c)
	p.Balance += val
	c.Mortgaged = true
	r.logAction(p, "mortgage", fmt.Sprintf("%s mortgages %s (+%d)", p.Name, c.Name, val))
	r.settleDebt(p)
}

func (r *Room) unmortgage(p *models.Player, c *models.Cell) {
	if r.Event != nil || !c.Mortgaged {
		return
	}
	cost := board.UnmortgageCost(c)
	if p.Balance < cost {
		return
	}
	p.Balance -= cost
	c.Mortgaged = false
	r.logAction(p, "unmortgage", fmt.Sprintf("%s buys back %s (-%d)", p.Name, c.Name, cost))
}

// settleDebt forgets the creditor once liquidation brought p back to zero or above.
func (r *Room) settleDebt(p *models.Player) {
	if p.Balance >= 0 && p.DebtTo != "" {
		p.DebtTo = ""
	}
}

// answerEvent is the transition table for pending events. The caller checked
// that p is the event target.
func (r *Room) answerEvent(p *models.Player, action models.Action) {
	kind := action.Kind()
	switch ev := r.Event.(type) {
	case *models.TradeProposal:
		switch kind {
		case models.ActionAcceptTrade:
			r.acceptTrade(p, ev)
		case models.ActionRejectTrade:
			r.logAction(p, "reject_trade", fmt.Sprintf("%s rejects the trade.", p.Name))
			r.Event = nil
		}

	case *models.BuyEvent:
		switch kind {
		case models.ActionBuy:
			c := r.cell(ev.CellID)
			if c == nil || p.Balance < c.Price {
				return
			}
			p.Balance -= c.Price
			c.OwnerID = p.ID
			r.logAction(p, "buy", fmt.Sprintf("%s buys %s!", p.Name, c.Name))
			r.endTurn()
		case models.ActionPass:
			r.startAuction(p, ev.CellID)
		}

	case *models.AuctionEvent:
		switch kind {
		case models.ActionBid:
			r.bid(p)
		case models.ActionPass:
			r.passAuction(p)
		}

	case *models.UpgradeEvent:
		switch kind {
		case models.ActionUpgrade:
			c := r.cell(ev.CellID)
			if c != nil && p.Balance >= ev.Amount && c.Level < models.MaxLevel {
				p.Balance -= ev.Amount
				c.Level++
				r.logAction(p, "upgrade", fmt.Sprintf("%s improves %s to level %d!", p.Name, c.Name, c.Level))
			}
			r.endTurn()
		case models.ActionPass:
			r.endTurn()
		}

	case *models.RentEvent:
		if kind != models.ActionPay {
			return
		}
		p.DebtTo = ""
		if owner := r.player(ev.OwnerID); owner != nil && owner != p {
			owner.Balance += ev.Amount
			p.DebtTo = owner.ID
		}
		p.Balance -= ev.Amount
		r.logAction(p, "pay_rent", fmt.Sprintf("%s pays %d rent.", p.Name, ev.Amount))
		r.afterPayment(p)

	case *models.TaxEvent:
		if kind != models.ActionPay {
			return
		}
		p.Balance -= ev.Amount
		p.DebtTo = ""
		r.logAction(p, "pay_tax", fmt.Sprintf("%s pays %d in tax.", p.Name, ev.Amount))
		r.afterPayment(p)

	case *models.ChanceEvent:
		if kind != models.ActionPay {
			return
		}
		p.Balance += ev.Amount
		p.DebtTo = ""
		r.logAction(p, "chance", fmt.Sprintf("%s: %s (%+d)", p.Name, ev.Message(), ev.Amount))
		r.afterPayment(p)
	}
}

// afterPayment clears the event and ends the turn unless p went into debt,
// in which case p has to liquidate or declare bankruptcy.
func (r *Room) afterPayment(p *models.Player) {
	r.Event = nil
	if p.Balance >= 0 {
		p.DebtTo = ""
		r.endTurn()
		return
	}
	r.logAction(p, "debt", fmt.Sprintf("WARNING: %s is in debt! Sell assets to survive.", p.Name))
}
