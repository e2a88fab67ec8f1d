// internal/game/trade.go
package game

import (
	"fmt"
	"strings"

	"github.com/NGoodma/expat/internal/models"
)

// tradableBy reports whether cell id may change hands from owner: it must be
// owned by owner, undeveloped, and its group must carry no improvements.
func (r *Room) tradableBy(id *int, owner string) (*models.Cell, bool) {
	if id == nil {
		return nil, true
	}
	c := r.cell(*id)
	if c == nil || !c.Ownable() || c.OwnerID != owner || c.Level > 0 {
		return nil, false
	}
	if c.Type == models.CellProperty && r.groupDeveloped(c.Group) {
		return nil, false
	}
	return c, true
}

func (r *Room) proposeTrade(p *models.Player, offer models.TradeOffer) {
	if offer.OfferAmount < 0 || p.Balance < offer.OfferAmount {
		return
	}
	target := r.player(offer.TargetID)
	if target == nil || target == p || target.Bankrupt {
		return
	}
	give, ok := r.tradableBy(offer.OfferCellID, p.ID)
	if !ok {
		return
	}
	want, ok := r.tradableBy(offer.RequestCellID, target.ID)
	if !ok {
		return
	}
	if give == nil && want == nil && offer.OfferAmount == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s offers %s a trade:", p.Name, target.Name)
	if give != nil {
		fmt.Fprintf(&b, " %s", give.Name)
	}
	if offer.OfferAmount > 0 {
		if give != nil {
			b.WriteString(" +")
		}
		fmt.Fprintf(&b, " %d", offer.OfferAmount)
	}
	if want != nil {
		fmt.Fprintf(&b, " for %s", want.Name)
	}
	msg := b.String()

	r.logAction(p, "propose_trade", msg)
	r.Event = models.NewTradeProposal(target.ID, msg, p.ID, offer.OfferCellID, offer.RequestCellID, offer.OfferAmount)
}

// acceptTrade re-validates the proposal against the current state and swaps
// cash and cells in one step. The turn does not change.
func (r *Room) acceptTrade(p *models.Player, ev *models.TradeProposal) {
	initiator := r.player(ev.InitiatorID)
	if initiator == nil {
		r.Event = nil
		return
	}
	fail := func(reason string) {
		r.logAction(p, "trade_failed", "The trade fell through: "+reason)
		r.Event = nil
	}

	if initiator.Balance < ev.OfferAmount {
		fail(fmt.Sprintf("%s lacks the funds.", initiator.Name))
		return
	}
	give, ok := r.tradableBy(ev.OfferCellID, initiator.ID)
	if !ok {
		fail("the offered asset is no longer available.")
		return
	}
	want, ok := r.tradableBy(ev.RequestCellID, p.ID)
	if !ok {
		fail("the requested asset is no longer available.")
		return
	}

	if give != nil {
		give.OwnerID = p.ID
	}
	if want != nil {
		want.OwnerID = initiator.ID
	}
	initiator.Balance -= ev.OfferAmount
	p.Balance += ev.OfferAmount
	r.settleDebt(p)

	r.logAction(p, "accept_trade", fmt.Sprintf("%s accepts the trade from %s!", p.Name, initiator.Name))
	r.Event = nil
}
