// internal/game/bot.go
package game

import (
	"time"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// Bot tuning.
const (
	// BotDelay is the minimum pause between room activity and a bot move.
	BotDelay = 1200 * time.Millisecond

	botBuyMargin      = 1.5
	botBidBalanceCap  = 0.4
	botBidAbsoluteCap = 300_000
)

// BotTick lets at most one bot act, through the same entry points humans use.
// It reports whether a bot acted.
func (r *Room) BotTick(delay time.Duration) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StatePlaying {
		return false
	}
	now := r.now()
	if now.Sub(r.LastActivity) < delay {
		return false
	}

	if r.Event != nil {
		bot := r.player(r.Event.Target())
		if bot == nil || !bot.IsBot {
			return false
		}
		action := r.botAnswer(bot)
		r.LastActivity = now
		r.guard("bot_"+string(action.Kind()), func() { r.resolve(bot.ID, action) })
		return true
	}

	bot := r.current()
	if bot == nil || !bot.IsBot || !bot.Active() {
		return false
	}
	r.LastActivity = now
	r.guard("bot_turn", func() { r.botTurn(bot) })
	return true
}

// botAnswer picks the reply of bot to the pending event.
func (r *Room) botAnswer(bot *models.Player) models.Action {
	switch ev := r.Event.(type) {
	case *models.TradeProposal:
		return models.Plain{Of: models.ActionRejectTrade}
	case *models.RentEvent, *models.TaxEvent, *models.ChanceEvent:
		return models.Plain{Of: models.ActionPay}
	case *models.BuyEvent:
		if float64(bot.Balance) >= float64(ev.Amount)*botBuyMargin {
			return models.Plain{Of: models.ActionBuy}
		}
	case *models.AuctionEvent:
		if a := r.Auction; a != nil &&
			float64(a.HighestBid) < float64(bot.Balance)*botBidBalanceCap &&
			a.HighestBid < botBidAbsoluteCap {
			return models.Plain{Of: models.ActionBid}
		}
	}
	return models.Plain{Of: models.ActionPass}
}

func (r *Room) botTurn(bot *models.Player) {
	switch {
	case bot.Balance < 0:
		r.resolve(bot.ID, models.Plain{Of: models.ActionDeclareBankruptcy})
	case bot.SkipNextTurn:
		r.rollDice(bot.ID)
	case bot.InJail && bot.Balance >= board.BailAmount && r.rng.Intn(2) == 1:
		r.resolve(bot.ID, models.Plain{Of: models.ActionPayBail})
	default:
		r.rollDice(bot.ID)
	}
}
