// internal/game/bot_test.go
package game

import (
	"testing"
	"time"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// botRoom starts a two-seat room where p1 is a bot and returns a clock the
// test advances to pace it.
func botRoom(t *testing.T) (*Room, *models.Player, *scriptedRand, *fakeClock) {
	t.Helper()
	r, players, dice, _ := setupTestRoom(t, 2)
	players[0].IsBot = true
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	r.now = clock.Now
	r.LastActivity = clock.Now()
	return r, players[0], dice, clock
}

func TestBotWaitsForDelay(t *testing.T) {
	r, bot, dice, clock := botRoom(t)
	dice.push(1, 2)

	assert.False(t, r.BotTick(BotDelay), "too soon after the last activity")
	assert.Zero(t, bot.Position)

	clock.Advance(BotDelay)
	assert.True(t, r.BotTick(BotDelay))
	assert.Equal(t, 3, bot.Position)
	assert.False(t, r.BotTick(BotDelay), "a move resets the pacing")
}

func TestBotBuysWhenRich(t *testing.T) {
	r, bot, dice, clock := botRoom(t)
	dice.push(1, 2)

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	require.IsType(t, &models.BuyEvent{}, r.Event)

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	assert.Equal(t, bot.ID, r.Cells[3].OwnerID)
	assert.Equal(t, 1, r.TurnIndex)
}

func TestBotPassesWhenPoor(t *testing.T) {
	r, bot, dice, clock := botRoom(t)
	bot.Balance = 80_000
	dice.push(1, 2)

	clock.Advance(BotDelay)
	r.BotTick(BotDelay)
	clock.Advance(BotDelay)
	r.BotTick(BotDelay)

	require.NotNil(t, r.Auction, "declining starts an auction")
	assert.Equal(t, "p2", r.Event.Target())
	assert.Empty(t, r.Cells[3].OwnerID)
}

func TestBotBidsWithinCaps(t *testing.T) {
	r, bot, _, _ := botRoom(t)
	r.Auction = &models.AuctionState{CellID: 3, HighestBid: board.AuctionStartBid, ParticipantIDs: []string{"p2", bot.ID}, ActiveBidderIndex: 1}
	r.Event = models.NewAuctionEvent(bot.ID, "Auction", 3)

	assert.Equal(t, models.ActionBid, r.botAnswer(bot).Kind())

	r.Auction.HighestBid = botBidAbsoluteCap
	assert.Equal(t, models.ActionPass, r.botAnswer(bot).Kind())

	r.Auction.HighestBid = 50_000
	bot.Balance = 100_000
	assert.Equal(t, models.ActionPass, r.botAnswer(bot).Kind(), "more than 40% of the balance")
}

func TestBotRejectsTrades(t *testing.T) {
	r, bot, _, clock := botRoom(t)
	r.Event = models.NewTradeProposal(bot.ID, "Offer", "p2", nil, nil, 1_000)

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	assert.Nil(t, r.Event)
	assert.Equal(t, board.StartBalance, bot.Balance)
}

func TestBotPaysBailOnCoin(t *testing.T) {
	r, bot, dice, clock := botRoom(t)
	bot.InJail = true
	bot.Position = board.JailCell
	dice.vals = []int{1}

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	assert.False(t, bot.InJail)
	assert.Equal(t, board.StartBalance-board.BailAmount, bot.Balance)
}

func TestBotDeclaresBankruptcy(t *testing.T) {
	r, bot, _, clock := botRoom(t)
	bot.Balance = -10

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	assert.True(t, bot.Bankrupt)
	assert.Equal(t, StateFinished, r.State)
}

func TestBotIgnoresHumanTurn(t *testing.T) {
	r, bot, _, clock := botRoom(t)
	bot.IsBot = false
	r.Players[1].IsBot = true

	clock.Advance(BotDelay)
	assert.False(t, r.BotTick(BotDelay))
}

func TestBotInDebtWithSkipDeclaresBankruptcy(t *testing.T) {
	r, bot, _, clock := botRoom(t)
	bot.Balance = -10_000
	bot.SkipNextTurn = true

	clock.Advance(BotDelay)
	require.True(t, r.BotTick(BotDelay))
	assert.True(t, bot.Bankrupt)
	assert.False(t, bot.SkipNextTurn)
	assert.Equal(t, StateFinished, r.State)
}
