// internal/game/rejoin_test.go
package game

import (
	"encoding/json"
	"testing"

	"github.com/NGoodma/expat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejoinRewritesEveryReference(t *testing.T) {
	r, players, _, _ := setupTestRoom(t, 3)
	r.Cells[1].OwnerID = "p2"
	r.Cells[3].OwnerID = "p2"
	r.LastRoll = &models.LastRoll{R1: 1, R2: 2, PlayerID: "p2"}
	r.Auction = &models.AuctionState{
		CellID:            5,
		HighestBid:        20_000,
		HighestBidderID:   "p2",
		ParticipantIDs:    []string{"p1", "p2", "p3"},
		ActiveBidderIndex: 1,
		RollerID:          "p2",
	}
	r.Event = models.NewAuctionEvent("p2", "Auction", 5)
	players[2].DebtTo = "p2"

	require.NoError(t, r.Rejoin("stable-2", "p2-new"))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"p2"`, "no reference to the old connection may survive")
	assert.Equal(t, "p2-new", players[1].ID)
	assert.Equal(t, "p2-new", r.Cells[1].OwnerID)
	assert.Equal(t, "p2-new", r.Event.Target())
	assert.Equal(t, "p2-new", r.Auction.ActiveBidder())
	assert.Equal(t, "p2-new", players[2].DebtTo)
	assert.Equal(t, "p2-new", r.Auction.RollerID)
	requireInvariants(t, r)
}

func TestRejoinRewritesRentOwnerAndTradeInitiator(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 3)
	r.Event = models.NewRentEvent("p1", "Rent", 1, 2_000, "p2")
	require.NoError(t, r.Rejoin("stable-2", "p2-new"))
	rent, ok := r.Event.(*models.RentEvent)
	require.True(t, ok)
	assert.Equal(t, "p2-new", rent.OwnerID)

	r2, _, _, _ := setupTestRoom(t, 3)
	r2.Event = models.NewTradeProposal("p3", "Offer", "p2", nil, nil, 1_000)
	require.NoError(t, r2.Rejoin("stable-2", "p2-new"))
	trade, ok := r2.Event.(*models.TradeProposal)
	require.True(t, ok)
	assert.Equal(t, "p2-new", trade.InitiatorID)
	assert.Equal(t, "p3", trade.Target())
}

func TestRejoinUnknownPlayer(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 2)
	assert.ErrorIs(t, r.Rejoin("nobody", "c9"), ErrPlayerNotFound)
	assert.ErrorIs(t, r.Rejoin("", "c9"), ErrPlayerNotFound)
}

func TestDisconnectOnOwnTurnPassesIt(t *testing.T) {
	r, players, _, _ := setupTestRoom(t, 3)

	assert.True(t, r.Disconnect("p1"), "seats are held during play")
	assert.False(t, players[0].Ready)
	assert.Equal(t, 1, r.TurnIndex)

	require.NoError(t, r.Rejoin("stable-1", "p1-back"))
	assert.True(t, players[0].Ready)
	assert.Equal(t, 1, r.TurnIndex, "coming back does not steal the turn")
	assert.Contains(t, r.ActionLog[len(r.ActionLog)-1], "is back")

	assert.Equal(t, 3, r.ExpireDisconnect("p1"), "the old connection id no longer holds a seat")
	assert.Len(t, r.Players, 3)
}

func TestDisconnectedPlayerIsSkipped(t *testing.T) {
	r, _, dice, _ := setupTestRoom(t, 3)
	r.Disconnect("p2")

	dice.push(1, 2)
	r.RollDice("p1")
	require.NotNil(t, r.Event)
	r.Resolve("p1", models.Plain{Of: models.ActionBuy})
	assert.Equal(t, 2, r.TurnIndex, "the disconnected seat is skipped")
}

func TestExpireDisconnectReleasesSeat(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 3)
	r.Cells[1].OwnerID = "p3"

	require.True(t, r.Disconnect("p3"))
	assert.Equal(t, 2, r.ExpireDisconnect("p3"))
	assert.Empty(t, r.Cells[1].OwnerID)
	assert.Equal(t, StatePlaying, r.State)
	requireInvariants(t, r)
}

func TestExpireDisconnectCanFinishRoom(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 2)
	var results []Result
	r.OnFinish = func(res Result) { results = append(results, res) }

	r.Disconnect("p2")
	assert.Equal(t, 1, r.ExpireDisconnect("p2"))
	assert.Equal(t, StateFinished, r.State)
	require.Len(t, results, 1)
	assert.Equal(t, "stable-1", results[0].WinnerID)
}

func TestDisconnectInLobbyFreesSeat(t *testing.T) {
	r := newLobby(t)
	require.NoError(t, r.Join("c2", "s2", PlayerInfo{}))

	assert.False(t, r.Disconnect("c2"))
	assert.Len(t, r.Players, 1)
}

func TestDisconnectLeavesAuction(t *testing.T) {
	r, _, _, _ := setupTestRoom(t, 4)
	r.Auction = &models.AuctionState{
		CellID:            5,
		HighestBid:        20_000,
		HighestBidderID:   "p2",
		ParticipantIDs:    []string{"p1", "p2", "p3", "p4"},
		ActiveBidderIndex: 2,
	}
	r.Event = models.NewAuctionEvent("p3", "Auction", 5)

	r.Disconnect("p2")
	require.NotNil(t, r.Auction)
	assert.Equal(t, []string{"p1", "p3", "p4"}, r.Auction.ParticipantIDs)
	assert.Equal(t, "p3", r.Auction.ActiveBidder())
	assert.Empty(t, r.Auction.HighestBidderID, "the withdrawn bid no longer counts")
	assert.Equal(t, int64(20_000), r.Auction.HighestBid, "but its amount stays the floor")
	assert.Equal(t, "p3", r.Event.Target())
}

func TestRejoinInLobbyMarksReady(t *testing.T) {
	r := newLobby(t)
	require.NoError(t, r.Join("c2", "s2", PlayerInfo{}))
	require.False(t, r.Players[1].Ready)

	require.NoError(t, r.Rejoin("s2", "c2-new"))
	assert.True(t, r.Players[1].Ready)

	r.Start("host")
	assert.Equal(t, StatePlaying, r.State, "a rejoined seat does not block the start")
}

func TestLeaveMidAuctionKeepsNextTurn(t *testing.T) {
	r, _, dice, _ := setupTestRoom(t, 3)
	dice.push(1, 2)
	r.RollDice("p1")
	r.Resolve("p1", models.Plain{Of: models.ActionPass})
	require.NotNil(t, r.Auction)
	require.Equal(t, "p1", r.Auction.RollerID)

	r.Leave("p1")
	require.NotNil(t, r.Auction, "the others keep bidding")
	assert.Equal(t, []string{"p2", "p3"}, r.Auction.ParticipantIDs)
	assert.Equal(t, "p2", r.Event.Target())

	r.Resolve("p2", models.Plain{Of: models.ActionBid})
	r.Resolve("p3", models.Plain{Of: models.ActionPass})
	assert.Nil(t, r.Auction)
	assert.Equal(t, "p2", r.Cells[3].OwnerID)
	require.Equal(t, "p2", r.current().ID, "p2 has not played yet and keeps the turn")
	requireInvariants(t, r)

	dice.push(1, 3)
	r.RollDice("p2")
	require.NotNil(t, r.LastRoll)
	assert.Equal(t, "p2", r.LastRoll.PlayerID)
	assert.Equal(t, 4, r.player("p2").Position)
}

func TestRollerDisconnectKeepsAuction(t *testing.T) {
	r, _, dice, _ := setupTestRoom(t, 3)
	dice.push(1, 2)
	r.RollDice("p1")
	r.Resolve("p1", models.Plain{Of: models.ActionPass})

	require.True(t, r.Disconnect("p1"))
	require.NotNil(t, r.Auction)
	assert.Equal(t, []string{"p2", "p3"}, r.Auction.ParticipantIDs)
	assert.Equal(t, 0, r.TurnIndex, "the turn ends when the auction closes")

	r.Resolve("p2", models.Plain{Of: models.ActionBid})
	r.Resolve("p3", models.Plain{Of: models.ActionPass})
	assert.Nil(t, r.Auction)
	assert.Equal(t, "p2", r.Cells[3].OwnerID)
	assert.Equal(t, 1, r.TurnIndex)
	requireInvariants(t, r)
}

func TestRollerExpiresDuringAuction(t *testing.T) {
	r, _, dice, _ := setupTestRoom(t, 3)
	dice.push(1, 2)
	r.RollDice("p1")
	r.Resolve("p1", models.Plain{Of: models.ActionPass})
	r.Disconnect("p1")

	assert.Equal(t, 2, r.ExpireDisconnect("p1"))
	require.NotNil(t, r.Auction)
	r.Resolve("p2", models.Plain{Of: models.ActionPass})
	assert.Nil(t, r.Auction)
	assert.Empty(t, r.Cells[3].OwnerID)
	assert.Equal(t, "p2", r.current().ID)
	requireInvariants(t, r)
}
