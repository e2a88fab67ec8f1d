package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	cell := 3
	tests := []struct {
		name    string
		req     ActionRequest
		want    Action
		wantErr error
	}{
		{name: "plain", req: ActionRequest{Action: "buy"}, want: Plain{Of: ActionBuy}},
		{name: "cell action", req: ActionRequest{Action: "mortgage", CellID: &cell}, want: CellAction{Of: ActionMortgage, CellID: 3}},
		{name: "cell action without cell", req: ActionRequest{Action: "sell_upgrade"}, wantErr: ErrMissingCell},
		{name: "trade without target", req: ActionRequest{Action: "propose_trade"}, wantErr: ErrMissingTarget},
		{name: "unknown", req: ActionRequest{Action: "teleport"}, wantErr: ErrUnknownAction},
		{name: "empty", req: ActionRequest{}, wantErr: ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTradeCopiesCells(t *testing.T) {
	offer := 1
	got, err := ParseAction(ActionRequest{
		Action:               "propose_trade",
		TradeTargetPlayerID:  "p2",
		TradeOfferPropertyID: &offer,
		TradeOfferAmount:     5_000,
	})
	require.NoError(t, err)
	trade, ok := got.(TradeOffer)
	require.True(t, ok)
	assert.Equal(t, "p2", trade.TargetID)
	assert.Nil(t, trade.RequestCellID)
	offer = 9
	assert.Equal(t, 1, *trade.OfferCellID)

	_, err = ParseAction(ActionRequest{Action: "propose_trade", TradeTargetPlayerID: "p2", TradeOfferAmount: -1})
	assert.Error(t, err)
}

func TestEventJSONCarriesType(t *testing.T) {
	events := []PendingEvent{
		NewBuyEvent("p1", "Buy?", 1, 60_000),
		NewRentEvent("p1", "Rent", 1, 2_000, "p2"),
		NewAuctionEvent("p2", "Auction", 1),
		NewTradeProposal("p2", "Offer", "p1", nil, nil, 0),
	}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded), string(data))
		assert.Equal(t, string(ev.Kind()), decoded["type"])
		assert.Equal(t, ev.Target(), decoded["targetId"])
		assert.Equal(t, ev.Message(), decoded["message"])
	}
}

func TestEventCloneIsIndependent(t *testing.T) {
	offer := 4
	orig := NewTradeProposal("p2", "Offer", "p1", &offer, nil, 0)
	clone := orig.Clone().(*TradeProposal)
	clone.Retarget("p3")
	*clone.OfferCellID = 7

	assert.Equal(t, "p2", orig.Target())
	assert.Equal(t, 4, *orig.OfferCellID)
}

func TestAuctionRemoveKeepsActiveBidder(t *testing.T) {
	a := &AuctionState{ParticipantIDs: []string{"a", "b", "c"}, ActiveBidderIndex: 2}
	assert.True(t, a.Remove("a"))
	assert.Equal(t, "c", a.ActiveBidder())

	assert.True(t, a.Remove("c"))
	assert.Equal(t, "b", a.ActiveBidder(), "wraps to the start")
	assert.False(t, a.Remove("zzz"))
}

func TestRentScheduleForLevel(t *testing.T) {
	rs := RentSchedule{Base: 1, Monopoly: 2, House1: 3, House2: 4, House3: 5, House4: 6, Hotel: 7}
	assert.Equal(t, int64(3), rs.ForLevel(1))
	assert.Equal(t, int64(7), rs.ForLevel(MaxLevel))
}
