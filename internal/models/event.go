package models

import "encoding/json"

// EventKind tags the variant of a PendingEvent on the wire.
type EventKind string

const (
	EventBuy     EventKind = "buy"
	EventUpgrade EventKind = "upgrade"
	EventRent    EventKind = "rent"
	EventTax     EventKind = "tax"
	EventChance  EventKind = "chance"
	EventAuction EventKind = "auction"
	EventTrade   EventKind = "trade_proposal"
)

// PendingEvent is a decision the room is waiting on. Only the participant
// named by Target may resolve it. The set of implementations is closed.
type PendingEvent interface {
	Kind() EventKind
	Target() string
	Retarget(id string)
	Message() string
	Clone() PendingEvent

	pendingEvent()
}

type eventBase struct {
	TargetID string `json:"targetId"`
	Msg      string `json:"message"`
}

func (e *eventBase) Target() string     { return e.TargetID }
func (e *eventBase) Retarget(id string) { e.TargetID = id }
func (e *eventBase) Message() string    { return e.Msg }
func (e *eventBase) pendingEvent()      {}

// BuyEvent offers an unowned cell to the player who landed on it.
type BuyEvent struct {
	eventBase
	CellID int   `json:"cellId"`
	Amount int64 `json:"amount"`
}

// UpgradeEvent offers one more improvement level on a monopoly the player landed on.
type UpgradeEvent struct {
	eventBase
	CellID int   `json:"cellId"`
	Amount int64 `json:"amount"`
}

// RentEvent charges the lander in favour of OwnerID.
type RentEvent struct {
	eventBase
	CellID  int    `json:"cellId"`
	Amount  int64  `json:"amount"`
	OwnerID string `json:"ownerId"`
}

// TaxEvent charges a fixed amount to the bank.
type TaxEvent struct {
	eventBase
	CellID int   `json:"cellId"`
	Amount int64 `json:"amount"`
}

// ChanceEvent applies a signed amount to the lander's balance.
type ChanceEvent struct {
	eventBase
	CellID int   `json:"cellId"`
	Amount int64 `json:"amount"`
}

// AuctionEvent points at the participant whose bid is awaited. Bidding state
// lives in the room's AuctionState.
type AuctionEvent struct {
	eventBase
	CellID int `json:"cellId"`
}

// TradeProposal is an offer from InitiatorID to the target. Either cell may be
// absent; OfferAmount is cash paid by the initiator.
type TradeProposal struct {
	eventBase
	InitiatorID   string `json:"initiatorId"`
	OfferCellID   *int   `json:"offerCellId,omitempty"`
	RequestCellID *int   `json:"requestCellId,omitempty"`
	OfferAmount   int64  `json:"offerAmount"`
}

func NewBuyEvent(target, msg string, cellID int, amount int64) *BuyEvent {
	return &BuyEvent{eventBase{target, msg}, cellID, amount}
}

func NewUpgradeEvent(target, msg string, cellID int, amount int64) *UpgradeEvent {
	return &UpgradeEvent{eventBase{target, msg}, cellID, amount}
}

func NewRentEvent(target, msg string, cellID int, amount int64, ownerID string) *RentEvent {
	return &RentEvent{eventBase{target, msg}, cellID, amount, ownerID}
}

func NewTaxEvent(target, msg string, cellID int, amount int64) *TaxEvent {
	return &TaxEvent{eventBase{target, msg}, cellID, amount}
}

func NewChanceEvent(target, msg string, cellID int, amount int64) *ChanceEvent {
	return &ChanceEvent{eventBase{target, msg}, cellID, amount}
}

func NewAuctionEvent(target, msg string, cellID int) *AuctionEvent {
	return &AuctionEvent{eventBase{target, msg}, cellID}
}

func NewTradeProposal(target, msg, initiator string, offerCell, requestCell *int, amount int64) *TradeProposal {
	return &TradeProposal{
		eventBase:     eventBase{target, msg},
		InitiatorID:   initiator,
		OfferCellID:   copyInt(offerCell),
		RequestCellID: copyInt(requestCell),
		OfferAmount:   amount,
	}
}

func (*BuyEvent) Kind() EventKind      { return EventBuy }
func (*UpgradeEvent) Kind() EventKind  { return EventUpgrade }
func (*RentEvent) Kind() EventKind     { return EventRent }
func (*TaxEvent) Kind() EventKind      { return EventTax }
func (*ChanceEvent) Kind() EventKind   { return EventChance }
func (*AuctionEvent) Kind() EventKind  { return EventAuction }
func (*TradeProposal) Kind() EventKind { return EventTrade }

func (e *BuyEvent) Clone() PendingEvent     { c := *e; return &c }
func (e *UpgradeEvent) Clone() PendingEvent { c := *e; return &c }
func (e *RentEvent) Clone() PendingEvent    { c := *e; return &c }
func (e *TaxEvent) Clone() PendingEvent     { c := *e; return &c }
func (e *ChanceEvent) Clone() PendingEvent  { c := *e; return &c }
func (e *AuctionEvent) Clone() PendingEvent { c := *e; return &c }

func (e *TradeProposal) Clone() PendingEvent {
	c := *e
	c.OfferCellID = copyInt(e.OfferCellID)
	c.RequestCellID = copyInt(e.RequestCellID)
	return &c
}

// The wire form of every event is a flat object carrying a "type" tag.

func (e *BuyEvent) MarshalJSON() ([]byte, error) {
	type plain BuyEvent
	return marshalTagged(EventBuy, (*plain)(e))
}

func (e *UpgradeEvent) MarshalJSON() ([]byte, error) {
	type plain UpgradeEvent
	return marshalTagged(EventUpgrade, (*plain)(e))
}

func (e *RentEvent) MarshalJSON() ([]byte, error) {
	type plain RentEvent
	return marshalTagged(EventRent, (*plain)(e))
}

func (e *TaxEvent) MarshalJSON() ([]byte, error) {
	type plain TaxEvent
	return marshalTagged(EventTax, (*plain)(e))
}

func (e *ChanceEvent) MarshalJSON() ([]byte, error) {
	type plain ChanceEvent
	return marshalTagged(EventChance, (*plain)(e))
}

func (e *AuctionEvent) MarshalJSON() ([]byte, error) {
	type plain AuctionEvent
	return marshalTagged(EventAuction, (*plain)(e))
}

func (e *TradeProposal) MarshalJSON() ([]byte, error) {
	type plain TradeProposal
	return marshalTagged(EventTrade, (*plain)(e))
}

// marshalTagged encodes v and splices the "type" key into the resulting object.
func marshalTagged(kind EventKind, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(tag)+9)
	out = append(out, `{"type":`...)
	out = append(out, tag...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
