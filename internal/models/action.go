package models

import (
	"errors"
	"fmt"
)

// ActionKind names a resolve_event request.
type ActionKind string

const (
	ActionPayBail           ActionKind = "pay_bail"
	ActionEndTurn           ActionKind = "end_turn"
	ActionDeclareBankruptcy ActionKind = "declare_bankruptcy"
	ActionManualUpgrade     ActionKind = "manual_upgrade"
	ActionSellUpgrade       ActionKind = "sell_upgrade"
	ActionMortgage          ActionKind = "mortgage"
	ActionUnmortgage        ActionKind = "unmortgage"
	ActionProposeTrade      ActionKind = "propose_trade"
	ActionAcceptTrade       ActionKind = "accept_trade"
	ActionRejectTrade       ActionKind = "reject_trade"
	ActionBuy               ActionKind = "buy"
	ActionPass              ActionKind = "pass"
	ActionBid               ActionKind = "bid"
	ActionUpgrade           ActionKind = "upgrade"
	ActionPay               ActionKind = "pay"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingCell   = errors.New("action requires a cell id")
	ErrMissingTarget = errors.New("trade requires a target player")
)

// Action is a validated resolve_event request. The set of implementations is closed.
type Action interface {
	Kind() ActionKind
	action()
}

// Plain is an action without arguments.
type Plain struct {
	Of ActionKind
}

// CellAction operates on one of the requester's cells.
type CellAction struct {
	Of     ActionKind
	CellID int
}

// TradeOffer proposes an exchange to TargetID.
type TradeOffer struct {
	TargetID      string
	OfferCellID   *int
	RequestCellID *int
	OfferAmount   int64
}

func (a Plain) Kind() ActionKind      { return a.Of }
func (a CellAction) Kind() ActionKind { return a.Of }
func (TradeOffer) Kind() ActionKind   { return ActionProposeTrade }

func (Plain) action()      {}
func (CellAction) action() {}
func (TradeOffer) action() {}

// ActionRequest is the loosely typed resolve_event payload as clients send it.
type ActionRequest struct {
	Action                 string `mapstructure:"action"`
	CellID                 *int   `mapstructure:"cellId"`
	TradeTargetPlayerID    string `mapstructure:"tradeTargetPlayerId"`
	TradeOfferPropertyID   *int   `mapstructure:"tradeOfferPropertyId"`
	TradeRequestPropertyID *int   `mapstructure:"tradeRequestPropertyId"`
	TradeOfferAmount       int64  `mapstructure:"tradeOfferAmount"`
}

// ParseAction turns a request into one of the known actions, rejecting unknown
// tags and missing arguments before anything reaches a room.
func ParseAction(req ActionRequest) (Action, error) {
	kind := ActionKind(req.Action)
	switch kind {
	case ActionPayBail, ActionEndTurn, ActionDeclareBankruptcy,
		ActionAcceptTrade, ActionRejectTrade,
		ActionBuy, ActionPass, ActionBid, ActionUpgrade, ActionPay:
		return Plain{Of: kind}, nil

	case ActionManualUpgrade, ActionSellUpgrade, ActionMortgage, ActionUnmortgage:
		if req.CellID == nil || *req.CellID < 0 {
			return nil, fmt.Errorf("%s: %w", kind, ErrMissingCell)
		}
		return CellAction{Of: kind, CellID: *req.CellID}, nil

	case ActionProposeTrade:
		if req.TradeTargetPlayerID == "" {
			return nil, ErrMissingTarget
		}
		if req.TradeOfferAmount < 0 {
			return nil, fmt.Errorf("negative trade offer %d", req.TradeOfferAmount)
		}
		return TradeOffer{
			TargetID:      req.TradeTargetPlayerID,
			OfferCellID:   copyInt(req.TradeOfferPropertyID),
			RequestCellID: copyInt(req.TradeRequestPropertyID),
			OfferAmount:   req.TradeOfferAmount,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
}
