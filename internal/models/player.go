package models

// Player is a seat in a room. ID is the transient identity of the connection
// currently driving the seat and is rewritten on reconnect; PlayerID is the
// stable identity the client keeps across reconnects.
type Player struct {
	ID       string `json:"id"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	IsBot    bool   `json:"isBot"`

	Balance      int64 `json:"balance"`
	Position     int   `json:"position"`
	InJail       bool  `json:"inJail"`
	JailRolls    int   `json:"jailRolls"`
	SkipNextTurn bool  `json:"skipNextTurn"`
	DoubleCount  int   `json:"doubleCount"`

	// Ready means "ready to start" in the lobby and "connected and playing" once the game runs.
	Ready bool `json:"isReady"`

	// Bankrupt players keep their seat for the final standings but never take turns again.
	Bankrupt bool `json:"isBankrupt"`

	// DebtTo is the transient identity of the creditor while the balance is negative.
	DebtTo string `json:"debtTo,omitempty"`
}

// Active reports whether the player still takes part in turn rotation and auctions.
func (p *Player) Active() bool {
	return p.Ready && !p.Bankrupt
}
