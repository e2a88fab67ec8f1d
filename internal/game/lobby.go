// internal/game/lobby.go
package game

import (
	"fmt"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
	"github.com/google/uuid"
)

// Palette is the fixed list of player colours; Icons pairs with it by index.
var (
	Palette = []string{"#E53935", "#FB8C00", "#FDD835", "#43A047", "#1E88E5", "#8E24AA", "#F06292", "#00ACC1", "#7CB342", "#6D4C41"}
	Icons   = []string{"🚀", "🤠", "⭐", "💵", "🧊", "🔮", "💅", "🐬", "🍀", "☕"}
)

const botIcon = "🤖"

var botNames = []string{"Bot Ruslan", "Bot Marat", "Bot Vanya", "Bot Dasha", "Bot Nikita"}

// PlayerInfo is what a client chooses for itself when entering a room.
type PlayerInfo struct {
	Name  string `mapstructure:"name"`
	Icon  string `mapstructure:"icon"`
	Color string `mapstructure:"color"`
}

// pickLook keeps the preferred colour and icon unless the colour is taken, in
// which case the first free palette entry is used.
func (r *Room) pickLook(preferredColor, preferredIcon string) (string, string) {
	if preferredColor == "" {
		preferredColor = Palette[0]
	}
	if preferredIcon == "" {
		preferredIcon = Icons[0]
	}
	if !r.colorTaken(preferredColor, "") {
		return preferredColor, preferredIcon
	}
	for i, c := range Palette {
		if !r.colorTaken(c, "") {
			return c, Icons[i]
		}
	}
	return preferredColor, preferredIcon
}

func (r *Room) colorTaken(color, exceptID string) bool {
	for _, p := range r.Players {
		if p.ID != exceptID && p.Color == color {
			return true
		}
	}
	return false
}

// addPlayer seats a new human. The room creator starts ready.
func (r *Room) addPlayer(connID, stableID string, info PlayerInfo, host bool) *models.Player {
	if stableID == "" {
		stableID = connID
	}
	name := info.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", len(r.Players)+1)
	}
	color, icon := r.pickLook(info.Color, info.Icon)
	p := &models.Player{
		ID:       connID,
		PlayerID: stableID,
		Name:     name,
		Color:    color,
		Icon:     icon,
		Balance:  board.StartBalance,
		Ready:    host,
	}
	r.Players = append(r.Players, p)
	r.logger.WithField("player", stableID).Debug("player seated")
	return p
}

// Join seats a new player in a lobby. A stable identity that already holds a
// seat takes it over instead.
func (r *Room) Join(connID, stableID string, info PlayerInfo) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if stableID != "" {
		if existing := r.playerByStableID(stableID); existing != nil {
			r.guard("join", func() { r.migrate(existing, connID) })
			return nil
		}
	}
	if r.State != StateLobby {
		return ErrGameInProgress
	}
	if len(r.Players) >= board.MaxPlayers {
		return ErrRoomFull
	}
	r.guard("join", func() { r.addPlayer(connID, stableID, info, false) })
	return nil
}

// ToggleReady flips the lobby readiness of a player.
func (r *Room) ToggleReady(connID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.player(connID)
	if p == nil || r.State != StateLobby {
		return
	}
	r.guard("toggle_ready", func() { p.Ready = !p.Ready })
}

// UpdatePlayerInfo changes colour and icon in the lobby. A colour held by
// someone else is refused.
func (r *Room) UpdatePlayerInfo(connID, color, icon string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.player(connID)
	if p == nil || r.State != StateLobby || color == "" || r.colorTaken(color, connID) {
		return
	}
	r.guard("update_player_info", func() {
		p.Color = color
		if icon != "" {
			p.Icon = icon
		}
	})
}

// Leave removes a player for good and returns the number of seats left.
func (r *Room) Leave(connID string) int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	idx := r.playerIndex(connID)
	if idx < 0 {
		return len(r.Players)
	}
	r.guard("leave_room", func() {
		p := r.Players[idx]
		if r.State == StatePlaying {
			r.logAction(p, "leave", fmt.Sprintf("%s left the game.", p.Name))
		}
		r.removePlayer(p)
	})
	return len(r.Players)
}

func (r *Room) isHost(connID string) bool {
	return len(r.Players) > 0 && r.Players[0].ID == connID
}

// AddBot seats a scripted player. Only the host may do it, in the lobby.
func (r *Room) AddBot(connID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StateLobby || !r.isHost(connID) || len(r.Players) >= board.MaxPlayers {
		return
	}
	r.guard("add_bot", func() {
		bots := 0
		for _, p := range r.Players {
			if p.IsBot {
				bots++
			}
		}
		name := fmt.Sprintf("Bot %d", bots+1)
		if bots < len(botNames) {
			name = botNames[bots]
		}
		color, _ := r.pickLook(Palette[0], botIcon)
		id := "bot_" + uuid.NewString()[:8]
		r.Players = append(r.Players, &models.Player{
			ID:       id,
			PlayerID: id,
			Name:     name,
			Color:    color,
			Icon:     botIcon,
			IsBot:    true,
			Balance:  board.StartBalance,
			Ready:    true,
		})
	})
}

// RemoveBot removes the most recently seated bot. Host only, lobby only.
func (r *Room) RemoveBot(connID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StateLobby || !r.isHost(connID) {
		return
	}
	for i := len(r.Players) - 1; i >= 0; i-- {
		if r.Players[i].IsBot {
			bot := r.Players[i]
			r.guard("remove_bot", func() { r.removePlayer(bot) })
			return
		}
	}
}

// Start begins the game once the host asks, everyone is ready and there are
// at least two players.
func (r *Room) Start(connID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.State != StateLobby || !r.isHost(connID) || len(r.Players) < 2 {
		return
	}
	for _, p := range r.Players {
		if !p.Ready {
			return
		}
	}
	r.guard("start_game", func() {
		r.State = StatePlaying
		r.TurnIndex = 0
		r.ActionLog = []string{}
		r.LastActivity = r.now()
		r.logAction(nil, "game_start", "The game has started! Good luck!")
	})
}
