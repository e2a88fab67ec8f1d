// internal/game/room.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/cache"
	"github.com/NGoodma/expat/internal/models"
	"github.com/sirupsen/logrus"
)

// RoomState is the lifecycle phase of a room.
type RoomState string

const (
	StateLobby    RoomState = "lobby"
	StatePlaying  RoomState = "playing"
	StateFinished RoomState = "finished"
)

// maxLogEntries bounds the player-visible action log.
const maxLogEntries = 50

// RoomEventType is the message type used when broadcasting room state.
const RoomEventType = "room_update"

// Randomizer is the source of dice rolls and coin flips. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// RoomEvent is what every participant of a room receives after a processed action.
type RoomEvent struct {
	Type string `json:"type"`
	Room *Room  `json:"room"`
}

// Standing is a player's final position in a finished room.
type Standing struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Bankrupt bool   `json:"isBankrupt"`
	IsBot    bool   `json:"isBot"`
}

// Result summarizes a finished room. WinnerID is a stable identity and is
// empty when nobody survived.
type Result struct {
	Code       string     `json:"code"`
	WinnerID   string     `json:"winnerId"`
	WinnerName string     `json:"winnerName"`
	Standings  []Standing `json:"standings"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// Room holds the entire state of one game table. Every exported method takes Mu
// for the whole cascade it triggers; lowercase helpers assume it is held.
type Room struct {
	Code         string               `json:"code"`
	Players      []*models.Player     `json:"players"`
	Cells        []*models.Cell       `json:"cells"`
	TurnIndex    int                  `json:"turnIndex"`
	Event        models.PendingEvent  `json:"activeEvent"`
	Auction      *models.AuctionState `json:"auctionState"`
	ActionLog    []string             `json:"actionLog"`
	State        RoomState            `json:"state"`
	LastActivity time.Time            `json:"lastActionTime"`
	LastRoll     *models.LastRoll     `json:"lastRoll,omitempty"`

	Mu sync.Mutex `json:"-"`

	// BroadcastFn is called with the lock held after every processed action.
	// It must not block and must not call back into the room.
	BroadcastFn func(ev RoomEvent) `json:"-"`

	// OnFinish is called once, with the lock held, when the room reaches StateFinished.
	OnFinish func(res Result) `json:"-"`

	rng         Randomizer
	now         func() time.Time
	logger      *logrus.Entry
	actionIndex int
	finished    bool
}

// NewRoom builds an empty lobby with a fresh board.
func NewRoom(code string, logger *logrus.Logger) *Room {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Room{
		Code:      code,
		Players:   []*models.Player{},
		Cells:     board.NewCells(),
		ActionLog: []string{},
		State:     StateLobby,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		logger:    logger.WithField("room", code),
	}
	r.LastActivity = r.now()
	return r
}

// SetRandomizer replaces the dice source. Intended for tests and replays.
func (r *Room) SetRandomizer(rng Randomizer) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.rng = rng
}

// SetClock replaces the time source used for bot pacing and activity stamps.
func (r *Room) SetClock(now func() time.Time) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.now = now
	r.LastActivity = now()
}

// guard runs fn as one transaction: a panic restores the state captured
// before fn started. The room is broadcast either way.
func (r *Room) guard(op string, fn func()) {
	snap := r.capture()
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.WithFields(logrus.Fields{
					"op":    op,
					"panic": fmt.Sprint(rec),
				}).Error("room operation failed, state restored")
				r.restore(snap)
			}
		}()
		fn()
	}()
	r.checkFinished()
	r.broadcast()
}

func (r *Room) broadcast() {
	if r.BroadcastFn == nil {
		return
	}
	r.BroadcastFn(RoomEvent{Type: RoomEventType, Room: r})
}

func (r *Room) checkFinished() {
	if r.State != StateFinished || r.finished {
		return
	}
	r.finished = true
	res := r.result()
	r.logger.WithField("winner", res.WinnerName).Info("room finished")
	if r.OnFinish != nil {
		r.OnFinish(res)
	}
}

func (r *Room) result() Result {
	res := Result{Code: r.Code, FinishedAt: r.now()}
	for _, p := range r.Players {
		res.Standings = append(res.Standings, Standing{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Balance:  p.Balance,
			Bankrupt: p.Bankrupt,
			IsBot:    p.IsBot,
		})
		if !p.Bankrupt && res.WinnerID == "" {
			res.WinnerID = p.PlayerID
			res.WinnerName = p.Name
		}
	}
	return res
}

// logAction appends a narrative line to the room log and hands a record to the
// historian queue. actor may be nil for room-level entries.
func (r *Room) logAction(actor *models.Player, actionType, msg string) {
	r.ActionLog = append(r.ActionLog, msg)
	if len(r.ActionLog) > maxLogEntries {
		r.ActionLog = append([]string(nil), r.ActionLog[len(r.ActionLog)-maxLogEntries:]...)
	}

	r.actionIndex++
	record := cache.RoomActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		ActionType:  actionType,
		Message:     msg,
		Timestamp:   r.now().UnixMilli(),
	}
	if actor != nil {
		record.ActorID = actor.PlayerID
	}
	go func(rec cache.RoomActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			r.logger.Warnf("failed to publish action %d: %v", rec.ActionIndex, err)
		}
	}(record)
}

func (r *Room) playerIndex(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) player(id string) *models.Player {
	if i := r.playerIndex(id); i >= 0 {
		return r.Players[i]
	}
	return nil
}

func (r *Room) playerByStableID(stableID string) *models.Player {
	for _, p := range r.Players {
		if p.PlayerID == stableID {
			return p
		}
	}
	return nil
}

func (r *Room) current() *models.Player {
	if r.TurnIndex < 0 || r.TurnIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.TurnIndex]
}

func (r *Room) cell(id int) *models.Cell {
	if id < 0 || id >= len(r.Cells) {
		return nil
	}
	return r.Cells[id]
}

// ownsGroup reports whether ownerID holds every property of the group.
func (r *Room) ownsGroup(ownerID, group string) bool {
	if ownerID == "" {
		return false
	}
	for _, c := range r.Cells {
		if c.Type == models.CellProperty && c.Group == group && c.OwnerID != ownerID {
			return false
		}
	}
	return true
}

// groupDeveloped reports whether any property of the group carries improvements.
func (r *Room) groupDeveloped(group string) bool {
	for _, c := range r.Cells {
		if c.Type == models.CellProperty && c.Group == group && c.Level > 0 {
			return true
		}
	}
	return false
}

// PlayerCount returns the number of seats taken.
func (r *Room) PlayerCount() int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return len(r.Players)
}

// Phase returns the current lifecycle state.
func (r *Room) Phase() RoomState {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.State
}

type roomSnapshot struct {
	players   []models.Player
	cells     []models.Cell
	turnIndex int
	event     models.PendingEvent
	auction   *models.AuctionState
	log       []string
	state     RoomState
	lastRoll  *models.LastRoll
}

func (r *Room) capture() roomSnapshot {
	s := roomSnapshot{
		players:   make([]models.Player, len(r.Players)),
		cells:     make([]models.Cell, len(r.Cells)),
		turnIndex: r.TurnIndex,
		auction:   r.Auction.Clone(),
		log:       append([]string(nil), r.ActionLog...),
		state:     r.State,
		lastRoll:  r.LastRoll.Clone(),
	}
	for i, p := range r.Players {
		s.players[i] = *p
	}
	for i, c := range r.Cells {
		s.cells[i] = *c
	}
	if r.Event != nil {
		s.event = r.Event.Clone()
	}
	return s
}

func (r *Room) restore(s roomSnapshot) {
	r.Players = make([]*models.Player, len(s.players))
	for i := range s.players {
		p := s.players[i]
		r.Players[i] = &p
	}
	r.Cells = make([]*models.Cell, len(s.cells))
	for i := range s.cells {
		c := s.cells[i]
		r.Cells[i] = &c
	}
	r.TurnIndex = s.turnIndex
	r.Event = s.event
	r.Auction = s.auction
	r.ActionLog = s.log
	r.State = s.state
	r.LastRoll = s.lastRoll
}
