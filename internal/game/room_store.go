// internal/game/room_store.go
package game

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoFreeCode is returned when every room code is in use.
var ErrNoFreeCode = errors.New("no free room code")

const (
	minRoomCode = 1000
	maxRoomCode = 9999
)

// RoomSummary is the public listing entry of a room.
type RoomSummary struct {
	Code    string    `json:"code"`
	State   RoomState `json:"state"`
	Players int       `json:"players"`
}

// RoomStore is the registry of live rooms keyed by their 4-digit code.
type RoomStore struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	codes  *rand.Rand
	logger *logrus.Logger

	// OnCreate runs for every new room before it becomes reachable, typically
	// to attach a broadcaster.
	OnCreate func(r *Room)

	// OnDestroy runs after a room has been removed from the registry.
	OnDestroy func(code string)

	// OnFinish receives the result of every finished room. It is called with
	// the room lock held and must not block.
	OnFinish func(res Result)

	// RejoinGrace is how long a disconnected player's seat is held during play.
	RejoinGrace time.Duration

	// FinishedTTL is how long a finished room stays reachable.
	FinishedTTL time.Duration

	afterFunc func(d time.Duration, f func())
}

// NewRoomStore builds an empty registry.
func NewRoomStore(logger *logrus.Logger) *RoomStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RoomStore{
		rooms:       make(map[string]*Room),
		codes:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
		RejoinGrace: 90 * time.Second,
		FinishedTTL: 5 * time.Minute,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Create opens a new lobby seated by its host.
func (s *RoomStore) Create(connID, stableID string, info PlayerInfo) (*Room, error) {
	s.mu.Lock()
	code, err := s.freeCode()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	r := NewRoom(code, s.logger)
	r.OnFinish = func(res Result) { s.finished(r, res) }
	r.addPlayer(connID, stableID, info, true)
	s.rooms[code] = r
	s.mu.Unlock()

	if s.OnCreate != nil {
		s.OnCreate(r)
	}
	s.logger.WithField("room", code).Info("room created")

	r.Mu.Lock()
	r.broadcast()
	r.Mu.Unlock()
	return r, nil
}

// freeCode draws codes until an unused one comes up. Caller holds s.mu.
func (s *RoomStore) freeCode() (string, error) {
	span := maxRoomCode - minRoomCode + 1
	if len(s.rooms) >= span {
		return "", ErrNoFreeCode
	}
	for {
		code := strconv.Itoa(minRoomCode + s.codes.Intn(span))
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
}

// Get returns the room with the given code.
func (s *RoomStore) Get(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

// Join seats a player in an existing lobby.
func (s *RoomStore) Join(code, connID, stableID string, info PlayerInfo) (*Room, error) {
	r, ok := s.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := r.Join(connID, stableID, info); err != nil {
		return nil, err
	}
	return r, nil
}

// Rejoin moves a known player onto a new connection.
func (s *RoomStore) Rejoin(code, stableID, connID string) (*Room, error) {
	r, ok := s.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := r.Rejoin(stableID, connID); err != nil {
		return nil, err
	}
	return r, nil
}

// Leave frees a seat and destroys the room when it becomes empty.
func (s *RoomStore) Leave(code, connID string) {
	r, ok := s.Get(code)
	if !ok {
		return
	}
	if r.Leave(connID) == 0 {
		s.destroy(r)
	}
}

// Disconnect applies a lost connection and, during play, schedules the seat
// to be released after RejoinGrace unless the player came back.
func (s *RoomStore) Disconnect(code, connID string) {
	r, ok := s.Get(code)
	if !ok {
		return
	}
	if !r.Disconnect(connID) {
		if r.PlayerCount() == 0 {
			s.destroy(r)
		}
		return
	}
	s.afterFunc(s.RejoinGrace, func() {
		if r.ExpireDisconnect(connID) == 0 {
			s.destroy(r)
		}
	})
}

// Destroy removes the room with the given code.
func (s *RoomStore) Destroy(code string) {
	if r, ok := s.Get(code); ok {
		s.destroy(r)
	}
}

// destroy removes r only if it is still the room registered under its code.
func (s *RoomStore) destroy(r *Room) {
	s.mu.Lock()
	cur, ok := s.rooms[r.Code]
	if !ok || cur != r {
		s.mu.Unlock()
		return
	}
	delete(s.rooms, r.Code)
	s.mu.Unlock()

	s.logger.WithField("room", r.Code).Info("room destroyed")
	if s.OnDestroy != nil {
		s.OnDestroy(r.Code)
	}
}

// finished runs under the room lock when r reaches StateFinished.
func (s *RoomStore) finished(r *Room, res Result) {
	if s.OnFinish != nil {
		s.OnFinish(res)
	}
	s.afterFunc(s.FinishedTTL, func() { s.destroy(r) })
}

// List returns a summary of every room, ordered by code.
func (s *RoomStore) List() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Mu.Lock()
		out = append(out, RoomSummary{Code: r.Code, State: r.State, Players: len(r.Players)})
		r.Mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Count returns the number of live rooms.
func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// TickBots gives every playing room one chance to let a bot act.
func (s *RoomStore) TickBots(delay time.Duration) {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	for _, r := range rooms {
		r.BotTick(delay)
	}
}

// RunBots ticks bots every interval until ctx is done.
func (s *RoomStore) RunBots(ctx context.Context, interval, delay time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.TickBots(delay)
		}
	}
}
