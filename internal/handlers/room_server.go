// internal/handlers/room_server.go
package handlers

import (
	"github.com/NGoodma/expat/internal/game"
	"github.com/NGoodma/expat/internal/models"
	"github.com/sirupsen/logrus"
)

// RoomServer connects websocket clients to the room registry.
type RoomServer struct {
	Store  *game.RoomStore
	Hub    *Hub
	logger *logrus.Logger
}

// NewRoomServer wires the store's lifecycle hooks to a broadcast hub. Hooks
// already set on the store keep running after the hub's.
func NewRoomServer(store *game.RoomStore, logger *logrus.Logger) *RoomServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &RoomServer{Store: store, Hub: NewHub(logger), logger: logger}

	prevCreate, prevDestroy := store.OnCreate, store.OnDestroy
	store.OnCreate = func(r *game.Room) {
		r.Mu.Lock()
		r.BroadcastFn = s.Hub.BroadcastFunc(r.Code)
		r.Mu.Unlock()
		if prevCreate != nil {
			prevCreate(r)
		}
	}
	store.OnDestroy = func(code string) {
		s.Hub.DropRoom(code)
		if prevDestroy != nil {
			prevDestroy(code)
		}
	}
	return s
}

// handleMessage dispatches one client frame. In-game rejections are silent;
// only malformed frames produce an error message.
func (s *RoomServer) handleMessage(conn *Connection, msg ClientMessage) {
	log := s.logger.WithFields(logrus.Fields{"conn": conn.ID, "type": msg.Type})

	switch msg.Type {
	case "ping":
		conn.WriteRaw(encodeFrame(map[string]string{"type": "pong"}))

	case "create_room", "join_room", "rejoin_room":
		var req enterRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			s.writeError(conn, err.Error())
			return
		}
		s.enter(conn, msg, req)

	case "toggle_ready", "leave_room", "add_bot", "remove_bot", "start_game", "roll_dice":
		var req roomRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			s.writeError(conn, err.Error())
			return
		}
		r, ok := s.roomFor(conn, req.Code)
		if !ok {
			log.Debug("no such room")
			return
		}
		switch msg.Type {
		case "toggle_ready":
			r.ToggleReady(conn.ID)
		case "leave_room":
			s.leave(conn, r.Code)
		case "add_bot":
			r.AddBot(conn.ID)
		case "remove_bot":
			r.RemoveBot(conn.ID)
		case "start_game":
			r.Start(conn.ID)
		case "roll_dice":
			r.RollDice(conn.ID)
		}

	case "update_player_info":
		var req playerInfoRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			s.writeError(conn, err.Error())
			return
		}
		if r, ok := s.roomFor(conn, req.Code); ok {
			r.UpdatePlayerInfo(conn.ID, req.Color, req.Icon)
		}

	case "resolve_event":
		var req struct {
			Code                 string `mapstructure:"code"`
			models.ActionRequest `mapstructure:",squash"`
		}
		if err := decodePayload(msg.Payload, &req); err != nil {
			s.writeError(conn, err.Error())
			return
		}
		action, err := models.ParseAction(req.ActionRequest)
		if err != nil {
			s.writeError(conn, err.Error())
			return
		}
		if r, ok := s.roomFor(conn, req.Code); ok {
			r.Resolve(conn.ID, action)
		}

	default:
		log.Warn("unknown message type")
		s.writeError(conn, "unknown message type: "+msg.Type)
	}
}

// enter handles create_room, join_room and rejoin_room.
func (s *RoomServer) enter(conn *Connection, msg ClientMessage, req enterRequest) {
	stableID := conn.StableID
	if stableID == "" {
		stableID = req.PlayerID
	}
	if stableID == "" {
		stableID = conn.ID
	}

	if conn.room != "" && (msg.Type == "create_room" || conn.room != req.Code) {
		s.leave(conn, conn.room)
	}

	info := game.PlayerInfo{Name: req.Name, Icon: req.Icon, Color: req.Color}
	var (
		r   *game.Room
		err error
	)
	switch msg.Type {
	case "create_room":
		r, err = s.Store.Create(conn.ID, stableID, info)
	case "join_room":
		r, err = s.Store.Join(req.Code, conn.ID, stableID, info)
	default:
		r, err = s.Store.Rejoin(req.Code, stableID, conn.ID)
	}

	ack := Ack{Type: "ack", RequestID: msg.RequestID}
	if err != nil {
		ack.Error = err.Error()
		conn.WriteRaw(encodeFrame(ack))
		return
	}

	conn.room = r.Code
	s.Hub.Attach(r.Code, conn)
	ack.Success = true
	ack.RoomCode = r.Code
	ack.PlayerID = stableID
	conn.WriteRaw(encodeFrame(ack))
	conn.WriteRaw(snapshot(r))
}

func (s *RoomServer) leave(conn *Connection, code string) {
	s.Hub.Detach(code, conn)
	s.Store.Leave(code, conn.ID)
	if conn.room == code {
		conn.room = ""
	}
}

// disconnect runs once the client's socket is gone.
func (s *RoomServer) disconnect(conn *Connection) {
	if conn.room == "" {
		return
	}
	s.Hub.Detach(conn.room, conn)
	s.Store.Disconnect(conn.room, conn.ID)
	conn.room = ""
}

// roomFor resolves the addressed room, defaulting to the one the client entered.
func (s *RoomServer) roomFor(conn *Connection, code string) (*game.Room, bool) {
	if code == "" {
		code = conn.room
	}
	if code == "" {
		return nil, false
	}
	return s.Store.Get(code)
}

func (s *RoomServer) writeError(conn *Connection, message string) {
	conn.WriteRaw(encodeFrame(errorMessage{Type: "error", Message: message}))
}

func snapshot(r *game.Room) []byte {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return encodeFrame(game.RoomEvent{Type: game.RoomEventType, Room: r})
}
