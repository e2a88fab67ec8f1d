package game

import "errors"

// Request-level failures reported back to the client in the ack.
// Rejected in-game actions are not errors; they are ignored.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameInProgress = errors.New("game already started")
	ErrRoomFull       = errors.New("room is full")
	ErrPlayerNotFound = errors.New("player not found in this room")
)
