// internal/handlers/messages.go
package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ClientMessage is every frame a client sends.
type ClientMessage struct {
	Type      string                 `json:"type"`
	RequestID string                 `json:"requestId,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Ack answers create, join and rejoin requests.
type Ack struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Success   bool   `json:"success"`
	RoomCode  string `json:"roomCode,omitempty"`
	PlayerID  string `json:"playerId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// roomRequest addresses an operation at a room.
type roomRequest struct {
	Code string `mapstructure:"code"`
}

// enterRequest is the payload of create_room, join_room and rejoin_room.
type enterRequest struct {
	Code     string `mapstructure:"code"`
	Name     string `mapstructure:"name"`
	Icon     string `mapstructure:"icon"`
	Color    string `mapstructure:"color"`
	PlayerID string `mapstructure:"playerId"`
}

type playerInfoRequest struct {
	Code  string `mapstructure:"code"`
	Color string `mapstructure:"color"`
	Icon  string `mapstructure:"icon"`
}

// decodePayload fills out from a loosely typed payload. Numbers may arrive as
// JSON numbers or numeric strings.
func decodePayload(payload map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func encodeFrame(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(errorMessage{Type: "error", Message: "internal encoding error"})
	}
	return data
}
