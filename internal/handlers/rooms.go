// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// ListRoomsHandler returns every live room with its state and head count.
func ListRoomsHandler(srv *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(srv.Store.List())
	}
}

// HealthHandler reports liveness and the number of rooms.
func HealthHandler(srv *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"rooms":  srv.Store.Count(),
		})
	}
}
