// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/NGoodma/expat/internal/middleware"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Subprotocol is the websocket subprotocol clients must offer.
const Subprotocol = "expat"

const (
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// RoomWSHandler upgrades the request and serves one client until it goes away.
// A participant token cookie, when present, fixes the client's stable identity.
func RoomWSHandler(logger *logrus.Logger, srv *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stableID, tokenErr := sessionSubject(r)

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != Subprotocol {
			c.Close(BadSubprotocolError, "client must speak the expat subprotocol")
			return
		}
		if tokenErr != nil {
			logger.WithError(tokenErr).Warn("rejected participant token")
			c.Close(InvalidAuthTokenError, "invalid participant token")
			return
		}

		conn := newConnection(uuid.NewString(), stableID)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, conn.ID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go writePump(ctx, cancel, c, conn, logger)

		readErr := readPump(ctx, c, srv, conn, logger)
		srv.disconnect(conn)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, conn.ID, readErr)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readPump decodes frames and hands them to the server until the socket fails.
// It returns nil for an orderly close.
func readPump(ctx context.Context, c *websocket.Conn, srv *RoomServer, conn *Connection, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.WithField("conn", conn.ID).Warnf("ignoring non-text frame %v", typ)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			srv.writeError(conn, "Invalid JSON format")
			continue
		}
		srv.handleMessage(conn, msg)
	}
}

// writePump drains conn.OutChan onto the socket and keeps it alive with pings.
func writePump(ctx context.Context, cancel context.CancelFunc, c *websocket.Conn, conn *Connection, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-conn.OutChan:
			writeCtx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, data)
			wcancel()
			if err != nil {
				if ctx.Err() == nil {
					logger.WithError(err).WithField("conn", conn.ID).Warn("failed to write to websocket")
				}
				return
			}
		case <-ticker.C:
			pingCtx, pcancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Ping(pingCtx)
			pcancel()
			if err != nil {
				if ctx.Err() == nil {
					logger.WithError(err).WithField("conn", conn.ID).Warn("ping failed")
				}
				return
			}
		}
	}
}
