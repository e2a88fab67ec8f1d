// internal/handlers/session.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NGoodma/expat/internal/auth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sessionSubject returns the stable id carried by the participant token
// cookie. No cookie yields ("", nil).
func sessionSubject(r *http.Request) (string, error) {
	cookie, err := r.Cookie(auth.CookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return auth.AuthenticateToken(cookie.Value)
}

// SessionHandler issues a participant token cookie. A valid existing token
// keeps its identity; otherwise a new one is minted.
func SessionHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		playerID, err := sessionSubject(r)
		if err != nil || playerID == "" {
			playerID = uuid.NewString()
		}
		token, err := auth.CreateToken(playerID)
		if err != nil {
			logger.WithError(err).Error("failed to create participant token")
			http.Error(w, "could not create session", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(auth.TokenTTL.Seconds()),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"playerId": playerID})
	}
}
