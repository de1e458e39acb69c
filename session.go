package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wordsinwords/internal/daykey"
	"wordsinwords/internal/session"
	"wordsinwords/internal/types"
)

// getOrCreatePlayer retrieves the player ID from the cookie or creates a new one.
func (app *App) getOrCreatePlayer(c *gin.Context) string {
	playerID, err := c.Cookie(PlayerCookieName)
	if err != nil || len(playerID) < minPlayerIDLen {
		playerID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.Config.IsProduction()
		c.SetCookie(PlayerCookieName, playerID, int(app.Config.CookieMaxAge.Seconds()), "/", "", secure, true)
		reqLog(c).Infof("Created new player: %s", playerID)
	}
	return playerID
}

// resolveKey returns raw as a game-day key, or today's key when raw is empty.
// On a malformed key it writes a 400 response and returns false.
func (app *App) resolveKey(c *gin.Context, raw string) (string, bool) {
	if raw == "" {
		return app.Calendar.Today(), true
	}
	if !daykey.Valid(raw) {
		reqLog(c).Debugf("rejected malformed key %q", raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidKey})
		return "", false
	}
	return raw, true
}

// resolveTodayKey is resolveKey restricted to the current game day. A stale
// key, typically from a client that stayed open across 8 PM, gets a 409.
func (app *App) resolveTodayKey(c *gin.Context, raw string) (string, bool) {
	key, ok := app.resolveKey(c, raw)
	if !ok {
		return "", false
	}
	if today := app.Calendar.Today(); key != today {
		reqLog(c).Debugf("rejected key %s, today is %s", key, today)
		c.JSON(http.StatusConflict, gin.H{"error": ErrorNotToday, "today": today})
		return "", false
	}
	return key, true
}

func sessionResponse(s session.Snapshot) types.SessionResponse {
	return types.SessionResponse{
		Day:     s.Day,
		Goal:    s.Goal,
		Streak:  s.Streak,
		History: s.History,
	}
}
