package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wordsinwords/internal/guess"
	"wordsinwords/internal/types"
	"wordsinwords/internal/words"
)

// checkHandler validates a guess against a daily word without recording it.
// A missing dailyWord means today's word. Unreadable bodies are treated as
// an empty guess.
func (app *App) checkHandler(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			app.serverException(c, fmt.Errorf("panic: %v", r))
		}
	}()

	var req types.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLog(c).Debugf("unreadable check body, treating as empty: %v", err)
		req = types.CheckRequest{}
	}

	dailyWord := req.DailyWord
	if strings.TrimSpace(dailyWord) == "" {
		dailyWord = app.Resources.DailyWord(app.Calendar.Today())
	}

	dict, err := app.Resources.Dictionary()
	if err != nil {
		app.serverException(c, err)
		return
	}

	verdict := guess.Validate(req.Guess, dailyWord, dict)
	app.Metrics.observeCheck(verdict.Reason)
	c.JSON(http.StatusOK, types.CheckResponse{
		Valid:   verdict.Valid,
		Reason:  string(verdict.Reason),
		Message: verdict.Reason.Message(),
		Points:  guess.Preview(req.Guess, dailyWord),
	})
}

// serverException answers a check that failed for reasons unrelated to the guess.
func (app *App) serverException(c *gin.Context, err error) {
	reqLog(c).WithError(err).Error("guess check failed")
	app.Metrics.observeCheck(guess.ReasonServerException)
	c.AbortWithStatusJSON(http.StatusInternalServerError, types.CheckResponse{
		Valid:   false,
		Reason:  string(guess.ReasonServerException),
		Message: guess.ReasonServerException.Message(),
	})
}

// dailyHandler returns the daily word for ?key=, defaulting to today.
func (app *App) dailyHandler(c *gin.Context) {
	key, ok := app.resolveKey(c, c.Query("key"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.DailyResponse{
		Key:          key,
		Word:         app.Resources.DailyWord(key),
		NextRollover: app.Calendar.NextRollover(),
	})
}

// guessHandler validates a guess against the day's word and records it for
// the current player.
func (app *App) guessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	playerID := app.getOrCreatePlayer(c)

	var req types.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLog(c).Debugf("unreadable guess body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidBody})
		return
	}
	key, ok := app.resolveTodayKey(c, req.Key)
	if !ok {
		return
	}

	dict, err := app.Resources.Dictionary()
	if err != nil {
		reqLog(c).WithError(err).Error("dictionary unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   ErrorUnavailable,
			"reason":  guess.ReasonServerException,
			"message": guess.ReasonServerException.Message(),
		})
		return
	}

	verdict := guess.Validate(req.Guess, app.Resources.DailyWord(key), dict)
	res := app.Sessions.Submit(ctx, playerID, key, req.Guess, verdict)

	outcome := res.Outcome
	if res.Recorded {
		app.Metrics.observeGuess(verdict.Reason, res.JustCompleted)
		reqLog(c).Debugf("player %s guessed %q on %s: %s (+%d)",
			playerID, outcome.Word, key, reasonLabel(verdict.Reason), outcome.Points)
	} else {
		outcome = types.GuessOutcome{
			Word:   words.Normalize(req.Guess),
			Valid:  verdict.Valid,
			Reason: string(verdict.Reason),
		}
	}
	outcome.Message = verdict.Reason.Message()

	c.JSON(http.StatusOK, types.GuessResponse{
		Outcome:       outcome,
		Duplicate:     res.Duplicate,
		JustCompleted: res.JustCompleted,
		Session:       sessionResponse(res.Snapshot),
	})
}

// sessionHandler returns the current player's state for today.
func (app *App) sessionHandler(c *gin.Context) {
	playerID := app.getOrCreatePlayer(c)
	key, ok := app.resolveTodayKey(c, c.Query("key"))
	if !ok {
		return
	}
	snap := app.Sessions.Snapshot(c.Request.Context(), playerID, key)
	c.JSON(http.StatusOK, sessionResponse(snap))
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	status, code := "ok", http.StatusOK

	dictWords := 0
	if dict, err := app.Resources.Dictionary(); err != nil {
		reqLog(c).WithError(err).Warn("health check: dictionary unavailable")
		status, code = "degraded", http.StatusServiceUnavailable
	} else {
		dictWords = dict.Len()
	}
	if p, ok := app.Store.(pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			reqLog(c).WithError(err).Warn("health check: store unreachable")
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	pool := app.Resources.Pool()
	c.JSON(code, gin.H{
		"status":           status,
		"env":              envName(app.Config.IsProduction()),
		"today":            app.Calendar.Today(),
		"pool_words":       pool.Len(),
		"pool_fallback":    pool.Fallback(),
		"dictionary_words": dictWords,
		"players":          app.Sessions.Players(),
		"uptime":           formatUptime(time.Since(app.StartTime)),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
