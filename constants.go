package main

import "time"

// Player configuration constants
const (
	PlayerCookieName = "player_id"
	minPlayerIDLen   = 10
)

// Route constants
const (
	RouteCheck   = "/api/check"
	RouteDaily   = "/api/daily"
	RouteGuess   = "/api/guess"
	RouteSession = "/api/session"
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)

// Error message constants
const (
	ErrorInvalidKey      = "key must be a date in YYYY-MM-DD form"
	ErrorInvalidBody     = "request body must be a JSON object"
	ErrorNotToday        = "key is not the current game day"
	ErrorTooManyRequests = "Too many requests. Please slow down."
	ErrorUnavailable     = "word lists are unavailable"
)

// Background maintenance
const (
	sweepInterval   = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

type contextKey string

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
