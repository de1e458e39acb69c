package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"wordsinwords/internal/config"
	"wordsinwords/internal/daykey"
	"wordsinwords/internal/session"
	"wordsinwords/internal/store"
	"wordsinwords/internal/words"
)

// Store is a session store that owns resources.
type Store interface {
	session.Store
	Close() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// App holds the wired service.
type App struct {
	Config    *config.Config
	Resources *words.Resources
	Calendar  *daykey.Calendar
	Sessions  *session.Manager
	Store     Store
	Metrics   *Metrics

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex
	StartTime    time.Time
}

// NewApp wires the service. Resources are touched once so the pool fallback
// gauge reflects what is being served.
func NewApp(cfg *config.Config, resources *words.Resources, calendar *daykey.Calendar, sessions *session.Manager, st Store) *App {
	app := &App{
		Config:     cfg,
		Resources:  resources,
		Calendar:   calendar,
		Sessions:   sessions,
		Store:      st,
		Metrics:    NewMetrics(sessions.Players),
		LimiterMap: make(map[string]*rate.Limiter),
		StartTime:  time.Now(),
	}
	app.Metrics.setPoolFallback(resources.Pool().Fallback())
	return app
}

// Router builds the gin engine with all routes and middleware.
func (app *App) Router() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedPaths([]string{RouteMetrics})))

	if err := router.SetTrustedProxies([]string{app.Config.TrustedProxy}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware(), app.Metrics.middleware(), app.cacheMiddleware())

	router.POST(RouteCheck, app.rateLimitMiddleware(), app.checkHandler)
	router.GET(RouteDaily, app.dailyHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.GET(RouteSession, app.sessionHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteMetrics, gin.WrapH(app.Metrics.Handler()))

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logFatal("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logFatal("Invalid configuration: %v", err)
	}

	setupLogging(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logInfo("Starting Words in Words in %s mode", envName(cfg.IsProduction()))

	loc, err := cfg.Location()
	if err != nil {
		logFatal("Failed to load timezone: %v", err)
	}

	resources := words.NewResources(cfg.PoolPath, cfg.DictionaryPath, cfg.Rules.Band())
	dict, err := resources.Dictionary()
	if err != nil {
		logFatal("Failed to load dictionary: %v", err)
	}
	if err := checkDictionarySize(dict.Len(), cfg.DictionaryMinWords); err != nil {
		if cfg.IsProduction() {
			logFatal("%v", err)
		}
		logWarn("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logFatal("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logWarn("Failed to close store: %v", err)
		}
	}()

	calendar := daykey.NewCalendar(loc, nil)
	sessions := session.NewManager(st, session.WithGoal(cfg.Rules.DailyGoal))
	app := NewApp(cfg, resources, calendar, sessions, st)
	logInfo("Game day %s, daily goal %d points, next rollover in %s",
		calendar.Today(), sessions.Goal(), formatUptime(calendar.Until()))

	go app.runSweeper(ctx, sweepInterval)

	startServer(ctx, app.Router(), cfg.Port)
}

// checkDictionarySize fails when the dictionary holds fewer than minWords words.
// Short lists reject ordinary guesses as not_in_dictionary.
func checkDictionarySize(n, minWords int) error {
	if n < minWords {
		return fmt.Errorf("dictionary has %d words, want at least %d (set DICTIONARY_PATH to a full word list)", n, minWords)
	}
	return nil
}

// openStore opens the configured persistence backend.
func openStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logWarn("Using in-memory store, player state will not survive restarts")
		return store.NewMemory(), nil
	case config.StoreRedis:
		logInfo("Connecting to redis at %s", cfg.RedisAddr)
		return store.ConnectRedis(ctx, store.RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			TTL:        cfg.RedisTTL,
			MaxRetries: cfg.RedisRetries,
		})
	case config.StoreFile:
		logInfo("Persisting player state under %s", cfg.StoreDir)
		return store.NewFile(cfg.StoreDir, cfg.StoreMaxAge)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// runSweeper periodically evicts idle players from memory and, for the file
// backend, removes expired state files. It stops when ctx is done.
func (app *App) runSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sweep()
		}
	}
}

func (app *App) sweep() {
	if n := app.Sessions.Sweep(app.Config.SessionTimeout); n > 0 {
		logInfo("Evicted %d idle player%s from memory", n, plural(n))
	}
	if f, ok := app.Store.(*store.File); ok {
		n, err := f.Cleanup(app.Config.StoreMaxAge)
		if err != nil {
			logWarn("State file cleanup failed: %v", err)
		} else if n > 0 {
			logInfo("Removed %d expired state file%s", n, plural(n))
		}
	}
}

func startServer(ctx context.Context, router *gin.Engine, port int) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%d", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
