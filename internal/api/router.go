package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/deduce/internal/api/handlers"
	mw "github.com/Harshitk-cp/deduce/internal/api/middleware"
	"github.com/Harshitk-cp/deduce/internal/buildconfig"
	"github.com/Harshitk-cp/deduce/internal/config"
	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/service"
	"github.com/Harshitk-cp/deduce/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Sweeper      *service.SessionSweeper
	Games        *service.GameService
	sessions     *service.SessionRegistry
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Deps are the collaborators NewAppWithDeps wires together. NewApp builds
// them from a database pool.
type Deps struct {
	DB       Pinger
	Games    domain.GameStore
	Events   domain.EventStore
	Profiles domain.ProfileStore
	Registry prometheus.Registerer
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	return NewAppWithDeps(Deps{
		DB:       db,
		Games:    store.NewGameStore(db),
		Events:   store.NewEventStore(db),
		Profiles: store.NewProfileStore(db),
		Registry: prometheus.DefaultRegisterer,
	}, logger)
}

func NewAppWithDeps(deps Deps, logger *zap.Logger) *App {
	// Services
	sessions := service.NewSessionRegistry(logger)
	engine := service.NewDecisionEngine(logger)
	engine.SetMaxDepth(config.SearchMaxDepth())
	gameSvc := service.NewGameService(deps.Games, deps.Events, deps.Profiles, sessions, engine, logger)

	sweeper := service.NewSessionSweeper(sessions, logger)
	sweeper.SetTTL(config.SessionIdleTTL())
	sweeper.SetInterval(config.SessionSweepInterval())

	// Handlers
	gameHandler := handlers.NewGameHandler(gameSvc)
	beliefHandler := handlers.NewBeliefHandler(gameSvc)
	graphHandler := handlers.NewGraphHandler(gameSvc)
	decisionHandler := handlers.NewDecisionHandler(gameSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Sweeper:   sweeper,
		Games:     gameSvc,
		sessions:  sessions,
		startTime: time.Now(),
	}
	app.registerGauges(deps.Registry, engine)

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Unauthenticated
	r.Get("/health", healthHandler(deps.DB))
	r.Get("/metrics", app.metricsHandler(engine))
	r.Handle("/metrics/prometheus", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Route("/games", func(r chi.Router) {
			r.Post("/", gameHandler.Create)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", gameHandler.Get)
				r.Patch("/", gameHandler.Update)
				r.Delete("/", gameHandler.Delete)
				r.Post("/reset", gameHandler.Reset)
				r.Post("/events", gameHandler.RecordEvent)
				r.Get("/history", gameHandler.History)
				r.Get("/situation", gameHandler.Situation)

				r.Post("/suspicions", beliefHandler.AnalyzeSuspicion)
				r.Get("/suspicions", beliefHandler.Suspicions)
				r.Post("/contradictions", beliefHandler.AnalyzeContradiction)

				r.Get("/patterns", graphHandler.Patterns)
				r.Post("/patterns/apply", graphHandler.ApplyPatterns)

				r.Post("/recommendations", decisionHandler.Recommend)

				r.Route("/players/{playerID}", func(r chi.Router) {
					r.Get("/relations", graphHandler.Relations)
					r.Put("/profile", gameHandler.AnnotateProfile)
					r.Get("/investigation", gameHandler.Investigate)
				})
			})
		})

		r.Post("/actions/utility", decisionHandler.Utility)
		r.Post("/search/minimax", decisionHandler.Minimax)
	})

	return app
}

func (app *App) registerGauges(reg prometheus.Registerer, engine *service.DecisionEngine) {
	if reg == nil {
		return
	}
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "deduce_sessions_live",
			Help: "Game sessions currently held in memory",
		}, func() float64 { return float64(app.sessions.Len()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "deduce_minimax_searches_total",
			Help: "Minimax searches run",
		}, func() float64 { return float64(engine.Stats().Searches) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "deduce_minimax_nodes_visited_total",
			Help: "Search nodes evaluated across all minimax searches",
		}, func() float64 { return float64(engine.Stats().NodesVisited) }),
	)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"build":  buildconfig.VersionInfo(),
		})
	}
}

func (app *App) metricsHandler(engine *service.DecisionEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		stats := engine.Stats()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"sessions":       app.sessions.Len(),
			"decision": map[string]any{
				"searches":      stats.Searches,
				"nodes_visited": stats.NodesVisited,
				"max_depth":     engine.MaxDepth(),
			},
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.GameStore    = (*store.GameStore)(nil)
	_ domain.EventStore   = (*store.EventStore)(nil)
	_ domain.ProfileStore = (*store.ProfileStore)(nil)
	_ Pinger              = (*pgxpool.Pool)(nil)
)
