package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/middleware"
)

// RouterConfig holds the cross-cutting router settings
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Limiter        *middleware.RateLimiter
	Logger         logrus.FieldLogger
}

// NewRouter mounts every endpoint. live may be nil when the feed is off.
func NewRouter(h *Handler, live *LiveHandler, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	if live != nil {
		r.Get("/ws", live.HandleWebSocket)
		r.Get("/metrics", live.HandleMetrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Handler)
		}

		r.Get("/goalies", h.GetGoalies)
		r.Get("/goalie/{goalieID}/stats", h.GetGoalieStats)
		r.Get("/game/{gamePk}/goals", h.GetGoals)
		r.Get("/game/{gamePk}/goal-sides", h.GetGoalSides)
		r.Get("/schedule", h.GetSchedule)
		r.Get("/board", h.GetBoard)
	})

	return r
}
