package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/poller"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/publisher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and live goal-side feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newServices(cfg, logger)

	liveHub := hub.NewHub(logger)
	go liveHub.Run(ctx)

	pollerOpts := []poller.Option{}
	if cfg.Redis.URL != "" {
		client, err := publisher.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		stream := publisher.NewStreamPublisher(client)
		defer stream.Close()

		pollerOpts = append(pollerOpts, poller.WithStore(stream))
		logger.WithField("stream", publisher.StreamKey).Info("publishing goal side updates to redis")
	}

	if cfg.Live.PollInterval > 0 {
		livePoller := poller.New(svc.discovery, svc.goalSides, liveHub, cfg.Live.PollInterval, logger, pollerOpts...)
		go livePoller.Run(ctx)
	} else {
		logger.Info("live poller disabled")
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:     cfg.Server.RateLimit.RPS,
		Burst:   cfg.Server.RateLimit.Burst,
		Enabled: cfg.Server.RateLimit.Enabled,
	})
	go sweepLimiter(ctx, limiter)

	handler := handlers.NewHandler(svc.discovery, svc.stats, svc.goalSides, svc.board, logger)
	live := handlers.NewLiveHandler(ctx, liveHub, cfg.Server.CORSOrigins, logger)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handlers.NewRouter(handler, live, handlers.RouterConfig{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: 2 * cfg.NHL.Timeout,
			Limiter:        limiter,
			Logger:         logger,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.NHL.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("goalie service listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.WithField("signal", sig.String()).Info("shutting down")

		// stop pollers and websocket pumps before draining requests
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("graceful shutdown failed")
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Sweep(now)
		}
	}
}
