package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/board"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/discovery"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/goalsides"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/goalstats"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/providers/nhl"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/retry"
)

var (
	// Build info - set via -ldflags at build time
	Version   = "dev"
	CommitID  = "unknown"
	BuildDate = "unknown"

	cfgFile string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "goalie-service",
	Short:         "NHL goalie board and goal-side analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(cfg.Log)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "goalie-service %s (commit %s, built %s)\n", Version, CommitID, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(versionCmd)
}

// services is the domain layer shared by every command
type services struct {
	discovery *discovery.Service
	stats     *goalstats.Service
	goalSides *goalsides.Service
	board     *board.Builder
}

func newServices(cfg *config.Config, logger *logrus.Logger) *services {
	upstream := nhl.New(nhl.Options{
		BaseURL:   cfg.NHL.BaseURL,
		UserAgent: cfg.NHL.UserAgent,
		Timeout:   cfg.NHL.Timeout,
		Retry:     retry.NewPolicy(cfg.NHL.RetryAttempts, cfg.NHL.RetryDelay),
		Logger:    logger,
	})

	s := &services{
		discovery: discovery.New(upstream),
		stats:     goalstats.New(upstream),
		goalSides: goalsides.New(upstream),
	}
	s.board = board.NewBuilder(s.discovery, s.stats, s.goalSides,
		board.WithMaxConcurrency(cfg.Board.MaxConcurrency),
		board.WithLogger(logger.WithField("component", "board")),
	)
	return s
}
