package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/render"
	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/tui"
)

var boardTUI bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print tonight's goalie board",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		svc := newServices(cfg, logger)

		if boardTUI {
			return tui.Run(ctx, svc.board.Build, logger)
		}

		rows, err := svc.board.Build(ctx)
		if err != nil {
			logger.WithError(err).Error("failed to build goalie board")
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.RenderTable(rows))
		return err
	},
}

func init() {
	boardCmd.Flags().BoolVar(&boardTUI, "tui", false, "show the board in the interactive view")
}
