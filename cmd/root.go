package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/app"
	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/infra/logger"
	"github.com/quentinv/taxitrace/pkg/export"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "taxitrace",
	Short: "Taxi fleet GPS trace analysis",
	Long: `taxitrace segments taxi GPS traces into trips, computes fleet mileage
and pickup statistics, projects the CO2 impact of electrification and
predicts the next pickup location.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	if err := svc.Run(ctx); err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), svc.Report())
}
