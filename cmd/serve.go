package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/app"
	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline and expose the results over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	return svc.Serve(ctx)
}
