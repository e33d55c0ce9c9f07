package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/core/trace"
	"github.com/quentinv/taxitrace/infra/logger"
	"github.com/quentinv/taxitrace/infra/mqtt"
	"github.com/quentinv/taxitrace/simulator"
)

var replaySpeedup float64

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Stream the recorded traces to an MQTT broker",
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeedup, "speedup", 60, "time compression factor")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, _, err := trace.LoadDir(cfg.Input.Dir)
	if err != nil {
		return err
	}
	client, err := mqtt.NewClient(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Close()

	return simulator.Replay(ctx, fleet, client, replaySpeedup, logger.New("replay"))
}
