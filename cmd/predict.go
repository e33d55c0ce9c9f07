package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/core/predict"
	"github.com/quentinv/taxitrace/core/segment"
	"github.com/quentinv/taxitrace/core/trace"
	"github.com/quentinv/taxitrace/pkg/export"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Train the next-pickup model and print its forecast",
	RunE:  runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, _, err := trace.LoadDir(cfg.Input.Dir)
	if err != nil {
		return err
	}
	trips := collectTrips(segment.New(cfg.Segmentation).Fleet(fleet))

	mdl, res, err := predict.Train(trips, cfg.Prediction)
	if err != nil {
		return err
	}
	lat, lon, err := mdl.PredictNext(trips)
	if err != nil {
		return err
	}
	out := struct {
		Evaluation predict.Result `json:"evaluation"`
		NextLat    float64        `json:"next_lat"`
		NextLon    float64        `json:"next_lon"`
	}{res, lat, lon}
	return export.WriteJSON(cmd.OutOrStdout(), out)
}
