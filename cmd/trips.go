package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/core/model"
	"github.com/quentinv/taxitrace/core/segment"
	"github.com/quentinv/taxitrace/core/trace"
	"github.com/quentinv/taxitrace/pkg/export"
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Segment the traces and print trips as CSV",
	RunE:  runTrips,
}

func init() {
	rootCmd.AddCommand(tripsCmd)
}

func runTrips(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, _, err := trace.LoadDir(cfg.Input.Dir)
	if err != nil {
		return err
	}
	results := segment.New(cfg.Segmentation).Fleet(fleet)
	return export.WriteTripsCSV(cmd.OutOrStdout(), collectTrips(results))
}

// collectTrips flattens per-vehicle results into one pickup-ordered list.
func collectTrips(results map[string]segment.Result) []model.Trip {
	var all []model.Trip
	for _, res := range results {
		all = append(all, res.Trips...)
	}
	return segment.Pickups(all)
}
