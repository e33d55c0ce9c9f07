package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/config"
	"github.com/quentinv/taxitrace/core/emissions"
	"github.com/quentinv/taxitrace/core/segment"
	"github.com/quentinv/taxitrace/core/stats"
	"github.com/quentinv/taxitrace/core/trace"
	"github.com/quentinv/taxitrace/pkg/export"
)

var emissionsCmd = &cobra.Command{
	Use:   "emissions",
	Short: "Project the CO2 impact of electrifying the fleet",
	RunE:  runEmissions,
}

func init() {
	rootCmd.AddCommand(emissionsCmd)
}

func runEmissions(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, _, err := trace.LoadDir(cfg.Input.Dir)
	if err != nil {
		return err
	}
	results := segment.New(cfg.Segmentation).Fleet(fleet)

	ecfg := cfg.Emissions
	if ecfg.FleetSize == 0 {
		ecfg.FleetSize = len(fleet)
	}
	if ecfg.AnnualKmPerVehicle == 0 {
		ecfg.AnnualKmPerVehicle = stats.MeanDailyKm(results) * 365
	}
	rep, err := emissions.Project(ecfg)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), rep)
}
