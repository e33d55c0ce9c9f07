package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quentinv/taxitrace/infra/logger"
	"github.com/quentinv/taxitrace/simulator"
)

var genCfg simulator.GeneratorConfig
var genDir string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic fleet of trace files",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genDir, "out", "traces", "output directory")
	generateCmd.Flags().IntVar(&genCfg.Vehicles, "vehicles", 0, "number of vehicles")
	generateCmd.Flags().IntVar(&genCfg.Days, "days", 0, "days of activity per vehicle")
	generateCmd.Flags().Int64Var(&genCfg.Seed, "seed", 0, "random seed")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := simulator.Generate(genDir, genCfg)
	if err != nil {
		return err
	}
	log := logger.New("generate")
	for _, f := range files {
		log.Infof("wrote %s", f)
	}
	return nil
}
