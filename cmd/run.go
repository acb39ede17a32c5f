package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stella/learning-switch/pkg/scenario"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file",
		Long: `Run the frames and actions listed in a YAML scenario file against a fresh switch.

The scenario may override the port count and aging timeout from the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			return runScenario(cmd, sc)
		},
	}
}

// runScenario renders sc to the command output
func runScenario(cmd *cobra.Command, sc *scenario.Scenario) error {
	local := *config
	sc.Apply(&local)

	r := newRenderer(cmd.OutOrStdout(), local.Switch.Ports)
	r.header(sc, local.Switch.Ports, local.Switch.AgingTimeout)
	return scenario.Run(&local, sc, r, logger)
}
