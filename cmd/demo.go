package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stella/learning-switch/pkg/scenario"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [name...]",
		Short: "Run built-in demonstration scenarios",
		Long: fmt.Sprintf(`Run one or more built-in scenarios. With no arguments every scenario runs in order.

Available scenarios: %s`, strings.Join(scenario.BuiltinNames(), ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = scenario.BuiltinNames()
			}

			// resolve every name before running anything
			scenarios := make([]*scenario.Scenario, 0, len(names))
			for _, name := range names {
				sc, ok := scenario.Builtin(name)
				if !ok {
					return fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(scenario.BuiltinNames(), ", "))
				}
				scenarios = append(scenarios, sc)
			}

			for _, sc := range scenarios {
				if err := runScenario(cmd, sc); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range scenario.BuiltinNames() {
				sc, _ := scenario.Builtin(name)
				fmt.Fprintf(out, "%-10s %s\n", name, sc.Description)
			}
		},
	}
}
