// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stella/learning-switch/pkg/node"
)

var (
	// Global flags
	configFile string
	logLevel   string

	// Populated by loadRuntime before any subcommand runs
	config *node.Config
	logger *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "l2switch",
		Short: "Layer 2 Ethernet learning switch simulator",
		Long: `l2switch replays frame sequences through a simulated Ethernet learning switch
and shows how it learns MAC addresses, forwards known unicast, floods broadcast
and unknown unicast, filters same-segment traffic and ages out stale entries.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: loadRuntime,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug|info|warn|error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newListCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	cfg, err := node.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	l, err := node.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	config = cfg
	logger = l
	return nil
}
