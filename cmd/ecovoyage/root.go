package main

import (
	"fmt"
	"os"

	"github.com/aretw0/ecovoyage/internal/cli"
	"github.com/aretw0/ecovoyage/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecovoyage",
	Short: "EcoVoyage estimates the cost of a trip",
	Long: `EcoVoyage prices a trip from a catalog of cities, attractions, cuisines,
hotels and travel classes, and walks a traveler through planning, login and
confirmation from the terminal, over HTTP or as MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML or JSON catalog (default: built-in)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for shared sessions (default: in memory)")
}

// loadConfig resolves defaults, config file and environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.CatalogPath, _ = flags.GetString("catalog")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	return cfg, cfg.Validate()
}

// newRuntime builds the planner described by cfg.
func newRuntime(cmd *cobra.Command, cfg config.Config) (*cli.Runtime, error) {
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return cli.NewRuntime(cmd.Context(), cfg, logger)
}
