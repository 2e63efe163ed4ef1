package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/ecovoyage/internal/cli"
	"github.com/aretw0/ecovoyage/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip interactively",
	Long: `Walks through the planner, login and confirmation screens in the terminal.
With --redis-addr the session is shared with a running server and can be
resumed with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rt, err := newRuntime(cmd, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		sessionID, _ := cmd.Flags().GetString("session")
		s := &cli.Interactive{
			Planner:   rt.Planner,
			In:        os.Stdin,
			Out:       cmd.OutOrStdout(),
			Render:    tui.RendererFor(os.Stdout),
			SessionID: sessionID,
		}
		return s.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("session", "", "Resume or name a session (default: new random ID)")
	planCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")

	// Planning is the default when no command is provided.
	rootCmd.RunE = planCmd.RunE
}
