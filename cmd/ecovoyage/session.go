package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/ecovoyage/internal/cli"
	"github.com/aretw0/ecovoyage/pkg/persistence/middleware"
	"github.com/spf13/cobra"
)

var errNoSharedStore = errors.New("session commands need a redis store: set --redis-addr or ECOVOYAGE_REDIS_ADDR")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage planning sessions stored in Redis",
	Long:  `List, inspect, and remove planning sessions shared through Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := sharedRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		sessions, err := rt.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No active sessions found.")
			return nil
		}

		fmt.Fprintln(out, "Active Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the trip of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := sharedRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		store := rt.Trips
		if showPII, _ := cmd.Flags().GetBool("show-pii"); !showPII {
			store = middleware.NewPIIMiddleware([]string{"phone", "email"})(store)
		}

		sessionID := args[0]
		trip, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		data, err := json.MarshalIndent(trip, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling trip: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := sharedRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = rt.Store.List(cmd.Context()); err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		}

		var errs []error
		for _, sessionID := range args {
			if err := rt.Planner.End(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("show-pii", false, "Show phone and email unmasked")
	sessionRmCmd.Flags().Bool("all", false, "Remove every active session")
}

// sharedRuntime builds a runtime backed by Redis; in-memory sessions die
// with the process, so there is nothing to manage without one.
func sharedRuntime(cmd *cobra.Command) (*cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !cfg.RedisEnabled() {
		return nil, errNoSharedStore
	}
	return newRuntime(cmd, cfg)
}
