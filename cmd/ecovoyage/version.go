package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ecovoyage"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ecovoyage",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ecovoyage version %s\n", strings.TrimSpace(ecovoyage.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
