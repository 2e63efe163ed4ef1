package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active catalog",
	Long:  `Prints the catalog the planner prices against, after validation. Useful as a starting point for a custom --catalog file.`,
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

		cat := rt.Planner.Catalog()
		var data []byte
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err = json.MarshalIndent(cat, "", "  ")
		} else {
			data, err = cat.Marshal()
		}
		if err != nil {
			return fmt.Errorf("error marshaling catalog: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("json", false, "Print as JSON instead of YAML")
}
