package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"orbitshell/internal/app"
	"orbitshell/internal/config"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd, rulesSchemaCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the file search rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules and where they were read from",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := app.Load(opts)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(ws.Rules, "", "  ")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", ws.RulesPath)
		fmt.Fprintln(out, string(b))
		return nil
	},
}

var rulesSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for orbitshell_rules.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := config.MarshalSchema(config.RulesSchema())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}
