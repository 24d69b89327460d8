package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"orbitshell/internal/app"
)

var (
	historyLimit  int
	historyPrefix string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries (0 for all)")
	historyCmd.Flags().StringVar(&historyPrefix, "prefix", "", "only entries starting with this text")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the merged command history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := app.Load(opts)
		if err != nil {
			return err
		}
		h := ws.History()
		entries := h.Entries()
		if historyPrefix != "" {
			entries = h.WithPrefix(historyPrefix, historyLimit)
		} else if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}
