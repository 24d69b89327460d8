package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"orbitshell/internal/app"
	"orbitshell/internal/store"
)

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.AddCommand(recentRemoveCmd)
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := app.Load(opts)
		if err != nil {
			return err
		}
		items, err := store.LoadRecent(ws.RecentPath)
		if err != nil {
			return err
		}
		for _, it := range items {
			when := time.Unix(it.LastOpened, 0).Format("2006-01-02 15:04")
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", when, it.Path)
		}
		return nil
	},
}

var recentRemoveCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Forget a recent directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := app.Load(opts)
		if err != nil {
			return err
		}
		p, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		removed, err := store.RemoveRecent(ws.RecentPath, p)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("not in recent list: %s", p)
		}
		return nil
	},
}
