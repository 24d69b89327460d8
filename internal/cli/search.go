package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"orbitshell/internal/app"
	"orbitshell/internal/search"
)

var (
	searchRoot  string
	searchLimit int
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchRoot, "root", "", "directory to search (default: --cwd)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum results (default: rules search_limit)")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search file names and contents under a directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := app.Load(opts)
		if err != nil {
			return err
		}
		root := ws.Cwd
		if searchRoot != "" {
			if root, err = filepath.Abs(searchRoot); err != nil {
				return err
			}
		}
		rules := ws.Rules
		if searchLimit > 0 {
			rules.SearchLimit = searchLimit
		}

		e := search.NewEngine()
		var res search.Results
		res.Begin(e.Start(root, strings.Join(args, " "), rules), rules.SearchLimit)
		for res.Pending() {
			select {
			case msg := <-e.Messages():
				res.Apply(msg)
			case <-cmd.Context().Done():
				e.Cancel()
				return cmd.Context().Err()
			}
		}

		out := cmd.OutOrStdout()
		for _, r := range res.Items() {
			p := r.Path
			if rel, err := filepath.Rel(root, p); err == nil {
				p = rel
			}
			if r.IsFilename {
				fmt.Fprintln(out, p)
				continue
			}
			fmt.Fprintf(out, "%s:%d: %s\n", p, r.Line, r.Snippet)
		}
		return nil
	},
}
