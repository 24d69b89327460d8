package cli

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"

    "orbitshell/internal/app"
)

var opts app.Options

var rootCmd = &cobra.Command{
    Use:   "orbitshell [flags] [-- shell-args...]",
    Short: "orbitshell – a block-oriented terminal",
    Long: "orbitshell runs your shell inside a TUI that groups each command with its output,\n" +
        "suggests completions from history, paths and PATH, and searches the working tree.",
    Args: cobra.ArbitraryArgs,
    RunE: func(cmd *cobra.Command, args []string) error {
        // Default action: launch the TUI
        if len(args) > 0 {
            opts.Args = args
        }
        return app.Start(opts)
    },
    SilenceUsage:  true,
    SilenceErrors: true,
}

func init() {
    f := rootCmd.PersistentFlags()
    f.StringVar(&opts.Cwd, "cwd", "", "starting directory (default: current directory)")
    f.StringVar(&opts.RulesPath, "rules", "", "search rules file (default: ./orbitshell_rules.json, then the config directory)")
    f.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
    rootCmd.Flags().StringVar(&opts.Shell, "shell", "", "shell to run (default: $SHELL, or PowerShell on Windows)")
    rootCmd.Flags().StringVar(&opts.LogFile, "log-file", "", "log file while the TUI runs")
    rootCmd.Flags().BoolVar(&opts.NoIntegration, "no-integration", false, "do not inject prompt markers into the shell")
}

// Execute runs the CLI.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}
