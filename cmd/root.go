package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "contrib",
		Short: "GitHub contribution gathering and reporting",
		Long: `A CLI tool that gathers commits, issues, and pull requests from
GitHub repositories over a date window, attributes them to their authors
and co-authors, and renders per-author summaries.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v",
		"increase verbosity (-v progress, -vv API detail)")

	rootCmd.AddCommand(NewCmdGather(opts))
	rootCmd.AddCommand(NewCmdPresent(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
