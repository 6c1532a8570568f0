package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hal/contrib/config"
	"github.com/hal/contrib/internal/aggregate"
	"github.com/hal/contrib/internal/log"
	"github.com/hal/contrib/internal/output"
	"github.com/hal/contrib/internal/store"
)

// NewCmdPresent creates the present command.
func NewCmdPresent(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "present",
		Short: "Render gathered contributions as a per-author report",
		Long: `Load gathered collection files, aggregate contributions per author,
and render the result. The input may be a single collection file or a
directory of them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresent(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "collection file or directory (default: configured output dir)")
	cmd.Flags().StringVarP(&opts.Usernames, "usernames", "u", "", "JSON file mapping logins to display names")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: table, markdown, or json")

	return cmd
}

func runPresent(cmd *cobra.Command, args []string, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	input := opts.Input
	if input == "" {
		input = cfg.OutputDir
	}
	colls, err := store.LoadAll(input)
	if err != nil {
		return fmt.Errorf("failed to load collections from %s: %w", input, err)
	}

	usernamesFile := opts.Usernames
	if usernamesFile == "" {
		usernamesFile = cfg.UsernamesFile
	}
	names, err := aggregate.LoadUsernames(usernamesFile)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat
	}
	formatter, err := output.NewFormatter(output.Format(format))
	if err != nil {
		return err
	}

	aggs := aggregate.Aggregate(colls, names)
	return formatter.Format(aggs, os.Stdout)
}
