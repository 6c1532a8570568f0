package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hal/contrib/config"
	"github.com/hal/contrib/internal/duration"
	"github.com/hal/contrib/internal/gather"
	"github.com/hal/contrib/internal/ghclient"
	"github.com/hal/contrib/internal/log"
	"github.com/hal/contrib/internal/store"
)

// defaultReposFile is consulted when no repositories are given on the
// command line or in config.
const defaultReposFile = "repos.json"

// NewCmdGather creates the gather command.
func NewCmdGather(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gather [owner/repo...]",
		Short: "Gather contributions from GitHub repositories",
		Long: `Fetch commits, issues, and pull requests for each repository over
the collection window and write one JSON collection file per repository.
Repositories come from the arguments, the --repos file, or the config
file, in that order of precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGather(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ReposFile, "repos", "r", "", "JSON file listing repositories as owner/name")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "directory for gathered collections")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "branch to gather commits from (default branch if unset)")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "", "collection window: ISO date (2024-01-01) or duration (30d, 6mo)")

	return cmd
}

func runGather(cmd *cobra.Command, args []string, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, err := resolveRepos(args, opts.ReposFile, cfg)
	if err != nil {
		return err
	}

	sinceStr := opts.Since
	if sinceStr == "" {
		sinceStr = cfg.Since
	}
	since, err := parseSince(sinceStr, time.Now())
	if err != nil {
		return err
	}

	branch := opts.Branch
	if branch == "" {
		branch = cfg.Branch
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	st, err := store.New(outputDir)
	if err != nil {
		return err
	}

	client := ghclient.NewClient(cfg.GetGitHubToken())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return gatherBatch(ctx, gather.New(client), st, repos, branch, since)
}

// gatherBatch processes repositories strictly one at a time. A failing
// repository is reported and skipped; its earlier output file is left
// untouched. The run only fails outright when no repository succeeded.
func gatherBatch(ctx context.Context, g *gather.Gatherer, st *store.Store, repos []string, branch string, since time.Time) error {
	var failed []string
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}

		coll, err := g.Gather(ctx, gather.Options{Repo: repo, Branch: branch, Since: since})
		if err != nil {
			log.Error("failed to gather repository", "repo", repo, "error", err)
			failed = append(failed, repo)
			continue
		}

		if err := st.Save(coll); err != nil {
			log.Error("failed to save collection", "repo", repo, "error", err)
			failed = append(failed, repo)
			continue
		}

		fmt.Printf("gathered %s: %d commits, %d issues, %d pull requests -> %s\n",
			repo, len(coll.Commits), len(coll.Issues), len(coll.PullRequests), st.Path(repo))
	}

	if len(failed) == len(repos) {
		return fmt.Errorf("all %d repositories failed", len(repos))
	}
	if len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d repositories failed: %v\n", len(failed), len(repos), failed)
	}
	return nil
}

// resolveRepos picks the repository list: explicit arguments win, then
// the --repos file, then the config file.
func resolveRepos(args []string, reposFile string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if reposFile != "" {
		data, err := os.ReadFile(reposFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read repos file: %w", err)
		}
		var repos []string
		if err := json.Unmarshal(data, &repos); err != nil {
			return nil, fmt.Errorf("failed to parse repos file %s: %w", reposFile, err)
		}
		if len(repos) == 0 {
			return nil, fmt.Errorf("repos file %s lists no repositories", reposFile)
		}
		return repos, nil
	}

	if len(cfg.Repos) > 0 {
		return cfg.Repos, nil
	}

	if _, err := os.Stat(defaultReposFile); err == nil {
		return resolveRepos(nil, defaultReposFile, cfg)
	}

	return nil, fmt.Errorf("no repositories specified: pass owner/name arguments, --repos, or configure repos")
}

// parseSince accepts an ISO date or a relative duration like 30d. An
// empty string means no cutoff.
func parseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return duration.ParseWindow(s, now)
}
