package cmd

// Options holds the shared command-line options for the contrib CLI.
type Options struct {
	// Gather options
	ReposFile string // JSON file listing repositories to gather
	OutputDir string // Directory for gathered collections
	Branch    string // Branch whose commits are gathered
	Since     string // Collection window: ISO date or relative duration

	// Present options
	Input     string // Collection file or directory to present
	Usernames string // JSON file mapping logins to display names
	Format    string // Output format: table, markdown, or json

	Verbosity int
}
