// Package cli wires the sync operations to a cobra command tree. All
// prompting and presentation lives here; the operations themselves take
// validated parameters and return structured results.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/gradebook-tools/canvas-sync/pkg/logging"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Sheet   string // CSV sheet path
	LogDB   string // run log database path
	Course  string // overrides CANVAS_COURSE_ID
	Yes     bool   // skip confirmation prompts
}

// NewRootCommand creates the canvas-sync root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "canvas-sync",
		Short: "Sync rosters and grades between a CSV sheet and Canvas",
		Long: `canvas-sync pulls class rosters and grades from the Canvas API into a
CSV sheet and pushes grades back, matching rows by SIS id.

Connection settings come from the environment (or a .env file):
CANVAS_DOMAIN, CANVAS_TOKEN, CANVAS_COURSE_ID, and optionally REDIS_URL
to enable response caching.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if opts.Verbose {
				level = logging.LevelDebug
			}
			logging.Setup(logging.Config{Level: level, Console: true})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Sheet, "sheet", "gradebook.csv", "path to the CSV sheet")
	cmd.PersistentFlags().StringVar(&opts.LogDB, "log-db", "canvas-sync-runs.db", "path to the run log database")
	cmd.PersistentFlags().StringVar(&opts.Course, "course", "", "course id (overrides CANVAS_COURSE_ID)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "answer yes to all prompts")

	cmd.AddCommand(NewPullRosterCommand(opts))
	cmd.AddCommand(NewPullGradesCommand(opts))
	cmd.AddCommand(NewPullGradebookCommand(opts))
	cmd.AddCommand(NewPushGradesCommand(opts))

	return cmd
}
