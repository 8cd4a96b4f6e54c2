package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradebook-tools/canvas-sync/pkg/gradebook"
)

// NewPullRosterCommand pulls student names next to their SIS ids.
func NewPullRosterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull-roster",
		Short: "Pull student names from Canvas into the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.cleanup()

			stats, err := s.svc.PullRoster(cmd.Context(), s.courseID, gradebook.DefaultLayout(), printProgress(cmd))
			if err != nil {
				return err
			}

			printPullStats(cmd, stats)
			return s.store.Save()
		},
	}
}

// NewPullGradesCommand pulls one assignment's scores.
func NewPullGradesCommand(opts *RootOptions) *cobra.Command {
	var assignmentID string

	cmd := &cobra.Command{
		Use:   "pull-grades",
		Short: "Pull one assignment's grades from Canvas into the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.cleanup()

			stats, err := s.svc.PullGrades(cmd.Context(), s.courseID, assignmentID, gradebook.DefaultLayout(), printProgress(cmd))
			if err != nil {
				return err
			}

			printPullStats(cmd, stats)
			return s.store.Save()
		},
	}

	cmd.Flags().StringVarP(&assignmentID, "assignment", "a", "", "assignment id")
	cmd.MarkFlagRequired("assignment")
	return cmd
}

// NewPullGradebookCommand pulls every assignment into its own column.
func NewPullGradebookCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull-gradebook",
		Short: "Pull the entire gradebook from Canvas into the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, false)
			if err != nil {
				return err
			}
			defer s.cleanup()

			stats, err := s.svc.PullGradebook(cmd.Context(), s.courseID, gradebook.DefaultLayout(), printProgress(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d assignment columns\n", stats.Assignments)
			return s.store.Save()
		},
	}
}
