package cli

import (
	"github.com/spf13/cobra"

	"github.com/gradebook-tools/canvas-sync/pkg/gradebook"
)

// NewPushGradesCommand posts the sheet's grade column to Canvas.
func NewPushGradesCommand(opts *RootOptions) *cobra.Command {
	var assignmentID string

	cmd := &cobra.Command{
		Use:   "push-grades",
		Short: "Push the sheet's grades to one Canvas assignment",
		Long: `Push reads SIS ids and grades off the sheet and posts one grade per
student. Empty grade cells clear ("un-post") the remote grade; non-numeric
text is rejected locally and never sent. One student's failure never stops
the rest of the batch; every outcome is recorded in the run log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts, true)
			if err != nil {
				return err
			}
			defer s.cleanup()

			_, err = s.svc.PushGrades(cmd.Context(), s.courseID, assignmentID, gradebook.DefaultLayout(), printProgress(cmd))
			return err
		},
	}

	cmd.Flags().StringVarP(&assignmentID, "assignment", "a", "", "assignment id")
	cmd.MarkFlagRequired("assignment")
	return cmd
}
