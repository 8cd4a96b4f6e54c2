package gradebook

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
	"github.com/gradebook-tools/canvas-sync/pkg/reconcile"
	"github.com/gradebook-tools/canvas-sync/pkg/sheet"
)

// PullStats summarizes one pull: how many rows got a value and what was
// left over on either side.
type PullStats struct {
	Matched         int
	LocalMisses     int
	UnmatchedRemote int
	EmptyKeys       int
	KeylessRemote   int
}

func statsFrom(res reconcile.Result) PullStats {
	return PullStats{
		Matched:         len(res.Entries),
		LocalMisses:     res.LocalMisses,
		UnmatchedRemote: res.UnmatchedRemote,
		EmptyKeys:       res.EmptyKeys,
		KeylessRemote:   res.KeylessRemote,
	}
}

// localRows reads the SIS key column into reconciliation rows. Row index 0
// corresponds to layout.FirstDataRow.
func (s *Service) localRows(layout Layout) ([]reconcile.Row, error) {
	keys, err := s.store.ReadColumn(layout.FirstDataRow, layout.SISColumn)
	if err != nil {
		return nil, fmt.Errorf("read SIS column: %w", err)
	}

	rows := make([]reconcile.Row, len(keys))
	for i, key := range keys {
		rows[i] = reconcile.Row{Index: i, Key: key}
	}
	return rows, nil
}

// applyEntries writes a reconciliation plan into one sheet column.
func (s *Service) applyEntries(entries []reconcile.Entry, layout Layout, col int) error {
	for _, e := range entries {
		row := layout.FirstDataRow + e.RowIndex
		if err := s.store.WriteCell(row, col, e.Value); err != nil {
			return fmt.Errorf("write cell %s: %w", sheet.CellRef(row, col), err)
		}
	}
	return nil
}

// PullRoster fetches the course roster and writes each matched student's
// name next to their SIS id. The fetch happens before any cell is touched:
// a pagination failure aborts the operation wholesale.
func (s *Service) PullRoster(ctx context.Context, courseID string, layout Layout, onProgress canvas.ProgressFunc) (PullStats, error) {
	users, err := s.client.FetchUsers(ctx, courseID, onProgress)
	if err != nil {
		return PullStats{}, fmt.Errorf("fetch roster: %w", err)
	}

	rows, err := s.localRows(layout)
	if err != nil {
		return PullStats{}, err
	}

	res := reconcile.Reconcile(rows, users,
		func(u canvas.User) string { return u.SISUserID },
		func(u canvas.User) string { return u.Name },
	)

	if err := s.applyEntries(res.Entries, layout, layout.NameColumn); err != nil {
		return PullStats{}, err
	}

	stats := statsFrom(res)
	s.logger.Info().
		Str("course", courseID).
		Int("matched", stats.Matched).
		Int("local_misses", stats.LocalMisses).
		Int("unmatched_remote", stats.UnmatchedRemote).
		Msg("Roster pull complete")
	return stats, nil
}

// sisByUserID fetches the roster once and indexes SIS ids by the Canvas
// internal user id, the join needed to key submissions by SIS id.
func (s *Service) sisByUserID(ctx context.Context, courseID string) (map[int64]string, error) {
	users, err := s.client.FetchUsers(ctx, courseID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	index := make(map[int64]string, len(users))
	for _, u := range users {
		if u.SISUserID != "" {
			index[u.ID] = u.SISUserID
		}
	}
	return index, nil
}

// pullSubmissionColumn fetches one assignment's submissions and writes the
// scores into the given column. A nil remote score clears the cell rather
// than writing zero.
func (s *Service) pullSubmissionColumn(ctx context.Context, courseID, assignmentID string, sisByUser map[int64]string, layout Layout, col int, onProgress canvas.ProgressFunc) (PullStats, error) {
	subs, err := s.client.FetchSubmissions(ctx, courseID, assignmentID, onProgress)
	if err != nil {
		return PullStats{}, fmt.Errorf("fetch submissions for assignment %s: %w", assignmentID, err)
	}

	rows, err := s.localRows(layout)
	if err != nil {
		return PullStats{}, err
	}

	res := reconcile.Reconcile(rows, subs,
		func(sub canvas.Submission) string { return sisByUser[sub.UserID] },
		func(sub canvas.Submission) string { return canvas.CellValue(sub.Score) },
	)

	if err := s.applyEntries(res.Entries, layout, col); err != nil {
		return PullStats{}, err
	}
	return statsFrom(res), nil
}

// PullGrades pulls one assignment's scores into the layout's grade column.
func (s *Service) PullGrades(ctx context.Context, courseID, assignmentID string, layout Layout, onProgress canvas.ProgressFunc) (PullStats, error) {
	sisByUser, err := s.sisByUserID(ctx, courseID)
	if err != nil {
		return PullStats{}, err
	}

	stats, err := s.pullSubmissionColumn(ctx, courseID, assignmentID, sisByUser, layout, layout.GradeColumn, onProgress)
	if err != nil {
		return PullStats{}, err
	}

	s.logger.Info().
		Str("course", courseID).
		Str("assignment", assignmentID).
		Int("matched", stats.Matched).
		Int("local_misses", stats.LocalMisses).
		Msg("Grade pull complete")
	return stats, nil
}

// GradebookStats aggregates a whole-gradebook pull.
type GradebookStats struct {
	Assignments int
	PerColumn   []PullStats
}

// PullGradebook lays the whole gradebook out: one column per assignment
// starting at layout.FirstAssignmentColumn, assignment names in the header
// row, scores below. Any fetch failure aborts the entire operation since a
// partial gradebook is worse than none. Progress is reported per
// assignment column.
func (s *Service) PullGradebook(ctx context.Context, courseID string, layout Layout, onProgress canvas.ProgressFunc) (GradebookStats, error) {
	assignments, err := s.client.FetchAssignments(ctx, courseID, nil)
	if err != nil {
		return GradebookStats{}, fmt.Errorf("fetch assignments: %w", err)
	}

	if !s.notifier.Confirm(fmt.Sprintf("Overwrite %d assignment columns starting at column %s?",
		len(assignments), sheet.ColumnLetter(layout.FirstAssignmentColumn))) {
		return GradebookStats{}, fmt.Errorf("gradebook pull cancelled")
	}

	sisByUser, err := s.sisByUserID(ctx, courseID)
	if err != nil {
		return GradebookStats{}, err
	}

	stats := GradebookStats{Assignments: len(assignments)}
	for i, a := range assignments {
		col := layout.FirstAssignmentColumn + i
		if err := s.store.WriteCell(layout.HeaderRow, col, a.Name); err != nil {
			return GradebookStats{}, fmt.Errorf("write header %s: %w", sheet.CellRef(layout.HeaderRow, col), err)
		}

		colStats, err := s.pullSubmissionColumn(ctx, courseID, strconv.FormatInt(a.ID, 10), sisByUser, layout, col, nil)
		if err != nil {
			return GradebookStats{}, err
		}
		stats.PerColumn = append(stats.PerColumn, colStats)

		if onProgress != nil {
			onProgress(i+1, len(assignments), a.Name)
		}
	}

	s.logger.Info().
		Str("course", courseID).
		Int("assignments", stats.Assignments).
		Msg("Gradebook pull complete")
	return stats, nil
}
