package gradebook

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
)

// PushGrades reads (SIS id, grade) pairs off the sheet and posts them one
// at a time. Grade text is validated locally first; a row that fails
// validation is skipped and counted without any network traffic. Per-row
// API and transport failures become outcomes and never block the rest of
// the batch. A Summary is always produced, and every outcome lands in the
// durable run log when one is configured.
func (s *Service) PushGrades(ctx context.Context, courseID, assignmentID string, layout Layout, onProgress canvas.ProgressFunc) (*Summary, error) {
	keys, err := s.store.ReadColumn(layout.FirstDataRow, layout.SISColumn)
	if err != nil {
		return nil, fmt.Errorf("read SIS column: %w", err)
	}
	grades, err := s.store.ReadColumn(layout.FirstDataRow, layout.GradeColumn)
	if err != nil {
		return nil, fmt.Errorf("read grade column: %w", err)
	}

	type item struct {
		sis   string
		value canvas.GradeValue
	}
	var (
		summary = NewSummary()
		items   []item
	)

	// Validation pass: nothing goes on the wire until each row is
	// classified, so a typo in row 40 is known before row 1 posts.
	for i, rawKey := range keys {
		sis := strings.TrimSpace(rawKey)
		if sis == "" {
			summary.SkippedEmpty++
			continue
		}

		gradeText := ""
		if i < len(grades) {
			gradeText = grades[i]
		}

		value, err := canvas.ParseGradeValue(gradeText)
		if err != nil {
			summary.Invalid++
			summary.addFailure(canvas.Outcome{
				StudentKey: sis,
				Message:    fmt.Sprintf("skipped, not submitted: %v", err),
			})
			continue
		}
		items = append(items, item{sis: sis, value: value})
	}

	if len(items) > 0 && !s.notifier.Confirm(fmt.Sprintf("Post %d grades to assignment %s?", len(items), assignmentID)) {
		return nil, fmt.Errorf("grade push cancelled")
	}

	var runID string
	if s.runs != nil {
		runID, err = s.runs.StartRun("push-grades", courseID, assignmentID)
		if err != nil {
			return nil, fmt.Errorf("start run log: %w", err)
		}
		summary.RunID = runID
	}

	progress := newCheckpointer(len(items), onProgress)
	for i, it := range items {
		if i > 0 {
			s.pacer.Pause(ctx)
		}

		outcome := s.client.SubmitGrade(ctx, courseID, assignmentID, it.sis, it.value)
		summary.record(outcome, it.value)

		if s.runs != nil {
			if err := s.runs.RecordOutcome(runID, outcome); err != nil {
				s.logger.Warn().Err(err).Str("student", it.sis).Msg("Failed to record outcome")
			}
		}
		if !outcome.Success {
			s.logger.Warn().
				Str("student", it.sis).
				Str("reason", outcome.Message).
				Msg("Grade submission failed")
		}

		progress.step(i+1, it.sis)
	}
	progress.done()

	if s.runs != nil {
		skipped := summary.Invalid + summary.SkippedEmpty
		if err := s.runs.FinishRun(runID, summary.Succeeded, summary.Failed, skipped); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to finish run log")
		}
	}

	s.notifier.Notify(strings.Join(summary.Lines(), "\n"))
	s.logger.Info().
		Str("course", courseID).
		Str("assignment", assignmentID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("invalid", summary.Invalid).
		Int("skipped_empty", summary.SkippedEmpty).
		Msg("Grade push complete")

	return summary, nil
}

// checkpointer throttles progress callbacks to 5% steps plus completion.
type checkpointer struct {
	total      int
	onProgress canvas.ProgressFunc
	lastBucket int
}

func newCheckpointer(total int, onProgress canvas.ProgressFunc) *checkpointer {
	return &checkpointer{total: total, onProgress: onProgress}
}

func (c *checkpointer) step(current int, detail string) {
	if c.onProgress == nil || c.total == 0 || current >= c.total {
		return
	}
	bucket := current * 20 / c.total // 20 buckets of 5%
	if bucket == c.lastBucket {
		return
	}
	c.lastBucket = bucket
	c.onProgress(current, c.total, detail)
}

func (c *checkpointer) done() {
	if c.onProgress == nil {
		return
	}
	c.onProgress(c.total, c.total, "complete")
}
