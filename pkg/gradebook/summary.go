package gradebook

import (
	"fmt"

	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
)

// DisplayCap bounds how many failure reasons the on-screen summary lists.
// The durable run log always holds the complete list.
const DisplayCap = 15

// Summary is the final accounting of one grade push. It is produced even
// when every row failed.
type Summary struct {
	RunID        string
	Succeeded    int
	Failed       int
	Invalid      int
	SkippedEmpty int
	Cleared      int

	// Failures holds validation skips and submission failures in row
	// order, uncapped.
	Failures []canvas.Outcome
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{}
}

// record folds one submission outcome into the counts.
func (s *Summary) record(o canvas.Outcome, value canvas.GradeValue) {
	if o.Success {
		s.Succeeded++
		if value.Clear {
			s.Cleared++
		}
		return
	}
	s.Failed++
	s.addFailure(o)
}

func (s *Summary) addFailure(o canvas.Outcome) {
	s.Failures = append(s.Failures, o)
}

// Attempted returns how many submissions actually went on the wire.
func (s *Summary) Attempted() int {
	return s.Succeeded + s.Failed
}

// Lines renders the user-facing summary: the counts, then the first
// DisplayCap failure reasons with a "+N more" suffix when truncated.
func (s *Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("Posted %d grades (%d cleared), %d failed, %d invalid, %d rows without SIS id",
			s.Succeeded, s.Cleared, s.Failed, s.Invalid, s.SkippedEmpty),
	}

	shown := s.Failures
	if len(shown) > DisplayCap {
		shown = shown[:DisplayCap]
	}
	for _, f := range shown {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.StudentKey, f.Message))
	}
	if extra := len(s.Failures) - DisplayCap; extra > 0 {
		if s.RunID != "" {
			lines = append(lines, fmt.Sprintf("  +%d more (see run log %s)", extra, s.RunID))
		} else {
			lines = append(lines, fmt.Sprintf("  +%d more", extra))
		}
	}
	return lines
}
