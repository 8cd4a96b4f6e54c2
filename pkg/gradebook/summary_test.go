package gradebook

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
)

func TestSummary_Lines_Counts(t *testing.T) {
	s := NewSummary()
	s.Succeeded = 20
	s.Cleared = 2
	s.Failed = 1
	s.Invalid = 3
	s.SkippedEmpty = 4
	s.addFailure(canvas.Outcome{StudentKey: "s009", Message: "conflict (status 409)"})

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	head := lines[0]
	for _, want := range []string{"20 grades", "2 cleared", "1 failed", "3 invalid", "4 rows"} {
		if !strings.Contains(head, want) {
			t.Errorf("header %q missing %q", head, want)
		}
	}
	if !strings.Contains(lines[1], "s009") {
		t.Errorf("failure line = %q", lines[1])
	}
}

func TestSummary_Lines_CappedAtFifteen(t *testing.T) {
	s := NewSummary()
	s.RunID = "run-123"
	for i := 0; i < 22; i++ {
		s.addFailure(canvas.Outcome{
			StudentKey: fmt.Sprintf("s%03d", i),
			Message:    "not found",
		})
	}

	lines := s.Lines()
	// Header + 15 reasons + "+7 more".
	if len(lines) != 17 {
		t.Fatalf("lines = %d, want 17", len(lines))
	}
	tail := lines[len(lines)-1]
	if !strings.Contains(tail, "+7 more") {
		t.Errorf("tail = %q, want +7 more", tail)
	}
	if !strings.Contains(tail, "run-123") {
		t.Errorf("tail %q should point at the run log", tail)
	}

	// The full list stays intact; only the display is capped.
	if len(s.Failures) != 22 {
		t.Errorf("Failures = %d, want 22", len(s.Failures))
	}
}

func TestSummary_Lines_TruncationWithoutRunLog(t *testing.T) {
	s := NewSummary()
	for i := 0; i < 18; i++ {
		s.addFailure(canvas.Outcome{
			StudentKey: fmt.Sprintf("s%03d", i),
			Message:    "not found",
		})
	}

	lines := s.Lines()
	tail := lines[len(lines)-1]
	if !strings.Contains(tail, "+3 more") {
		t.Errorf("tail = %q, want +3 more", tail)
	}
	if strings.Contains(tail, "run log") {
		t.Errorf("tail %q must not point at a run log when none is configured", tail)
	}
}

func TestSummary_Record(t *testing.T) {
	s := NewSummary()

	clear, _ := canvas.ParseGradeValue("")
	score, _ := canvas.ParseGradeValue("90")

	s.record(canvas.Outcome{StudentKey: "s001", Success: true}, clear)
	s.record(canvas.Outcome{StudentKey: "s002", Success: true}, score)
	s.record(canvas.Outcome{StudentKey: "s003", Message: "boom"}, score)

	if s.Succeeded != 2 || s.Cleared != 1 || s.Failed != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Attempted() != 3 {
		t.Errorf("Attempted() = %d, want 3", s.Attempted())
	}
}
