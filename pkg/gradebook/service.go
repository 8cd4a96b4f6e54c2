// Package gradebook implements the sync operations between a sheet store
// and the Canvas API: pulling rosters and grades, pushing grades back.
// Rows are matched to Canvas users by SIS id.
package gradebook

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gradebook-tools/canvas-sync/internal/runlog"
	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
	"github.com/gradebook-tools/canvas-sync/pkg/logging"
	"github.com/gradebook-tools/canvas-sync/pkg/ratelimit"
	"github.com/gradebook-tools/canvas-sync/pkg/sheet"
)

// Layout describes where the sync operations read and write on the sheet.
// All coordinates are 1-based.
type Layout struct {
	// HeaderRow carries assignment names during a gradebook pull.
	HeaderRow int

	// FirstDataRow is the first student row.
	FirstDataRow int

	// SISColumn holds the SIS ids that key every operation.
	SISColumn int

	// NameColumn receives student names on a roster pull.
	NameColumn int

	// GradeColumn is read by a push and written by a single-assignment pull.
	GradeColumn int

	// FirstAssignmentColumn is where a gradebook pull starts laying out
	// assignment columns.
	FirstAssignmentColumn int
}

// DefaultLayout is the conventional sheet shape: header in row 1, SIS ids
// in column A, names in B, grades from C on.
func DefaultLayout() Layout {
	return Layout{
		HeaderRow:             1,
		FirstDataRow:          2,
		SISColumn:             1,
		NameColumn:            2,
		GradeColumn:           3,
		FirstAssignmentColumn: 3,
	}
}

// Notifier is the user-facing prompt surface. The operations only consult
// Confirm before overwriting many cells or posting many grades; everything
// else is informational.
type Notifier interface {
	Notify(message string)
	Confirm(prompt string) bool
}

// AutoConfirm is a Notifier that approves every prompt, for unattended runs.
type AutoConfirm struct{}

func (AutoConfirm) Notify(string) {}

func (AutoConfirm) Confirm(string) bool { return true }

// Service wires the Canvas client, the sheet store, and the run log into
// the top-level sync operations. All operations are synchronous and
// strictly sequential.
type Service struct {
	client   *canvas.Client
	store    sheet.Store
	runs     *runlog.Log
	notifier Notifier
	pacer    *ratelimit.Pacer
	logger   zerolog.Logger
}

// NewService creates a Service. runs may be nil when no durable log is
// wanted (pull operations never write to it anyway); notifier may be nil
// for unattended runs.
func NewService(client *canvas.Client, store sheet.Store, runs *runlog.Log, notifier Notifier) *Service {
	if notifier == nil {
		notifier = AutoConfirm{}
	}
	logger := logging.NewLogger("gradebook")
	return &Service{
		client:   client,
		store:    store,
		runs:     runs,
		notifier: notifier,
		pacer:    ratelimit.NewPacer(client.Quota(), ratelimit.DefaultCourtesyDelay, logger),
		logger:   logger,
	}
}

// SetPacerDelay overrides the courtesy pause between submissions.
func (s *Service) SetPacerDelay(base time.Duration) {
	s.pacer = ratelimit.NewPacer(s.client.Quota(), base, s.logger)
}
