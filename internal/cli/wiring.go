package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gradebook-tools/canvas-sync/internal/runlog"
	"github.com/gradebook-tools/canvas-sync/pkg/cache"
	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
	"github.com/gradebook-tools/canvas-sync/pkg/config"
	"github.com/gradebook-tools/canvas-sync/pkg/gradebook"
	"github.com/gradebook-tools/canvas-sync/pkg/sheet"
)

// session is the per-invocation wiring: configuration is read once at the
// start of an operation and never refreshed mid-run.
type session struct {
	svc      *gradebook.Service
	store    *sheet.CSVStore
	courseID string
	cleanup  func()
}

// newSession loads configuration, opens the sheet and run log, and builds
// the service. withRunLog should be true for operations that write to
// Canvas.
func newSession(cmd *cobra.Command, opts *RootOptions, withRunLog bool) (*session, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	courseID := settings.CourseID
	if opts.Course != "" {
		courseID = opts.Course
	}

	var responseCache *cache.Manager
	if settings.RedisURL != "" {
		responseCache = cache.NewManager(redis.NewClient(redisOptions(settings.RedisURL)), 0)
	}

	client, err := canvas.New(canvas.Config{
		BaseURL: settings.Domain,
		Token:   settings.Token,
		Cache:   responseCache,
	})
	if err != nil {
		return nil, err
	}

	store := sheet.NewCSVStore(opts.Sheet)
	if err := store.Load(); err != nil {
		return nil, err
	}

	var runs *runlog.Log
	cleanup := func() {}
	if withRunLog {
		runs, err = runlog.Open(opts.LogDB)
		if err != nil {
			return nil, err
		}
		cleanup = func() { runs.Close() }
	}

	notifier := &terminalNotifier{
		out:  cmd.OutOrStdout(),
		in:   cmd.InOrStdin(),
		auto: opts.Yes,
	}

	return &session{
		svc:      gradebook.NewService(client, store, runs, notifier),
		store:    store,
		courseID: courseID,
		cleanup:  cleanup,
	}, nil
}

// redisOptions accepts both REDIS_URL conventions: a redis://host:port/db
// URL and a bare host:port address.
func redisOptions(raw string) *redis.Options {
	if opts, err := redis.ParseURL(raw); err == nil {
		return opts
	}
	return &redis.Options{Addr: raw}
}

// terminalNotifier prompts on the command's streams.
type terminalNotifier struct {
	out  io.Writer
	in   io.Reader
	auto bool
}

func (n *terminalNotifier) Notify(message string) {
	fmt.Fprintln(n.out, message)
}

func (n *terminalNotifier) Confirm(prompt string) bool {
	if n.auto {
		return true
	}
	fmt.Fprintf(n.out, "%s [y/N] ", prompt)

	scanner := bufio.NewScanner(n.in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// printProgress renders pagination/batch progress on the command output.
func printProgress(cmd *cobra.Command) canvas.ProgressFunc {
	return func(current, total int, detail string) {
		if total < 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  fetched page %d\n", current)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %d/%d %s\n", current, total, detail)
	}
}

// printPullStats renders a pull result.
func printPullStats(cmd *cobra.Command, stats gradebook.PullStats) {
	fmt.Fprintf(cmd.OutOrStdout(),
		"Matched %d rows (%d local rows unmatched, %d remote records unclaimed, %d rows without SIS id)\n",
		stats.Matched, stats.LocalMisses, stats.UnmatchedRemote, stats.EmptyKeys)
}
