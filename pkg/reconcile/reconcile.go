// Package reconcile joins locally keyed sheet rows to remote records by
// SIS id and produces a per-row write plan.
package reconcile

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcileRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradesync_reconcile_rows_total",
		Help: "Reconciled local rows by result (matched, missed, empty_key)",
	}, []string{"result"})
)

// Row is one local sheet row entering reconciliation: its 0-based position
// in the read order and the raw key cell value.
type Row struct {
	Index int
	Key   string
}

// Entry is one write instruction: the value to place on the given row.
type Entry struct {
	RowIndex int
	Value    string
}

// Result is the outcome of one reconciliation pass. Misses are counted,
// never emitted as entries.
type Result struct {
	Entries []Entry

	// LocalMisses counts non-empty local keys with no matching remote record.
	LocalMisses int

	// UnmatchedRemote counts keyed remote records no local row claimed.
	UnmatchedRemote int

	// EmptyKeys counts local rows whose key is empty after trimming; these
	// are excluded from matching entirely.
	EmptyKeys int

	// KeylessRemote counts remote records for which the key extractor
	// produced no key (e.g. users without an SIS id).
	KeylessRemote int
}

// Reconcile builds a key index over the remote records and walks the local
// rows in order, emitting one Entry per matched row. Matching is exact and
// case-sensitive after trimming both sides. Inputs are never mutated.
//
// keyFn extracts the join key from a record; an empty key means the record
// cannot participate in matching. valueFn extracts the value written to a
// matched row, which may be the empty string to clear the cell.
func Reconcile[T any](rows []Row, records []T, keyFn func(T) string, valueFn func(T) string) Result {
	index := make(map[string]T, len(records))
	keyed := 0
	for _, rec := range records {
		key := strings.TrimSpace(keyFn(rec))
		if key == "" {
			continue
		}
		keyed++
		// Duplicate remote keys: last one wins.
		index[key] = rec
	}

	var res Result
	res.KeylessRemote = len(records) - keyed

	claimed := make(map[string]bool, len(index))
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			res.EmptyKeys++
			reconcileRowsTotal.WithLabelValues("empty_key").Inc()
			continue
		}

		rec, ok := index[key]
		if !ok {
			res.LocalMisses++
			reconcileRowsTotal.WithLabelValues("missed").Inc()
			continue
		}

		claimed[key] = true
		res.Entries = append(res.Entries, Entry{RowIndex: row.Index, Value: valueFn(rec)})
		reconcileRowsTotal.WithLabelValues("matched").Inc()
	}

	res.UnmatchedRemote = len(index) - len(claimed)
	return res
}
