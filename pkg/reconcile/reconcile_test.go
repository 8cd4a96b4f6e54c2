package reconcile

import (
	"strconv"
	"testing"
)

type remote struct {
	sis   string
	score int
}

func sisKey(r remote) string   { return r.sis }
func scoreVal(r remote) string { return strconv.Itoa(r.score) }

func TestReconcile_Basic(t *testing.T) {
	rows := []Row{
		{Index: 0, Key: "s1"},
		{Index: 1, Key: "s2"},
		{Index: 2, Key: "s3"},
	}
	records := []remote{
		{sis: "s1", score: 10},
		{sis: "s3", score: 30},
	}

	res := Reconcile(rows, records, sisKey, scoreVal)

	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].RowIndex != 0 || res.Entries[0].Value != "10" {
		t.Errorf("entries[0] = %+v, want {0 10}", res.Entries[0])
	}
	if res.Entries[1].RowIndex != 2 || res.Entries[1].Value != "30" {
		t.Errorf("entries[1] = %+v, want {2 30}", res.Entries[1])
	}
	if res.LocalMisses != 1 {
		t.Errorf("LocalMisses = %d, want 1", res.LocalMisses)
	}
	if res.UnmatchedRemote != 0 {
		t.Errorf("UnmatchedRemote = %d, want 0", res.UnmatchedRemote)
	}
	if res.EmptyKeys != 0 {
		t.Errorf("EmptyKeys = %d, want 0", res.EmptyKeys)
	}
}

func TestReconcile_EmptyKeysExcluded(t *testing.T) {
	rows := []Row{
		{Index: 0, Key: ""},
		{Index: 1, Key: "   "}, // empty after trimming
		{Index: 2, Key: "s1"},
	}
	records := []remote{{sis: "s1", score: 5}}

	res := Reconcile(rows, records, sisKey, scoreVal)

	if res.EmptyKeys != 2 {
		t.Errorf("EmptyKeys = %d, want 2", res.EmptyKeys)
	}
	if res.LocalMisses != 0 {
		t.Errorf("LocalMisses = %d, want 0 (empty keys excluded from misses)", res.LocalMisses)
	}
	if len(res.Entries) != 1 || res.Entries[0].RowIndex != 2 {
		t.Errorf("entries = %+v, want single entry for row 2", res.Entries)
	}
}

func TestReconcile_TrimmedExactMatch(t *testing.T) {
	rows := []Row{
		{Index: 0, Key: " s1 "}, // whitespace trimmed before matching
		{Index: 1, Key: "S2"},   // case-sensitive: no match for "s2"
	}
	records := []remote{
		{sis: "s1", score: 1},
		{sis: "s2", score: 2},
	}

	res := Reconcile(rows, records, sisKey, scoreVal)

	if len(res.Entries) != 1 || res.Entries[0].RowIndex != 0 {
		t.Fatalf("entries = %+v, want single match for row 0", res.Entries)
	}
	if res.LocalMisses != 1 {
		t.Errorf("LocalMisses = %d, want 1 (case mismatch)", res.LocalMisses)
	}
	if res.UnmatchedRemote != 1 {
		t.Errorf("UnmatchedRemote = %d, want 1", res.UnmatchedRemote)
	}
}

func TestReconcile_KeylessRemoteCounted(t *testing.T) {
	rows := []Row{{Index: 0, Key: "s1"}}
	records := []remote{
		{sis: "s1", score: 1},
		{sis: "", score: 2}, // no SIS id: counted, not failed
	}

	res := Reconcile(rows, records, sisKey, scoreVal)

	if res.KeylessRemote != 1 {
		t.Errorf("KeylessRemote = %d, want 1", res.KeylessRemote)
	}
	if len(res.Entries) != 1 {
		t.Errorf("entries = %d, want 1", len(res.Entries))
	}
}

func TestReconcile_OrderPreserved(t *testing.T) {
	rows := []Row{
		{Index: 5, Key: "c"},
		{Index: 1, Key: "a"},
		{Index: 3, Key: "b"},
	}
	records := []remote{
		{sis: "a", score: 1},
		{sis: "b", score: 2},
		{sis: "c", score: 3},
	}

	res := Reconcile(rows, records, sisKey, scoreVal)

	// Entries follow row order, not remote or key order.
	wantRows := []int{5, 1, 3}
	for i, want := range wantRows {
		if res.Entries[i].RowIndex != want {
			t.Errorf("entries[%d].RowIndex = %d, want %d", i, res.Entries[i].RowIndex, want)
		}
	}
}

func TestReconcile_ClearValuePassesThrough(t *testing.T) {
	rows := []Row{{Index: 0, Key: "s1"}}
	records := []remote{{sis: "s1", score: 0}}

	res := Reconcile(rows, records, sisKey, func(remote) string { return "" })

	if len(res.Entries) != 1 || res.Entries[0].Value != "" {
		t.Errorf("entries = %+v, want one empty-valued entry", res.Entries)
	}
}
