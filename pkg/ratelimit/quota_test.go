package ratelimit

import (
	"net/http"
	"testing"
)

func headersWith(remaining, cost string) http.Header {
	h := http.Header{}
	if remaining != "" {
		h.Set("X-Rate-Limit-Remaining", remaining)
	}
	if cost != "" {
		h.Set("X-Request-Cost", cost)
	}
	return h
}

func TestQuota_UnknownIsHealthy(t *testing.T) {
	q := NewQuota()

	if _, known := q.Remaining(); known {
		t.Error("fresh quota should be unknown")
	}
	if q.NeedsThrottling() {
		t.Error("unknown quota must not throttle")
	}
	if q.Critical() {
		t.Error("unknown quota must not be critical")
	}
}

func TestQuota_UpdateFromHeaders(t *testing.T) {
	q := NewQuota()
	q.UpdateFromHeaders(headersWith("654.34", "1.25"))

	remaining, known := q.Remaining()
	if !known {
		t.Fatal("quota should be known after update")
	}
	if remaining != 654.34 {
		t.Errorf("Remaining() = %v, want 654.34", remaining)
	}
	if q.NeedsThrottling() {
		t.Error("healthy quota must not throttle")
	}
}

func TestQuota_MissingHeadersIgnored(t *testing.T) {
	q := NewQuota()
	q.UpdateFromHeaders(headersWith("500", ""))
	q.UpdateFromHeaders(http.Header{}) // no headers: state untouched

	remaining, known := q.Remaining()
	if !known || remaining != 500 {
		t.Errorf("Remaining() = %v/%v, want 500/true", remaining, known)
	}
}

func TestQuota_Thresholds(t *testing.T) {
	tests := []struct {
		remaining string
		throttled bool
		critical  bool
	}{
		{"700", false, false},
		{"299.9", true, false},
		{"100", true, false},
		{"99.5", false, true},
		{"0", false, true},
	}

	for _, tt := range tests {
		q := NewQuota()
		q.UpdateFromHeaders(headersWith(tt.remaining, "1"))

		if got := q.NeedsThrottling(); got != tt.throttled {
			t.Errorf("remaining %s: NeedsThrottling() = %v, want %v", tt.remaining, got, tt.throttled)
		}
		if got := q.Critical(); got != tt.critical {
			t.Errorf("remaining %s: Critical() = %v, want %v", tt.remaining, got, tt.critical)
		}
	}
}
