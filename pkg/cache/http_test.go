package cache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseToEntry(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("ETag", `W/"abc123"`)
	rec.Header().Set("Link", `<https://x.test/page2>; rel="next"`)
	rec.WriteHeader(http.StatusOK)
	rec.Body.WriteString(`[{"id":1}]`)
	resp := rec.Result()

	entry, err := ResponseToEntry(resp)
	if err != nil {
		t.Fatalf("ResponseToEntry() error: %v", err)
	}

	if string(entry.Data) != `[{"id":1}]` {
		t.Errorf("Data = %q", entry.Data)
	}
	if entry.ETag != `W/"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if entry.Link != `<https://x.test/page2>; rel="next"` {
		t.Errorf("Link = %q", entry.Link)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", entry.StatusCode)
	}

	// Body must still be readable by the caller.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("re-read body: %v", err)
	}
	if string(body) != `[{"id":1}]` {
		t.Errorf("restored body = %q", body)
	}
}

func TestResponseToEntry_Nil(t *testing.T) {
	if _, err := ResponseToEntry(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestAddConditionalHeader(t *testing.T) {
	req, _ := http.NewRequest("GET", "https://x.test/api/v1/courses/1/users", nil)

	AddConditionalHeader(req, &Entry{ETag: `W/"abc"`})
	if got := req.Header.Get("If-None-Match"); got != `W/"abc"` {
		t.Errorf("If-None-Match = %q", got)
	}
}

func TestAddConditionalHeader_NoETag(t *testing.T) {
	req, _ := http.NewRequest("GET", "https://x.test/api/v1/courses/1/users", strings.NewReader(""))

	AddConditionalHeader(req, &Entry{})
	AddConditionalHeader(req, nil)

	if req.Header.Get("If-None-Match") != "" {
		t.Error("If-None-Match set without an ETag")
	}
}

func TestEntryRevalidatable(t *testing.T) {
	if (&Entry{}).Revalidatable() {
		t.Error("entry without ETag must not be revalidatable")
	}
	if !(&Entry{ETag: "x"}).Revalidatable() {
		t.Error("entry with ETag must be revalidatable")
	}
	var nilEntry *Entry
	if nilEntry.Revalidatable() {
		t.Error("nil entry must not be revalidatable")
	}
}
