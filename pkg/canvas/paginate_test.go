package canvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gradebook-tools/canvas-sync/internal/testutil"
)

func TestFetchAll_ThreePages(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.ServePages("/api/v1/courses/42/users", []string{
		`[{"id":1},{"id":2}]`,
		`[{"id":3}]`,
		`[{"id":4},{"id":5}]`,
	})

	client := newTestClient(t, mock)
	records, err := client.FetchAll(context.Background(), client.UsersURL("42"), nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	if len(records) != 5 {
		t.Errorf("records = %d, want 5 (all pages concatenated)", len(records))
	}
	if mock.RequestCount != 3 {
		t.Errorf("requests = %d, want exactly 3", mock.RequestCount)
	}

	// Order preserved across pages.
	for i, want := range []string{`{"id":1}`, `{"id":2}`, `{"id":3}`, `{"id":4}`, `{"id":5}`} {
		if string(records[i]) != want {
			t.Errorf("records[%d] = %s, want %s", i, records[i], want)
		}
	}
}

func TestFetchAll_NoLinkHeaderTerminates(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.Handle("/api/v1/courses/42/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1}]`))
	})

	client := newTestClient(t, mock)
	records, err := client.FetchAll(context.Background(), client.UsersURL("42"), nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
	if mock.RequestCount != 1 {
		t.Errorf("requests = %d, want 1 (no Link header means done)", mock.RequestCount)
	}
}

func TestFetchAll_EmptyCollection(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.ServePages("/api/v1/courses/42/users", []string{`[]`})

	client := newTestClient(t, mock)
	records, err := client.FetchAll(context.Background(), client.UsersURL("42"), nil)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0 (empty page is valid)", len(records))
	}
}

func TestFetchAll_MidChainErrorFailsWholesale(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.Handle("/api/v1/courses/42/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/42/users?page=2>; rel="next"`, mock.URL()))
		w.Write([]byte(`[{"id":1}]`))
	})

	client := newTestClient(t, mock)
	records, err := client.FetchAll(context.Background(), client.UsersURL("42"), nil)

	if records != nil {
		t.Errorf("records = %v, want nil (no partial results)", records)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Error("APIError should carry a body excerpt")
	}
}

func TestFetchAll_TransportError(t *testing.T) {
	mock := testutil.NewMockCanvas()
	mock.ServePages("/api/v1/courses/42/users", []string{`[]`})
	client := newTestClient(t, mock)
	mock.Close() // connection refused from here on

	_, err := client.FetchAll(context.Background(), client.UsersURL("42"), nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
}

func TestFetchAll_PageGuard(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	// Server that always advertises a next page and never terminates.
	mock.Handle("/api/v1/courses/42/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/42/users?page=2>; rel="next"`, mock.URL()))
		w.Write([]byte(`[{"id":1}]`))
	})

	client, err := New(Config{BaseURL: mock.URL(), Token: "tok", MaxPages: 5})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.FetchAll(context.Background(), client.UsersURL("42"), nil)
	if !errors.Is(err, ErrTooManyPages) {
		t.Fatalf("error = %v, want ErrTooManyPages", err)
	}
	if mock.RequestCount != 5 {
		t.Errorf("requests = %d, want 5 (guard limit)", mock.RequestCount)
	}
}

func TestFetchAll_ProgressCallback(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.ServePages("/api/v1/courses/42/users", []string{`[{"id":1}]`, `[{"id":2}]`})

	type call struct{ current, total int }
	var calls []call

	client := newTestClient(t, mock)
	_, err := client.FetchAll(context.Background(), client.UsersURL("42"), func(current, total int, detail string) {
		calls = append(calls, call{current, total})
	})
	if err != nil {
		t.Fatal(err)
	}

	// One call per page with unknown total, one completion call.
	want := []call{{1, -1}, {2, -1}, {2, 2}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestFetchAs_DecodesUsers(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.ServePages("/api/v1/courses/42/users", []string{
		`[{"id":10,"name":"Ada Lovelace","sis_user_id":"s001"}]`,
		`[{"id":11,"name":"Grace Hopper","sis_user_id":"s002"}]`,
	})

	client := newTestClient(t, mock)
	users, err := client.FetchUsers(context.Background(), "42", nil)
	if err != nil {
		t.Fatalf("FetchUsers() error: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	if users[0].SISUserID != "s001" || users[1].Name != "Grace Hopper" {
		t.Errorf("decoded users = %+v", users)
	}
}

func TestFetchAs_MalformedRecord(t *testing.T) {
	mock := testutil.NewMockCanvas()
	defer mock.Close()
	mock.ServePages("/api/v1/courses/42/users", []string{`[{"id":"not-a-number"}]`})

	client := newTestClient(t, mock)
	if _, err := client.FetchUsers(context.Background(), "42", nil); err == nil {
		t.Error("expected decode error for malformed record")
	}
}
