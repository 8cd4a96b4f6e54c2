package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResponseToEntry converts an HTTP response into a cache Entry. The body is
// read fully and restored so the caller can still consume it.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Link:       resp.Header.Get("Link"),
		CachedAt:   time.Now(),
	}, nil
}

// AddConditionalHeader attaches If-None-Match when the entry supports
// revalidation.
func AddConditionalHeader(req *http.Request, entry *Entry) {
	if req == nil || !entry.Revalidatable() {
		return
	}
	req.Header.Set("If-None-Match", entry.ETag)
}
