package cache

import (
	"time"
)

// Entry is one cached GET response.
type Entry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ETag from the response, replayed as If-None-Match.
	ETag string `json:"etag"`

	// StatusCode of the cached response.
	StatusCode int `json:"status_code"`

	// Link is the pagination Link header value, preserved so a cached page
	// still advances the cursor.
	Link string `json:"link,omitempty"`

	// CachedAt is when the entry was stored.
	CachedAt time.Time `json:"cached_at"`
}

// Age returns how long ago the entry was cached.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CachedAt)
}

// Revalidatable reports whether the entry carries an ETag that allows a
// conditional request.
func (e *Entry) Revalidatable() bool {
	return e != nil && e.ETag != ""
}
