package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached page. Pagination cursors differ only by query
// parameters, so the key covers path and sorted query but not the host's
// scheme casing or fragment.
type Key struct {
	// Path is the request path (e.g. "/api/v1/courses/42/users").
	Path string

	// Query are the request query parameters.
	Query url.Values
}

// KeyForURL derives a Key from a raw request URL. An unparseable URL keys
// on the raw string, which is still deterministic.
func KeyForURL(raw string) Key {
	u, err := url.Parse(raw)
	if err != nil {
		return Key{Path: raw}
	}
	return Key{Path: u.Path, Query: u.Query()}
}

// String generates the deterministic Redis key.
// Format: canvas:path:query1=val1:query2=val2
func (k Key) String() string {
	parts := []string{"canvas", strings.Trim(k.Path, "/")}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			vals := append([]string(nil), k.Query[name]...)
			sort.Strings(vals)
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(vals, ",")))
		}
	}

	return strings.Join(parts, ":")
}
