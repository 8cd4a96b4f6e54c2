package canvas

import (
	"strings"
)

// ParseLinkHeader parses an RFC 5988 style Link header into a relation to
// URL map. Canvas advertises pagination as comma-separated segments of the
// form `<url>; rel="name"`; extra whitespace and additional parameters are
// tolerated, unparseable segments are skipped.
func ParseLinkHeader(header string) map[string]string {
	links := make(map[string]string)
	if strings.TrimSpace(header) == "" {
		return links
	}

	for _, segment := range strings.Split(header, ",") {
		segment = strings.TrimSpace(segment)

		end := strings.Index(segment, ">")
		if !strings.HasPrefix(segment, "<") || end < 0 {
			continue
		}
		url := segment[1:end]

		var rel string
		for _, param := range strings.Split(segment[end+1:], ";") {
			param = strings.TrimSpace(param)
			value, ok := strings.CutPrefix(param, "rel=")
			if !ok {
				continue
			}
			rel = strings.Trim(strings.TrimSpace(value), `"`)
			break
		}

		if rel != "" && url != "" {
			links[rel] = url
		}
	}

	return links
}

// NextURL extracts the rel="next" cursor from a Link header. An empty
// return value means the chain is exhausted.
func NextURL(header string) string {
	return ParseLinkHeader(header)["next"]
}
