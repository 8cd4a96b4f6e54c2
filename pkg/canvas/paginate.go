package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gradebook-tools/canvas-sync/pkg/cache"
)

// ProgressFunc observes long-running work. current counts completed items,
// total is the known item count or -1 when the server does not announce
// one (cursor pagination), detail names the item just finished. It is
// always invoked once more at completion with current == total.
type ProgressFunc func(current, total int, detail string)

// FetchAll follows the rel="next" cursor chain starting at seedURL and
// returns the concatenation of all pages' records in order.
//
// A page responding outside [200,300) fails the whole fetch with an
// *APIError; records accumulated from earlier pages are discarded because
// a partial listing is not usable. Transport failures surface as
// *TransportError. There is no retry: runs are manual and user-triggered.
// The chain is trusted to terminate, with c.config.MaxPages as a guard
// against a misbehaving server.
func (c *Client) FetchAll(ctx context.Context, seedURL string, onProgress ProgressFunc) ([]json.RawMessage, error) {
	var records []json.RawMessage

	cursor := seedURL
	pages := 0
	for cursor != "" {
		if pages >= c.config.MaxPages {
			return nil, fmt.Errorf("%w (%d pages) at %s", ErrTooManyPages, pages, cursor)
		}

		body, link, err := c.getPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		pages++
		pagesFetchedTotal.Inc()

		var page []json.RawMessage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode page %d at %s: %w", pages, cursor, err)
		}
		records = append(records, page...)

		c.logger.Debug().
			Str("url", cursor).
			Int("page", pages).
			Int("records", len(page)).
			Msg("Fetched page")

		if onProgress != nil {
			onProgress(pages, -1, cursor)
		}

		cursor = NextURL(link)
	}

	if onProgress != nil {
		onProgress(pages, pages, "complete")
	}

	c.logger.Info().
		Str("seed", seedURL).
		Int("pages", pages).
		Int("records", len(records)).
		Msg("Pagination complete")

	return records, nil
}

// FetchAs fetches a full paginated collection and decodes each record into T.
func FetchAs[T any](ctx context.Context, c *Client, seedURL string, onProgress ProgressFunc) ([]T, error) {
	raw, err := c.FetchAll(ctx, seedURL, onProgress)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, msg := range raw {
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// getPage performs one GET, consulting the response cache when configured.
// It returns the body and the raw Link header so the caller can advance
// the cursor. The response body is fully read and closed before return,
// keeping the connection reusable for the next page.
func (c *Client) getPage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	var cached *cache.Entry
	if c.cache != nil {
		key := cache.KeyForURL(url)
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrMiss {
			c.logger.Warn().Err(err).Str("url", url).Msg("Cache get error")
		}
		cached = entry
		cache.AddConditionalHeader(req, cached)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		io.Copy(io.Discard, resp.Body)
		cache.NotModified.Inc()
		if err := c.cache.Touch(ctx, cache.KeyForURL(url)); err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("Cache touch error")
		}
		c.logger.Debug().Str("url", url).Msg("304 Not Modified, using cached page")
		return cached.Data, cached.Link, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: excerpt(body), URL: url}
	}

	link := resp.Header.Get("Link")
	if c.cache != nil {
		entry := &cache.Entry{
			Data:       body,
			ETag:       resp.Header.Get("ETag"),
			StatusCode: resp.StatusCode,
			Link:       link,
			CachedAt:   time.Now(),
		}
		if entry.ETag != "" {
			if err := c.cache.Set(ctx, cache.KeyForURL(url), entry); err != nil {
				c.logger.Warn().Err(err).Str("url", url).Msg("Cache set error")
			}
		}
	}

	return body, link, nil
}
