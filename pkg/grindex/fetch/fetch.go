// Package fetch retrieves page HTML, politely and with an on-disk cache so
// repeated runs do not hammer the source site.
package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Fetcher retrieves the HTML body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// DefaultUserAgent identifies the crawler to the source site.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Disabled is the Fetcher for engines that only read the store; any fetch
// attempt is an error, never a panic.
type Disabled struct{}

func (Disabled) Fetch(_ context.Context, url string) (string, error) {
	return "", fmt.Errorf("fetching disabled: %s", url)
}

// HTTP is a Fetcher over net/http with a minimum delay between requests.
type HTTP struct {
	Client    *http.Client
	UserAgent string
	Delay     time.Duration
	Log       zerolog.Logger

	mu   sync.Mutex
	last time.Time
}

// Fetch downloads one page, waiting out the configured delay since the
// previous request first. Any status >= 400 is an error.
func (h *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	if err := h.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	ua := h.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	h.Log.Debug().Str("url", url).Msg("fetching page")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

func (h *HTTP) wait(ctx context.Context) error {
	h.mu.Lock()
	now := time.Now()
	next := h.last.Add(h.Delay)
	pause := next.Sub(now)
	if pause > 0 {
		h.last = next
	} else {
		h.last = now
	}
	h.mu.Unlock()

	if pause <= 0 {
		return nil
	}
	select {
	case <-time.After(pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cache wraps a Fetcher with an on-disk page cache. Pages are stored as
// <md5(url)>.html under Dir. Refresh bypasses reads but still writes.
type Cache struct {
	Dir     string
	Inner   Fetcher
	Refresh bool
	Log     zerolog.Logger
}

func (c *Cache) path(url string) string {
	sum := md5.Sum([]byte(url))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:])+".html")
}

// Fetch returns the cached copy when present, otherwise delegates to the
// inner fetcher and caches the result. Cache read failures fall through to a
// live fetch; write failures are logged and ignored.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	path := c.path(url)

	if !c.Refresh {
		data, err := os.ReadFile(path)
		if err == nil {
			c.Log.Debug().Str("url", url).Msg("cache hit")
			return string(data), nil
		}
	}

	body, err := c.Inner.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		c.Log.Warn().Err(err).Str("dir", c.Dir).Msg("cannot create cache dir")
		return body, nil
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		c.Log.Warn().Err(err).Str("url", url).Msg("cannot write cache entry")
	}
	return body, nil
}
