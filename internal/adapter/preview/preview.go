// Package preview looks up the Open Graph image of a page.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultMaxBodyBytes = 1 << 20
	defaultUserAgent    = "link-shortener-preview/1.0"
)

// Meta keys in lookup order.
var imageKeys = []string{"og:image", "og:image:url", "og:image:secure_url", "twitter:image"}

type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Fetcher fetches a page and reports its preview image. It never fails:
// any problem is logged at debug level and reported as no image.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
	logger       *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		maxBodyBytes: cfg.MaxBodyBytes,
		userAgent:    cfg.UserAgent,
		logger:       logger,
	}
}

func (f *Fetcher) PreviewImage(ctx context.Context, pageURL string) (string, bool) {
	img, err := f.fetch(ctx, pageURL)
	if err != nil {
		f.logger.DebugContext(ctx, "preview image unavailable",
			slog.String("url", pageURL),
			slog.Any("err", err),
		)
		return "", false
	}

	return img, true
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) (string, error) {
	const op = "adapter.preview.Fetcher.fetch"

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%s: failed to parse page url: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: failed to fetch page: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mt != "text/html" {
		return "", fmt.Errorf("%s: unexpected content type %q", op, resp.Header.Get("Content-Type"))
	}

	// A response that was redirected resolves relative images against the final page.
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	raw, ok := findImage(io.LimitReader(resp.Body, f.maxBodyBytes))
	if !ok {
		return "", fmt.Errorf("%s: no preview image meta tag", op)
	}

	img, err := resolve(base, raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return img, nil
}

// findImage scans the document head for the first preview image meta tag
// by key priority.
func findImage(r io.Reader) (string, bool) {
	found := make(map[string]string, len(imageKeys))
	z := html.NewTokenizer(r)

scan:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break scan
		case html.EndTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Head {
				break scan
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if atom.Lookup(name) == atom.Body {
				break scan
			}
			if atom.Lookup(name) != atom.Meta || !hasAttr {
				continue
			}

			var key, content string
			for {
				k, v, more := z.TagAttr()
				switch string(k) {
				case "property", "name":
					if key == "" {
						key = strings.ToLower(strings.TrimSpace(string(v)))
					}
				case "content":
					content = strings.TrimSpace(string(v))
				}
				if !more {
					break
				}
			}

			if _, seen := found[key]; !seen && key != "" && content != "" {
				found[key] = content
			}
		}
	}

	for _, key := range imageKeys {
		if v, ok := found[key]; ok {
			return v, true
		}
	}

	return "", false
}

func resolve(base *url.URL, raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid image url %q: %w", raw, err)
	}

	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported image url scheme %q", u.Scheme)
	}

	return u.String(), nil
}

// Noop is used when preview lookup is disabled.
type Noop struct{}

func (Noop) PreviewImage(context.Context, string) (string, bool) {
	return "", false
}
