package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/scoutvc/leadctl/pkg/cache"
	"github.com/scoutvc/leadctl/pkg/net"
)

const (
	cseBaseURL     = "https://www.googleapis.com/customsearch/v1"
	cseSourceName  = "google_cse"
	cseMaxResults  = 10
	cseThrottle    = time.Second
	cseCachePrefix = "cse:"
	cseCacheTTL    = 15 * time.Minute

	// LinkedIn answers bot traffic with a non-standard 999.
	linkedInBotStatus = 999
)

// CSE sources candidates from the Google Programmable Search API.
type CSE struct {
	APIKey     string
	CX         string
	Queries    []string
	MaxResults int
	Cache      cache.Cache
	CacheTTL   time.Duration

	// BaseURL overrides the public endpoint, used in tests.
	BaseURL string
}

type cseResponse struct {
	Items []cseItem `json:"items"`
}

type cseItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

func (s *CSE) Name() string {
	return cseSourceName
}

// Fetch runs each configured query against the search API, throttling
// between requests. Failed queries are logged and skipped so one bad
// query does not sink the run.
func (s *CSE) Fetch(ctx context.Context) ([]Item, error) {
	if s.APIKey == "" || s.CX == "" {
		slog.Warn("search credentials not set, skipping google cse")
		return nil, nil
	}

	num := s.MaxResults
	if num <= 0 || num > cseMaxResults {
		num = cseMaxResults
	}

	items := make([]Item, 0, len(s.Queries)*num)
	for i, q := range s.Queries {
		if i > 0 {
			// basic rate limiting
			select {
			case <-ctx.Done():
				return items, ctx.Err()
			case <-time.After(cseThrottle):
			}
		}

		res, err := s.search(ctx, q, num)
		if err != nil {
			slog.Error("search failed", "query", q, "error", err)
			continue
		}
		items = append(items, res...)
	}
	return items, nil
}

func (s *CSE) search(ctx context.Context, query string, num int) ([]Item, error) {
	raw, err := s.fetchRaw(ctx, query, num)
	if err != nil {
		return nil, err
	}

	var resp cseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	items := make([]Item, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Link == "" {
			continue
		}
		if strings.Contains(strings.ToLower(it.Link), "linkedin.com") && s.linkedInBlocked(ctx, it.Link) {
			slog.Info("skipping blocked linkedin url", "url", it.Link)
			continue
		}
		items = append(items, Item{
			Title:        it.Title,
			Snippet:      it.Snippet,
			URL:          it.Link,
			Source:       cseSourceName,
			CountryGuess: guessCountry(it.Link),
		})
	}
	return items, nil
}

func (s *CSE) fetchRaw(ctx context.Context, query string, num int) (string, error) {
	key := cseCachePrefix + query
	if s.Cache != nil {
		if raw, ok := s.Cache.Get(ctx, key); ok {
			slog.Debug("search cache hit", "query", query)
			return raw, nil
		}
	}

	base := s.BaseURL
	if base == "" {
		base = cseBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %s: %w", base, err)
	}

	q := u.Query()
	q.Set("key", s.APIKey)
	q.Set("cx", s.CX)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	u.RawQuery = q.Encode()

	raw, err := net.GetBody(ctx, u.String())
	if err != nil {
		return "", err
	}

	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = cseCacheTTL
		}
		if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
			slog.Warn("failed to cache search response", "query", query, "error", err)
		}
	}
	return raw, nil
}

func (s *CSE) linkedInBlocked(ctx context.Context, link string) bool {
	status, err := net.Head(ctx, link)
	if err != nil {
		return true
	}
	return status == linkedInBotStatus || status == http.StatusForbidden
}

// guessCountry maps a two-letter country-code TLD to an upper-case guess.
func guessCountry(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	idx := strings.LastIndex(host, ".")
	if idx < 0 {
		return ""
	}
	tld := host[idx+1:]
	if len(tld) != 2 {
		return ""
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return strings.ToUpper(tld)
}
