package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scoutvc/leadctl/pkg/net"
)

const rssSourceName = "rss"

// RSS sources candidates from RSS 2.0 feeds.
type RSS struct {
	Feeds []string
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string     `xml:"title"`
	Items []rssEntry `xml:"item"`
}

type rssEntry struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (s *RSS) Name() string {
	return rssSourceName
}

// Fetch pulls each feed and normalizes its entries, deduplicating by
// link across all feeds in the run. Failed feeds are logged and skipped.
func (s *RSS) Fetch(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	seen := make(map[string]bool)

	for _, feedURL := range s.Feeds {
		feed, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			slog.Error("feed fetch failed", "url", feedURL, "error", err)
			continue
		}

		for _, e := range feed.Channel.Items {
			if e.Link == "" || seen[e.Link] {
				continue
			}
			seen[e.Link] = true

			items = append(items, Item{
				Title:     strings.TrimSpace(e.Title),
				Snippet:   stripHTML(e.Description),
				URL:       e.Link,
				Published: parsePubDate(e.PubDate),
				Source:    feed.Channel.Title,
			})
		}
	}
	return items, nil
}

func (s *RSS) fetchFeed(ctx context.Context, feedURL string) (*rssFeed, error) {
	body, err := net.GetBody(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var feed rssFeed
	if err := xml.Unmarshal([]byte(body), &feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	return &feed, nil
}

// stripHTML reduces a feed summary to its visible text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
