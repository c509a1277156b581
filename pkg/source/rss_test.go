package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Startup Wire</title>
		<item>
			<title>Acme raises seed round</title>
			<link>https://example.com/acme</link>
			<description>&lt;p&gt;Logistics startup in &lt;b&gt;Panama&lt;/b&gt;&lt;/p&gt;</description>
			<pubDate>Mon, 02 Jan 2023 15:04:05 -0700</pubDate>
		</item>
		<item>
			<title>Beta ships payments API</title>
			<link>https://example.com/beta</link>
			<description>Plain text summary</description>
			<pubDate>not a date</pubDate>
		</item>
		<item>
			<title>No link entry</title>
			<description>skipped</description>
		</item>
	</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	s := &RSS{Feeds: []string{srv.URL}}

	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Acme raises seed round", first.Title)
	assert.Equal(t, "https://example.com/acme", first.URL)
	assert.Equal(t, "Logistics startup in Panama", first.Snippet)
	assert.Equal(t, "Startup Wire", first.Source)
	want := time.Date(2023, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600))
	assert.True(t, first.Published.Equal(want))

	second := items[1]
	assert.Equal(t, "Plain text summary", second.Snippet)
	assert.True(t, second.Published.IsZero())
}

func TestRSSFetchDedupesAcrossFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	s := &RSS{Feeds: []string{srv.URL, srv.URL}}

	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRSSFetchSkipsBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer srv.Close()

	s := &RSS{Feeds: []string{srv.URL}}

	items, err := s.Fetch(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"whitespace", "  padded  ", "padded"},
		{"nested", "<div><span>a</span> b</div>", "a b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripHTML(tc.in))
		})
	}
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		zero bool
	}{
		{"rfc1123z", "Mon, 02 Jan 2023 15:04:05 -0700", false},
		{"rfc1123", "Mon, 02 Jan 2023 15:04:05 MST", false},
		{"rfc3339", "2023-01-02T15:04:05Z", false},
		{"garbage", "yesterday-ish", true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parsePubDate(tc.in)
			assert.Equal(t, tc.zero, got.IsZero())
		})
	}
}
