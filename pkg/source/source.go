// Package source fetches startup lead candidates from external search
// APIs and feeds and normalizes them into scoreable records.
package source

import (
	"context"
	"strings"
	"time"

	"github.com/scoutvc/leadctl/pkg/score"
)

// Item is a normalized candidate row from any source.
type Item struct {
	Title        string    `json:"title"`
	Snippet      string    `json:"snippet,omitempty"`
	URL          string    `json:"url"`
	Company      string    `json:"company,omitempty"`
	Published    time.Time `json:"published"`
	Source       string    `json:"source"`
	CountryGuess string    `json:"country_guess,omitempty"`
}

// Record converts the item into its scoreable form. Title, snippet, and
// URL all count as location-bearing and keyword-bearing text since
// search results mention geography and sector anywhere in the result.
func (i Item) Record() score.Record {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Title, i.Snippet, i.URL} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return score.Record{
		Locations:   parts,
		Description: strings.Join(parts, " "),
		Founders:    []score.Founder{},
	}
}

// Source produces candidate items.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Item, error)
}
