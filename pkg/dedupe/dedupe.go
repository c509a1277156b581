// Package dedupe merges near-duplicate leads before they are stored.
//
// Two leads are duplicates when their URLs match exactly, or when both
// the titles and the company names are very similar. On a match the
// lead with the higher score wins, with the newer published time as
// the tiebreak.
package dedupe

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/scoutvc/leadctl/pkg/store"
)

// Threshold is the similarity (0-100) at or above which two titles or
// company names are considered the same.
const Threshold = 90

// Similarity returns a 0-100 ratio between the token-sorted forms of a
// and b, where 100 means identical.
func Similarity(a, b string) float64 {
	na, nb := tokenSort(a), tokenSort(b)
	if na == nb {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(na, nb, false)
	dist := dmp.DiffLevenshtein(diffs)

	longest := len([]rune(na))
	if l := len([]rune(nb)); l > longest {
		longest = l
	}
	return 100 * (1 - float64(dist)/float64(longest))
}

func tokenSort(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// Leads merges near-duplicate leads, keeping the better row of each
// duplicate pair. Order of first appearance is preserved.
func Leads(leads []*store.Lead) []*store.Lead {
	deduped := make([]*store.Lead, 0, len(leads))
	for _, l := range leads {
		idx := -1
		for i, ex := range deduped {
			if isDuplicate(l, ex) {
				idx = i
				break
			}
		}
		if idx < 0 {
			deduped = append(deduped, l)
		} else if l.BetterThan(deduped[idx]) {
			deduped[idx] = l
		}
	}
	return deduped
}

func isDuplicate(a, b *store.Lead) bool {
	if a.URL != "" && b.URL != "" && a.URL == b.URL {
		return true
	}
	return Similarity(a.Title, b.Title) >= Threshold &&
		Similarity(a.Company, b.Company) >= Threshold
}
