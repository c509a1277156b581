// Package pipeline runs a sourcing pass end to end: fetch candidates
// from every configured source, score and route them, merge
// near-duplicates, persist the keepers, and notify the configured
// channels.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scoutvc/leadctl/pkg/dedupe"
	"github.com/scoutvc/leadctl/pkg/notify"
	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/scoutvc/leadctl/pkg/source"
	"github.com/scoutvc/leadctl/pkg/store"
)

// Options wires the pipeline's collaborators. A nil Store turns the
// run into a dry run: nothing is persisted and no notifications go out.
type Options struct {
	Sources   []source.Source
	Weights   score.Weights
	Route     score.RouteConfig
	Store     *store.Store
	Notifiers []notify.Notifier
}

// Result summarizes a sourcing run.
type Result struct {
	Fetched  int               `json:"fetched"`
	Scored   int               `json:"scored"`
	Leads    int               `json:"leads"`
	Review   int               `json:"review"`
	Dropped  int               `json:"dropped"`
	Errors   int               `json:"errors"`
	Saved    *store.SaveResult `json:"saved,omitempty"`
	Duration string            `json:"duration"`
}

// Run executes one sourcing pass.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	if opts == nil {
		return nil, errors.New("pipeline options required")
	}

	start := time.Now()
	res := &Result{}

	// 1. fetch from all sources concurrently
	items, fetchErrors, err := fetchAll(ctx, opts.Sources)
	res.Fetched = len(items)
	res.Errors += fetchErrors
	if err != nil {
		res.Duration = time.Since(start).String()
		return res, err
	}

	// 2. score and route
	keep := make([]*store.Lead, 0, len(items))
	for _, item := range items {
		rec := item.Record()
		sr, err := score.Compute(rec, opts.Weights)
		if err != nil {
			res.Duration = time.Since(start).String()
			return res, fmt.Errorf("failed to score %s: %w", item.URL, err)
		}
		res.Scored++

		decision := score.Route(rec, sr, opts.Route)
		slog.Debug("routed candidate",
			"url", item.URL,
			"total", sr.Total,
			"decision", decision,
		)

		switch decision {
		case score.DecisionLead:
			res.Leads++
		case score.DecisionReview:
			res.Review++
		default:
			res.Dropped++
			continue
		}

		l, err := toLead(item, sr, decision)
		if err != nil {
			res.Duration = time.Since(start).String()
			return res, err
		}
		keep = append(keep, l)
	}

	// 3. merge near-duplicates
	merged := dedupe.Leads(keep)
	if d := len(keep) - len(merged); d > 0 {
		slog.Info("merged duplicate candidates", "count", d)
	}

	// 4. persist
	if opts.Store != nil {
		saved, err := opts.Store.SaveLeads(merged)
		if err != nil {
			res.Duration = time.Since(start).String()
			return res, fmt.Errorf("failed to save leads: %w", err)
		}
		res.Saved = saved

		// 5. notify
		msg := notify.Summary(saved.Inserted)
		for _, n := range opts.Notifiers {
			if err := n.Notify(ctx, msg); err != nil {
				slog.Error("notification failed", "channel", n.Name(), "error", err)
				res.Errors++
			}
		}
	}

	res.Duration = time.Since(start).String()
	return res, nil
}

func fetchAll(ctx context.Context, sources []source.Source) ([]source.Item, int, error) {
	var (
		mu       sync.Mutex
		items    []source.Item
		failures int
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			fetched, err := src.Fetch(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Error("source fetch failed", "source", src.Name(), "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}
			slog.Info("source fetched", "source", src.Name(), "items", len(fetched))
			mu.Lock()
			items = append(items, fetched...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, failures, fmt.Errorf("fetch aborted: %w", err)
	}
	return items, failures, nil
}

func toLead(item source.Item, sr *score.Result, decision score.Decision) (*store.Lead, error) {
	signals, err := json.Marshal(sr.Signals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signals for %s: %w", item.URL, err)
	}
	return &store.Lead{
		Title:     item.Title,
		Snippet:   item.Snippet,
		URL:       item.URL,
		Company:   item.Company,
		Country:   item.CountryGuess,
		Source:    item.Source,
		Published: item.Published,
		Score:     sr.Total,
		Decision:  string(decision),
		Signals:   string(signals),
	}, nil
}
