package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutvc/leadctl/pkg/notify"
	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/scoutvc/leadctl/pkg/source"
	"github.com/scoutvc/leadctl/pkg/store"
)

type fakeSource struct {
	name  string
	items []source.Item
	err   error
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) Fetch(_ context.Context) ([]source.Item, error) {
	return f.items, f.err
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Name() string {
	return "fake"
}

func (f *fakeNotifier) Notify(_ context.Context, msg string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func testWeights() score.Weights {
	return score.Weights{
		score.SignalCentralAmerica: 10,
		score.SignalSouthOfMexico:  8,
		score.SignalFintechKeyword: -6,
		score.SignalFemaleFounder:  4,
	}
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testItems() []source.Item {
	return []source.Item{
		{
			Title:   "Acme raises seed round",
			Snippet: "Logistics startup in Panama",
			URL:     "https://a.example.com",
			Source:  "google_cse",
		},
		{
			Title:   "Beta ships payments API",
			Snippet: "Fintech payments startup in Brazil expands",
			URL:     "https://b.example.com",
			Source:  "google_cse",
		},
		{
			Title:   "Generic SaaS tool launch",
			Snippet: "Collaboration software",
			URL:     "https://c.example.com",
			Source:  "google_cse",
		},
	}
}

func TestRun(t *testing.T) {
	s := testStore(t)
	n := &fakeNotifier{}

	res, err := Run(context.Background(), &Options{
		Sources: []source.Source{
			&fakeSource{name: "good", items: testItems()},
			&fakeSource{name: "bad", err: errors.New("boom")},
		},
		Weights:   testWeights(),
		Route:     score.DefaultRouteConfig(),
		Store:     s,
		Notifiers: []notify.Notifier{n},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 3, res.Scored)
	assert.Equal(t, 1, res.Leads)
	assert.Equal(t, 1, res.Review)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.Errors)
	require.NotNil(t, res.Saved)
	assert.Equal(t, 2, res.Saved.Inserted)
	assert.NotEmpty(t, res.Duration)

	require.Len(t, n.messages, 1)
	assert.Equal(t, "VC sourcing run added 2 new leads", n.messages[0])

	lead, err := s.GetLeadByURL("https://a.example.com")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "lead", lead.Decision)
	assert.Equal(t, 10.0, lead.Score)
	assert.Contains(t, lead.Signals, "central_america_presence")

	review, err := s.GetLeadByURL("https://b.example.com")
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, "review", review.Decision)
	assert.Equal(t, 2.0, review.Score)
}

func TestRun_MergesDuplicates(t *testing.T) {
	s := testStore(t)

	a := source.Item{
		Title:   "Acme raises seed round",
		Snippet: "Logistics startup in Panama",
		URL:     "https://a.example.com",
		Source:  "google_cse",
	}
	b := a
	b.Source = "Startup Wire"

	res, err := Run(context.Background(), &Options{
		Sources: []source.Source{
			&fakeSource{name: "one", items: []source.Item{a}},
			&fakeSource{name: "two", items: []source.Item{b}},
		},
		Weights: testWeights(),
		Route:   score.DefaultRouteConfig(),
		Store:   s,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 2, res.Leads)
	require.NotNil(t, res.Saved)
	assert.Equal(t, 1, res.Saved.Inserted)
}

func TestRun_DryRun(t *testing.T) {
	n := &fakeNotifier{}

	res, err := Run(context.Background(), &Options{
		Sources:   []source.Source{&fakeSource{name: "good", items: testItems()}},
		Weights:   testWeights(),
		Route:     score.DefaultRouteConfig(),
		Notifiers: []notify.Notifier{n},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Saved)
	assert.Empty(t, n.messages)
}

func TestRun_BadWeightAborts(t *testing.T) {
	s := testStore(t)

	_, err := Run(context.Background(), &Options{
		Sources: []source.Source{&fakeSource{name: "good", items: testItems()}},
		Weights: score.Weights{score.SignalCentralAmerica: "high"},
		Route:   score.DefaultRouteConfig(),
		Store:   s,
	})
	require.Error(t, err)

	var cte *score.ConfigTypeError
	assert.ErrorAs(t, err, &cte)
}

func TestRun_ExcludeTerms(t *testing.T) {
	s := testStore(t)

	rc := score.DefaultRouteConfig()
	rc.ExcludeTerms = []string{"hackathon"}

	res, err := Run(context.Background(), &Options{
		Sources: []source.Source{&fakeSource{name: "good", items: []source.Item{{
			Title:   "Panama hackathon winners announced",
			Snippet: "Student teams from Panama City",
			URL:     "https://h.example.com",
			Source:  "rss",
		}}}},
		Weights: testWeights(),
		Route:   rc,
		Store:   s,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.Zero(t, res.Leads)
}

func TestRun_NotifyFailureIsNotFatal(t *testing.T) {
	s := testStore(t)
	n := &fakeNotifier{err: errors.New("webhook down")}

	res, err := Run(context.Background(), &Options{
		Sources:   []source.Source{&fakeSource{name: "good", items: testItems()}},
		Weights:   testWeights(),
		Route:     score.DefaultRouteConfig(),
		Store:     s,
		Notifiers: []notify.Notifier{n},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	require.NotNil(t, res.Saved)
	assert.Equal(t, 2, res.Saved.Inserted)
}

func TestRun_NilOptions(t *testing.T) {
	_, err := Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRun_NoSources(t *testing.T) {
	s := testStore(t)

	res, err := Run(context.Background(), &Options{
		Weights: testWeights(),
		Route:   score.DefaultRouteConfig(),
		Store:   s,
	})
	require.NoError(t, err)
	assert.Zero(t, res.Fetched)
	require.NotNil(t, res.Saved)
	assert.Zero(t, res.Saved.Inserted)
}
