package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeads(t *testing.T, s *Store) {
	t.Helper()
	leads := []*Lead{
		{
			Title: "Acme raises seed round", Snippet: "Logistics in Panama", URL: "https://a.example.com",
			Company: "Acme", Country: "PA", Source: "google_cse", Score: 10, Decision: "lead",
			Published: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			Title: "Beta ships payments API", Snippet: "Fintech in Brazil", URL: "https://b.example.com",
			Company: "Beta", Country: "BR", Source: "google_cse", Score: 6, Decision: "lead",
			Published: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			Title: "Gamma launches SaaS tool", Snippet: "Generic SaaS", URL: "https://c.example.com",
			Company: "Gamma", Country: "DE", Source: "Startup Wire", Score: 2, Decision: "review",
			Published: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			Title: "Delta hackathon recap", Snippet: "Community event", URL: "https://d.example.com",
			Company: "Delta", Country: "", Source: "Startup Wire", Score: 0, Decision: "drop",
			Published: time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
		},
	}
	res, err := s.SaveLeads(leads)
	require.NoError(t, err)
	require.Equal(t, len(leads), res.Inserted)
}

func TestSearchLeads_All(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(nil)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	// best score first
	assert.Equal(t, "https://a.example.com", list[0].URL)
	assert.Equal(t, "https://b.example.com", list[1].URL)
}

func TestSearchLeads_ByDecision(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Decision: "lead"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, l := range list {
		assert.Equal(t, "lead", l.Decision)
	}
}

func TestSearchLeads_BySource(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Source: "Startup Wire"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSearchLeads_ByCountry(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Country: "PA"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Company)
}

func TestSearchLeads_Like(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Like: "payments"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://b.example.com", list[0].URL)

	list, err = s.SearchLeads(&LeadSearchCriteria{Like: "Gamma"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSearchLeads_MinScore(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	min := 6.0
	list, err := s.SearchLeads(&LeadSearchCriteria{MinScore: &min})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSearchLeads_Limit(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSearchLeads_Combined(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	min := 1.0
	list, err := s.SearchLeads(&LeadSearchCriteria{
		Decision: "lead",
		Source:   "google_cse",
		MinScore: &min,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSearchLeads_NoMatch(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	list, err := s.SearchLeads(&LeadSearchCriteria{Decision: "archived"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetDataState(t *testing.T) {
	s := setupTestStore(t)
	seedLeads(t, s)

	state, err := s.GetDataState()
	require.NoError(t, err)
	assert.Equal(t, int64(4), state.Total)
	assert.Equal(t, int64(2), state.Decisions["lead"])
	assert.Equal(t, int64(1), state.Decisions["review"])
	assert.Equal(t, int64(1), state.Decisions["drop"])
	assert.Equal(t, int64(2), state.Sources["google_cse"])
	assert.Equal(t, int64(2), state.Sources["Startup Wire"])
}

func TestGetDataState_Empty(t *testing.T) {
	s := setupTestStore(t)

	state, err := s.GetDataState()
	require.NoError(t, err)
	assert.Zero(t, state.Total)
	assert.Empty(t, state.Decisions)
}
