package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutvc/leadctl/pkg/score"
)

func TestItemRecord(t *testing.T) {
	i := Item{
		Title:   "Acme raises seed round",
		Snippet: "Logistics startup in Panama",
		URL:     "https://example.pa/acme",
	}

	r := i.Record()
	assert.Equal(t, []string{
		"Acme raises seed round",
		"Logistics startup in Panama",
		"https://example.pa/acme",
	}, r.Locations)
	assert.Equal(t, "Acme raises seed round Logistics startup in Panama https://example.pa/acme", r.Description)
	require.NotNil(t, r.Founders)
	assert.Empty(t, r.Founders)
	assert.NoError(t, r.Validate())
}

func TestItemRecordSkipsEmptyParts(t *testing.T) {
	i := Item{
		Title: "Acme raises seed round",
		URL:   "https://example.com/acme",
	}

	r := i.Record()
	assert.Equal(t, []string{"Acme raises seed round", "https://example.com/acme"}, r.Locations)
	assert.Equal(t, "Acme raises seed round https://example.com/acme", r.Description)
}

func TestItemRecordEmptyItem(t *testing.T) {
	r := Item{}.Record()
	require.NotNil(t, r.Locations)
	assert.Empty(t, r.Locations)
	assert.Empty(t, r.Description)
	assert.NoError(t, r.Validate())
}

func TestItemRecordScoreable(t *testing.T) {
	i := Item{
		Title:   "Fintech startup expands",
		Snippet: "Payments platform in Costa Rica",
		URL:     "https://example.cr/pay",
	}

	res, err := score.Compute(i.Record(), score.Weights{
		score.SignalCentralAmerica: 10,
		score.SignalFintechKeyword: -6,
	})
	require.NoError(t, err)
	assert.True(t, res.Fired(score.SignalCentralAmerica))
	assert.True(t, res.Fired(score.SignalFintechKeyword))
	assert.Equal(t, 4.0, res.Total)
}
