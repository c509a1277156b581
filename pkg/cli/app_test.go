package cli

import (
	"testing"

	"github.com/scoutvc/leadctl/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestNewApp(t *testing.T) {
	app := newApp()

	assert.Equal(t, "leadctl", app.Name)
	assert.NotEmpty(t, app.Usage)
	assert.NotNil(t, app.Before)
	assert.NotNil(t, app.After)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"auth", "score", "run", "query", "serve", "reset"}, names)
}

func TestRouteConfig(t *testing.T) {
	cfg := &config.Config{
		Routing: config.RoutingConfig{
			MinLeadScore:   7,
			MinReviewScore: 3,
			ExcludeTerms:   []string{"hackathon"},
		},
	}

	rc := routeConfig(cfg)

	assert.Equal(t, float64(7), rc.MinLeadScore)
	assert.Equal(t, float64(3), rc.MinReviewScore)
	assert.Equal(t, []string{"hackathon"}, rc.ExcludeTerms)
}
