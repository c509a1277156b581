package cli

import (
	"fmt"
	"log/slog"

	"github.com/scoutvc/leadctl/pkg/store"
	"github.com/urfave/cli/v2"
)

const (
	queryResultLimitDefault = 100
)

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	decisionQueryFlag = &cli.StringFlag{
		Name:  "decision",
		Usage: "Routing decision [lead, review, drop]",
	}

	sourceQueryFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "Source name (e.g. google_cse or a feed title)",
	}

	countryQueryFlag = &cli.StringFlag{
		Name:  "country",
		Usage: "Guessed country code (e.g. PA)",
	}

	likeQueryFlag = &cli.StringFlag{
		Name:  "like",
		Usage: "Fuzzy search on title, snippet, and company",
	}

	minScoreQueryFlag = &cli.Float64Flag{
		Name:  "min-score",
		Usage: "Minimum total score",
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List lead query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "leads",
				Usage:   "List saved leads",
				Aliases: []string{"l"},
				Action:  cmdQueryLeads,
				Flags: []cli.Flag{
					decisionQueryFlag,
					sourceQueryFlag,
					countryQueryFlag,
					likeQueryFlag,
					minScoreQueryFlag,
					queryLimitFlag,
					formatFlag,
				},
			},
			{
				Name:    "state",
				Usage:   "Summarize stored leads (totals by decision and source)",
				Aliases: []string{"s"},
				Action:  cmdQueryState,
				Flags: []cli.Flag{
					formatFlag,
				},
			},
		},
	}
)

func cmdQueryLeads(c *cli.Context) error {
	limit := c.Int(queryLimitFlag.Name)
	if limit == 0 || limit > queryResultLimitDefault {
		limit = queryResultLimitDefault
	}

	q := &store.LeadSearchCriteria{
		Decision: c.String(decisionQueryFlag.Name),
		Source:   c.String(sourceQueryFlag.Name),
		Country:  c.String(countryQueryFlag.Name),
		Like:     c.String(likeQueryFlag.Name),
		Limit:    limit,
	}

	if c.IsSet(minScoreQueryFlag.Name) {
		v := c.Float64(minScoreQueryFlag.Name)
		q.MinScore = &v
	}

	slog.Debug("query leads",
		"decision", q.Decision,
		"source", q.Source,
		"country", q.Country,
		"like", q.Like,
		"limit", q.Limit,
	)

	cfg := getConfig(c)

	list, err := cfg.Store.SearchLeads(q)
	if err != nil {
		return fmt.Errorf("failed to query leads: %w", err)
	}

	if err := encode(list); err != nil {
		return fmt.Errorf("error encoding list: %+v: %w", list, err)
	}

	return nil
}

func cmdQueryState(c *cli.Context) error {
	cfg := getConfig(c)

	state, err := cfg.Store.GetDataState()
	if err != nil {
		return fmt.Errorf("failed to query data state: %w", err)
	}

	if err := encode(state); err != nil {
		return fmt.Errorf("error encoding state: %+v: %w", state, err)
	}

	return nil
}
