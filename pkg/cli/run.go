package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scoutvc/leadctl/pkg/auth"
	"github.com/scoutvc/leadctl/pkg/cache"
	"github.com/scoutvc/leadctl/pkg/config"
	"github.com/scoutvc/leadctl/pkg/notify"
	"github.com/scoutvc/leadctl/pkg/pipeline"
	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/scoutvc/leadctl/pkg/source"
	"github.com/urfave/cli/v2"
)

var (
	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Fetch and score without saving or notifying",
	}

	runCmd = &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute one sourcing run: fetch, score, route, dedupe, save, notify",
		UsageText: `leadctl run                 # full run against the configured store
   leadctl run --dry-run       # fetch and score only`,
		HideHelpCommand: true,
		Action:          cmdRun,
		Flags: []cli.Flag{
			dryRunFlag,
			formatFlag,
		},
	}
)

func cmdRun(c *cli.Context) error {
	cfg := getConfig(c)
	ctx := context.Background()

	creds, err := auth.Resolve(cfg.Home)
	if err != nil {
		if !errors.Is(err, auth.ErrNotFound) {
			return fmt.Errorf("resolving search credentials: %w", err)
		}
		slog.Warn("no search credentials, web search will be skipped")
		creds = &auth.Credentials{}
	}

	cs := newCache(ctx, cfg.Config.Cache)

	opts := &pipeline.Options{
		Sources: []source.Source{
			&source.CSE{
				APIKey:     creds.APIKey,
				CX:         creds.CX,
				Queries:    cfg.Config.Sources.Queries,
				MaxResults: cfg.Config.Sources.MaxResults,
				Cache:      cs,
				CacheTTL:   cfg.Config.Cache.TTLDuration(),
			},
			&source.RSS{Feeds: cfg.Config.Sources.Feeds},
		},
		Weights: score.Weights(cfg.Config.Weights),
		Route:   routeConfig(cfg.Config),
	}

	if !c.Bool(dryRunFlag.Name) {
		opts.Store = cfg.Store
		opts.Notifiers = newNotifiers(cfg.Config.Notify)
	}

	res, err := pipeline.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("sourcing run failed: %w", err)
	}

	return encode(res)
}

func newCache(ctx context.Context, cfg config.CacheConfig) cache.Cache {
	if cfg.Addr == "" {
		return cache.NewMemory()
	}

	r, err := cache.NewRedis(ctx, cfg.Addr)
	if err != nil {
		slog.Warn("redis unavailable, using in-process cache", "addr", cfg.Addr, "error", err)
		return cache.NewMemory()
	}
	return r
}

func newNotifiers(cfg config.NotifyConfig) []notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.SlackWebhook != "" {
		notifiers = append(notifiers, &notify.Slack{WebhookURL: cfg.SlackWebhook})
	}
	if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, &notify.Email{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
			To:   cfg.SMTP.To,
		})
	}
	return notifiers
}
