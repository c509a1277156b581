package cli

import (
	"fmt"

	"github.com/scoutvc/leadctl/pkg/auth"
	"github.com/scoutvc/leadctl/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	cseKeyFlag = &cli.StringFlag{
		Name:  "key",
		Usage: "Google Custom Search API key",
	}

	cseCXFlag = &cli.StringFlag{
		Name:  "cx",
		Usage: "Google Custom Search engine ID",
	}

	slackWebhookFlag = &cli.StringFlag{
		Name:  "slack-webhook",
		Usage: "Slack incoming webhook URL for run notifications",
	}

	clearFlag = &cli.BoolFlag{
		Name:  "clear",
		Usage: "Remove stored search credentials",
	}

	authCmd = &cli.Command{
		Name:  "auth",
		Usage: "Store or clear search credentials and notification targets",
		UsageText: `leadctl auth --key <api-key> --cx <engine-id>   # store CSE credentials
   leadctl auth --slack-webhook <url>              # store the Slack webhook
   leadctl auth --clear                            # remove stored credentials`,
		HideHelpCommand: true,
		Action:          cmdAuth,
		Flags: []cli.Flag{
			cseKeyFlag,
			cseCXFlag,
			slackWebhookFlag,
			clearFlag,
		},
	}
)

func cmdAuth(c *cli.Context) error {
	cfg := getConfig(c)

	if c.Bool(clearFlag.Name) {
		if err := auth.Clear(cfg.Home); err != nil {
			return fmt.Errorf("clearing credentials: %w", err)
		}
		fmt.Println("Credentials cleared.")
		return nil
	}

	key := c.String(cseKeyFlag.Name)
	cx := c.String(cseCXFlag.Name)
	webhook := c.String(slackWebhookFlag.Name)

	if key == "" && cx == "" && webhook == "" {
		return cli.ShowSubcommandHelp(c)
	}

	if key != "" || cx != "" {
		if err := auth.Save(cfg.Home, &auth.Credentials{APIKey: key, CX: cx}); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}
		fmt.Println("Search credentials saved.")
	}

	if webhook != "" {
		cfg.Config.Notify.SlackWebhook = webhook
		if err := config.Save(cfg.Home, cfg.Config); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println("Slack webhook saved.")
	}

	return nil
}
