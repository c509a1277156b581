package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/scoutvc/leadctl/pkg/config"
	"github.com/scoutvc/leadctl/pkg/logging"
	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/scoutvc/leadctl/pkg/store"
	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	configDirFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to the app home directory holding config, credentials, and the local database",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Home   string
	DSN    string
	Debug  bool
	Config *config.Config
	Store  *store.Store
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func routeConfig(cfg *config.Config) score.RouteConfig {
	return score.RouteConfig{
		MinLeadScore:   cfg.Routing.MinLeadScore,
		MinReviewScore: cfg.Routing.MinReviewScore,
		ExcludeTerms:   cfg.Routing.ExcludeTerms,
	}
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "leadctl",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for sourcing, scoring, and routing startup investment leads",
		Flags: []urfave.Flag{
			debugFlag,
			configDirFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			authCmd,
			scoreCmd,
			runCmd,
			queryCmd,
			serverCmd,
			resetCmd,
		},
		Before: func(c *urfave.Context) error {
			home := c.String(configDirFlag.Name)
			if home == "" {
				home = getHomeDir()
			}

			cfg, err := config.ReadOrCreate(home)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			level := cfg.Logging.Level
			if c.Bool(debugFlag.Name) {
				level = "debug"
			}
			logging.SetDefaultCLILogger(level)

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			dsn := cfg.Store.DSN
			if dsn == "" && cfg.Store.Driver == store.DriverSQLite {
				dsn = path.Join(home, store.DataFileName)
			}

			db, err := store.Open(cfg.Store.Driver, dsn)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				Home:   home,
				DSN:    dsn,
				Debug:  c.Bool(debugFlag.Name),
				Config: cfg,
				Store:  db,
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.Store != nil {
				cfg.Store.Close()
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}
	slog.Debug("home dir", "path", home)

	dirName := ".leadctl"
	dirPath := filepath.Join(home, dirName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		err := os.Mkdir(dirPath, dirMode)
		if err != nil {
			slog.Debug("error creating dir", "path", dirPath, "home", home, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
