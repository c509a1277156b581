package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/scoutvc/leadctl/pkg/store"
	"github.com/urfave/cli/v2"
)

var resetCmd = &cli.Command{
	Name:            "reset",
	Usage:           "Delete all saved leads and start fresh",
	HideHelpCommand: true,
	Flags:           []cli.Flag{debugFlag},
	Action:          cmdReset,
}

func cmdReset(c *cli.Context) error {
	cfg := getConfig(c)

	if cfg.Config.Store.Driver != store.DriverSQLite {
		return fmt.Errorf("reset supports only the sqlite store, configured driver is %q", cfg.Config.Store.Driver)
	}

	fmt.Printf("This will permanently delete all data in %s\n", cfg.DSN)
	fmt.Print("Are you sure? [y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted.")
		return nil
	}

	// close the store before deleting the file
	if cfg.Store != nil {
		cfg.Store.Close()
		cfg.Store = nil
	}

	if err := os.Remove(cfg.DSN); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}

	slog.Info("database deleted", "path", cfg.DSN)

	// re-initialize an empty database
	db, err := store.Open(cfg.Config.Store.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}
	cfg.Store = db

	slog.Info("database re-initialized", "path", cfg.DSN)
	fmt.Println("Reset complete.")
	return nil
}
