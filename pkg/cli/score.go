package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/scoutvc/leadctl/pkg/score"
	"github.com/urfave/cli/v2"
)

var (
	locationFlag = &cli.StringSliceFlag{
		Name:  "location",
		Usage: "Location mention, repeatable (e.g. --location \"Panama City, Panama\")",
	}

	descriptionFlag = &cli.StringFlag{
		Name:  "description",
		Usage: "Startup description text",
	}

	founderFlag = &cli.StringSliceFlag{
		Name:  "founder",
		Usage: "Founder gender [female, male, unknown], repeatable, accepts name:gender",
	}

	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to a JSON file holding a record or an array of records",
	}

	scoreCmd = &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score startup records against the configured weights",
		UsageText: `leadctl score --location "Panama City, Panama" --description "AI logistics" --founder male
   leadctl score --file records.json --format yaml   # score a batch from a file`,
		HideHelpCommand: true,
		Action:          cmdScore,
		Flags: []cli.Flag{
			locationFlag,
			descriptionFlag,
			founderFlag,
			fileFlag,
			formatFlag,
		},
	}
)

type scoredRecord struct {
	Record   score.Record   `json:"record" yaml:"record"`
	Score    *score.Result  `json:"score" yaml:"score"`
	Decision score.Decision `json:"decision" yaml:"decision"`
}

func cmdScore(c *cli.Context) error {
	records, err := recordsFromArgs(c)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return cli.ShowSubcommandHelp(c)
	}

	cfg := getConfig(c)
	rc := routeConfig(cfg.Config)

	out := make([]*scoredRecord, 0, len(records))
	for _, r := range records {
		res, err := score.Compute(r, score.Weights(cfg.Config.Weights))
		if err != nil {
			return fmt.Errorf("failed to score record: %w", err)
		}
		out = append(out, &scoredRecord{
			Record:   r,
			Score:    res,
			Decision: score.Route(r, res, rc),
		})
	}

	if len(out) == 1 {
		return encode(out[0])
	}
	return encode(out)
}

func recordsFromArgs(c *cli.Context) ([]score.Record, error) {
	if f := c.String(fileFlag.Name); f != "" {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		return parseRecords(b)
	}

	locations := c.StringSlice(locationFlag.Name)
	description := c.String(descriptionFlag.Name)
	founderVals := c.StringSlice(founderFlag.Name)

	if len(locations) == 0 && description == "" && len(founderVals) == 0 {
		return nil, nil
	}

	founders, err := parseFounders(founderVals)
	if err != nil {
		return nil, err
	}

	if locations == nil {
		locations = []string{}
	}

	return []score.Record{{
		Locations:   locations,
		Description: description,
		Founders:    founders,
	}}, nil
}

// parseRecords accepts either a single record object or an array.
func parseRecords(b []byte) ([]score.Record, error) {
	var list []score.Record
	if err := json.Unmarshal(b, &list); err == nil {
		return list, nil
	}

	var one score.Record
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return []score.Record{one}, nil
}

func parseFounders(vals []string) ([]score.Founder, error) {
	founders := make([]score.Founder, 0, len(vals))
	for _, v := range vals {
		name := ""
		g := v
		if parts := strings.SplitN(v, ":", 2); len(parts) == 2 {
			name = strings.TrimSpace(parts[0])
			g = parts[1]
		}

		gender, err := score.ParseGender(g)
		if err != nil {
			return nil, err
		}
		founders = append(founders, score.Founder{Name: name, Gender: gender})
	}
	return founders, nil
}
