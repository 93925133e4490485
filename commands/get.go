package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/PraveenDung/sheetsync/sheet"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		debug:       false,
	},

	area:   "",
	file:   "output.json",
	format: "json",
}

type Get struct {
	command
	area   string
	where  wherelist
	file   string
	format string
}

// wherelist collects repeated --where clauses.
type wherelist []string

func (l *wherelist) String() string {
	return strings.Join(*l, ",")
}

func (l *wherelist) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty 'where' clause")
	}

	*l = append(*l, v)

	return nil
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves rows from a Google Sheets worksheet, filters them and writes the matches to a local file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --range <range> --where <column=value> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a worksheet, keeps the rows matching every --where clause and writes them to a local JSON or TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sheetsync get --credentials "credentials.json" \`)
	fmt.Println(`                  --url "https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA" \`)
	fmt.Println(`                  --range "RETURNS MAIN" \`)
	fmt.Println(`                  --where "1=DEBENHAMS" \`)
	fmt.Println(`                  --file "returns.json"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'RETURNS MAIN' or 'Returns!A1:K'")
	flagset.Var(&cmd.where, "where", "Row filter '<column>=<value>' with a 0-based column index e.g. '1=DEBENHAMS'. May be repeated - rows must match every filter")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Output file name. Defaults to 'output.json'")
	flagset.StringVar(&cmd.format, "format", cmd.format, "Output format - 'json' or 'tsv'. Defaults to 'json'")

	return flagset
}

func (cmd *Get) Execute(ctx context.Context, args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if cmd.format != "json" && cmd.format != "tsv" {
		return fmt.Errorf("invalid --format '%v' - expected 'json' or 'tsv'", cmd.format)
	}

	predicates := []sheet.Predicate{}
	for _, w := range cmd.where {
		p, err := sheet.ParsePredicate(w)
		if err != nil {
			return err
		}

		predicates = append(predicates, p)
	}

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)
	}

	client, err := cmd.connect(ctx, spreadsheet)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	table, err := client.Fetch(ctx, cmd.area)
	if err != nil {
		return err
	}

	result := sheet.Filter(table, predicates)

	if err := writeArtifact(result, cmd.file, cmd.format); err != nil {
		return err
	}

	infof("Retrieved %v of %v rows to file %s", result.Count, len(table.Rows), cmd.file)
	okf("   %v rows matched -> %v\n", result.Count, cmd.file)

	return nil
}
