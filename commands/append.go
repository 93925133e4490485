package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

var AppendCmd = Append{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		debug:       false,
	},

	area: "",
}

type Append struct {
	command
	area      string
	values    string
	nojournal bool
}

func (cmd *Append) Name() string {
	return "append"
}

func (cmd *Append) Description() string {
	return "Appends a row to a Google Sheets worksheet"
}

func (cmd *Append) Usage() string {
	return "--credentials <file> --url <url> --range <range> --values <cells>"
}

func (cmd *Append) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] append [options] --url <URL> --range <range> --values <cells>\n", APP)
	fmt.Println()
	fmt.Println("  Appends a row after the last row of the worksheet range. The insertion point is the")
	fmt.Println("  service's choice - do not assume the resulting row index")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sheetsync append --credentials "credentials.json" \`)
	fmt.Println(`                     --url "https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA" \`)
	fmt.Println(`                     --range "RETURNS MAIN" \`)
	fmt.Println(`                     --values "R-1006,SELFRIDGES,PENDING"`)
	fmt.Println()
}

func (cmd *Append) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("append")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'RETURNS MAIN'")
	flagset.StringVar(&cmd.values, "values", cmd.values, "Comma-separated row cells, taken verbatim - include spaces deliberately")
	flagset.BoolVar(&cmd.nojournal, "no-journal", cmd.nojournal, "Disables the mutation journal")

	return flagset
}

func (cmd *Append) Execute(ctx context.Context, args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if strings.TrimSpace(cmd.values) == "" {
		return fmt.Errorf("--values is a required option")
	}

	row := strings.Split(cmd.values, ",")

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s  row:%v", spreadsheet, cmd.area, row)
	}

	client, err := cmd.connect(ctx, spreadsheet)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	j, err := openJournal(cmd.workdir, cmd.nojournal)
	if err != nil {
		return err
	}

	defer j.Close()

	m, err := j.Begin().Pending("append", 0, row)
	if err != nil {
		return err
	}

	updated, err := client.Append(ctx, cmd.area, row)
	if err != nil {
		journalled(m.Failed(err), "failed append")
		failf("   append failed: %v\n", err)

		return err
	}

	journalled(m.Applied(), "applied append")

	if updated == "" {
		updated = cmd.area
	}

	infof("Appended row to %v", updated)
	okf("   appended 1 row -> %v\n", updated)

	return nil
}
