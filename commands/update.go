package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

var UpdateCmd = Update{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		debug:       false,
	},

	worksheet: "",
	row:       0,
}

type Update struct {
	command
	worksheet string
	row       int
	values    string
	nojournal bool
}

func (cmd *Update) Name() string {
	return "update"
}

func (cmd *Update) Description() string {
	return "Overwrites a row of a Google Sheets worksheet by row number"
}

func (cmd *Update) Usage() string {
	return "--credentials <file> --url <url> --worksheet <title> --row <N> --values <cells>"
}

func (cmd *Update) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] update [options] --url <URL> --worksheet <title> --row <N> --values <cells>\n", APP)
	fmt.Println()
	fmt.Println("  Overwrites row N of the worksheet, cell for cell from column A. Row numbers are 1-based")
	fmt.Println("  and count the header row, exactly as the spreadsheet numbers its rows - and a row number")
	fmt.Println("  is only as good as the snapshot it came from")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sheetsync update --credentials "credentials.json" \`)
	fmt.Println(`                     --url "https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA" \`)
	fmt.Println(`                     --worksheet "RETURNS MAIN" \`)
	fmt.Println(`                     --row 7 \`)
	fmt.Println(`                     --values "R-1003,DEBENHAMS,RECEIVED"`)
	fmt.Println()
}

func (cmd *Update) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("update")

	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet title e.g. 'RETURNS MAIN'")
	flagset.IntVar(&cmd.row, "row", cmd.row, "1-based row number, counting the header row")
	flagset.StringVar(&cmd.values, "values", cmd.values, "Comma-separated row cells, taken verbatim - include spaces deliberately")
	flagset.BoolVar(&cmd.nojournal, "no-journal", cmd.nojournal, "Disables the mutation journal")

	return flagset
}

func (cmd *Update) Execute(ctx context.Context, args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.worksheet) == "" {
		return fmt.Errorf("--worksheet is a required option")
	}

	if cmd.row < 1 {
		return fmt.Errorf("--row must be 1 or greater")
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
		debugf("Spreadsheet - ID:%s  worksheet:%s  row:%v", spreadsheet, cmd.worksheet, cmd.row)
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

	m, err := j.Begin().Pending("update", cmd.row, row)
	if err != nil {
		return err
	}

	updated, err := client.Update(ctx, cmd.worksheet, cmd.row, row)
	if err != nil {
		journalled(m.Failed(err), "failed update")
		failf("   update failed: %v\n", err)

		return err
	}

	journalled(m.Applied(), "applied update")

	infof("Updated %v", updated)
	okf("   updated row %v -> %v\n", cmd.row, updated)

	return nil
}
