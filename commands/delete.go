package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

var DeleteCmd = Delete{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		debug:       false,
	},

	worksheet: "",
	sheetID:   -1,
	row:       0,
}

type Delete struct {
	command
	worksheet string
	sheetID   int64
	row       int
	nojournal bool
}

func (cmd *Delete) Name() string {
	return "delete"
}

func (cmd *Delete) Description() string {
	return "Deletes a row from a Google Sheets worksheet by row number"
}

func (cmd *Delete) Usage() string {
	return "--credentials <file> --url <url> --worksheet <title> --row <N>"
}

func (cmd *Delete) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] delete [options] --url <URL> --worksheet <title> --row <N>\n", APP)
	fmt.Println()
	fmt.Println("  Deletes row N of the worksheet, shifting the rows below it up. Row numbers are 1-based")
	fmt.Println("  and count the header row. The worksheet title is resolved to its numeric sheet id via")
	fmt.Println("  the spreadsheet metadata - --sheet-id bypasses the lookup")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sheetsync delete --credentials "credentials.json" \`)
	fmt.Println(`                     --url "https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA" \`)
	fmt.Println(`                     --worksheet "RETURNS MAIN" \`)
	fmt.Println(`                     --row 9`)
	fmt.Println()
}

func (cmd *Delete) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("delete")

	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet title e.g. 'RETURNS MAIN'")
	flagset.Int64Var(&cmd.sheetID, "sheet-id", cmd.sheetID, "Numeric sheet id of the worksheet - bypasses the --worksheet lookup")
	flagset.IntVar(&cmd.row, "row", cmd.row, "1-based row number, counting the header row")
	flagset.BoolVar(&cmd.nojournal, "no-journal", cmd.nojournal, "Disables the mutation journal")

	return flagset
}

func (cmd *Delete) Execute(ctx context.Context, args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.worksheet) == "" && cmd.sheetID < 0 {
		return fmt.Errorf("--worksheet or --sheet-id is a required option")
	}

	if cmd.row < 1 {
		return fmt.Errorf("--row must be 1 or greater")
	}

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

	m, err := j.Begin().Pending("delete", cmd.row, nil)
	if err != nil {
		return err
	}

	id := cmd.sheetID
	if id < 0 {
		if id, err = client.SheetID(ctx, cmd.worksheet); err != nil {
			journalled(m.Failed(err), "failed delete")

			return err
		}
	}

	if err := client.Delete(ctx, id, cmd.row); err != nil {
		journalled(m.Failed(err), "failed delete")
		failf("   delete failed: %v\n", err)

		return err
	}

	journalled(m.Applied(), "applied delete")

	infof("Deleted row %v from worksheet %v", cmd.row, id)
	okf("   deleted row %v\n", cmd.row)

	return nil
}
