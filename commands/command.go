package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/PraveenDung/sheetsync/auth"
	"github.com/PraveenDung/sheetsync/journal"
	"github.com/PraveenDung/sheetsync/sheet"
)

const APP = "sheetsync"
const VERSION = "v0.1.0"

// SHEETS is the OAuth2 scope for spreadsheet read/write access.
const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

type Options struct {
	Debug bool
}

// command holds the flags common to all the spreadsheet commands.
type command struct {
	workdir     string
	credentials string
	url         string
	debug       bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the service account credentials JSON file")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL")
	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files, in particular the mutation journal")

	return flagset
}

func (c *command) validate() error {
	if strings.TrimSpace(c.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(c.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	return nil
}

// connect acquires an access token for the spreadsheet scope and wraps a
// sheet client around it. The client re-acquires a token at the next call
// boundary whenever the current one lapses - a call in flight is never
// interrupted and tokens are never refreshed in the background.
func (c *command) connect(ctx context.Context, spreadsheet string) (*sheet.Client, error) {
	identity, err := auth.LoadCredentials(c.credentials)
	if err != nil {
		return nil, err
	}

	broker, err := auth.NewBroker(identity, SHEETS, identity.TokenURL)
	if err != nil {
		return nil, err
	}

	token, err := broker.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	if c.debug {
		debugf("Authenticated %v, token expires %v", identity.Email, token.Expiry.Format("2006-01-02 15:04:05"))
	}

	tokens := oauth2.ReuseTokenSource(token, broker.TokenSource(ctx))

	google, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokens)))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	return sheet.NewClient(google, spreadsheet), nil
}

// spreadsheetID extracts the spreadsheet ID from a docs.google.com URL.
func spreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA'")
	}

	return match[1], nil
}

// openJournal opens the mutation journal in the working directory. A
// disabled journal is a nil *Journal, which discards everything.
func openJournal(workdir string, disabled bool) (*journal.Journal, error) {
	if disabled {
		return nil, nil
	}

	return journal.Open(filepath.Join(workdir, "journal.jsonl"))
}

// journalled logs a journal bookkeeping failure as a warning - the outcome
// of the mutation itself stands either way.
func journalled(err error, op string) {
	if err != nil {
		warnf("Unable to journal %v (%v)", op, err)
	}
}

// writeArtifact stages the filter result to a temporary file and renames it
// into place, so a failed run never truncates the previous artifact.
func writeArtifact(result sheet.Result, file string, format string) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "sheetsync-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	switch format {
	case "tsv":
		err = sheet.WriteTSV(tmp, result)
	default:
		err = sheet.WriteJSON(tmp, result)
	}

	if err != nil {
		return fmt.Errorf("error creating %v file (%v)", format, err)
	}

	tmp.Close()

	return os.Rename(tmp.Name(), file)
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	fmt.Println("  Options:")
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}

// User-facing result lines, distinct from the operational log.
var (
	okf   = color.New(color.FgGreen).PrintfFunc()
	failf = color.New(color.FgRed).PrintfFunc()
)

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

func errorf(format string, args ...any) {
	log.Printf("%-5s %s", "ERROR", fmt.Sprintf(format, args...))
}
