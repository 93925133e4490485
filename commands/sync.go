package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/PraveenDung/sheetsync/config"
	"github.com/PraveenDung/sheetsync/journal"
	"github.com/PraveenDung/sheetsync/sheet"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		debug:       false,
	},

	job: "",
}

// Sync runs a job file end to end: authenticate, read, filter, write the
// artifact and then apply the job's mutation steps in order, halting at
// the first failure. Steps already applied when a later step fails are
// never rolled back - the journal records exactly how far the run got.
type Sync struct {
	command
	job      string
	resolved *int64
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Runs a sync job file - download, filter, export and then apply the job's mutations in order"
}

func (cmd *Sync) Usage() string {
	return "--job <file>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sync --job <file>\n", APP)
	fmt.Println()
	fmt.Println("  Runs a YAML job file end to end: download the worksheet, keep the rows matching the")
	fmt.Println("  job's where clauses, write them to the job's output file and then apply the job's")
	fmt.Println("  mutation steps in order. The run halts at the first failed step - applied steps are")
	fmt.Println("  never rolled back and the journal records exactly how far the run got")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sheetsync sync --job "returns.yaml"`)
	fmt.Println(`    sheetsync --debug sync --job "returns.yaml" --workdir "/tmp/sheetsync"`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("sync", flag.ExitOnError)

	flagset.StringVar(&cmd.job, "job", cmd.job, "Path for the YAML job file")
	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files, in particular the mutation journal")

	return flagset
}

func (cmd *Sync) Execute(ctx context.Context, args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.job) == "" {
		return fmt.Errorf("--job is a required option")
	}

	job, err := config.Load(cmd.job)
	if err != nil {
		return err
	}

	cmd.credentials = job.Credentials
	cmd.url = job.URL

	predicates, err := job.Predicates()
	if err != nil {
		return err
	}

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s  steps:%v", spreadsheet, job.Range, len(job.Steps))
	}

	client, err := cmd.connect(ctx, spreadsheet)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	// ... read, filter, export

	table, err := client.Fetch(ctx, job.Range)
	if err != nil {
		return err
	}

	result := sheet.Filter(table, predicates)

	if err := writeArtifact(result, job.File, job.Format); err != nil {
		return err
	}

	infof("Synced %v of %v rows to file %s", result.Count, len(table.Rows), job.File)

	if len(job.Steps) == 0 {
		okf("   %v rows matched -> %v\n", result.Count, job.File)

		return nil
	}

	// ... apply the mutation steps in order, halting at the first failure

	j, err := openJournal(cmd.workdir, !job.Journal)
	if err != nil {
		return err
	}

	defer j.Close()

	run := j.Begin()
	if run != nil {
		infof("Applying %v steps (run %v)", len(job.Steps), run.ID())
	}

	for i, step := range job.Steps {
		if err := cmd.apply(ctx, client, job, run, step); err != nil {
			errorf("Halted sync at step %v of %v (%v)", i+1, len(job.Steps), err)
			failf("   step %v/%v failed: %v\n", i+1, len(job.Steps), step)

			return err
		}

		infof("Applied step %v of %v: %v", i+1, len(job.Steps), step)
	}

	okf("   %v rows matched -> %v, %v steps applied\n", result.Count, job.File, len(job.Steps))

	return nil
}

func (cmd *Sync) apply(ctx context.Context, client *sheet.Client, job *config.Job, run *journal.Run, step config.Step) error {
	switch {
	case step.Append != nil:
		m, err := run.Pending("append", 0, step.Append.Values)
		if err != nil {
			return err
		}

		if _, err := client.Append(ctx, job.Range, step.Append.Values); err != nil {
			journalled(m.Failed(err), "failed append")

			return err
		}

		journalled(m.Applied(), "applied append")

	case step.Update != nil:
		m, err := run.Pending("update", step.Update.Row, step.Update.Values)
		if err != nil {
			return err
		}

		if _, err := client.Update(ctx, job.Worksheet, step.Update.Row, step.Update.Values); err != nil {
			journalled(m.Failed(err), "failed update")

			return err
		}

		journalled(m.Applied(), "applied update")

	case step.Delete != nil:
		m, err := run.Pending("delete", step.Delete.Row, nil)
		if err != nil {
			return err
		}

		id, err := cmd.sheetID(ctx, client, job)
		if err != nil {
			journalled(m.Failed(err), "failed delete")

			return err
		}

		if err := client.Delete(ctx, id, step.Delete.Row); err != nil {
			journalled(m.Failed(err), "failed delete")

			return err
		}

		journalled(m.Applied(), "applied delete")
	}

	return nil
}

// sheetID resolves the job's worksheet to its numeric sheet id, once - the
// job's sheet-id short-circuits the metadata lookup.
func (cmd *Sync) sheetID(ctx context.Context, client *sheet.Client, job *config.Job) (int64, error) {
	if cmd.resolved != nil {
		return *cmd.resolved, nil
	}

	if job.SheetID != nil {
		cmd.resolved = job.SheetID

		return *job.SheetID, nil
	}

	id, err := client.SheetID(ctx, job.Worksheet)
	if err != nil {
		return 0, err
	}

	cmd.resolved = &id

	return id, nil
}
