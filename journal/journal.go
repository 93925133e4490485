// Package journal records mutations in an append-only JSONL file, one
// mutation attempt per line. Every mutation gets a 'pending' entry before
// anything goes over the wire and an 'applied' or 'failed' entry after, so
// that an interrupted run leaves a visible loose end instead of silence.
// The file is the audit trail for sheets the service mutates blindly -
// there is no undo, only the record of what was attempted.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
)

// Entry is a single journal line. Entries for the same mutation share a
// run ID and sequence number and differ only in timestamp, status and
// (for failures) the error text.
type Entry struct {
	Run       string    `json:"run"`
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Row       int       `json:"row,omitempty"`
	Values    []string  `json:"values,omitempty"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// Journal is an append-only mutation log. A nil *Journal is valid and
// discards everything, so callers that journal optionally don't need to
// guard every call.
type Journal struct {
	guard sync.Mutex
	file  *os.File
	now   func() time.Time
}

// Run tags the mutations of a single invocation with a shared run ID and
// 1-based sequence numbers.
type Run struct {
	journal *Journal
	id      string
	seq     int
}

// Mutation is one journalled mutation, opened 'pending' and closed exactly
// once with Applied or Failed.
type Mutation struct {
	run       *Run
	seq       int
	operation string
	row       int
	values    []string
}

// Open opens the journal file for appending, creating it and any missing
// parent directories on first use.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("unable to create journal directory (%v)", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal %v (%v)", path, err)
	}

	return &Journal{
		file: f,
		now:  time.Now,
	}, nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}

	j.guard.Lock()
	defer j.guard.Unlock()

	return j.file.Close()
}

// Begin starts a run with a fresh run ID. Begin on a nil journal returns a
// nil run, which discards everything.
func (j *Journal) Begin() *Run {
	if j == nil {
		return nil
	}

	return &Run{
		journal: j,
		id:      uuid.NewString(),
	}
}

func (j *Journal) append(entry Entry) error {
	j.guard.Lock()
	defer j.guard.Unlock()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("unable to encode journal entry (%v)", err)
	}

	if _, err := j.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("unable to write journal entry (%v)", err)
	}

	return nil
}

func (r *Run) ID() string {
	if r == nil {
		return ""
	}

	return r.id
}

// Pending journals a mutation about to be attempted and returns the handle
// to close it with. The 'pending' entry is on disk before Pending returns -
// if it cannot be written the mutation should not proceed.
func (r *Run) Pending(operation string, row int, values []string) (*Mutation, error) {
	if r == nil {
		return nil, nil
	}

	r.seq++

	m := Mutation{
		run:       r,
		seq:       r.seq,
		operation: operation,
		row:       row,
		values:    values,
	}

	if err := r.journal.append(m.entry(StatusPending, nil)); err != nil {
		return nil, err
	}

	return &m, nil
}

// Applied closes a mutation as successfully applied.
func (m *Mutation) Applied() error {
	if m == nil {
		return nil
	}

	return m.run.journal.append(m.entry(StatusApplied, nil))
}

// Failed closes a mutation as failed, recording the cause.
func (m *Mutation) Failed(cause error) error {
	if m == nil {
		return nil
	}

	return m.run.journal.append(m.entry(StatusFailed, cause))
}

func (m *Mutation) entry(status Status, cause error) Entry {
	entry := Entry{
		Run:       m.run.id,
		Seq:       m.seq,
		Timestamp: m.run.journal.now().UTC(),
		Operation: m.operation,
		Row:       m.row,
		Values:    m.values,
		Status:    status,
	}

	if cause != nil {
		entry.Error = fmt.Sprintf("%v", cause)
	}

	return entry
}

// Read parses a journal file back into entries, skipping blank lines. It
// exists for inspection and for tests - the journal itself is write-only.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal %v (%v)", path, err)
	}

	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("invalid journal entry '%s' (%v)", scanner.Text(), err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read journal (%v)", err)
	}

	return entries, nil
}
