// Package config loads the YAML job files that drive the sync command.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PraveenDung/sheetsync/sheet"
)

// Job is a sync job: where to read from, how to filter, where the artifact
// goes and the mutations to apply afterwards, in order.
type Job struct {
	Credentials string   `yaml:"credentials"`
	URL         string   `yaml:"url"`
	Range       string   `yaml:"range"`
	Worksheet   string   `yaml:"worksheet"`
	SheetID     *int64   `yaml:"sheet-id"`
	Where       []string `yaml:"where"`
	File        string   `yaml:"file"`
	Format      string   `yaml:"format"`
	Journal     bool     `yaml:"journal"`
	Steps       []Step   `yaml:"steps"`
}

// Step is a single mutation - exactly one of the three fields is set.
type Step struct {
	Append *AppendStep `yaml:"append,omitempty"`
	Update *UpdateStep `yaml:"update,omitempty"`
	Delete *DeleteStep `yaml:"delete,omitempty"`
}

type AppendStep struct {
	Values []string `yaml:"values"`
}

type UpdateStep struct {
	Row    int      `yaml:"row"`
	Values []string `yaml:"values"`
}

type DeleteStep struct {
	Row int `yaml:"row"`
}

// Load reads and validates a job file. Defaults: artifact to output.json
// as JSON, journalling on. A job that fails validation never gets as far
// as the network.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read job file (%v)", err)
	}

	job := Job{
		File:    "output.json",
		Format:  "json",
		Journal: true,
	}

	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unable to parse job file (%v)", err)
	}

	if err := job.validate(); err != nil {
		return nil, err
	}

	return &job, nil
}

// Predicates parses the job's where clauses into filter predicates.
func (j *Job) Predicates() ([]sheet.Predicate, error) {
	predicates := []sheet.Predicate{}
	for _, w := range j.Where {
		p, err := sheet.ParsePredicate(w)
		if err != nil {
			return nil, err
		}

		predicates = append(predicates, p)
	}

	return predicates, nil
}

func (j *Job) validate() error {
	if strings.TrimSpace(j.Credentials) == "" {
		return fmt.Errorf("missing credentials file")
	}

	if strings.TrimSpace(j.URL) == "" {
		return fmt.Errorf("missing spreadsheet URL")
	}

	if strings.TrimSpace(j.Range) == "" {
		return fmt.Errorf("missing worksheet range")
	}

	if j.Format != "json" && j.Format != "tsv" {
		return fmt.Errorf("invalid output format '%v' - expected 'json' or 'tsv'", j.Format)
	}

	for _, w := range j.Where {
		if _, err := sheet.ParsePredicate(w); err != nil {
			return err
		}
	}

	for i, step := range j.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("invalid step %v (%v)", i+1, err)
		}

		if step.Update != nil && strings.TrimSpace(j.Worksheet) == "" {
			return fmt.Errorf("invalid step %v (update steps require a worksheet)", i+1)
		}

		if step.Delete != nil && strings.TrimSpace(j.Worksheet) == "" && j.SheetID == nil {
			return fmt.Errorf("invalid step %v (delete steps require a worksheet or a sheet-id)", i+1)
		}
	}

	return nil
}

func (s Step) validate() error {
	mutations := 0
	for _, set := range []bool{s.Append != nil, s.Update != nil, s.Delete != nil} {
		if set {
			mutations++
		}
	}

	if mutations != 1 {
		return fmt.Errorf("a step is exactly one of append, update or delete")
	}

	switch {
	case s.Append != nil:
		if len(s.Append.Values) == 0 {
			return fmt.Errorf("append step has no values")
		}

	case s.Update != nil:
		if s.Update.Row < 1 {
			return fmt.Errorf("update step row must be 1 or greater, got %v", s.Update.Row)
		} else if len(s.Update.Values) == 0 {
			return fmt.Errorf("update step has no values")
		}

	case s.Delete != nil:
		if s.Delete.Row < 1 {
			return fmt.Errorf("delete step row must be 1 or greater, got %v", s.Delete.Row)
		}
	}

	return nil
}

func (s Step) String() string {
	switch {
	case s.Append != nil:
		return fmt.Sprintf("append %v", s.Append.Values)

	case s.Update != nil:
		return fmt.Sprintf("update row %v", s.Update.Row)

	case s.Delete != nil:
		return fmt.Sprintf("delete row %v", s.Delete.Row)
	}

	return "invalid step"
}
