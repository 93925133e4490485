package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/PraveenDung/sheetsync/sheet"
)

func jobfile(t *testing.T, yaml string) string {
	file := filepath.Join(t.TempDir(), "job.yaml")

	if err := os.WriteFile(file, []byte(yaml), 0600); err != nil {
		t.Fatalf("Unexpected error creating job file (%v)", err)
	}

	return file
}

func TestLoad(t *testing.T) {
	expected := Job{
		Credentials: ".credentials/sheetsync.json",
		URL:         "https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0",
		Range:       "RETURNS MAIN",
		Worksheet:   "RETURNS MAIN",
		Where:       []string{"1=DEBENHAMS"},
		File:        "returns.json",
		Format:      "tsv",
		Journal:     true,
		Steps: []Step{
			{Append: &AppendStep{Values: []string{"R-1006", "SELFRIDGES", "PENDING"}}},
			{Update: &UpdateStep{Row: 7, Values: []string{"R-1003", "DEBENHAMS", "RECEIVED"}}},
			{Delete: &DeleteStep{Row: 9}},
		},
	}

	file := jobfile(t, `
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: RETURNS MAIN
worksheet: RETURNS MAIN
where:
  - 1=DEBENHAMS
file: returns.json
format: tsv
steps:
  - append:
      values: [R-1006, SELFRIDGES, PENDING]
  - update:
      row: 7
      values: [R-1003, DEBENHAMS, RECEIVED]
  - delete:
      row: 9
`)

	job, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading job file (%v)", err)
	}

	if !reflect.DeepEqual(*job, expected) {
		t.Errorf("Incorrect job\n   expected: %v\n   got:      %v\n", expected, *job)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	file := jobfile(t, `
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
`)

	job, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading job file (%v)", err)
	}

	if job.File != "output.json" {
		t.Errorf("Incorrect default output file - expected:%v, got:%v", "output.json", job.File)
	}

	if job.Format != "json" {
		t.Errorf("Incorrect default output format - expected:%v, got:%v", "json", job.Format)
	}

	if !job.Journal {
		t.Errorf("Incorrect default journal setting - expected:%v, got:%v", true, job.Journal)
	}
}

func TestLoadWithJournalDisabled(t *testing.T) {
	file := jobfile(t, `
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
journal: false
`)

	job, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading job file (%v)", err)
	}

	if job.Journal {
		t.Errorf("Incorrect journal setting - expected:%v, got:%v", false, job.Journal)
	}
}

func TestLoadWithMissingFields(t *testing.T) {
	tests := []string{
		`{}`,
		`
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
`,
		`
credentials: .credentials/sheetsync.json
range: Returns
`,
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
`,
	}

	for _, test := range tests {
		if _, err := Load(jobfile(t, test)); err == nil {
			t.Errorf("Expected error loading job file %v, got:%v", test, err)
		}
	}
}

func TestLoadWithInvalidPredicate(t *testing.T) {
	file := jobfile(t, `
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
where:
  - retailer=DEBENHAMS
`)

	if _, err := Load(file); err == nil {
		t.Errorf("Expected error loading job file with invalid predicate, got:%v", err)
	}
}

func TestLoadWithInvalidSteps(t *testing.T) {
	tests := []string{
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
steps:
  - {}
`,
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
steps:
  - append:
      values: []
`,
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
worksheet: Returns
steps:
  - update:
      row: 0
      values: [R-1003]
`,
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
steps:
  - update:
      row: 7
      values: [R-1003]
`,
		`
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
steps:
  - delete:
      row: 9
`,
	}

	for i, test := range tests {
		if _, err := Load(jobfile(t, test)); err == nil {
			t.Errorf("Expected error loading job file %v with invalid steps, got:%v", i+1, err)
		}
	}
}

func TestLoadWithSheetID(t *testing.T) {
	file := jobfile(t, `
credentials: .credentials/sheetsync.json
url: https://docs.google.com/spreadsheets/d/1iG4HdZvZ9SXkGFBfwTrqSyi1g2EGmlZRrr2SQTJVDUA/edit#gid=0
range: Returns
sheet-id: 871543
steps:
  - delete:
      row: 9
`)

	job, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error loading job file with sheet-id (%v)", err)
	}

	if job.SheetID == nil || *job.SheetID != 871543 {
		t.Errorf("Incorrect sheet-id - expected:%v, got:%v", 871543, job.SheetID)
	}
}

func TestPredicates(t *testing.T) {
	expected := []sheet.Predicate{
		{Column: 1, Equals: "DEBENHAMS"},
		{Column: 2, Equals: "PENDING"},
	}

	job := Job{
		Where: []string{"1=DEBENHAMS", "2=PENDING"},
	}

	predicates, err := job.Predicates()
	if err != nil {
		t.Fatalf("Unexpected error parsing predicates (%v)", err)
	}

	if !reflect.DeepEqual(predicates, expected) {
		t.Errorf("Incorrect predicates\n   expected: %v\n   got:      %v\n", expected, predicates)
	}
}
