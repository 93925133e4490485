package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Predicate matches a single cell by exact, case sensitive string equality.
// Columns are addressed by 0-based index, never by header name, and only
// string cells can match - a numeric or boolean cell fails the comparison
// even when its rendering would read the same.
type Predicate struct {
	Column int
	Equals string
}

// Result is the outcome of filtering one table snapshot - the header, the
// matched rows in table order and the match count.
type Result struct {
	Header []string `json:"header"`
	Rows   [][]any  `json:"filtered_data"`
	Count  int      `json:"count"`
}

// ParsePredicate parses the command line form '<column>=<value>' e.g.
// '1=DEBENHAMS'. The column index is 0-based and everything after the first
// '=' is the value, verbatim - leading and trailing spaces included.
func ParsePredicate(s string) (Predicate, error) {
	ix := strings.Index(s, "=")
	if ix == -1 {
		return Predicate{}, fmt.Errorf("invalid predicate '%s' - expected <column>=<value>", s)
	}

	column, err := strconv.Atoi(strings.TrimSpace(s[:ix]))
	if err != nil {
		return Predicate{}, fmt.Errorf("invalid column index in predicate '%s'", s)
	} else if column < 0 {
		return Predicate{}, fmt.Errorf("invalid column index %v in predicate '%s'", column, s)
	}

	return Predicate{
		Column: column,
		Equals: s[ix+1:],
	}, nil
}

// Filter selects the rows matching every predicate, preserving table order.
// The header row is never matched and never counted. A row shorter than a
// referenced column never matches - an absent cell is not an empty string.
// An empty predicate list matches everything and an empty table yields an
// empty result, not an error.
func Filter(table Table, predicates []Predicate) Result {
	header := table.Header
	if header == nil {
		header = []string{}
	}

	matched := [][]any{}
	for _, row := range table.Rows {
		if matches(row, predicates) {
			matched = append(matched, row)
		}
	}

	return Result{
		Header: header,
		Rows:   matched,
		Count:  len(matched),
	}
}

func matches(row []any, predicates []Predicate) bool {
	for _, p := range predicates {
		if p.Column < 0 || p.Column >= len(row) {
			return false
		}

		if cell, ok := row[p.Column].(string); !ok || cell != p.Equals {
			return false
		}
	}

	return true
}

// WriteJSON writes a filter result as a single JSON document with the
// header, the matched rows and the match count.
func WriteJSON(f io.Writer, result Result) error {
	return json.NewEncoder(f).Encode(result)
}
