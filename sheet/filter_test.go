package sheet

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

var returns = Table{
	Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
	Rows: [][]any{
		{"R-1001", "DEBENHAMS", "RECEIVED", "DPD"},
		{"R-1002", "ARGOS", "PENDING", "EVRI"},
		{"R-1003", "DEBENHAMS", "PENDING", "DPD"},
		{"R-1004", "Debenhams", "RECEIVED", "DPD"},
		{"R-1005"},
	},
}

func TestFilter(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows: [][]any{
			{"R-1001", "DEBENHAMS", "RECEIVED", "DPD"},
			{"R-1003", "DEBENHAMS", "PENDING", "DPD"},
		},
		Count: 2,
	}

	result := Filter(returns, []Predicate{{Column: 1, Equals: "DEBENHAMS"}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterIsCaseSensitive(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows: [][]any{
			{"R-1004", "Debenhams", "RECEIVED", "DPD"},
		},
		Count: 1,
	}

	result := Filter(returns, []Predicate{{Column: 1, Equals: "Debenhams"}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterWithMultiplePredicates(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows: [][]any{
			{"R-1003", "DEBENHAMS", "PENDING", "DPD"},
		},
		Count: 1,
	}

	result := Filter(returns, []Predicate{
		{Column: 1, Equals: "DEBENHAMS"},
		{Column: 2, Equals: "PENDING"},
	})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterWithoutPredicates(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows:   returns.Rows,
		Count:  5,
	}

	result := Filter(returns, nil)

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterWithNoMatches(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows:   [][]any{},
		Count:  0,
	}

	result := Filter(returns, []Predicate{{Column: 1, Equals: "SELFRIDGES"}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterSkipsShortRows(t *testing.T) {
	expected := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows:   [][]any{},
		Count:  0,
	}

	result := Filter(returns, []Predicate{{Column: 4, Equals: ""}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterSkipsNonStringCells(t *testing.T) {
	table := Table{
		Header: []string{"Return ID", "Items"},
		Rows: [][]any{
			{"R-1001", 3.0},
			{"R-1002", "3"},
		},
	}

	expected := Result{
		Header: []string{"Return ID", "Items"},
		Rows: [][]any{
			{"R-1002", "3"},
		},
		Count: 1,
	}

	result := Filter(table, []Predicate{{Column: 1, Equals: "3"}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestFilterWithEmptyTable(t *testing.T) {
	expected := Result{
		Header: []string{},
		Rows:   [][]any{},
		Count:  0,
	}

	result := Filter(Table{}, []Predicate{{Column: 1, Equals: "DEBENHAMS"}})

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Incorrect filter result\n   expected: %v\n   got:      %v\n", expected, result)
	}
}

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		s        string
		expected Predicate
	}{
		{"1=DEBENHAMS", Predicate{Column: 1, Equals: "DEBENHAMS"}},
		{"0=", Predicate{Column: 0, Equals: ""}},
		{" 2 =RETURNS MAIN", Predicate{Column: 2, Equals: "RETURNS MAIN"}},
		{"3=a=b", Predicate{Column: 3, Equals: "a=b"}},
	}

	for _, test := range tests {
		predicate, err := ParsePredicate(test.s)
		if err != nil {
			t.Fatalf("Unexpected error parsing '%v' (%v)", test.s, err)
		}

		if !reflect.DeepEqual(predicate, test.expected) {
			t.Errorf("Incorrectly parsed predicate '%v'\n   expected: %v\n   got:      %v\n", test.s, test.expected, predicate)
		}
	}
}

func TestParsePredicateWithInvalidPredicate(t *testing.T) {
	tests := []string{
		"DEBENHAMS",
		"",
		"=DEBENHAMS",
		"x=DEBENHAMS",
		"-1=DEBENHAMS",
		"1.5=DEBENHAMS",
	}

	for _, test := range tests {
		if _, err := ParsePredicate(test); err == nil {
			t.Errorf("Expected error parsing predicate '%v', got:%v", test, err)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	expected := `{"header":["Return ID","Retailer","Status","Carrier"],"filtered_data":[["R-1001","DEBENHAMS","RECEIVED","DPD"]],"count":1}` + "\n"

	result := Result{
		Header: []string{"Return ID", "Retailer", "Status", "Carrier"},
		Rows: [][]any{
			{"R-1001", "DEBENHAMS", "RECEIVED", "DPD"},
		},
		Count: 1,
	}

	var b bytes.Buffer
	if err := WriteJSON(&b, result); err != nil {
		t.Fatalf("Unexpected error writing JSON (%v)", err)
	}

	if b.String() != expected {
		t.Errorf("Incorrect JSON\n   expected: %v\n   got:      %v\n", expected, b.String())
	}
}

func TestWriteJSONWithNoMatches(t *testing.T) {
	expected := `{"header":["Return ID","Retailer","Status","Carrier"],"filtered_data":[],"count":0}` + "\n"

	result := Filter(Table{Header: []string{"Return ID", "Retailer", "Status", "Carrier"}}, []Predicate{{Column: 1, Equals: "SELFRIDGES"}})

	var b bytes.Buffer
	if err := WriteJSON(&b, result); err != nil {
		t.Fatalf("Unexpected error writing JSON (%v)", err)
	}

	if b.String() != expected {
		t.Errorf("Incorrect JSON\n   expected: %v\n   got:      %v\n", expected, b.String())
	}
}

func TestWriteTSV(t *testing.T) {
	expected := strings.Join([]string{
		"Return ID\tRetailer\tStatus\tCarrier",
		"R-1001\tDEBENHAMS\tRECEIVED\tDPD",
		"R-1003\tDEBENHAMS\tPENDING\tDPD",
	}, "\n") + "\n"

	result := Filter(returns, []Predicate{{Column: 1, Equals: "DEBENHAMS"}})

	var b bytes.Buffer
	if err := WriteTSV(&b, result); err != nil {
		t.Fatalf("Unexpected error writing TSV (%v)", err)
	}

	if b.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %v\n   got:      %v\n", expected, b.String())
	}
}
