package sheet

import (
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// Table is a point-in-time snapshot of a worksheet range: a header row and
// the data rows below it. Cells are loosely typed - the service returns
// strings for the most part but numbers and booleans do occur - and rows
// are variable length: a short row simply has no trailing cells. Rows have
// no stable identity; a row's only address is its position in this
// snapshot, and any insert or delete above it invalidates that address.
type Table struct {
	Header []string
	Rows   [][]any
}

// MakeTable splits a values response into a header and data rows. The first
// row is always the header, even when it looks like data, and a response
// without values is a legitimately empty table rather than an error.
func MakeTable(data *sheets.ValueRange) Table {
	if data == nil || len(data.Values) == 0 {
		return Table{}
	}

	header := make([]string, len(data.Values[0]))
	for i, v := range data.Values[0] {
		header[i] = cellString(v)
	}

	rows := data.Values[1:]
	if len(rows) == 0 {
		rows = nil
	}

	return Table{
		Header: header,
		Rows:   rows,
	}
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
