package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteTSV writes a filter result as tab separated values, header row
// first. Cells are rendered with their default Go formatting, which matches
// the spreadsheet's own rendering for strings, numbers and booleans.
func WriteTSV(f io.Writer, result Result) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(result.Header); err != nil {
		return err
	}

	for _, row := range result.Rows {
		record := []string{}
		for _, v := range row {
			record = append(record, fmt.Sprintf("%v", v))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}
