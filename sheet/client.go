package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

var (
	// ErrUnauthorized marks a request the service refused for want of a
	// valid bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRejected marks a request the service received and turned down
	// e.g. for a missing permission or a nonexistent range.
	ErrRejected = errors.New("rejected by service")

	// ErrMalformedResponse marks a reply that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport marks a request that never produced a reply.
	ErrTransport = errors.New("transport error")

	// ErrInvalidIndex marks a row index outside the 1-based row numbering,
	// caught before anything goes over the wire.
	ErrInvalidIndex = errors.New("invalid row index")
)

// Client wraps the spreadsheet operations for a single spreadsheet. All
// calls ride the bearer-authenticated HTTP client baked into the service -
// the client itself holds no credentials.
type Client struct {
	google      *sheets.Service
	spreadsheet string
}

func NewClient(google *sheets.Service, spreadsheet string) *Client {
	return &Client{
		google:      google,
		spreadsheet: spreadsheet,
	}
}

// Fetch retrieves the area in a single read and splits it into a table. A
// reply without values is an empty table, not an error.
func (c *Client) Fetch(ctx context.Context, area string) (Table, error) {
	response, err := c.google.Spreadsheets.Values.Get(c.spreadsheet, area).Context(ctx).Do()
	if err != nil {
		return Table{}, fmt.Errorf("unable to retrieve data from sheet (%w)", classify(err))
	}

	return MakeTable(response), nil
}

// Append appends a single row after the last row of the area, inserting a
// fresh row rather than overwriting. The service chooses the insertion
// point - callers must not assume the resulting row index. Returns the
// range the service reports it wrote to.
func (c *Client) Append(ctx context.Context, area string, values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no values to append")
	}

	rows := sheets.ValueRange{
		Values: [][]any{cells(values)},
	}

	response, err := c.google.Spreadsheets.Values.Append(c.spreadsheet, area, &rows).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to append row to sheet (%w)", classify(err))
	}

	if response.Updates == nil {
		return "", nil
	}

	return response.Updates.UpdatedRange, nil
}

// Update overwrites row rowIndex of the worksheet with values, cell for
// cell from column A. rowIndex is 1-based and counts the header row,
// exactly as the spreadsheet numbers its rows - and it is only as good as
// the snapshot it came from: any insert or delete above it leaves it
// pointing at a different row. Returns the range the service reports it
// wrote to.
func (c *Client) Update(ctx context.Context, worksheet string, rowIndex int, values []string) (string, error) {
	if rowIndex < 1 {
		return "", fmt.Errorf("%w %v", ErrInvalidIndex, rowIndex)
	}

	if len(values) == 0 {
		return "", fmt.Errorf("no values to write to row %v", rowIndex)
	}

	area := fmt.Sprintf("%s!A%d:%s%d", worksheet, rowIndex, columnName(len(values)), rowIndex)
	rows := sheets.ValueRange{
		Values: [][]any{cells(values)},
	}

	response, err := c.google.Spreadsheets.Values.Update(c.spreadsheet, area, &rows).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to update row %v (%w)", rowIndex, classify(err))
	}

	return response.UpdatedRange, nil
}

// Delete removes row rowIndex from the worksheet identified by sheetID,
// shifting the rows below it up. The 1-based row index is translated to
// the batch update contract's half-open 0-based interval i.e. row N maps
// to [N-1,N). The same stale index caveats as for Update apply.
func (c *Client) Delete(ctx context.Context, sheetID int64, rowIndex int) error {
	if rowIndex < 1 {
		return fmt.Errorf("%w %v", ErrInvalidIndex, rowIndex)
	}

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(rowIndex - 1),
						EndIndex:   int64(rowIndex),
					},
				},
			},
		},
	}

	if _, err := c.google.Spreadsheets.BatchUpdate(c.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to delete row %v (%w)", rowIndex, classify(err))
	}

	return nil
}

// SheetID resolves a worksheet title to the numeric sheet id the batch
// update contract addresses worksheets by. The title comparison ignores
// case and leading/trailing space, matching the way the service itself
// treats titles in A1 ranges.
func (c *Client) SheetID(ctx context.Context, worksheet string) (int64, error) {
	spreadsheet, err := c.google.Spreadsheets.Get(c.spreadsheet).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to retrieve spreadsheet metadata (%w)", classify(err))
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(worksheet)) {
			return sheet.Properties.SheetId, nil
		}
	}

	return 0, fmt.Errorf("unable to identify worksheet '%s'", worksheet)
}

// classify maps an API call error onto the error taxonomy: a 401 is an
// authorization failure, any other service status is a rejection, an
// undecodable reply is malformed and anything else never made the round
// trip.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return fmt.Errorf("%w (%v)", ErrUnauthorized, err)
		}

		return fmt.Errorf("%w (%v)", ErrRejected, err)
	}

	var syntax *json.SyntaxError
	var mistyped *json.UnmarshalTypeError
	if errors.As(err, &syntax) || errors.As(err, &mistyped) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w (%v)", ErrMalformedResponse, err)
	}

	return fmt.Errorf("%w (%v)", ErrTransport, err)
}

func cells(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}

	return row
}

// columnName converts a 1-based column number to its spreadsheet letter
// e.g. 1 to A, 26 to Z and 27 to AA.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}

	return name
}
