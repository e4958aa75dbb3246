package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Client is the minimal surface the repository needs from the remote
// spreadsheet service. Row and column coordinates are 1-based.
type Client interface {
	GetValues(ctx context.Context, worksheet string) ([][]string, error)
	ListWorksheets(ctx context.Context) ([]string, error)
	AppendRow(ctx context.Context, worksheet string, row []interface{}) error
	UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error
	DeleteRow(ctx context.Context, worksheet string, row int) error
}

type googleClient struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// clientScopes are the OAuth scopes requested for the service account:
// spreadsheets for data access, drive for worksheet discovery on
// shared spreadsheets.
var clientScopes = []string{gsheets.SpreadsheetsScope, gsheets.DriveScope}

// NewClient builds a Sheets API client bound to a single spreadsheet,
// authenticated with the given service-account credentials file.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(clientScopes...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &googleClient{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (c *googleClient) GetValues(ctx context.Context, worksheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteTitle(worksheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", worksheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			if cell == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *googleClient) ListWorksheets(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}
	return names, nil
}

func (c *googleClient) AppendRow(ctx context.Context, worksheet string, row []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteTitle(worksheet), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %q: %w", worksheet, err)
	}
	return nil
}

func (c *googleClient) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error {
	cellRange := fmt.Sprintf("%s!%s%d", quoteTitle(worksheet), columnLetter(col), row)
	vr := &gsheets.ValueRange{Values: [][]interface{}{{value}}}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cellRange, err)
	}
	return nil
}

func (c *googleClient) DeleteRow(ctx context.Context, worksheet string, row int) error {
	sheetID, err := c.sheetID(ctx, worksheet)
	if err != nil {
		return err
	}

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete row %d from %q: %w", row, worksheet, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric sheet ID, which the
// batch-update API requires for row deletion.
func (c *googleClient) sheetID(ctx context.Context, worksheet string) (int64, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve sheet id for %q: %w", worksheet, err)
	}

	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found", worksheet)
}

// quoteTitle wraps a worksheet title in single quotes so titles with
// spaces form valid A1 ranges.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func columnLetter(col int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}
