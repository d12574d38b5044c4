// Package sheets reads lookup names from and writes results back to a
// spreadsheet. The core only depends on the Client interface; the concrete
// implementation talks to the Google Sheets API.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CellValue is one non-empty cell together with its 1-based row number.
type CellValue struct {
	Value string
	Row   int
}

// Client is the minimal spreadsheet surface the runner needs. "Already
// processed" detection is purely IsRowPopulated on one designated column;
// there is no locking because the runner is the only, sequential, writer.
type Client interface {
	ReadColumn(ctx context.Context, spreadsheetID, sheetName, column string, startRow, limit int) ([]CellValue, error)
	UpdateRow(ctx context.Context, spreadsheetID, sheetName string, row int, startColumn string, values []string) error
	IsRowPopulated(ctx context.Context, spreadsheetID, sheetName, column string, row int) (bool, error)
}

// GoogleClient implements Client against the Google Sheets API v4.
type GoogleClient struct {
	svc *sheets.Service
}

// NewGoogleClient authenticates with a service-account key file.
func NewGoogleClient(ctx context.Context, credentialsFile string) (*GoogleClient, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %v", err)
	}
	return &GoogleClient{svc: svc}, nil
}

func (g *GoogleClient) ReadColumn(ctx context.Context, spreadsheetID, sheetName, column string, startRow, limit int) ([]CellValue, error) {
	rangeRef := fmt.Sprintf("%s!%s%d:%s", sheetName, column, startRow, column)
	if limit > 0 {
		rangeRef = fmt.Sprintf("%s!%s%d:%s%d", sheetName, column, startRow, column, startRow+limit-1)
	}

	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read column %s: %v", rangeRef, err)
	}

	var out []CellValue
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" {
			continue
		}
		out = append(out, CellValue{Value: v, Row: startRow + i})
	}
	return out, nil
}

func (g *GoogleClient) UpdateRow(ctx context.Context, spreadsheetID, sheetName string, row int, startColumn string, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	rangeRef := fmt.Sprintf("%s!%s%d", sheetName, startColumn, row)
	_, err := g.svc.Spreadsheets.Values.
		Update(spreadsheetID, rangeRef, &sheets.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d: %v", row, err)
	}
	return nil
}

func (g *GoogleClient) IsRowPopulated(ctx context.Context, spreadsheetID, sheetName, column string, row int) (bool, error) {
	rangeRef := fmt.Sprintf("%s!%s%d", sheetName, column, row)
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to read cell %s: %v", rangeRef, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return false, nil
	}
	return strings.TrimSpace(fmt.Sprint(resp.Values[0][0])) != "", nil
}
