package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Sheets reads a range of a Google spreadsheet.
type Sheets struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsService builds a read-only Sheets client from service account
// credentials. Extra options are appended, which tests use to point the
// client at a local endpoint.
func NewSheetsService(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*gsheet.Service, error) {
	base := []option.ClientOption{option.WithScopes(gsheet.SpreadsheetsReadonlyScope)}
	if len(credentialsJSON) > 0 {
		base = append(base, option.WithCredentialsJSON(credentialsJSON))
	}
	svc, err := gsheet.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return svc, nil
}

// NewSheets reads readRange (A1 notation, e.g. "Rainfall!A1:M20") of the spreadsheet.
func NewSheets(svc *gsheet.Service, spreadsheetID, readRange string) *Sheets {
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}
}

func (s *Sheets) Name() string {
	return fmt.Sprintf("sheets:%s/%s", s.spreadsheetID, s.readRange)
}

func (s *Sheets) Load(ctx context.Context) (dataframe.DataFrame, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("get range %q: %w", s.readRange, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cellText(cell)
		}
	}
	return NewWideTable(rows)
}

// cellText renders an unformatted cell. Numbers arrive as JSON floats.
func cellText(cell any) string {
	if f, ok := cell.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(cell)
}
