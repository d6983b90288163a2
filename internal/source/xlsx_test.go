package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	return f
}

func TestXLSX_LoadFile(t *testing.T) {
	f := writeWorkbook(t, map[string][][]any{
		"Rainfall": {
			{"Year", "January", "February"},
			{2011, 10.5, 5},
			{2012, 20, nil},
		},
	})
	path := filepath.Join(t.TempDir(), "rain.xlsx")
	require.NoError(t, f.SaveAs(path))

	df, err := NewXLSXFile(path, "").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Year", "January", "February"}, df.Names())
	assert.Equal(t, []string{"2011", "2012"}, df.Col("Year").Records())
	assert.InDelta(t, 10.5, df.Col("January").Float()[0], 1e-9)
}

func TestXLSX_LoadBytesNamedSheet(t *testing.T) {
	f := writeWorkbook(t, map[string][][]any{
		"Rainfall": {
			{"Year", "Jun"},
			{2020, 480.2},
		},
	})
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	df, err := NewXLSXBytes("upload.xlsx", buf.Bytes(), "Rainfall").Load(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 480.2, df.Col("Jun").Float()[0], 1e-9)

	_, err = NewXLSXBytes("upload.xlsx", buf.Bytes(), "Missing").Load(context.Background())
	assert.Error(t, err)
}

func TestXLSX_LoadIgnoresDisplayFormats(t *testing.T) {
	f := writeWorkbook(t, map[string][][]any{
		"Rainfall": {
			{"Year", "January", "February"},
			{2011, 12.7, 1234.5},
		},
	})
	whole, err := f.NewStyle(&excelize.Style{NumFmt: 1}) // 0
	require.NoError(t, err)
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Rainfall", "B2", "B2", whole))
	require.NoError(t, f.SetCellStyle("Rainfall", "C2", "C2", thousands))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	df, err := NewXLSXBytes("upload.xlsx", buf.Bytes(), "").Load(context.Background())
	require.NoError(t, err)
	records, err := domain.Reshape(df)
	require.NoError(t, err)

	require.Len(t, records, 2)
	require.NotNil(t, records[0].Rainfall)
	assert.InDelta(t, 12.7, *records[0].Rainfall, 1e-9)
	require.NotNil(t, records[1].Rainfall)
	assert.InDelta(t, 1234.5, *records[1].Rainfall, 1e-9)
}

func TestXLSX_NotAWorkbook(t *testing.T) {
	_, err := NewXLSXBytes("upload.xlsx", []byte("not a zip"), "").Load(context.Background())
	assert.Error(t, err)
}

func TestXLSX_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewXLSXFile("does-not-matter.xlsx", "").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
