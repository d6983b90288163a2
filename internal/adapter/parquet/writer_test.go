package parquet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	parquetgo "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport() *report.Report {
	jan, jun := 0.5, 580.0
	return &report.Report{
		ID:     "abc123",
		Source: "mumbai.xlsx",
		Records: []domain.Record{
			{Year: 2011, Month: "January", Rainfall: &jan, Date: time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)},
			{Year: 2011, Month: "February", Rainfall: nil, Date: time.Date(2011, time.February, 1, 0, 0, 0, 0, time.UTC)},
			{Year: 2011, Month: "June", Rainfall: &jun, Date: time.Date(2011, time.June, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func readRows(t *testing.T, path string) []Row {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	info, err := f.Stat()
	require.NoError(t, err)
	pf, err := parquetgo.OpenFile(f, info.Size())
	require.NoError(t, err)

	reader := parquetgo.NewGenericReader[Row](pf)
	defer reader.Close() //nolint:errcheck

	rows := make([]Row, pf.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestDirWriter_Load(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w := NewDirWriter(dir, discardLogger())

	require.NoError(t, w.Load(context.Background(), sampleReport()))

	rows := readRows(t, filepath.Join(dir, "abc123.parquet"))
	require.Len(t, rows, 3)

	assert.Equal(t, int32(2011), rows[0].Year)
	assert.Equal(t, "January", rows[0].Month)
	require.NotNil(t, rows[0].Rainfall)
	assert.InDelta(t, 0.5, *rows[0].Rainfall, 1e-9)
	assert.True(t, rows[0].Date.Equal(time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)))

	assert.Nil(t, rows[1].Rainfall, "missing cells stay null")
	assert.Equal(t, "June", rows[2].Month)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".rainfall-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileWriter_Load_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.parquet")
	w := NewFileWriter(path, discardLogger())

	require.NoError(t, w.Load(context.Background(), sampleReport()))

	short := sampleReport()
	short.Records = short.Records[:1]
	require.NoError(t, w.Load(context.Background(), short))

	assert.Len(t, readRows(t, path), 1)
	assert.Equal(t, "parquet", w.Name())
}

func TestWriter_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDirWriter(t.TempDir(), discardLogger()).Load(ctx, sampleReport())
	require.ErrorIs(t, err, context.Canceled)
}
