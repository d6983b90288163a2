package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffYear,January,February\n2011,10,5\n2012,20,\n"

func TestCSV_LoadBytes(t *testing.T) {
	df, err := NewCSVBytes("rain.csv", []byte(sampleCSV)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Year", "January", "February"}, df.Names())
	assert.Equal(t, 2, df.Nrow())
	assert.InDelta(t, 20.0, df.Col("January").Float()[1], 1e-9)
}

func TestCSV_LoadGzipFile(t *testing.T) {
	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "rain.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	df, err := NewCSVFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2011", "2012"}, df.Col("Year").Records())
}

func TestCSV_MissingFile(t *testing.T) {
	_, err := NewCSVFile(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	assert.Error(t, err)
}

func TestCSV_Empty(t *testing.T) {
	_, err := NewCSVBytes("rain.csv", nil).Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyTable)
}
