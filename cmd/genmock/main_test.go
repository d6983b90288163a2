package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := generate(2011, 2021, false, 7)
	b := generate(2011, 2021, false, 7)

	assert.Equal(t, a, b)
	require.Len(t, a, 12)
	assert.Equal(t, domain.YearColumn, a[0][0])
	assert.Equal(t, "January", a[0][1])
	assert.Equal(t, "2021", a[11][0])
}

func TestGenerate_Abbreviated(t *testing.T) {
	table := generate(2011, 2011, true, 1)
	assert.Equal(t, []string{"Year", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}, table[0])
}

func TestFixtures_AnalyseIdentically(t *testing.T) {
	table := generate(2011, 2013, true, 3)
	dir := t.TempDir()

	paths := []string{
		filepath.Join(dir, "rain.xlsx"),
		filepath.Join(dir, "rain.csv"),
		filepath.Join(dir, "rain.csv.gz"),
	}
	require.NoError(t, writeXLSX(paths[0], table))
	require.NoError(t, writeCSV(paths[1], table, false))
	require.NoError(t, writeCSV(paths[2], table, true))

	var totals [][]domain.AnnualTotal
	for _, path := range paths {
		src, err := source.Open(path, "")
		require.NoError(t, err)
		wide, err := src.Load(context.Background())
		require.NoError(t, err, path)
		analysis, err := domain.Analyze(wide)
		require.NoError(t, err, path)
		assert.Len(t, analysis.Records, 36, path)
		totals = append(totals, analysis.AnnualTotals)
	}

	for i := range totals[0] {
		assert.Equal(t, totals[0][i].Year, totals[1][i].Year)
		assert.InDelta(t, totals[0][i].TotalRainfall, totals[1][i].TotalRainfall, 1e-6)
		assert.InDelta(t, totals[1][i].TotalRainfall, totals[2][i].TotalRainfall, 1e-6)
	}
}
