// Command genmock writes a deterministic monthly rainfall fixture shaped like
// the Mumbai 2011–2021 workbook: one row per year, one column per month. The
// same table is written as xlsx, csv, and gzipped csv so every source can be
// exercised against identical data.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir testdata
//	go run ./cmd/genmock -out-dir testdata -abbrev -from 2000 -to 2005
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

// normals are typical monthly totals in millimetres, January first.
var normals = [12]float64{0.6, 0.5, 0.2, 0.6, 13, 580, 840, 585, 340, 88, 17, 5}

const sheetName = "Rainfall"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "testdata", "directory to write fixtures into")
	from := flag.Int("from", 2011, "first year")
	to := flag.Int("to", 2021, "last year")
	abbrev := flag.Bool("abbrev", false, "use abbreviated month headers (Jan, Feb, ...)")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *to < *from {
		flag.Usage()
		return fmt.Errorf("-to (%d) must not be before -from (%d)", *to, *from)
	}

	table := generate(*from, *to, *abbrev, *seed)

	base := "mumbai_rainfall"
	if *abbrev {
		base += "_abbrev"
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	xlsxPath := filepath.Join(*outDir, base+".xlsx")
	if err := writeXLSX(xlsxPath, table); err != nil {
		return fmt.Errorf("writing xlsx fixture: %w", err)
	}
	log.Printf("wrote %s", xlsxPath)

	csvPath := filepath.Join(*outDir, base+".csv")
	if err := writeCSV(csvPath, table, false); err != nil {
		return fmt.Errorf("writing csv fixture: %w", err)
	}
	log.Printf("wrote %s", csvPath)

	gzPath := csvPath + ".gz"
	if err := writeCSV(gzPath, table, true); err != nil {
		return fmt.Errorf("writing csv.gz fixture: %w", err)
	}
	log.Printf("wrote %s", gzPath)

	return printStats(csvPath)
}

// generate returns the header row followed by one formatted row per year.
func generate(from, to int, abbrev bool, seed uint64) [][]string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // fixture data

	header := make([]string, 0, 13)
	header = append(header, domain.YearColumn)
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if abbrev {
			name = name[:3]
		}
		header = append(header, name)
	}

	table := [][]string{header}
	for year := from; year <= to; year++ {
		row := make([]string, 0, 13)
		row = append(row, strconv.Itoa(year))
		for _, normal := range normals {
			factor := 0.55 + 0.9*rng.Float64()
			row = append(row, decimal.NewFromFloat(normal*factor).StringFixed(1))
		}
		table = append(table, row)
	}
	return table
}

func writeXLSX(path string, table [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, row := range table {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
			if i > 0 {
				// Numbers are stored as numbers so readers see real cell types.
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, table [][]string, gzip bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.Writer = f
	if gzip {
		gz := pgzip.NewWriter(f)
		defer func() {
			if cerr := gz.Close(); err == nil {
				err = cerr
			}
		}()
		w = gz
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table); err != nil {
		return err
	}
	return cw.Error()
}

// printStats runs the generated csv through the real analysis so test
// assertions can be updated from the output.
func printStats(csvPath string) error {
	src, err := source.Open(csvPath, "")
	if err != nil {
		return err
	}
	wide, err := src.Load(context.Background())
	if err != nil {
		return err
	}
	analysis, err := domain.Analyze(wide)
	if err != nil {
		return fmt.Errorf("generated fixture does not analyse: %w", err)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Records: %d\n", len(analysis.Records))
	fmt.Println("Annual totals:")
	for _, a := range analysis.AnnualTotals {
		fmt.Printf("  %d: %s\n", a.Year, decimal.NewFromFloat(a.TotalRainfall).StringFixed(1))
	}
	fmt.Println("Monthly averages:")
	for _, m := range analysis.MonthlyAverages {
		if !m.HasData() {
			fmt.Printf("  %-9s no data\n", m.Month)
			continue
		}
		fmt.Printf("  %-9s %s\n", m.Month, decimal.NewFromFloat(*m.AverageRainfall).StringFixed(2))
	}
	return nil
}
