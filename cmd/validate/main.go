// Command validate performs integrity checks on a rainfall workbook and its
// derived views: the wide table has a Year column, reshaping yields exactly
// one record per (year, month) cell, annual totals round-trip to the record
// sum, and the monthly averages cover the twelve canonical months.
//
// Usage:
//
//	go run ./cmd/validate -input testdata/mumbai_rainfall.xlsx
//	go run ./cmd/validate -input testdata/mumbai_rainfall_abbrev.csv.gz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/report"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "spreadsheet to validate (.xlsx, .csv, .csv.gz)")
	sheet := flag.String("sheet", "", "worksheet name for xlsx input")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *sheet); code != 0 {
		os.Exit(code)
	}
}

func run(input, sheet string) int {
	fmt.Println("=== Rainfall Data Integrity Validation ===")
	fmt.Println()

	src, err := source.Open(input, sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open input: %v\n", err)
		return 1
	}
	wide, err := src.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load input: %v\n", err)
		return 1
	}

	structure := validateStructure(wide)
	records, reshape := validateReshape(wide)
	phases := []*phase{structure, reshape}
	if records != nil {
		phases = append(phases, validateAggregates(records), validateReport(wide, records))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Table: %d years x %d months, %d long records\n", wide.Nrow(), max(wide.Ncol()-1, 0), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Structure ──

func validateStructure(wide dataframe.DataFrame) *phase {
	p := &phase{name: "Phase 1: Structure (wide table)"}

	names := wide.Names()
	if !slices.Contains(names, domain.YearColumn) {
		p.errorf("missing %q column (columns: %v)", domain.YearColumn, names)
		return p
	}
	if len(names) < 2 {
		p.errorf("no month columns besides %q", domain.YearColumn)
	}

	seen := map[string]int{}
	for i, y := range wide.Col(domain.YearColumn).Records() {
		if prev, dup := seen[y]; dup {
			p.errorf("year %s appears on rows %d and %d", y, prev+1, i+1)
		}
		seen[y] = i
	}
	return p
}

// ── Phase 2: Reshape ──

func validateReshape(wide dataframe.DataFrame) ([]domain.Record, *phase) {
	p := &phase{name: "Phase 2: Reshape (long records)"}

	records, err := domain.Reshape(wide)
	if err != nil {
		var missing *domain.MissingColumnError
		var badDate *domain.DateFormatError
		switch {
		case errors.As(err, &missing):
			p.errorf("reshape rejected table: %v", missing)
		case errors.As(err, &badDate):
			p.errorf("month headers mix or misspell conventions: %v", badDate)
		default:
			p.errorf("reshape: %v", err)
		}
		return nil, p
	}

	months := monthColumns(wide)
	want := wide.Nrow() * len(months)
	if len(records) != want {
		p.errorf("record count: expected %d (%d rows x %d months), got %d", want, wide.Nrow(), len(months), len(records))
	}

	cells := map[string]int{}
	for _, r := range records {
		cells[fmt.Sprintf("%d|%s", r.Year, r.Month)]++
		if r.Date.Day() != 1 || r.Date.Year() != r.Year {
			p.errorf("%d %s: date %s is not the first of the month", r.Year, r.Month, r.Date.Format("2006-01-02"))
		}
	}
	for _, r := range records {
		if n := cells[fmt.Sprintf("%d|%s", r.Year, r.Month)]; n != 1 {
			p.errorf("%d %s: appears %d times", r.Year, r.Month, n)
		}
	}
	return records, p
}

// ── Phase 3: Aggregates ──

func validateAggregates(records []domain.Record) *phase {
	p := &phase{name: "Phase 3: Aggregates (totals, averages)"}

	var recordSum float64
	for _, r := range records {
		if r.Rainfall != nil {
			recordSum += *r.Rainfall
		}
	}

	annual := domain.AnnualTotals(records)
	var annualSum float64
	for i, a := range annual {
		annualSum += a.TotalRainfall
		if i > 0 && annual[i-1].Year >= a.Year {
			p.errorf("annual totals out of order at %d", a.Year)
		}
	}
	if !floatEq(recordSum, annualSum) {
		p.errorf("annual totals sum to %g, records sum to %g", annualSum, recordSum)
	}

	monthly := domain.MonthlyAverages(records)
	order := domain.MonthOrder()
	if len(monthly) != len(order) {
		p.errorf("monthly averages: expected %d entries, got %d", len(order), len(monthly))
		return p
	}
	for i, m := range monthly {
		if m.Month != order[i] {
			p.errorf("monthly average %d: expected %s, got %s", i, order[i], m.Month)
		}
		want, ok := meanFor(records, i+1)
		switch {
		case !ok && m.HasData():
			p.errorf("%s: expected no data, got %g", m.Month, *m.AverageRainfall)
		case ok && !m.HasData():
			p.errorf("%s: expected %g, got no data", m.Month, want)
		case ok && !floatEq(want, *m.AverageRainfall):
			p.errorf("%s: expected %g, got %g", m.Month, want, *m.AverageRainfall)
		}
	}
	return p
}

// ── Phase 4: Report ──

func validateReport(wide dataframe.DataFrame, records []domain.Record) *phase {
	p := &phase{name: "Phase 4: Report (charts, spread)"}

	analysis, err := domain.Analyze(wide)
	if err != nil {
		p.errorf("analyze: %v", err)
		return p
	}
	rep := report.Build(wide, analysis, report.Options{Source: "validate", PreviewRows: 5})

	if len(rep.Charts) != 3 {
		p.errorf("expected 3 charts, got %d", len(rep.Charts))
	}
	if len(rep.Records) != len(records) {
		p.errorf("report carries %d records, reshape produced %d", len(rep.Records), len(records))
	}

	var spreadCount int
	for _, s := range rep.Spread {
		spreadCount += s.Count
		if s.Count > 0 && (s.Min > s.Q1 || s.Q1 > s.Median || s.Median > s.Q3 || s.Q3 > s.Max) {
			p.errorf("%s: quartiles out of order", s.Month)
		}
	}
	var nonNil int
	for _, r := range records {
		if r.Rainfall != nil {
			nonNil++
		}
	}
	if spreadCount != nonNil {
		p.errorf("spread covers %d values, records hold %d", spreadCount, nonNil)
	}
	return p
}

// ── Helpers ──

func monthColumns(wide dataframe.DataFrame) []string {
	var cols []string
	for _, name := range wide.Names() {
		if name != domain.YearColumn {
			cols = append(cols, name)
		}
	}
	return cols
}

func meanFor(records []domain.Record, month int) (float64, bool) {
	var sum float64
	var n int
	for _, r := range records {
		if int(r.Date.Month()) == month && r.Rainfall != nil {
			sum += *r.Rainfall
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
