package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Reshape unpivots a wide rainfall table into long records, one per
// (year, month) cell, ordered by source row and then source column.
//
// The table must carry a YearColumn; otherwise a *MissingColumnError is
// returned and nothing is produced. Every other column is treated as a month.
// NaN cells become records with a nil Rainfall. Dates are resolved for the
// whole batch at once (see parseDates), so a single unparseable month header
// or year fails the entire table with a *DateFormatError. Numeric Year columns
// are accepted; whole floats such as 2011.0 read as 2011.
func Reshape(wide dataframe.DataFrame) ([]Record, error) {
	if wide.Err != nil {
		return nil, fmt.Errorf("wide table: %w", wide.Err)
	}

	names := wide.Names()
	if !slices.Contains(names, YearColumn) {
		return nil, &MissingColumnError{Column: YearColumn}
	}

	years := yearKeys(wide.Col(YearColumn))
	months := make([]string, 0, len(names)-1)
	values := make([][]float64, 0, len(names)-1)
	for _, name := range names {
		if name == YearColumn {
			continue
		}
		months = append(months, name)
		values = append(values, wide.Col(name).Float())
	}

	records := make([]Record, 0, len(years)*len(months))
	keys := make([]string, 0, cap(records))
	for row, year := range years {
		for col, month := range months {
			records = append(records, Record{
				Month:    month,
				Rainfall: rainfallValue(values[col][row]),
			})
			keys = append(keys, year+"-"+month)
		}
	}

	dates, err := parseDates(keys)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Date = dates[i]
		records[i].Year = dates[i].Year()
	}
	return records, nil
}

// Analyze reshapes the wide table and computes every derived view.
func Analyze(wide dataframe.DataFrame) (Analysis, error) {
	records, err := Reshape(wide)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Records:         records,
		AnnualTotals:    AnnualTotals(records),
		MonthlyAverages: MonthlyAverages(records),
		Variability:     VariabilityView(records),
	}, nil
}

// parseDates parses every key under the full month-name layout; if any key
// fails, all keys are parsed again under the abbreviated layout. Partial
// results of the first attempt are discarded.
func parseDates(keys []string) ([]time.Time, error) {
	dates, _, err := parseAll(keys, fullMonthLayout)
	if err == nil {
		return dates, nil
	}
	dates, failed, err := parseAll(keys, shortMonthLayout)
	if err == nil {
		return dates, nil
	}
	return nil, &DateFormatError{
		Value:   failed,
		Layouts: []string{fullMonthLayout, shortMonthLayout},
		Err:     err,
	}
}

// parseAll returns the parsed dates, or the first failing key and its error.
func parseAll(keys []string, layout string) ([]time.Time, string, error) {
	dates := make([]time.Time, len(keys))
	for i, key := range keys {
		t, err := time.Parse(layout, key)
		if err != nil {
			return nil, key, err
		}
		dates[i] = t
	}
	return dates, "", nil
}

// yearKeys renders the Year column as text. Float columns are formatted
// without gota's fixed six decimals so 2011.0 becomes "2011".
func yearKeys(col series.Series) []string {
	if col.Type() != series.Float {
		return col.Records()
	}
	floats := col.Float()
	keys := make([]string, len(floats))
	for i, f := range floats {
		keys[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return keys
}

func rainfallValue(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
