package domain

import (
	"maps"
	"slices"
	"time"
)

// AnnualTotals sums rainfall per year in ascending year order. Missing values
// contribute zero, so a year with only missing cells totals 0.
func AnnualTotals(records []Record) []AnnualTotal {
	sums := make(map[int]float64)
	for _, r := range records {
		total := sums[r.Year]
		if r.Rainfall != nil {
			total += *r.Rainfall
		}
		sums[r.Year] = total
	}

	years := slices.Sorted(maps.Keys(sums))
	totals := make([]AnnualTotal, len(years))
	for i, year := range years {
		totals[i] = AnnualTotal{Year: year, TotalRainfall: sums[year]}
	}
	return totals
}

// MonthlyAverages returns exactly twelve averages in calendar order. Missing
// values are excluded from both sum and count; a month with no values at all
// reports a nil average rather than zero.
//
// Records are grouped by calendar month, so tables with abbreviated headers
// ("Jan") land on the same rows as tables with full names.
func MonthlyAverages(records []Record) []MonthlyAverage {
	var sums [12]float64
	var counts [12]int
	for _, r := range records {
		m, ok := r.CalendarMonth()
		if !ok || r.Rainfall == nil {
			continue
		}
		sums[m-1] += *r.Rainfall
		counts[m-1]++
	}

	averages := make([]MonthlyAverage, 12)
	for i := range averages {
		averages[i].Month = time.Month(i + 1).String()
		if counts[i] > 0 {
			avg := sums[i] / float64(counts[i])
			averages[i].AverageRainfall = &avg
		}
	}
	return averages
}

// VariabilityView passes the records through unchanged alongside the
// canonical month order. Spread statistics are computed by the display layer.
func VariabilityView(records []Record) Variability {
	return Variability{
		Records:    records,
		MonthOrder: MonthOrder(),
	}
}
