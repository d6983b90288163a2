package domain

import "time"

// YearColumn is the mandatory identifier column of a wide rainfall table.
const YearColumn = "Year"

// Record is one (year, month) cell of the wide table in long form.
type Record struct {
	Year     int       `json:"year"`
	Month    string    `json:"month"`    // column header as it appeared in the source
	Rainfall *float64  `json:"rainfall"` // millimetres; nil when the cell is missing
	Date     time.Time `json:"date"`     // first day of Month in Year, UTC
}

// CalendarMonth resolves the record's month. The parsed date wins; records
// built by hand without a date fall back to parsing the month name.
func (r Record) CalendarMonth() (time.Month, bool) {
	if !r.Date.IsZero() {
		return r.Date.Month(), true
	}
	return parseMonthName(r.Month)
}

// AnnualTotal is the summed rainfall of one year.
type AnnualTotal struct {
	Year          int     `json:"year"`
	TotalRainfall float64 `json:"total_rainfall"`
}

// MonthlyAverage is the mean rainfall of one calendar month across all years.
type MonthlyAverage struct {
	Month           string   `json:"month"`
	AverageRainfall *float64 `json:"average_rainfall"` // nil means no data for this month
}

// HasData reports whether at least one year contributed a value.
func (m MonthlyAverage) HasData() bool {
	return m.AverageRainfall != nil
}

// Variability is the identity view handed to box plot consumers: the long
// records plus the canonical month order for axis labelling.
type Variability struct {
	Records    []Record `json:"records"`
	MonthOrder []string `json:"month_order"`
}

// Analysis bundles the long records with the three derived views.
type Analysis struct {
	Records         []Record
	AnnualTotals    []AnnualTotal
	MonthlyAverages []MonthlyAverage
	Variability     Variability
}
