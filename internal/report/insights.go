package report

import "github.com/couchcryptid/rainfall-trends/internal/domain"

// YearValue pairs a year with a rainfall amount in millimetres.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// MonthValue pairs a calendar month with a rainfall statistic in millimetres.
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Highlights are the headline facts behind the commentary. Fields are nil
// when the data cannot support them.
type Highlights struct {
	WettestYear       *YearValue  `json:"wettest_year,omitempty"`
	DriestYear        *YearValue  `json:"driest_year,omitempty"`
	PeakMonth         *MonthValue `json:"peak_month,omitempty"`
	MostVariableMonth *MonthValue `json:"most_variable_month,omitempty"` // by interquartile range
}

// Summarize picks the wettest and driest years, the month with the highest
// average, and the month with the widest interquartile range. Ties keep the
// earliest year or month.
func Summarize(annual []domain.AnnualTotal, monthly []domain.MonthlyAverage, spread []MonthSpread) Highlights {
	var h Highlights

	for _, a := range annual {
		if h.WettestYear == nil || a.TotalRainfall > h.WettestYear.Value {
			h.WettestYear = &YearValue{Year: a.Year, Value: a.TotalRainfall}
		}
		if h.DriestYear == nil || a.TotalRainfall < h.DriestYear.Value {
			h.DriestYear = &YearValue{Year: a.Year, Value: a.TotalRainfall}
		}
	}

	for _, m := range monthly {
		if !m.HasData() {
			continue
		}
		if h.PeakMonth == nil || *m.AverageRainfall > h.PeakMonth.Value {
			h.PeakMonth = &MonthValue{Month: m.Month, Value: *m.AverageRainfall}
		}
	}

	for _, s := range spread {
		if s.Count < 2 {
			continue
		}
		if h.MostVariableMonth == nil || s.IQR() > h.MostVariableMonth.Value {
			h.MostVariableMonth = &MonthValue{Month: s.Month, Value: s.IQR()}
		}
	}
	return h
}

// Commentary returns the static interpretation notes shown under the charts.
func Commentary() []string {
	return []string{
		"Annual Trend: identify years with highest and lowest rainfall.",
		"Seasonal Pattern: observe peak rainfall months (e.g., June–September).",
		"Monthly Variability: the box plot reveals months with the most inconsistent rainfall (wide spread or outliers).",
		"Useful for climate study, infrastructure design, and planning.",
	}
}
