package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

const noData = "no data"

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderText writes a plain-text version of the report: dataset preview,
// the three views, highlights, and commentary. Rainfall is shown in
// millimetres rounded to one decimal place.
func RenderText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	section(tw, "Rainfall Trend Visualization")
	fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	fmt.Fprintf(tw, "Generated:\t%s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	section(tw, "Dataset Preview")
	fmt.Fprintln(tw, strings.Join(r.Preview.Columns, "\t"))
	for _, row := range r.Preview.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	section(tw, chartTitle(r, "annual_totals", "Total Annual Rainfall (mm)"))
	fmt.Fprintln(tw, "Year\tRainfall (mm)")
	for _, a := range r.AnnualTotals {
		fmt.Fprintf(tw, "%d\t%s\n", a.Year, mm(a.TotalRainfall))
	}

	section(tw, chartTitle(r, "monthly_averages", "Average Monthly Rainfall"))
	fmt.Fprintln(tw, "Month\tAverage (mm)")
	for _, m := range r.MonthlyAverages {
		avg := noData
		if m.HasData() {
			avg = mm(*m.AverageRainfall)
		}
		fmt.Fprintf(tw, "%s\t%s\n", m.Month, avg)
	}

	section(tw, chartTitle(r, "monthly_variability", "Monthly Rainfall Variation Across Years"))
	fmt.Fprintln(tw, "Month\tN\tMin\tQ1\tMedian\tQ3\tMax\tOutliers")
	for _, s := range r.Spread {
		if s.Count == 0 {
			fmt.Fprintf(tw, "%s\t0\t%s\t\t\t\t\t\n", s.Month, noData)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.Month, s.Count, mm(s.Min), mm(s.Q1), mm(s.Median), mm(s.Q3), mm(s.Max), len(s.Outliers))
	}

	section(tw, "Summary & Interpretation")
	h := r.Highlights
	if h.WettestYear != nil {
		fmt.Fprintf(tw, "Wettest year:\t%d (%s mm)\n", h.WettestYear.Year, mm(h.WettestYear.Value))
	}
	if h.DriestYear != nil {
		fmt.Fprintf(tw, "Driest year:\t%d (%s mm)\n", h.DriestYear.Year, mm(h.DriestYear.Value))
	}
	if h.PeakMonth != nil {
		fmt.Fprintf(tw, "Peak month:\t%s (%s mm on average)\n", h.PeakMonth.Month, mm(h.PeakMonth.Value))
	}
	if h.MostVariableMonth != nil {
		fmt.Fprintf(tw, "Most variable month:\t%s (IQR %s mm)\n", h.MostVariableMonth.Month, mm(h.MostVariableMonth.Value))
	}
	for _, note := range r.Commentary {
		fmt.Fprintf(tw, "- %s\n", note)
	}

	return tw.Flush()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
}

func chartTitle(r *Report, id, fallback string) string {
	for _, c := range r.Charts {
		if c.ID == id {
			return c.Title
		}
	}
	return fallback
}

// mm formats millimetres with one decimal, rounding half away from zero.
func mm(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}
