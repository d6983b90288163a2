// Package report turns an analysis into the values a display surface needs:
// the three views, chart specifications, box plot statistics, and commentary.
package report

import (
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

// Report is the complete result of one analysis, ready for rendering.
type Report struct {
	ID              string                  `json:"id"`
	Source          string                  `json:"source"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Preview         Preview                 `json:"preview"`
	AnnualTotals    []domain.AnnualTotal    `json:"annual_totals"`
	MonthlyAverages []domain.MonthlyAverage `json:"monthly_averages"`
	Records         []domain.Record         `json:"records"`
	MonthOrder      []string                `json:"month_order"`
	Spread          []MonthSpread           `json:"spread"`
	Charts          []ChartSpec             `json:"charts"`
	Highlights      Highlights              `json:"highlights"`
	Commentary      []string                `json:"commentary"`
}

// Preview is the head of the uploaded table as text cells.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Options carries the per-run metadata that is not part of the analysis.
type Options struct {
	ID          string
	Source      string
	PreviewRows int
}

// Build assembles a report from the uploaded table and its analysis.
func Build(wide dataframe.DataFrame, analysis domain.Analysis, opts Options) *Report {
	spread := MonthlySpread(analysis.Variability.Records)
	return &Report{
		ID:              opts.ID,
		Source:          opts.Source,
		GeneratedAt:     domain.Now(),
		Preview:         previewOf(wide, opts.PreviewRows),
		AnnualTotals:    nonNil(analysis.AnnualTotals),
		MonthlyAverages: analysis.MonthlyAverages,
		Records:         nonNil(analysis.Records),
		MonthOrder:      analysis.Variability.MonthOrder,
		Spread:          spread,
		Charts:          Charts(analysis.AnnualTotals, analysis.Variability.MonthOrder),
		Highlights:      Summarize(analysis.AnnualTotals, analysis.MonthlyAverages, spread),
		Commentary:      Commentary(),
	}
}

func previewOf(wide dataframe.DataFrame, n int) Preview {
	if wide.Err != nil {
		return Preview{}
	}
	p := Preview{Columns: wide.Names(), Rows: [][]string{}}
	records := wide.Records()
	if len(records) <= 1 || n <= 0 {
		return p
	}
	body := records[1:]
	if len(body) > n {
		body = body[:n]
	}
	p.Rows = body
	return p
}

// nonNil keeps JSON output as [] rather than null for empty views.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
