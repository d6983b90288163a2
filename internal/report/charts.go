package report

import (
	"fmt"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

// ChartKind names the plot type a display surface should draw.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartBox  ChartKind = "box"
)

const rainfallAxisLabel = "Rainfall (mm)"

// ChartSpec describes one chart. Data names the report field holding its values.
type ChartSpec struct {
	ID     string    `json:"id"`
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Data   string    `json:"data"`
	XField string    `json:"x_field"`
	YField string    `json:"y_field"`
	YLabel string    `json:"y_label"`
	XOrder []string  `json:"x_order,omitempty"`
}

// Charts returns the annual trend line, the monthly average bar chart, and
// the monthly variability box plot. Months without data keep their place on
// the bar chart axis and are drawn without a bar.
func Charts(annual []domain.AnnualTotal, monthOrder []string) []ChartSpec {
	return []ChartSpec{
		{
			ID:     "annual_totals",
			Kind:   ChartLine,
			Title:  "Total Annual Rainfall (mm)",
			Data:   "annual_totals",
			XField: "year",
			YField: "total_rainfall",
			YLabel: rainfallAxisLabel,
		},
		{
			ID:     "monthly_averages",
			Kind:   ChartBar,
			Title:  monthlyAverageTitle(annual),
			Data:   "monthly_averages",
			XField: "month",
			YField: "average_rainfall",
			YLabel: rainfallAxisLabel,
			XOrder: monthOrder,
		},
		{
			ID:     "monthly_variability",
			Kind:   ChartBox,
			Title:  "Monthly Rainfall Variation Across Years",
			Data:   "records",
			XField: "month",
			YField: "rainfall",
			YLabel: rainfallAxisLabel,
			XOrder: monthOrder,
		},
	}
}

func monthlyAverageTitle(annual []domain.AnnualTotal) string {
	const title = "Average Monthly Rainfall"
	switch len(annual) {
	case 0:
		return title
	case 1:
		return fmt.Sprintf("%s (%d)", title, annual[0].Year)
	default:
		return fmt.Sprintf("%s (%d–%d)", title, annual[0].Year, annual[len(annual)-1].Year)
	}
}
