package report

import (
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

// whiskerIQR is the Tukey fence multiplier used for box plot whiskers.
const whiskerIQR = 1.5

// MonthSpread is the box plot summary of one calendar month across years.
// All statistics are zero when Count is zero.
type MonthSpread struct {
	Month        string    `json:"month"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// IQR is the interquartile range.
func (s MonthSpread) IQR() float64 {
	return s.Q3 - s.Q1
}

// MonthlySpread groups non-missing rainfall by calendar month and returns
// twelve summaries in calendar order.
func MonthlySpread(records []domain.Record) []MonthSpread {
	var groups [12][]float64
	for _, r := range records {
		m, ok := r.CalendarMonth()
		if !ok || r.Rainfall == nil {
			continue
		}
		groups[m-1] = append(groups[m-1], *r.Rainfall)
	}

	spread := make([]MonthSpread, 12)
	for i, values := range groups {
		spread[i] = summarize(time.Month(i+1).String(), values)
	}
	return spread
}

func summarize(month string, values []float64) MonthSpread {
	s := MonthSpread{Month: month, Count: len(values), Outliers: []float64{}}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)

	lowFence := s.Q1 - whiskerIQR*s.IQR()
	highFence := s.Q3 + whiskerIQR*s.IQR()
	s.LowerWhisker = s.Max
	s.UpperWhisker = s.Min
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			s.Outliers = append(s.Outliers, v)
			continue
		}
		s.LowerWhisker = math.Min(s.LowerWhisker, v)
		s.UpperWhisker = math.Max(s.UpperWhisker, v)
	}
	return s
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
