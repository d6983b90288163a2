package source

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

// missingValues are cell contents treated as "no measurement".
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "-", "<nil>"}

// NewWideTable converts raw spreadsheet rows into a wide rainfall table. The
// first row is the header. Header cells are trimmed; trailing columns with
// neither a header nor any data are dropped, while unnamed columns holding data
// are kept as "Unnamed: <index>" so they fail date parsing instead of
// vanishing. Short rows are padded with missing cells and fully blank rows are
// skipped. The Year column is kept as text so that malformed years surface as
// date errors during reshaping; every other column is numeric.
func NewWideTable(rows [][]string) (dataframe.DataFrame, error) {
	if len(rows) == 0 {
		return dataframe.DataFrame{}, ErrEmptyTable
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for len(header) > 0 && header[len(header)-1] == "" && columnBlank(rows[1:], len(header)-1) {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return dataframe.DataFrame{}, ErrEmptyTable
	}
	for i, h := range header {
		if h == "" {
			header[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}
	yearCol := slices.Index(header, domain.YearColumn)

	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make([]string, len(header))
		blank := true
		for i := range header {
			if i < len(row) {
				rec[i] = strings.TrimSpace(row[i])
			}
			if rec[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if yearCol >= 0 {
			rec[yearCol] = normalizeYear(rec[yearCol])
		}
		body = append(body, rec)
	}

	if len(body) == 0 {
		return emptyTable(header), nil
	}

	types := make(map[string]series.Type, len(header))
	for _, h := range header {
		types[h] = series.Float
	}
	types[domain.YearColumn] = series.String

	df := dataframe.LoadRecords(append([][]string{header}, body...),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(types),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return df, fmt.Errorf("load wide table: %w", df.Err)
	}
	return df, nil
}

func columnBlank(rows [][]string, col int) bool {
	for _, row := range rows {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			return false
		}
	}
	return true
}

// emptyTable keeps the header of a sheet that has no data rows.
func emptyTable(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, h := range header {
		if h == domain.YearColumn {
			cols[i] = series.New([]string{}, series.String, h)
			continue
		}
		cols[i] = series.New([]float64{}, series.Float, h)
	}
	return dataframe.New(cols...)
}

// normalizeYear turns float-rendered years such as "2011.0" into "2011".
func normalizeYear(s string) string {
	if _, err := strconv.Atoi(s); err == nil {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}
