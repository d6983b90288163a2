package pipeline

import (
	"context"
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
)

// RainfallTransformer implements Transformer using the domain reshape and
// aggregate functions.
type RainfallTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a RainfallTransformer.
func NewTransformer(logger *slog.Logger) *RainfallTransformer {
	return &RainfallTransformer{logger: logger}
}

func (t *RainfallTransformer) Transform(ctx context.Context, wide dataframe.DataFrame) (domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return domain.Analysis{}, err
	}

	analysis, err := domain.Analyze(wide)
	if err != nil {
		return domain.Analysis{}, err
	}

	t.logger.Debug("reshaped wide table",
		"rows", wide.Nrow(),
		"columns", wide.Ncol(),
		"records", len(analysis.Records),
		"years", len(analysis.AnnualTotals),
	)
	return analysis, nil
}
