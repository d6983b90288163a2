// Package parquet exports the long-format rainfall records of a report as a
// parquet file, one row per (year, month).
package parquet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/rainfall-trends/internal/report"
)

// Row is the on-disk schema of an exported record.
type Row struct {
	Year     int32     `parquet:"year"`
	Month    string    `parquet:"month,dict"`
	Rainfall *float64  `parquet:"rainfall,optional"`
	Date     time.Time `parquet:"date,timestamp(millisecond)"`
}

// Writer writes reports to parquet files. It implements pipeline.Loader.
type Writer struct {
	dir    string // one <id>.parquet per report when set
	path   string // fixed output path otherwise
	logger *slog.Logger
}

// NewDirWriter writes each report to <dir>/<report id>.parquet.
func NewDirWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// NewFileWriter writes every report to the same path, replacing it.
func NewFileWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

func (w *Writer) Name() string { return "parquet" }

// Load writes the report's records. The file is written beside its final
// path and renamed into place once complete.
func (w *Writer) Load(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := w.pathFor(r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rainfall-*.parquet")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := writeRows(tmp, r); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move export file: %w", err)
	}

	w.logger.Info("records exported", "path", path, "rows", len(r.Records))
	return nil
}

func (w *Writer) pathFor(r *report.Report) string {
	if w.path != "" {
		return w.path
	}
	return filepath.Join(w.dir, r.ID+".parquet")
}

func writeRows(f *os.File, r *report.Report) error {
	rows := make([]Row, len(r.Records))
	for i, rec := range r.Records {
		rows[i] = Row{
			Year:     int32(rec.Year), //nolint:gosec // calendar years fit in int32
			Month:    rec.Month,
			Rainfall: rec.Rainfall,
			Date:     rec.Date,
		}
	}

	pw := parquetgo.NewGenericWriter[Row](f,
		parquetgo.KeyValueMetadata("source", r.Source),
		parquetgo.KeyValueMetadata("report_id", r.ID),
	)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}
