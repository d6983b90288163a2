// Package source loads wide rainfall tables from spreadsheet files, uploads,
// and Google Sheets ranges.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

var (
	// ErrEmptyTable is returned when a spreadsheet has no header row.
	ErrEmptyTable = errors.New("spreadsheet has no header row")

	// ErrUnsupportedFormat is returned for file names without a known spreadsheet extension.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format (want .xlsx, .xlsm, .csv or .csv.gz)")
)

// Source yields one wide rainfall table.
type Source interface {
	// Name identifies the input in logs and reports.
	Name() string
	Load(ctx context.Context) (dataframe.DataFrame, error)
}

// Open picks a file source by extension. sheet selects a worksheet for xlsx
// files and is ignored otherwise.
func Open(path, sheet string) (Source, error) {
	switch kindOf(path) {
	case kindXLSX:
		return NewXLSXFile(path, sheet), nil
	case kindCSV:
		return NewCSVFile(path), nil
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

// FromUpload wraps an in-memory upload. name is the client-supplied file name
// and only its extension is trusted.
func FromUpload(name string, data []byte, sheet string) (Source, error) {
	switch kindOf(name) {
	case kindXLSX:
		return NewXLSXBytes(name, data, sheet), nil
	case kindCSV:
		return NewCSVBytes(name, data), nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// ContentID derives a stable identifier from uploaded bytes and the selected
// worksheet, so identical uploads map to the same report.
func ContentID(data []byte, sheet string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(sheet))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindXLSX
	kindCSV
)

func kindOf(name string) fileKind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return kindXLSX
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".csv.gz"):
		return kindCSV
	default:
		return kindUnknown
	}
}
