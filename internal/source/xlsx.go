package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// XLSX reads one worksheet of an Excel workbook.
type XLSX struct {
	name  string
	sheet string
	open  func() (io.ReadCloser, error)
}

// NewXLSXFile reads the workbook at path. An empty sheet selects the first worksheet.
func NewXLSXFile(path, sheet string) *XLSX {
	return &XLSX{
		name:  filepath.Base(path),
		sheet: sheet,
		open:  func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewXLSXBytes reads a workbook already held in memory.
func NewXLSXBytes(name string, data []byte, sheet string) *XLSX {
	return &XLSX{
		name:  name,
		sheet: sheet,
		open:  func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (x *XLSX) Name() string { return x.name }

func (x *XLSX) Load(ctx context.Context) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	rc, err := x.open()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open workbook: %w", err)
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read workbook %s: %w", x.name, err)
	}
	defer f.Close()

	sheet := x.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("workbook %s: %w", x.name, ErrEmptyTable)
		}
		sheet = sheets[0]
	}

	// Raw values: display formats such as "0" or "#,##0.00" would round or
	// garble the stored rainfall.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return NewWideTable(rows)
}
