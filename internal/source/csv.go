package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/klauspost/pgzip"
)

// CSV reads a comma-separated export of the wide table. Names ending in .gz
// are decompressed on the fly.
type CSV struct {
	name string
	open func() (io.ReadCloser, error)
}

// NewCSVFile reads the file at path.
func NewCSVFile(path string) *CSV {
	return &CSV{
		name: filepath.Base(path),
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewCSVBytes reads an export already held in memory.
func NewCSVBytes(name string, data []byte) *CSV {
	return &CSV{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func (c *CSV) Name() string { return c.name }

func (c *CSV) Load(ctx context.Context) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	rc, err := c.open()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(c.name), ".gz") {
		gz, err := pgzip.NewReader(rc)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("gunzip %s: %w", c.name, err)
		}
		defer gz.Close()
		r = gz
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv %s: %w", c.name, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return NewWideTable(rows)
}
