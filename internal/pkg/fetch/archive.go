package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ougirez/canlotto/internal/pkg/constants"
)

// Table is a CSV file addressed by header name.
type Table struct {
	header map[string]int
	Rows   []Row
}

type Row struct {
	table  *Table
	fields []string
}

// Get returns the trimmed value of column, or "" when the column is missing.
func (r Row) Get(column string) string {
	i, ok := r.table.header[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (t *Table) Has(column string) bool {
	_, ok := t.header[column]
	return ok
}

// ZipCSV downloads a zip archive and reads the CSV file called name from it.
func (c *Client) ZipCSV(ctx context.Context, url, name string) (*Table, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	return ReadZipCSV(body, name)
}

func ReadZipCSV(archive []byte, name string) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w: %s", constants.ErrMalformedSource, err.Error())
	}

	for _, file := range zr.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w: %s", name, constants.ErrMalformedSource, err.Error())
		}
		defer rc.Close()

		return ReadCSV(rc)
	}

	return nil, fmt.Errorf("%s not in archive: %w", name, constants.ErrMalformedSource)
}

func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w: %s", constants.ErrMalformedSource, err.Error())
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv: %w", constants.ErrMalformedSource)
	}

	t := &Table{header: make(map[string]int, len(records[0]))}
	for i, col := range records[0] {
		t.header[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}

	t.Rows = make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, Row{table: t, fields: rec})
	}
	return t, nil
}
