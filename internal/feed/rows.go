package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one raw feed row: column values addressable by header name.
// Rows are ephemeral; they exist only between the reader and the mapper.
type Row struct {
	index  map[string]int
	values []string
}

// Get returns the trimmed value for a column, matched case-insensitively
// against the header. Missing columns and short rows yield "".
func (r Row) Get(column string) string {
	idx, ok := r.index[strings.ToLower(column)]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

// HasColumn reports whether the header contains the column at all,
// regardless of the value in this row.
func (r Row) HasColumn(column string) bool {
	_, ok := r.index[strings.ToLower(column)]
	return ok
}

// RowReader yields feed rows one at a time. Both the CSV and the workbook
// variants stream rather than materialising the whole feed.
type RowReader struct {
	index map[string]int
	next  func() ([]string, error)
	close func() error
}

// Next returns the next data row, or io.EOF when the feed is exhausted.
// A *csv.ParseError applies to that row only and leaves the reader usable;
// any other error means the underlying stream is gone.
func (r *RowReader) Next() (Row, error) {
	values, err := r.next()
	if err != nil {
		return Row{}, err
	}
	return Row{index: r.index, values: values}, nil
}

// Close releases the underlying source. Safe on CSV readers where the
// caller owns the stream.
func (r *RowReader) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func buildHeaderIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

// NewCSVReader wraps a CSV stream. The first record is the header; an
// unreadable header means the payload is not tabular data.
func NewCSVReader(r io.Reader) (*RowReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // vendor exports have ragged trailing columns

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	return &RowReader{
		index: buildHeaderIndex(header),
		next:  reader.Read,
	}, nil
}

// OpenWorkbook opens an uploaded spreadsheet and reads its first sheet.
// The file at path belongs to the caller; it is not deleted here.
func OpenWorkbook(path string) (*RowReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to open workbook: %w", err)}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, &ParseError{Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, &ParseError{Err: fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)}
	}

	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, &ParseError{Err: fmt.Errorf("sheet %q is empty", sheets[0])}
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, &ParseError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	return &RowReader{
		index: buildHeaderIndex(header),
		next: func() ([]string, error) {
			if !rows.Next() {
				if err := rows.Error(); err != nil {
					return nil, err
				}
				return nil, io.EOF
			}
			return rows.Columns()
		},
		close: func() error {
			rows.Close()
			return f.Close()
		},
	}, nil
}
