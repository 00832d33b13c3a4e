package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// WriteCSV writes the dataset as a Type,Content table. Line breaks inside
// fields are written as \n, the form ReadCSV returns them in.
func WriteCSV(w io.Writer, d Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{ColumnType, ColumnContent}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range d {
		if err := cw.Write([]string{normalizeNewlines(r.Type), normalizeNewlines(r.Content)}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSV renders the dataset as CSV text
func ToCSV(d Dataset) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadCSV parses a feedback table. The header must name a Content column;
// a Type column is optional. Extra columns are ignored.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ImportError{Kind: ErrMissingColumn}
		}
		return nil, &ImportError{Kind: ErrMalformed, Err: err}
	}

	typeIdx, contentIdx := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch strings.TrimSpace(name) {
		case ColumnContent:
			if contentIdx == -1 {
				contentIdx = i
			}
		case ColumnType:
			if typeIdx == -1 {
				typeIdx = i
			}
		}
	}
	if contentIdx == -1 {
		return nil, &ImportError{Kind: ErrMissingColumn}
	}

	d := Dataset{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ImportError{Kind: ErrMalformed, Err: err}
		}

		d = append(d, Record{
			Type:    cell(row, typeIdx),
			Content: cell(row, contentIdx),
		})
	}

	return d, nil
}

// FromCSV parses CSV text into a Dataset
func FromCSV(text string) (Dataset, error) {
	return ReadCSV(strings.NewReader(text))
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeNewlines converts CRLF to LF. encoding/csv reads a quoted CRLF
// back as LF, so records only ever hold LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
