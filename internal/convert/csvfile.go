package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVConverter parses delimiter-separated files as header + rows.
type CSVConverter struct {
	opts Options
}

func NewCSV(opts Options) Converter {
	return &CSVConverter{opts: opts.withDefaults()}
}

func (c *CSVConverter) ExtractData(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sample := make([]byte, 1024)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.Comma = sniffDelimiter(sample[:n])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return map[string]any{
			"column_names": []string{},
			"row_count":    0,
			"rows":         []map[string]string{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows := []map[string]string{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return map[string]any{
		"column_names": header,
		"row_count":    len(rows),
		"rows":         rows,
	}, nil
}

// sniffDelimiter picks the most frequent candidate delimiter in the
// first line of the sample, defaulting to comma.
func sniffDelimiter(sample []byte) rune {
	line := sample
	for i, b := range sample {
		if b == '\n' {
			line = sample[:i]
			break
		}
	}

	best := ','
	bestCount := 0
	for _, cand := range []byte{',', ';', '\t', '|'} {
		count := 0
		for _, b := range line {
			if b == cand {
				count++
			}
		}
		if count > bestCount {
			best = rune(cand)
			bestCount = count
		}
	}
	return best
}
