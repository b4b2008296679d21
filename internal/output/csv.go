package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/plonxyz/convertctl/internal/models"
)

// CSVWriter writes a one-row-per-file conversion index to a CSV file
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// compile-time interface check
var _ Writer = (*CSVWriter)(nil)

// NewCSVWriter creates a new CSV index writer
func NewCSVWriter(outputPath string) (*CSVWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(file)

	// Write header
	header := []string{
		"source_filename", "source_path", "detected_type", "mimetype",
		"converted_at", "size", "sha256",
	}
	if err := w.Write(header); err != nil {
		file.Close()
		return nil, err
	}

	return &CSVWriter{
		file:   file,
		writer: w,
	}, nil
}

// Write appends one result row to the index
func (cw *CSVWriter) Write(result *models.ConversionResult) error {
	record := []string{
		result.SourceFilename,
		result.SourcePath,
		result.DetectedType,
		result.Mimetype,
		result.ConvertedAt,
		strconv.FormatInt(result.Metadata.Size, 10),
		result.Metadata.SHA256,
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.writer.Write(record)
}

// Close flushes and closes the index file
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return err
	}
	return cw.file.Close()
}
