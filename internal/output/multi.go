package output

import "github.com/plonxyz/convertctl/internal/models"

// MultiWriter fans out writes to all active sinks
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter from the given writers
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes a result to all sinks
func (mw *MultiWriter) Write(result *models.ConversionResult) error {
	for _, w := range mw.writers {
		if err := w.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks
func (mw *MultiWriter) Close() error {
	var firstErr error
	for _, w := range mw.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// compile-time interface check
var _ Writer = (*MultiWriter)(nil)
