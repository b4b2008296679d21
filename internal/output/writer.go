package output

import "github.com/plonxyz/convertctl/internal/models"

// Writer is the interface that all result sinks must implement.
// Writers may be called from concurrent workers.
type Writer interface {
	Write(result *models.ConversionResult) error
	Close() error
}
