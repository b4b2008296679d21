package convert

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/plonxyz/convertctl/internal/detect"
	"github.com/plonxyz/convertctl/internal/meta"
	"github.com/plonxyz/convertctl/internal/models"
)

// ErrInvalidInput marks syntactically broken input (malformed JSON,
// XML, corrupt archives). Callers test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrMissingCapability marks files no available parsing strategy
// could handle.
var ErrMissingCapability = errors.New("missing capability")

// DefaultBase64Limit is the size ceiling for binary previews.
const DefaultBase64Limit = 1 << 20

// DefaultMaxPackets caps packet extraction from capture files.
const DefaultMaxPackets = 10000

// DefaultRecursionDepth bounds nested archive conversion.
const DefaultRecursionDepth = 3

// Options configure converter construction for one file. The
// recursion depth is passed by value down each nested archive level,
// so sibling entries can never influence each other's budget.
type Options struct {
	IncludeBase64  bool
	Base64Limit    int64
	MaxPackets     int
	RecursionDepth int
	Logger         *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Base64Limit <= 0 {
		o.Base64Limit = DefaultBase64Limit
	}
	if o.MaxPackets <= 0 {
		o.MaxPackets = DefaultMaxPackets
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Converter turns one file's bytes into a JSON-serializable payload
// for one format tag. Implementations do no recovery of their own
// beyond per-record skips; errors propagate to the orchestrator.
type Converter interface {
	ExtractData(path string) (any, error)
}

// Run is the shared conversion template: detect the type, extract
// metadata, invoke the converter, and assemble the result envelope.
// Converter errors propagate unchanged apart from file-path context.
func Run(c Converter, path string, logger *slog.Logger) (*models.ConversionResult, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tag, mime := detect.DetectWith(path, logger)

	md, err := meta.Extract(path, true)
	if err != nil {
		return nil, fmt.Errorf("extracting metadata for %s: %w", path, err)
	}
	md.MtimeISO = time.Unix(int64(md.Mtime), 0).Format("2006-01-02T15:04:05")

	data, err := c.ExtractData(path)
	if err != nil {
		logger.Error("error converting file", "file", path, "error", err)
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}

	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}

	return &models.ConversionResult{
		SourceFilename: filepath.Base(path),
		SourcePath:     abs,
		DetectedType:   tag,
		Mimetype:       mime,
		ConvertedAt:    time.Now().UTC().Format(time.RFC3339),
		Metadata:       md,
		Data:           data,
	}, nil
}
