// Package processor orchestrates file conversion with a bounded
// worker pool and per-file fault isolation.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plonxyz/convertctl/internal/convert"
	"github.com/plonxyz/convertctl/internal/detect"
	"github.com/plonxyz/convertctl/internal/models"
	"github.com/plonxyz/convertctl/internal/output"
	"github.com/plonxyz/convertctl/internal/progress"
)

// Options configure one processing run.
type Options struct {
	OutputDir     string
	Overwrite     bool
	Formats       []string // format tags to process; empty means all
	Workers       int      // worker pool size; <=0 means NumCPU
	MaxPackets    int
	IncludeBase64 bool
	ShowProgress  bool
	Logger        *slog.Logger
	Sink          output.Writer // optional extra sink for successful results
	RunID         string
}

// Counts is the outcome of a run. A non-zero Failed count is a
// partial-failure state, not an error.
type Counts struct {
	Successful int
	Failed     int
}

// Processor drives conversions over a file set. Result collections
// are append-only under the mutex; the run is read-only once Run
// returns.
type Processor struct {
	opts    Options
	logger  *slog.Logger
	formats map[string]bool

	mu        sync.Mutex
	converted []*models.ConversionResult
	failed    []models.FailureRecord

	runID     string
	startedAt time.Time
}

// New creates a processor. A nil logger discards everything.
func New(opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var formats map[string]bool
	if len(opts.Formats) > 0 {
		formats = make(map[string]bool, len(opts.Formats))
		for _, f := range opts.Formats {
			formats[strings.ToLower(strings.TrimSpace(f))] = true
		}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &Processor{
		opts:      opts,
		logger:    logger,
		formats:   formats,
		converted: []*models.ConversionResult{},
		runID:     runID,
	}
}

// RunID identifies this processing run.
func (p *Processor) RunID() string { return p.runID }

// StartedAt is the time work began; zero before Run is called.
func (p *Processor) StartedAt() time.Time { return p.startedAt }

// Results returns the successful conversion results of the run.
func (p *Processor) Results() []*models.ConversionResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*models.ConversionResult, len(p.converted))
	copy(out, p.converted)
	return out
}

// Failures returns the failure records of the run.
func (p *Processor) Failures() []models.FailureRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.FailureRecord, len(p.failed))
	copy(out, p.failed)
	return out
}

// Run processes a file or directory. The error return covers
// configuration problems only; per-file failures are recorded and
// counted instead. Cancelling ctx stops submission of further work
// and lets in-flight conversions finish.
func (p *Processor) Run(ctx context.Context, inputPath string) (Counts, error) {
	files, err := p.discover(inputPath)
	if err != nil {
		return Counts{}, err
	}
	if len(files) == 0 {
		p.logger.Warn("no files found", "input", inputPath)
		return Counts{}, nil
	}
	p.logger.Info("found files to process", "count", len(files), "workers", p.opts.Workers)
	p.startedAt = time.Now()

	var tracker *progress.Tracker
	if p.opts.ShowProgress {
		tracker = progress.NewTracker(len(files))
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				p.processFile(path, tracker)
			}
		}()
	}

submit:
	for _, f := range files {
		select {
		case <-ctx.Done():
			p.logger.Info("run interrupted, stopping submission")
			break submit
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return Counts{Successful: len(p.converted), Failed: len(p.failed)}, nil
}

func (p *Processor) discover(inputPath string) ([]string, error) {
	fi, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("input path is neither file nor directory: %s", inputPath)
	}

	if fi.Mode().IsRegular() {
		return []string{inputPath}, nil
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("input path is neither file nor directory: %s", inputPath)
	}

	var files []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", inputPath, err)
	}
	return files, nil
}

// processFile handles one file end to end. Every error path, panics
// included, lands in the failure records; nothing escapes to abort
// the run for other files.
func (p *Processor) processFile(path string, tracker *progress.Tracker) {
	name := filepath.Base(path)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			p.recordFailure(path, err)
			if tracker != nil {
				tracker.Fail(name, err)
			}
		}
	}()

	if tracker != nil {
		tracker.Start(name)
	}

	tag, _ := detect.DetectWith(path, p.logger)
	if p.formats != nil && !p.formats[tag] {
		p.logger.Debug("skipping file, type not in filter", "file", path, "type", tag)
		if tracker != nil {
			tracker.Skip(name)
		}
		return
	}

	opts := convert.Options{
		IncludeBase64: p.opts.IncludeBase64,
		MaxPackets:    p.opts.MaxPackets,
		Logger:        p.logger,
	}
	if tag == detect.TypeZip || tag == detect.TypeTar || tag == detect.TypeGzip {
		opts.RecursionDepth = convert.DefaultRecursionDepth
	}

	conv := convert.Resolve(tag)(opts)
	result, err := convert.Run(conv, path, p.logger)
	if err != nil {
		p.recordFailure(path, err)
		if tracker != nil {
			tracker.Fail(name, err)
		}
		return
	}

	outPath := filepath.Join(p.opts.OutputDir, stem(name)+".json")
	if !p.opts.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			// Neither a success nor a failure: the file vanishes from
			// both counters. Documented behavior, kept as-is.
			p.logger.Warn("output file exists, skipping", "output", outPath)
			if tracker != nil {
				tracker.Skip(name)
			}
			return
		}
	}

	if err := writeJSON(outPath, result); err != nil {
		p.recordFailure(path, err)
		if tracker != nil {
			tracker.Fail(name, err)
		}
		return
	}

	p.mu.Lock()
	p.converted = append(p.converted, result)
	p.mu.Unlock()

	if p.opts.Sink != nil {
		if err := p.opts.Sink.Write(result); err != nil {
			p.logger.Warn("sink write failed", "file", path, "error", err)
		}
	}

	p.logger.Info("converted", "source", name, "output", filepath.Base(outPath))
	if tracker != nil {
		tracker.Success(name)
	}
}

func (p *Processor) recordFailure(path string, err error) {
	p.logger.Error("failed to process file", "file", path, "error", err)
	p.mu.Lock()
	p.failed = append(p.failed, models.FailureRecord{File: path, Error: err.Error()})
	p.mu.Unlock()
}

// CreateMasterJSON combines all accumulated results into one
// document. Only meaningful after Run completes.
func (p *Processor) CreateMasterJSON(outputPath string) error {
	p.mu.Lock()
	master := models.MasterDocument{
		TotalFiles:     len(p.converted),
		ConvertedFiles: p.converted,
	}
	if len(p.failed) > 0 {
		master.FailedFiles = p.failed
	}
	p.mu.Unlock()

	if err := writeJSON(outputPath, master); err != nil {
		return fmt.Errorf("writing master document: %w", err)
	}
	p.logger.Info("created master document", "path", outputPath, "entries", master.TotalFiles)
	return nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
