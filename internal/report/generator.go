package report

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/plonxyz/convertctl/internal/models"
)

//go:embed report_template.html
var templateFS embed.FS

// HostInfo is the machine the run executed on, for provenance.
type HostInfo struct {
	Hostname      string
	Platform      string
	KernelVersion string
	Architecture  string
}

// ReportData is the full data model passed to the HTML template
type ReportData struct {
	RunID       string
	GeneratedAt string
	Duration    string
	Host        HostInfo

	TotalConverted int
	TotalFailed    int

	TypeStats []TypeStat
	Failures  []models.FailureRecord
}

// GenerateHTMLReport creates an HTML report from one run's results
func GenerateHTMLReport(
	outputPath string,
	runID string,
	startedAt time.Time,
	results []*models.ConversionResult,
	failures []models.FailureRecord,
	logger *slog.Logger,
) error {
	tmplData, err := templateFS.ReadFile("report_template.html")
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	tmpl, err := template.New("report").Parse(string(tmplData))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	duration := ""
	if !startedAt.IsZero() {
		duration = time.Since(startedAt).Round(time.Millisecond).String()
	}

	data := ReportData{
		RunID:          runID,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Duration:       duration,
		Host:           hostInfo(logger),
		TotalConverted: len(results),
		TotalFailed:    len(failures),
		TypeStats:      Summarize(results),
		Failures:       failures,
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func hostInfo(logger *slog.Logger) HostInfo {
	info, err := host.Info()
	if err != nil {
		if logger != nil {
			logger.Warn("could not read host info", "error", err)
		}
		return HostInfo{}
	}
	return HostInfo{
		Hostname:      info.Hostname,
		Platform:      info.Platform + " " + info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Architecture:  info.KernelArch,
	}
}
