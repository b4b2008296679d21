package convert

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"time"
)

var (
	iso8601Pattern = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`)
	epochPattern = regexp.MustCompile(`\b\d{10}(?:\.\d+)?\b`)
)

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05.999999",
}

// TextLine is one 1-indexed line of a text or log file.
type TextLine struct {
	LineNumber      int            `json:"line_number"`
	Text            string         `json:"text"`
	Timestamp       map[string]any `json:"timestamp,omitempty"`
	TimestampFormat string         `json:"timestamp_format,omitempty"`
}

// TextConverter splits text files into lines with best-effort
// timestamp extraction per line.
type TextConverter struct {
	opts Options
}

func NewText(opts Options) Converter {
	return &TextConverter{opts: opts.withDefaults()}
}

func (c *TextConverter) ExtractData(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := []TextLine{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := TextLine{
			LineNumber: lineNum,
			Text:       scanner.Text(),
		}
		if ts := extractTimestamp(line.Text); ts != nil {
			line.Timestamp = ts
			line.TimestampFormat, _ = ts["format"].(string)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return map[string]any{
		"line_count": len(lines),
		"lines":      lines,
	}, nil
}

// extractTimestamp tries the ISO8601-like pattern first, then a bare
// epoch-seconds pattern. A matched substring that fails to parse is
// treated as no timestamp.
func extractTimestamp(text string) map[string]any {
	if raw := iso8601Pattern.FindString(text); raw != "" {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return map[string]any{
					"value":  t.Format(time.RFC3339),
					"raw":    raw,
					"format": "iso8601",
				}
			}
		}
	}

	if raw := epochPattern.FindString(text); raw != "" {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil {
			t := time.Unix(int64(secs), 0)
			return map[string]any{
				"value":  t.Format(time.RFC3339),
				"raw":    raw,
				"format": "epoch",
			}
		}
	}

	return nil
}
