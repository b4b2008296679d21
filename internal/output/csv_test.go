package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonxyz/convertctl/internal/models"
)

func sampleResult(name string) *models.ConversionResult {
	return &models.ConversionResult{
		SourceFilename: name,
		SourcePath:     "/data/" + name,
		DetectedType:   "json",
		Mimetype:       "application/json",
		ConvertedAt:    "2026-08-25T10:00:00Z",
		Metadata: models.FileMetadata{
			Size:   42,
			SHA256: "abc123",
		},
		Data: map[string]any{"k": 1},
	}
}

func TestCSVWriterIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleResult("a.json")))
	require.NoError(t, w.Write(sampleResult("b.json")))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"source_filename", "source_path", "detected_type", "mimetype",
		"converted_at", "size", "sha256",
	}, rows[0])
	assert.Equal(t, "a.json", rows[1][0])
	assert.Equal(t, "/data/a.json", rows[1][1])
	assert.Equal(t, "42", rows[1][5])
	assert.Equal(t, "abc123", rows[1][6])
	assert.Equal(t, "b.json", rows[2][0])
}

func TestMultiWriterFansOut(t *testing.T) {
	dir := t.TempDir()
	a, err := NewCSVWriter(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	b, err := NewCSVWriter(filepath.Join(dir, "b.csv"))
	require.NoError(t, err)

	mw := NewMultiWriter(a, b)
	require.NoError(t, mw.Write(sampleResult("x.json")))
	require.NoError(t, mw.Close())

	for _, name := range []string{"a.csv", "b.csv"} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		require.NoError(t, err)
		assert.Len(t, rows, 2, name)
	}
}
