package processor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonxyz/convertctl/internal/models"
)

func writeInput(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRunMixedSuccessAndFailure(t *testing.T) {
	inputDir := t.TempDir()
	writeInput(t, inputDir, "good.json", []byte(`{"k": 1}`))
	// Binary garbage with a .json extension: detected as json, fails to parse.
	writeInput(t, inputDir, "bad.json", []byte{0x00, 0xff, 0xfe, 0x01})

	p := New(Options{OutputDir: t.TempDir(), Overwrite: true})
	counts, err := p.Run(context.Background(), inputDir)
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Successful)
	assert.Equal(t, 1, counts.Failed)

	failures := p.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].File, "bad.json")
	assert.NotEmpty(t, failures[0].Error)
}

func TestRunFormatFilter(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "b.json", []byte(`{"k": 1}`))
	writeInput(t, inputDir, "c.txt", []byte("hello\n"))

	p := New(Options{OutputDir: outputDir, Overwrite: true, Formats: []string{"json"}})
	counts, err := p.Run(context.Background(), inputDir)
	require.NoError(t, err)

	// Filtered-out files are skipped, not failed.
	assert.Equal(t, 1, counts.Successful)
	assert.Equal(t, 0, counts.Failed)

	assert.FileExists(t, filepath.Join(outputDir, "b.json"))
	assert.NoFileExists(t, filepath.Join(outputDir, "c.json"))
}

func TestRunEndToEndWithMaster(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "a.csv", []byte("x,y\n1,2\n"))
	writeInput(t, inputDir, "b.json", []byte(`{"k": 1}`))
	writeInput(t, inputDir, "c.txt", []byte("hello\n"))

	p := New(Options{OutputDir: outputDir, Overwrite: true, Workers: 2})
	counts, err := p.Run(context.Background(), inputDir)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Successful)
	assert.Equal(t, 0, counts.Failed)

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		raw, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		var res models.ConversionResult
		require.NoError(t, json.Unmarshal(raw, &res), name)
		assert.NotEmpty(t, res.DetectedType, name)
		assert.NotEmpty(t, res.Metadata.SHA256, name)
	}

	masterPath := filepath.Join(outputDir, "master.json")
	require.NoError(t, p.CreateMasterJSON(masterPath))

	raw, err := os.ReadFile(masterPath)
	require.NoError(t, err)
	var master models.MasterDocument
	require.NoError(t, json.Unmarshal(raw, &master))
	assert.Equal(t, 3, master.TotalFiles)
	assert.Len(t, master.ConvertedFiles, 3)
	assert.Nil(t, master.FailedFiles)
}

func TestRunSingleFileInput(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	path := writeInput(t, inputDir, "only.json", []byte(`{"k": 1}`))

	p := New(Options{OutputDir: outputDir, Overwrite: true})
	counts, err := p.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Counts{Successful: 1}, counts)
	assert.FileExists(t, filepath.Join(outputDir, "only.json"))
}

func TestRunEmptyDirectory(t *testing.T) {
	p := New(Options{OutputDir: t.TempDir()})
	counts, err := p.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestRunMissingInput(t *testing.T) {
	p := New(Options{OutputDir: t.TempDir()})
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither file nor directory")
}

func TestRunExistingOutputSkippedWithoutOverwrite(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "a.json", []byte(`{"k": 1}`))
	existing := filepath.Join(outputDir, "a.json")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	p := New(Options{OutputDir: outputDir})
	counts, err := p.Run(context.Background(), inputDir)
	require.NoError(t, err)

	// Skipped files land in neither counter.
	assert.Equal(t, Counts{}, counts)

	raw, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old", string(raw))
}

func TestRunIDIsStable(t *testing.T) {
	p := New(Options{RunID: "fixed-id"})
	assert.Equal(t, "fixed-id", p.RunID())

	generated := New(Options{})
	assert.NotEmpty(t, generated.RunID())
}
