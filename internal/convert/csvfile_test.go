package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestCSVExtract(t *testing.T) {
	path := writeTempFile(t, "data.csv", []byte("name,value\nitem1,10\nitem2,20\n"))

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, []string{"name", "value"}, result["column_names"])
	assert.Equal(t, 2, result["row_count"])

	rows := result["rows"].([]map[string]string)
	require.Len(t, rows, 2)
	assert.Equal(t, "item1", rows[0]["name"])
	assert.Equal(t, "20", rows[1]["value"])
}

func TestCSVHeaderOnly(t *testing.T) {
	path := writeTempFile(t, "empty.csv", []byte("a,b,c\n"))

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, 0, result["row_count"])
	assert.Empty(t, result["rows"])
}

func TestCSVSniffsSemicolonDelimiter(t *testing.T) {
	path := writeTempFile(t, "semi.csv", []byte("a;b\n1;2\n"))

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, []string{"a", "b"}, result["column_names"])
	rows := result["rows"].([]map[string]string)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0]["b"])
}

func TestCSVSniffsTabDelimiter(t *testing.T) {
	path := writeTempFile(t, "tabs.csv", []byte("a\tb\n1\t2\n"))

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, []string{"a", "b"}, result["column_names"])
}

func TestCSVShortRowsPadded(t *testing.T) {
	path := writeTempFile(t, "ragged.csv", []byte("a,b,c\n1,2\n"))

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)

	rows := data.(map[string]any)["rows"].([]map[string]string)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["c"])
}

func TestCSVEmptyFile(t *testing.T) {
	path := writeTempFile(t, "zero.csv", nil)

	data, err := NewCSV(Options{}).ExtractData(path)
	require.NoError(t, err)
	assert.Equal(t, 0, data.(map[string]any)["row_count"])
}
