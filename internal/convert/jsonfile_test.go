package convert

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":   "test",
		"count":  float64(3),
		"nested": map[string]any{"ok": true},
		"items":  []any{"a", "b"},
	}
	raw, err := json.Marshal(original)
	require.NoError(t, err)
	path := writeTempFile(t, "data.json", raw)

	data, err := NewJSON(Options{}).ExtractData(path)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestJSONInvalid(t *testing.T) {
	path := writeTempFile(t, "broken.json", []byte(`{"unterminated": `))

	_, err := NewJSON(Options{}).ExtractData(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestJSONTopLevelArray(t *testing.T) {
	path := writeTempFile(t, "list.json", []byte(`[1, 2, 3]`))

	data, err := NewJSON(Options{}).ExtractData(path)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, data)
}
