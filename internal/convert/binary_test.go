package convert

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryNoPreviewByDefault(t *testing.T) {
	path := writeTempFile(t, "blob.bin", []byte{0x00, 0x01, 0x02})

	data, err := NewBinary(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, "unknown", result["binary_type"])
	assert.Equal(t, int64(3), result["size"])
	assert.Equal(t, false, result["has_preview"])
	assert.NotContains(t, result, "base64_preview")
}

func TestBinaryPreviewWhenRequested(t *testing.T) {
	content := []byte{0xde, 0xad, 0xbe, 0xef}
	path := writeTempFile(t, "blob.bin", content)

	data, err := NewBinary(Options{IncludeBase64: true}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, true, result["has_preview"])
	decoded, err := base64.StdEncoding.DecodeString(result["base64_preview"].(string))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestBinaryPreviewRespectsSizeCeiling(t *testing.T) {
	path := writeTempFile(t, "blob.bin", make([]byte, 64))

	data, err := NewBinary(Options{IncludeBase64: true, Base64Limit: 16}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, false, result["has_preview"])
	assert.NotContains(t, result, "base64_preview")
}
