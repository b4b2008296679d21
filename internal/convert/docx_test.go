package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docxBodyXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
    <w:p/>
    <w:p><w:r><w:t>Body </w:t></w:r><w:r><w:t>text</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, documentXML string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDocxExtract(t *testing.T) {
	path := buildDocx(t, docxBodyXML)

	data, err := NewDocx(Options{}).ExtractData(path)
	require.NoError(t, err)

	result := data.(map[string]any)
	assert.Equal(t, 2, result["paragraph_count"])

	paragraphs := result["paragraphs"].([]DocxParagraph)
	require.Len(t, paragraphs, 2)

	assert.Equal(t, 1, paragraphs[0].ParagraphNumber)
	assert.Equal(t, "Title", paragraphs[0].Text)
	assert.Equal(t, "Heading1", paragraphs[0].Style)

	// Empty paragraphs are counted for numbering but not emitted.
	assert.Equal(t, 3, paragraphs[1].ParagraphNumber)
	assert.Equal(t, "Body text", paragraphs[1].Text)
	assert.Equal(t, "Normal", paragraphs[1].Style)
}

func TestDocxMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "odd.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err = NewDocx(Options{}).ExtractData(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDocxNotAZip(t *testing.T) {
	path := writeTempFile(t, "fake.docx", []byte("plain text"))

	_, err := NewDocx(Options{}).ExtractData(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
