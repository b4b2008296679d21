package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxConverter extracts non-empty paragraphs, in order, with their
// style name from a Word document's main part.
type DocxConverter struct {
	opts Options
}

func NewDocx(opts Options) Converter {
	return &DocxConverter{opts: opts.withDefaults()}
}

// DocxParagraph is one non-empty paragraph. ParagraphNumber counts
// all paragraphs in the document, including empty ones.
type DocxParagraph struct {
	ParagraphNumber int    `json:"paragraph_number"`
	Text            string `json:"text"`
	Style           string `json:"style"`
}

func (c *DocxConverter) ExtractData(path string) (any, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no word/document.xml part", ErrInvalidInput)
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	paragraphs, err := parseDocumentXML(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return map[string]any{
		"paragraph_count": len(paragraphs),
		"paragraphs":      paragraphs,
	}, nil
}

// parseDocumentXML walks w:p elements, collecting w:t runs and the
// w:pStyle value of each paragraph.
func parseDocumentXML(r io.Reader) ([]DocxParagraph, error) {
	dec := xml.NewDecoder(r)

	paragraphs := []DocxParagraph{}
	paraNum := 0
	inParagraph := false
	style := ""
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				paraNum++
				inParagraph = true
				style = ""
				text.Reset()
			case "pStyle":
				for _, a := range t.Attr {
					if a.Name.Local == "val" {
						style = a.Value
					}
				}
			case "t":
				if inParagraph {
					var run string
					if err := dec.DecodeElement(&run, &t); err != nil {
						return nil, err
					}
					text.WriteString(run)
				}
			case "tab":
				if inParagraph {
					text.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					text.WriteByte('\n')
				}
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				trimmed := strings.TrimSpace(text.String())
				if trimmed == "" {
					continue
				}
				if style == "" {
					style = "Normal"
				}
				paragraphs = append(paragraphs, DocxParagraph{
					ParagraphNumber: paraNum,
					Text:            trimmed,
					Style:           style,
				})
			}
		}
	}

	return paragraphs, nil
}
