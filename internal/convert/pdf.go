package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFConverter extracts per-page text. The layout-aware strategy is
// preferred; the simpler plain-text strategy is the fallback. Both
// produce the same output shape.
type PDFConverter struct {
	opts Options
}

func NewPDF(opts Options) Converter {
	return &PDFConverter{opts: opts.withDefaults()}
}

// PDFPage is one 1-indexed page of extracted text.
type PDFPage struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

func (c *PDFConverter) ExtractData(path string) (any, error) {
	pages, err := c.extractLayout(path)
	method := "layout"
	if err != nil {
		c.opts.Logger.Debug("layout extraction failed, falling back", "file", path, "error", err)
		pages, err = c.extractPlainText(path)
		method = "plaintext"
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return map[string]any{
		"page_count":        len(pages),
		"pages":             pages,
		"extraction_method": method,
	}, nil
}

// extractLayout reassembles text from positioned fragments, grouping
// by vertical position so reading order survives columns and tables.
func (c *PDFConverter) extractLayout(path string) (pages []PDFPage, err error) {
	// The reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, PDFPage{PageNumber: i})
			continue
		}

		texts := p.Content().Text
		sort.SliceStable(texts, func(a, b int) bool {
			if texts[a].Y != texts[b].Y {
				return texts[a].Y > texts[b].Y
			}
			return texts[a].X < texts[b].X
		})

		var sb strings.Builder
		lastY := -1.0
		for _, t := range texts {
			if lastY >= 0 && t.Y != lastY {
				sb.WriteByte('\n')
			}
			sb.WriteString(t.S)
			lastY = t.Y
		}

		pages = append(pages, PDFPage{
			PageNumber: i,
			Text:       strings.TrimSpace(sb.String()),
		})
	}
	return pages, nil
}

func (c *PDFConverter) extractPlainText(path string) (pages []PDFPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, PDFPage{PageNumber: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			c.opts.Logger.Warn("error extracting page text", "file", path, "page", i, "error", err)
			text = ""
		}
		pages = append(pages, PDFPage{
			PageNumber: i,
			Text:       strings.TrimSpace(text),
		})
	}
	return pages, nil
}
