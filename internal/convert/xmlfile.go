package convert

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// XMLNode is the JSON-friendly representation of one XML element.
// Text is null when empty; Tail holds trailing mixed content that
// follows the element's closing tag.
type XMLNode struct {
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes"`
	Text       *string           `json:"text"`
	Children   []*XMLNode        `json:"children,omitempty"`
	Tail       *string           `json:"tail,omitempty"`

	text strings.Builder
	tail strings.Builder
}

// XMLConverter parses an XML document into a recursive node tree.
type XMLConverter struct {
	opts Options
}

func NewXML(opts Options) Converter {
	return &XMLConverter{opts: opts.withDefaults()}
}

func (c *XMLConverter) ExtractData(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	var root *XMLNode
	var stack []*XMLNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &XMLNode{
				Tag:        qualifiedName(t.Name),
				Attributes: make(map[string]string),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.Attributes[qualifiedName(a.Name)] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrInvalidInput)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			// Text after a closed child belongs to that child's tail.
			if len(cur.Children) > 0 {
				cur.Children[len(cur.Children)-1].tail.Write(t)
			} else {
				cur.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidInput)
	}
	finalizeNode(root)
	return root, nil
}

// finalizeNode trims accumulated character data, nulling empty text.
func finalizeNode(n *XMLNode) {
	if s := strings.TrimSpace(n.text.String()); s != "" {
		n.Text = &s
	}
	if s := strings.TrimSpace(n.tail.String()); s != "" {
		n.Tail = &s
	}
	for _, child := range n.Children {
		finalizeNode(child)
	}
}

// qualifiedName renders a namespaced XML name as {namespace}local.
func qualifiedName(name xml.Name) string {
	if name.Space != "" {
		return "{" + name.Space + "}" + name.Local
	}
	return name.Local
}
