// Package xml provides the hardened XML plumbing shared by the XML format
// providers: a pull decoder, shallow root sniffing, and xmlquery-backed
// XPath inspection.
//
// Security Notes:
//   - Go's xml.Decoder never resolves external entities and reports DOCTYPE
//     declarations as opaque directives, so internal subsets are never
//     expanded. Every decoder built here additionally restricts entity
//     expansion to the fixed HTML entity table.
//   - The xmlquery library is used for DOM parsing, which uses Go's
//     encoding/xml internally and inherits its security properties.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html/charset"
)

// SniffLimit bounds how many bytes SniffRoot will read.
const SniffLimit = 64 << 10

// NewDecoder returns a non-validating decoder over r. Legacy encodings
// declared in the prolog (ISO-8859-1, windows-1252, ...) are transcoded to
// UTF-8, unknown entities are passed through as text, and no DTD or external
// entity is ever resolved.
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// SniffRoot returns the lower-cased local name of the first start element in
// r. It reads at most SniffLimit bytes and stops as soon as the element is seen.
func SniffRoot(r io.Reader) (string, error) {
	d := NewDecoder(io.LimitReader(r, SniffLimit))
	for {
		tok, err := d.RawToken()
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("no root element found")
			}
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return strings.ToLower(se.Name.Local), nil
		}
	}
}

// Attr returns the value of the first attribute whose local name matches one
// of names case-insensitively.
func Attr(se xml.StartElement, names ...string) (string, bool) {
	for _, a := range se.Attr {
		for _, n := range names {
			if strings.EqualFold(a.Name.Local, n) {
				return a.Value, true
			}
		}
	}
	return "", false
}

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML element.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Line   int
	Column int
	Error  string
}

func decoderOptions() *xmlquery.DecoderOptions {
	return &xmlquery.DecoderOptions{
		Strict:        false,
		Entity:        xml.HTMLEntity,
		CharsetReader: charset.NewReaderLabel,
	}
}

// Parse parses a whole XML document into memory.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.ParseWithOptions(r, xmlquery.ParserOptions{Decoder: decoderOptions()})
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseBytes parses data into a Document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Validate checks data for well-formedness with the hardened decoder.
func Validate(data []byte) ValidationResult {
	d := NewDecoder(bytes.NewReader(data))
	d.Strict = true
	for {
		_, err := d.Token()
		if err == io.EOF {
			return ValidationResult{Valid: true}
		}
		if err != nil {
			line, col := d.InputPos()
			return ValidationResult{Line: line, Column: col, Error: err.Error()}
		}
	}
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes := xmlquery.QuerySelectorAll(d.root, compiled)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first match, or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	n := xmlquery.QuerySelector(d.root, compiled)
	if n == nil {
		return nil, nil
	}
	return &Node{node: n}, nil
}

// Name returns the element's local name.
func (n *Node) Name() string {
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	return n.node.InnerText()
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	return n.node.SelectAttr(name)
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// OutputXML renders the node including its own tag.
func (n *Node) OutputXML() string {
	return n.node.OutputXML(true)
}
