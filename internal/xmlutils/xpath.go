package xmlutils

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
	"gopkg.in/xmlpath.v2"
)

// Parse reads an XML document, honouring the encoding declared in its prolog
// (ISO-8859-1 and Windows-1252 exports are common).
func Parse(r io.Reader) (*xmlpath.Node, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	root, err := xmlpath.ParseDecoder(d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Parse(file)
}

// Exists reports whether xpath matches anything under node.
func Exists(node *xmlpath.Node, xpath string) (bool, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return false, fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}
	return path.Exists(node), nil
}

// Nodes returns every node matched by xpath, in document order.
func Nodes(node *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}

	var nodes []*xmlpath.Node
	iter := path.Iter(node)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// Value returns the cleaned text of the first match, or "" when nothing
// matches or the expression is invalid.
func Value(node *xmlpath.Node, xpath string) string {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return ""
	}
	if s, ok := path.String(node); ok {
		return CleanText(s)
	}
	return ""
}

// FirstValue returns the first non-empty Value among the expressions.
func FirstValue(node *xmlpath.Node, xpaths ...string) string {
	for _, xp := range xpaths {
		if v := Value(node, xp); v != "" {
			return v
		}
	}
	return ""
}

// CleanText collapses runs of whitespace, including newlines and tabs.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
