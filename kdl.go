// Package kdl parses and prints documents in the KDL document language,
// version 1.0.0.
//
// The document tree lives in package ir, the parser in package parse, and
// the printer in package encode; this package ties them together behind
// the surface most callers want:
//
//	doc, err := kdl.ParseString(`node_name "arg" { child foo=1 }`)
//	...
//	out, err := doc.Print()
package kdl

import (
	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
	"github.com/kdl-format/go-kdl/token"
)

// Convenience aliases so simple uses need only this package.
type (
	Node        = ir.Node
	Value       = ir.Value
	ParseError  = token.ParseError
	ParseConfig = parse.Config
	PrintConfig = encode.Config
)

var (
	ErrParse           = token.ErrParse
	ErrNotFound        = ir.ErrNotFound
	ErrCannotSerialize = encode.ErrCannotSerialize
)

// Document pairs a parsed tree with the print configuration attached to
// it, if any.
type Document struct {
	*ir.Document
	PrintConfig *encode.Config
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Document: &ir.Document{}}
}

// Parse reads a KDL document with the process-wide parse defaults, unless
// options override them.
func Parse(src []byte, opts ...parse.Option) (*Document, error) {
	d, err := parse.Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return &Document{Document: d}, nil
}

// ParseString is Parse for string input.
func ParseString(src string, opts ...parse.Option) (*Document, error) {
	d, err := parse.ParseString(src, opts...)
	if err != nil {
		return nil, err
	}
	return &Document{Document: d}, nil
}

// Print renders the document using its attached print configuration (or
// the process-wide defaults), with opts applied on top.
func (d *Document) Print(opts ...encode.Option) (string, error) {
	return encode.Print(d.Document, d.printOpts(opts)...)
}

func (d *Document) printOpts(opts []encode.Option) []encode.Option {
	if d.PrintConfig == nil {
		return opts
	}
	return append([]encode.Option{encode.WithConfig(d.PrintConfig)}, opts...)
}

// String implements fmt.Stringer; serialization failures surface in the
// output text since Stringer has no error channel.
func (d *Document) String() string {
	s, err := d.Print()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Parser carries explicit parse and print configuration, preferred over
// mutating the package-level defaults.
type Parser struct {
	ParseConfig *parse.Config
	PrintConfig *encode.Config
}

// Parse reads a document under the parser's configuration and stamps the
// parser's print configuration on the result.
func (p *Parser) Parse(src []byte, opts ...parse.Option) (*Document, error) {
	if p.ParseConfig != nil {
		opts = append([]parse.Option{parse.WithConfig(p.ParseConfig)}, opts...)
	}
	d, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	d.PrintConfig = p.PrintConfig
	return d, nil
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(src string, opts ...parse.Option) (*Document, error) {
	return p.Parse([]byte(src), opts...)
}

// Print renders doc under the parser's print configuration; the
// document's own attached configuration wins if present.
func (p *Parser) Print(doc *Document, opts ...encode.Option) (string, error) {
	if doc.PrintConfig == nil && p.PrintConfig != nil {
		opts = append([]encode.Option{encode.WithConfig(p.PrintConfig)}, opts...)
		return encode.Print(doc.Document, opts...)
	}
	return doc.Print(opts...)
}
