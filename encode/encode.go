// Package encode prints an ir.Document back to KDL text under a Config.
// Output re-parses to a structurally equal tree unless the configuration
// asks for information loss (decimal radix, plain strings, null
// suppression).
package encode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

// ErrCannotSerialize reports a value shape the printer cannot represent.
// It is a programming error, deliberately distinct from parse errors.
var ErrCannotSerialize = errors.New("cannot serialize")

// Config controls printing.
type Config struct {
	// Indent is the per-depth indent string.
	Indent     string
	Semicolons bool
	// PrintNullArgs and PrintNullProps, when false, omit null arguments
	// and null-valued properties.
	PrintNullArgs  bool
	PrintNullProps bool
	// RespectRadix reprints hex/octal/binary literals in their radix;
	// off, everything is decimal.
	RespectRadix bool
	// RespectStringType reprints raw strings raw; off, all strings are
	// quoted.
	RespectStringType bool
	// Exponent is the exponent character for scientific notation, 'e'
	// or 'E'.
	Exponent byte
	// SortProperties emits properties in key order instead of
	// first-insertion order.
	SortProperties bool
}

// Defaults is the process-wide print configuration used when a call
// provides none. Read-mostly; mutate only during program setup.
var Defaults = &Config{
	Indent:            "\t",
	PrintNullArgs:     true,
	PrintNullProps:    true,
	RespectRadix:      true,
	RespectStringType: true,
	Exponent:          'e',
}

type encState struct {
	cfg    Config
	colors *Colors
}

type Option func(*encState)

// WithConfig replaces the whole configuration.
func WithConfig(c *Config) Option {
	return func(es *encState) { es.cfg = *c }
}

func Indent(s string) Option {
	return func(es *encState) { es.cfg.Indent = s }
}

func Semicolons(v bool) Option {
	return func(es *encState) { es.cfg.Semicolons = v }
}

func PrintNullArgs(v bool) Option {
	return func(es *encState) { es.cfg.PrintNullArgs = v }
}

func PrintNullProps(v bool) Option {
	return func(es *encState) { es.cfg.PrintNullProps = v }
}

func RespectRadix(v bool) Option {
	return func(es *encState) { es.cfg.RespectRadix = v }
}

func RespectStringType(v bool) Option {
	return func(es *encState) { es.cfg.RespectStringType = v }
}

func Exponent(c byte) Option {
	return func(es *encState) { es.cfg.Exponent = c }
}

func SortProperties(v bool) Option {
	return func(es *encState) { es.cfg.SortProperties = v }
}

// WithColors colorizes the output for terminals.
func WithColors(c *Colors) Option {
	return func(es *encState) { es.colors = c }
}

// Encode writes doc to w.
func Encode(doc *ir.Document, w io.Writer, opts ...Option) error {
	es := &encState{cfg: *Defaults}
	for _, opt := range opts {
		opt(es)
	}
	sw := &stickyWriter{w: w}
	for _, n := range doc.Nodes {
		if err := es.node(sw, n, 0); err != nil {
			return err
		}
	}
	return sw.err
}

// Print renders doc to a string.
func Print(doc *ir.Document, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Encode(doc, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (sw *stickyWriter) WriteString(s string) {
	if sw.err != nil {
		return
	}
	_, sw.err = io.WriteString(sw.w, s)
}

func (es *encState) color(attr ColorAttr, s string) string {
	if es.colors == nil {
		return s
	}
	return es.colors.Color(attr, s)
}

func (es *encState) node(w *stickyWriter, n *ir.Node, depth int) error {
	cfg := &es.cfg
	w.WriteString(strings.Repeat(cfg.Indent, depth))
	if n.Tag != nil {
		w.WriteString(es.color(TagColor, "("+printIdent(*n.Tag)+")"))
	}
	w.WriteString(es.color(NameColor, printIdent(n.Name)))

	for _, a := range n.Args {
		v, err := es.toValue(a)
		if err != nil {
			return err
		}
		if isNull(v) && !cfg.PrintNullArgs {
			continue
		}
		s, err := es.value(v)
		if err != nil {
			return err
		}
		w.WriteString(" " + s)
	}

	keys := n.Props.Keys()
	if cfg.SortProperties {
		keys = append([]string(nil), keys...)
		slices.Sort(keys)
	}
	for _, k := range keys {
		pv, _ := n.Props.Get(k)
		v, err := es.toValue(pv)
		if err != nil {
			return err
		}
		if isNull(v) && !cfg.PrintNullProps {
			continue
		}
		s, err := es.value(v)
		if err != nil {
			return err
		}
		w.WriteString(" " + es.color(PropColor, printIdent(k)) + "=" + s)
	}

	if len(n.Children) > 0 {
		w.WriteString(" {\n")
		for _, c := range n.Children {
			if err := es.node(w, c, depth+1); err != nil {
				return err
			}
		}
		w.WriteString(strings.Repeat(cfg.Indent, depth) + "}")
	}
	if cfg.Semicolons {
		w.WriteString(";")
	}
	w.WriteString("\n")
	return w.err
}

func isNull(v ir.Value) bool {
	_, ok := v.(*ir.Null)
	return ok
}

// value renders one already-adapted value, tag included.
func (es *encState) value(v ir.Value) (string, error) {
	cfg := &es.cfg
	tag := ""
	if t := ir.TagOf(v); t != nil {
		tag = es.color(TagColor, "("+printIdent(*t)+")")
	}
	switch x := v.(type) {
	case *ir.String:
		return tag + es.color(StringColor, token.QuoteString(x.Value)), nil
	case *ir.RawString:
		if !cfg.RespectStringType {
			return tag + es.color(StringColor, token.QuoteString(x.Value)), nil
		}
		hashes := strings.Repeat("#", token.RawStringHashes(x.Value))
		return tag + es.color(StringColor, "r"+hashes+`"`+x.Value+`"`+hashes), nil
	case *ir.Decimal:
		s, err := decimalString(x, cfg.Exponent)
		if err != nil {
			return "", err
		}
		return tag + es.color(NumberColor, s), nil
	case *ir.Hex:
		if !cfg.RespectRadix {
			return tag + es.color(NumberColor, x.Value.String()), nil
		}
		return tag + es.color(NumberColor, radixString(x.Value, "0x", 16, x.Digits)), nil
	case *ir.Octal:
		if !cfg.RespectRadix {
			return tag + es.color(NumberColor, x.Value.String()), nil
		}
		return tag + es.color(NumberColor, radixString(x.Value, "0o", 8, "")), nil
	case *ir.Binary:
		if !cfg.RespectRadix {
			return tag + es.color(NumberColor, x.Value.String()), nil
		}
		return tag + es.color(NumberColor, radixString(x.Value, "0b", 2, "")), nil
	case *ir.Bool:
		if x.Value {
			return tag + es.color(KeywordColor, "true"), nil
		}
		return tag + es.color(KeywordColor, "false"), nil
	case *ir.Null:
		return tag + es.color(KeywordColor, "null"), nil
	case *ir.ExactValue:
		return tag + x.Chars, nil
	}
	return "", fmt.Errorf("%w: unexpected value %T", ErrCannotSerialize, v)
}

func radixString(v *big.Int, prefix string, base int, digits string) string {
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}
	if digits == "" {
		digits = new(big.Int).Abs(v).Text(base)
	}
	return sign + prefix + digits
}

func decimalString(d *ir.Decimal, expChar byte) (string, error) {
	var mantissa string
	if d.IsFloat {
		mantissa = floatString(d.Float)
		if mantissa == "" {
			return "", fmt.Errorf("%w: non-finite float %v", ErrCannotSerialize, d.Float)
		}
	} else {
		mantissa = d.Int.String()
	}
	if d.Exponent == 0 {
		return mantissa, nil
	}
	s := mantissa + string(expChar)
	if d.Exponent > 0 {
		s += "+"
	}
	return s + strconv.FormatInt(d.Exponent, 10), nil
}

// floatString renders a float mantissa so it re-parses as a float:
// always a decimal point, never its own exponent. Returns "" for
// non-finite values.
func floatString(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func printIdent(s string) string {
	if token.IsBareIdent(s) {
		return s
	}
	return token.QuoteString(s)
}
