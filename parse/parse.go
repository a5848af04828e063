// Package parse converts KDL text into an ir.Document. The grammar is
// handled by recursive descent with one character of lookahead; lexical
// primitives live in package token.
package parse

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

// Parse reads a complete KDL document. The first error aborts the parse.
func Parse(src []byte, opts ...Option) (*ir.Document, error) {
	return parseSource(token.NewSource(src), opts...)
}

// ParseString is Parse for string input.
func ParseString(src string, opts ...Option) (*ir.Document, error) {
	return parseSource(token.NewSourceString(src), opts...)
}

func parseSource(s *token.Source, opts ...Option) (*ir.Document, error) {
	cfg := *Defaults
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &parser{s: s, cfg: &cfg}
	doc := &ir.Document{}
	i, err := p.linespace(0)
	if err != nil {
		return nil, err
	}
	for !s.EOF(i) {
		n, next, ok, err := p.node(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, token.Errf(s, i, "expected a node")
		}
		if n != nil {
			doc.Nodes = append(doc.Nodes, n)
		}
		i, err = p.linespace(next)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type parser struct {
	s   *token.Source
	cfg *Config
}

// node parses one node. A slash-dashed node parses to completion and
// comes back as (nil, next, true, nil).
func (p *parser) node(start int) (*ir.Node, int, bool, error) {
	i := start
	sd, i, err := p.slashdash(i)
	if err != nil {
		return nil, start, false, err
	}

	tag, i, hasTag, err := p.tag(i)
	if err != nil {
		return nil, start, false, err
	}
	if hasTag {
		if i, err = p.whitespace(i); err != nil {
			return nil, start, false, err
		}
	}

	name, i, ok, err := p.ident(i)
	if err != nil {
		return nil, start, false, err
	}
	if !ok {
		return nil, start, false, nil
	}
	nameEnd := i

	n := ir.NewNode(name)
	if hasTag {
		n.Tag = &tag
	}

	for {
		j, err := p.nodespace(i)
		if err != nil {
			return nil, start, false, err
		}
		if j == i {
			break
		}
		i = j
		key, val, next, ok, err := p.entity(i)
		if err != nil {
			return nil, start, false, err
		}
		if !ok {
			break
		}
		i = next
		if val == nil {
			// slash-dashed entity, parsed and discarded
			continue
		}
		if key == nil {
			n.AddArg(val)
		} else {
			n.SetProp(*key, val)
		}
	}

	children, i, hasChildren, err := p.children(i)
	if err != nil {
		return nil, start, false, err
	}
	if hasChildren {
		n.Children = children
	}

	if i, err = p.nodespace(i); err != nil {
		return nil, start, false, err
	}
	if i, err = p.terminator(i); err != nil {
		return nil, start, false, err
	}

	if sd {
		return nil, i, true, nil
	}
	for _, c := range p.cfg.NodeConverters {
		if !n.MatchesKey(c.Match) {
			continue
		}
		repl, applied, err := c.Fn(n, &Fragment{src: p.s, start: start, end: nameEnd})
		if err != nil {
			return nil, start, false, err
		}
		if applied {
			return repl, i, true, nil
		}
	}
	return n, i, true, nil
}

// children parses an optional `{…}` block, slash-dash aware: a discarded
// block reports hasChildren=true with a nil node list.
func (p *parser) children(start int) ([]*ir.Node, int, bool, error) {
	sd, i, err := p.slashdash(start)
	if err != nil {
		return nil, start, false, err
	}
	if p.s.Byte(i) != '{' {
		return nil, start, false, nil
	}
	i++
	var nodes []*ir.Node
	for {
		if i, err = p.linespace(i); err != nil {
			return nil, start, false, err
		}
		n, next, ok, err := p.node(i)
		if err != nil {
			return nil, start, false, err
		}
		if !ok {
			break
		}
		i = next
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	if i, err = p.linespace(i); err != nil {
		return nil, start, false, err
	}
	if p.s.EOF(i) {
		return nil, start, false, token.Errf(p.s, start, "hit EOF while searching for end of child list")
	}
	if p.s.Byte(i) != '}' {
		return nil, start, false, token.Errf(p.s, i, "junk between end of child list and closing }")
	}
	i++
	if sd {
		return nil, i, true, nil
	}
	return nodes, i, true, nil
}

// entity parses one prop-or-arg. key is nil for an argument; val is nil
// when the entity was slash-dashed away.
func (p *parser) entity(start int) (*string, ir.Value, int, bool, error) {
	sd, i, err := p.slashdash(start)
	if err != nil {
		return nil, nil, start, false, err
	}

	key, val, next, ok, err := p.property(i)
	if err != nil {
		return nil, nil, start, false, err
	}
	if !ok {
		val, next, ok, err = p.value(i)
		if err != nil {
			return nil, nil, start, false, err
		}
		if !ok {
			return nil, nil, start, false, nil
		}
		key = nil
	}
	if sd {
		return nil, nil, next, true, nil
	}
	return key, val, next, true, nil
}

func (p *parser) property(start int) (*string, ir.Value, int, bool, error) {
	key, i, ok, err := p.ident(start)
	if err != nil {
		return nil, nil, start, false, err
	}
	if !ok {
		// a reserved keyword makes a fine value but never a key;
		// catch `true=1` here for a targeted message
		j := start
		for {
			r, w := p.s.Rune(j)
			if !token.IsIdentChar(r) {
				break
			}
			j += w
		}
		if word := p.s.Slice(start, j); token.IsKeyword(word) && p.s.Byte(j) == '=' {
			return nil, nil, start, false, token.Errf(p.s, start, "reserved keyword %q cannot be a property key", word)
		}
		return nil, nil, start, false, nil
	}
	if p.s.Byte(i) != '=' {
		// the ident may still be a legal value; not point-of-no-return
		return nil, nil, start, false, nil
	}
	val, next, ok, err := p.value(i + 1)
	if err != nil {
		return nil, nil, start, false, err
	}
	if !ok {
		return nil, nil, start, false, token.Errf(p.s, i+1, "expected value after prop=")
	}
	return &key, val, next, true, nil
}

func (p *parser) value(start int) (ir.Value, int, bool, error) {
	tag, i, hasTag, err := p.tag(start)
	if err != nil {
		return nil, start, false, err
	}
	if hasTag {
		if i, err = p.whitespace(i); err != nil {
			return nil, start, false, err
		}
	}

	valueStart := i
	val, i, ok, err := p.number(i)
	if err != nil {
		return nil, start, false, err
	}
	if !ok {
		val, i, ok = p.keyword(i)
	}
	if !ok {
		val, i, ok, err = p.stringValue(i)
		if err != nil {
			return nil, start, false, err
		}
	}
	if ok {
		out, err := p.convertValue(val, tag, hasTag, valueStart, i)
		if err != nil {
			return nil, start, false, err
		}
		return out, i, true, nil
	}

	if p.s.Byte(i) == '\'' {
		return nil, start, false, token.Errf(p.s, i, "KDL strings use double-quotes")
	}
	if bare, _, ok := token.ScanBareIdent(p.s, i); ok && token.IsKeyword(strings.ToLower(bare)) {
		return nil, start, false, token.Errf(p.s, i, "KDL keywords are lower-case")
	}
	if hasTag {
		return nil, start, false, token.Errf(p.s, i, "found a tag, but no value following it")
	}
	return nil, start, false, nil
}

// convertValue runs the conversion pipeline on a freshly built literal:
// user hooks first, then the reserved tag table, then the untagged native
// lowering.
func (p *parser) convertValue(val ir.Value, tag string, hasTag bool, valueStart, end int) (ir.Value, error) {
	if !hasTag {
		if p.cfg.NativeUntaggedValues {
			return nativeUntagged(val), nil
		}
		return val, nil
	}
	ir.SetTag(val, &tag)
	frag := &Fragment{src: p.s, start: valueStart, end: end}
	for _, c := range p.cfg.ValueConverters {
		if !ir.ValueMatches(val, c.Match) {
			continue
		}
		repl, applied, err := c.Fn(val, frag)
		if err != nil {
			return nil, err
		}
		if !applied {
			continue
		}
		if v, ok := repl.(ir.Value); ok {
			return v, nil
		}
		return &ir.Native{Val: repl, Tag: &tag}, nil
	}
	if p.cfg.NativeTaggedValues {
		return toNative(val, frag)
	}
	return val, nil
}

func (p *parser) tag(start int) (string, int, bool, error) {
	if p.s.Byte(start) != '(' {
		return "", start, false, nil
	}
	i, err := p.whitespace(start + 1)
	if err != nil {
		return "", start, false, err
	}
	tag, i, ok, err := p.ident(i)
	if err != nil {
		return "", start, false, err
	}
	if !ok {
		return "", start, false, nil
	}
	if i, err = p.whitespace(i); err != nil {
		return "", start, false, err
	}
	if p.s.Byte(i) != ')' {
		return "", start, false, token.Errf(p.s, i, "junk between tag ident and closing paren")
	}
	return tag, i + 1, true, nil
}

// ident parses a node name, tag, or property key: a quoted or raw string,
// or a bare identifier.
func (p *parser) ident(start int) (string, int, bool, error) {
	str, i, ok, err := p.stringValue(start)
	if err != nil {
		return "", start, false, err
	}
	if ok {
		return str.(ir.Stringish).StringValue(), i, true, nil
	}
	s, i, ok := token.ScanBareIdent(p.s, start)
	return s, i, ok, nil
}

func (p *parser) stringValue(start int) (ir.Value, int, bool, error) {
	if p.s.Byte(start) == '"' {
		v, end, err := token.ScanEscapedString(p.s, start)
		if err != nil {
			return nil, start, false, err
		}
		return &ir.String{Value: v}, end, true, nil
	}
	v, hashes, end, ok, err := token.ScanRawString(p.s, start)
	if err != nil {
		return nil, start, false, err
	}
	if !ok {
		return nil, start, false, nil
	}
	return &ir.RawString{Value: v, Hashes: hashes}, end, true, nil
}

func (p *parser) keyword(start int) (ir.Value, int, bool) {
	s := p.s
	boundary := func(end int) bool {
		r, _ := s.Rune(end)
		return !token.IsIdentChar(r)
	}
	switch {
	case s.Slice(start, start+4) == "true" && boundary(start+4):
		return &ir.Bool{Value: true}, start + 4, true
	case s.Slice(start, start+5) == "false" && boundary(start+5):
		return &ir.Bool{Value: false}, start + 5, true
	case s.Slice(start, start+4) == "null" && boundary(start+4):
		return &ir.Null{}, start + 4, true
	}
	return nil, start, false
}

func (p *parser) numberStart(i int) bool {
	r, w := p.s.Rune(i)
	if token.IsDigit(r) {
		return true
	}
	if token.IsSign(r) {
		next, _ := p.s.Rune(i + w)
		return token.IsDigit(next)
	}
	return false
}

func (p *parser) number(start int) (ir.Value, int, bool, error) {
	if !p.numberStart(start) {
		return nil, start, false, nil
	}
	i := start
	neg := false
	switch p.s.Byte(i) {
	case '+':
		i++
	case '-':
		neg = true
		i++
	}
	if p.s.Byte(i) == '0' {
		switch p.s.Byte(i + 1) {
		case 'b':
			return p.radixNumber(start, i+2, neg, 2, token.IsBinaryDigit, "binary digit after 0b")
		case 'o':
			return p.radixNumber(start, i+2, neg, 8, token.IsOctalDigit, "octal digit after 0o")
		case 'x':
			return p.radixNumber(start, i+2, neg, 16, token.IsHexDigit, "hex digit after 0x")
		}
	}
	return p.decimalNumber(start, i)
}

func (p *parser) radixNumber(start, bodyStart int, neg bool, base int, digit func(rune) bool, what string) (ir.Value, int, bool, error) {
	s := p.s
	if r, _ := s.Rune(bodyStart); !digit(r) {
		return nil, start, false, token.Errf(s, bodyStart, "expected %s, got junk", what)
	}
	end, err := token.ScanDigitRun(s, bodyStart, digit)
	if err != nil {
		return nil, start, false, err
	}
	body := s.Slice(bodyStart, end)
	v, ok := new(big.Int).SetString(token.StripSeparators(body), base)
	if !ok {
		return nil, start, false, token.Errf(s, bodyStart, "number-like string didn't actually parse as a number")
	}
	if neg {
		v.Neg(v)
	}
	switch base {
	case 2:
		return &ir.Binary{Value: v}, end, true, nil
	case 8:
		return &ir.Octal{Value: v}, end, true, nil
	default:
		return &ir.Hex{Value: v, Digits: body}, end, true, nil
	}
}

func (p *parser) decimalNumber(start, i int) (ir.Value, int, bool, error) {
	s := p.s
	i, err := token.ScanDigitRun(s, i, token.IsDigit)
	if err != nil {
		return nil, start, false, err
	}
	isFloat := false
	if s.Byte(i) == '.' {
		isFloat = true
		if r, _ := s.Rune(i + 1); !token.IsDigit(r) {
			return nil, start, false, token.Errf(s, i+1, "expected digit after decimal point")
		}
		if i, err = token.ScanDigitRun(s, i+1, token.IsDigit); err != nil {
			return nil, start, false, err
		}
	}
	mantissa := token.StripSeparators(s.Slice(start, i))
	d := &ir.Decimal{}
	if isFloat {
		f, err := strconv.ParseFloat(mantissa, 64)
		if err != nil {
			return nil, start, false, token.Errf(s, start, "number-like string didn't actually parse as a number")
		}
		d.Float = f
		d.IsFloat = true
	} else {
		v, ok := new(big.Int).SetString(mantissa, 10)
		if !ok {
			return nil, start, false, token.Errf(s, start, "number-like string didn't actually parse as a number")
		}
		d.Int = v
	}
	if c := s.Byte(i); c == 'e' || c == 'E' {
		expStart := i + 1
		j := expStart
		if token.IsSign(rune(s.Byte(j))) {
			j++
		}
		if r, _ := s.Rune(j); !token.IsDigit(r) {
			return nil, start, false, token.Errf(s, j, "expected number after exponent")
		}
		if j, err = token.ScanDigitRun(s, j, token.IsDigit); err != nil {
			return nil, start, false, err
		}
		exp, err := strconv.ParseInt(token.StripSeparators(s.Slice(expStart, j)), 10, 64)
		if err != nil {
			return nil, start, false, token.Errf(s, expStart, "exponent out of range")
		}
		d.Exponent = exp
		i = j
	}
	return d, i, true, nil
}

func (p *parser) slashdash(start int) (bool, int, error) {
	if p.s.Byte(start) != '/' || p.s.Byte(start+1) != '-' {
		return false, start, nil
	}
	i, err := p.nodespace(start + 2)
	if err != nil {
		return false, start, err
	}
	return true, i, nil
}

// terminator consumes a node terminator: newline, single-line comment,
// semicolon, or EOF. A closing brace terminates by lookahead and is left
// for the children parser.
func (p *parser) terminator(start int) (int, error) {
	if i, ok := p.newline(start); ok {
		return i, nil
	}
	if i, ok := p.singleLineComment(start); ok {
		return i, nil
	}
	if p.s.Byte(start) == ';' {
		return start + 1, nil
	}
	if p.s.EOF(start) || p.s.Byte(start) == '}' {
		return start, nil
	}
	return start, token.Errf(p.s, start, "junk after node, before terminator")
}

// linespace consumes newlines, whitespace, and single-line comments.
func (p *parser) linespace(start int) (int, error) {
	i := start
	for {
		j := i
		if k, ok := p.newline(j); ok {
			j = k
		}
		k, err := p.whitespace(j)
		if err != nil {
			return start, err
		}
		j = k
		if k, ok := p.singleLineComment(j); ok {
			j = k
		}
		if j == i {
			return i, nil
		}
		i = j
	}
}

// nodespace consumes same-line space: whitespace and escaped line
// continuations.
func (p *parser) nodespace(start int) (int, error) {
	i := start
	for {
		j, err := p.whitespace(i)
		if err != nil {
			return start, err
		}
		j, ok, err := p.escline(j)
		if err != nil {
			return start, err
		}
		if !ok && j == i {
			return i, nil
		}
		i = j
	}
}

// escline consumes `\` (ws | single-line-comment)* newline. A backslash
// not followed by a newline is an error.
func (p *parser) escline(start int) (int, bool, error) {
	if p.s.Byte(start) != '\\' {
		return start, false, nil
	}
	i, err := p.whitespace(start + 1)
	if err != nil {
		return start, false, err
	}
	if j, ok := p.singleLineComment(i); ok {
		return j, true, nil
	}
	if j, ok := p.newline(i); ok {
		return j, true, nil
	}
	return start, false, token.Errf(p.s, start, "expected newline after line continuation")
}

// whitespace consumes unicode space and block comments.
func (p *parser) whitespace(start int) (int, error) {
	i := start
	for {
		r, w := p.s.Rune(i)
		if token.IsWhitespace(r) {
			i += w
			continue
		}
		j, ok, err := p.blockComment(i)
		if err != nil {
			return start, err
		}
		if !ok {
			return i, nil
		}
		i = j
	}
}

func (p *parser) blockComment(start int) (int, bool, error) {
	s := p.s
	if s.Byte(start) != '/' || s.Byte(start+1) != '*' {
		return start, false, nil
	}
	i := start + 2
	for {
		if s.EOF(i) {
			return start, false, token.Errf(s, start, "hit EOF while inside a multiline comment")
		}
		switch {
		case s.Byte(i) == '*' && s.Byte(i+1) == '/':
			return i + 2, true, nil
		case s.Byte(i) == '/' && s.Byte(i+1) == '*':
			j, _, err := p.blockComment(i)
			if err != nil {
				return start, false, err
			}
			i = j
		default:
			i++
		}
	}
}

func (p *parser) singleLineComment(start int) (int, bool) {
	s := p.s
	if s.Byte(start) != '/' || s.Byte(start+1) != '/' {
		return start, false
	}
	i := start + 2
	for !s.EOF(i) {
		if r, _ := s.Rune(i); token.IsNewline(r) {
			break
		}
		_, w := s.Rune(i)
		i += w
	}
	if j, ok := p.newline(i); ok {
		return j, true
	}
	return i, true
}

// newline consumes one line terminator; CRLF counts as one.
func (p *parser) newline(start int) (int, bool) {
	s := p.s
	if s.Byte(start) == '\r' && s.Byte(start+1) == '\n' {
		return start + 2, true
	}
	r, w := s.Rune(start)
	if token.IsNewline(r) {
		return start + w, true
	}
	return start, false
}
