package parse

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

// literal keeps parsed values as literal variants so tests can inspect
// radix and string kind.
func literal(t *testing.T, in string) *ir.Document {
	t.Helper()
	doc, err := ParseString(in, NativeUntagged(false), NativeTagged(false))
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return doc
}

func argInt(t *testing.T, v ir.Value, want int64) {
	t.Helper()
	d, ok := v.(*ir.Decimal)
	if !ok || d.IsFloat || d.Exponent != 0 {
		t.Fatalf("want integer decimal, got %#v", v)
	}
	if d.Int.Int64() != want {
		t.Fatalf("got %v, want %d", d.Int, want)
	}
}

func TestParseBasic(t *testing.T) {
	doc := literal(t, "node_name \"arg\" {\n    child_node foo=1 bar=true\n}\n")
	if len(doc.Nodes) != 1 {
		t.Fatalf("nodes = %d", len(doc.Nodes))
	}
	n := doc.Nodes[0]
	if n.Name != "node_name" || n.Tag != nil {
		t.Fatalf("bad node: %+v", n)
	}
	if len(n.Args) != 1 {
		t.Fatalf("args = %d", len(n.Args))
	}
	if s := n.Args[0].(*ir.String); s.Value != "arg" {
		t.Fatalf("arg = %q", s.Value)
	}
	if len(n.Children) != 1 {
		t.Fatalf("children = %d", len(n.Children))
	}
	c := n.Children[0]
	if c.Name != "child_node" || c.Props.Len() != 2 {
		t.Fatalf("bad child: %+v", c)
	}
	foo, _ := c.Props.Get("foo")
	argInt(t, foo, 1)
	bar, _ := c.Props.Get("bar")
	if b := bar.(*ir.Bool); !b.Value {
		t.Fatal("bar != true")
	}
}

func TestParseSlashDashArgsAndChildren(t *testing.T) {
	doc := literal(t, `foo 1 /- 2 3 /- { should "be" "ignored" }`)
	n := doc.Nodes[0]
	if len(n.Args) != 2 {
		t.Fatalf("args = %d", len(n.Args))
	}
	argInt(t, n.Args[0], 1)
	argInt(t, n.Args[1], 3)
	if len(n.Children) != 0 {
		t.Fatalf("children = %d", len(n.Children))
	}
}

func TestParseSlashDashNode(t *testing.T) {
	doc := literal(t, "/- gone 1 {\n  sub\n}\nkept")
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != "kept" {
		t.Fatalf("nodes = %+v", doc.Nodes)
	}
}

func TestParseSlashDashProp(t *testing.T) {
	doc := literal(t, "n /- a=1 b=2")
	n := doc.Nodes[0]
	if _, ok := n.Props.Get("a"); ok {
		t.Fatal("slash-dashed prop retained")
	}
	b, ok := n.Props.Get("b")
	if !ok {
		t.Fatal("b missing")
	}
	argInt(t, b, 2)
}

func TestParseSlashDashLastWins(t *testing.T) {
	// discarded assignments never touch the property map
	doc := literal(t, "n a=1 /- a=2 a=3")
	n := doc.Nodes[0]
	a, _ := n.Props.Get("a")
	argInt(t, a, 3)
	if keys := n.Props.Keys(); len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestParseRawStringAndRadix(t *testing.T) {
	doc := literal(t, `n r#"a "quoted" b"# 0x1F`)
	n := doc.Nodes[0]
	rs := n.Args[0].(*ir.RawString)
	if rs.Value != `a "quoted" b` || rs.Hashes != 1 {
		t.Fatalf("raw = %+v", rs)
	}
	h := n.Args[1].(*ir.Hex)
	if h.Value.Int64() != 31 || h.Digits != "1F" {
		t.Fatalf("hex = %+v", h)
	}
}

func TestParseLineContinuation(t *testing.T) {
	doc := literal(t, "n a=1 \\\n  /* mid */ b=2")
	n := doc.Nodes[0]
	if n.Props.Len() != 2 {
		t.Fatalf("props = %v", n.Props.Keys())
	}
	b, _ := n.Props.Get("b")
	argInt(t, b, 2)
}

func TestParseEsclineComment(t *testing.T) {
	doc := literal(t, "n 1 \\ // trailing\n  2")
	if got := len(doc.Nodes[0].Args); got != 2 {
		t.Fatalf("args = %d", got)
	}
}

func TestParsePropertyLastWins(t *testing.T) {
	doc := literal(t, "n a=1 b=2 a=3")
	n := doc.Nodes[0]
	keys := n.Props.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("keys = %v", keys)
	}
	a, _ := n.Props.Get("a")
	argInt(t, a, 3)
}

func TestParseNumbers(t *testing.T) {
	doc := literal(t, "n 1e3 1.5e-2 1E+2 0b10_10 0o777 -0x1a +3 1_000 007")
	args := doc.Nodes[0].Args

	d := args[0].(*ir.Decimal)
	if d.IsFloat || d.Int.Int64() != 1 || d.Exponent != 3 {
		t.Fatalf("1e3 = %+v", d)
	}
	d = args[1].(*ir.Decimal)
	if !d.IsFloat || d.Float != 1.5 || d.Exponent != -2 {
		t.Fatalf("1.5e-2 = %+v", d)
	}
	d = args[2].(*ir.Decimal)
	if d.IsFloat || d.Int.Int64() != 1 || d.Exponent != 2 {
		t.Fatalf("1E+2 = %+v", d)
	}
	if b := args[3].(*ir.Binary); b.Value.Int64() != 10 {
		t.Fatalf("0b10_10 = %v", b.Value)
	}
	if o := args[4].(*ir.Octal); o.Value.Int64() != 511 {
		t.Fatalf("0o777 = %v", o.Value)
	}
	if h := args[5].(*ir.Hex); h.Value.Int64() != -26 {
		t.Fatalf("-0x1a = %v", h.Value)
	}
	argInt(t, args[6], 3)
	argInt(t, args[7], 1000)
	argInt(t, args[8], 7)
}

func TestParseKeywordValues(t *testing.T) {
	doc := literal(t, "n true false null")
	args := doc.Nodes[0].Args
	if b := args[0].(*ir.Bool); !b.Value {
		t.Fatal("true")
	}
	if b := args[1].(*ir.Bool); b.Value {
		t.Fatal("false")
	}
	if _, ok := args[2].(*ir.Null); !ok {
		t.Fatal("null")
	}
}

func TestParseTags(t *testing.T) {
	doc := literal(t, `(web)server (u8)1 ("quoted tag")2 name=(id)"x"`)
	n := doc.Nodes[0]
	if n.Tag == nil || *n.Tag != "web" {
		t.Fatalf("node tag = %v", n.Tag)
	}
	if tag := ir.TagOf(n.Args[0]); tag == nil || *tag != "u8" {
		t.Fatalf("arg0 tag = %v", tag)
	}
	if tag := ir.TagOf(n.Args[1]); tag == nil || *tag != "quoted tag" {
		t.Fatalf("arg1 tag = %v", tag)
	}
	name, _ := n.Props.Get("name")
	if tag := ir.TagOf(name); tag == nil || *tag != "id" {
		t.Fatalf("prop tag = %v", tag)
	}
}

func TestParseTagWhitespace(t *testing.T) {
	doc := literal(t, "( web ) server ( u8 ) 1")
	n := doc.Nodes[0]
	if n.Tag == nil || *n.Tag != "web" || n.Name != "server" {
		t.Fatalf("node = %+v", n)
	}
	if tag := ir.TagOf(n.Args[0]); tag == nil || *tag != "u8" {
		t.Fatalf("arg tag = %v", tag)
	}
}

func TestParseTaggedKeywordValue(t *testing.T) {
	doc := literal(t, "n (tag)true")
	if tag := ir.TagOf(doc.Nodes[0].Args[0]); tag == nil || *tag != "tag" {
		t.Fatalf("tag = %v", tag)
	}
}

func TestParseStringIdents(t *testing.T) {
	doc := literal(t, `"node name" "a b"=1 r"raw key"=2`)
	n := doc.Nodes[0]
	if n.Name != "node name" {
		t.Fatalf("name = %q", n.Name)
	}
	if _, ok := n.Props.Get("a b"); !ok {
		t.Fatal("quoted key missing")
	}
	if _, ok := n.Props.Get("raw key"); !ok {
		t.Fatal("raw key missing")
	}
}

func TestParseSemicolonsAndCRLF(t *testing.T) {
	doc := literal(t, "a; b; c\r\nd")
	if len(doc.Nodes) != 4 {
		t.Fatalf("nodes = %d", len(doc.Nodes))
	}
}

func TestParseInlineChildren(t *testing.T) {
	doc := literal(t, "n { c1; c2 }")
	n := doc.Nodes[0]
	if len(n.Children) != 2 {
		t.Fatalf("children = %d", len(n.Children))
	}
}

func TestParseNestedBlockComment(t *testing.T) {
	doc := literal(t, "n /* a /* nested */ b */ 1")
	if len(doc.Nodes[0].Args) != 1 {
		t.Fatal("arg lost around nested comment")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	for _, in := range []string{"", "   \n\n", "// just a comment", "/* block */"} {
		doc := literal(t, in)
		if len(doc.Nodes) != 0 {
			t.Fatalf("%q: nodes = %d", in, len(doc.Nodes))
		}
	}
}

func TestParseBOM(t *testing.T) {
	doc := literal(t, "\ufeffn 1")
	if len(doc.Nodes) != 1 || doc.Nodes[0].Name != "n" {
		t.Fatalf("nodes = %+v", doc.Nodes)
	}
}

func TestParseBareIdentWithSign(t *testing.T) {
	doc := literal(t, "+foo\n-bar")
	if doc.Nodes[0].Name != "+foo" || doc.Nodes[1].Name != "-bar" {
		t.Fatalf("names = %q, %q", doc.Nodes[0].Name, doc.Nodes[1].Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in string
		e  string
	}{
		{in: "/-", e: "expected a node"},
		{in: "true", e: "expected a node"},
		{in: "(tag)true", e: "expected a node"},
		{in: "}", e: "expected a node"},
		{in: `n "unterminated`, e: "hit EOF while looking for the end of the string"},
		{in: `n r#"unterminated`, e: "hit EOF while looking for the end of the raw string"},
		{in: "n /* never ends", e: "hit EOF while inside a multiline comment"},
		{in: `n "\q"`, e: "invalid character escape"},
		{in: `n "\u{D800}"`, e: "surrogate"},
		{in: `n "\u{110000}"`, e: "maximum codepoint"},
		{in: "n 1__2", e: "underscore must separate digits"},
		{in: "n 1_", e: "underscore must separate digits"},
		{in: "n 0x", e: "expected hex digit after 0x"},
		{in: "n 0b2", e: "expected binary digit after 0b"},
		{in: "n 0o8", e: "expected octal digit after 0o"},
		{in: "n 1.", e: "expected digit after decimal point"},
		{in: "n 1.5e", e: "expected number after exponent"},
		{in: "n (u8)256", e: "doesn't fit in a u8"},
		{in: "n (i8)-129", e: "doesn't fit in an i8"},
		{in: "n 'single'", e: "KDL strings use double-quotes"},
		{in: "n TRUE", e: "KDL keywords are lower-case"},
		{in: "n true=1", e: `reserved keyword "true" cannot be a property key`},
		{in: "n null=1", e: `reserved keyword "null" cannot be a property key`},
		{in: "n (tag)", e: "found a tag, but no value following it"},
		{in: "n a=", e: "expected value after prop="},
		{in: "n {\n  child", e: "hit EOF while searching for end of child list"},
		{in: "n {\n]", e: "junk between end of child list and closing }"},
		{in: "n a=1 \\ x", e: "expected newline after line continuation"},
		{in: "n 1 2 ]", e: "junk after node, before terminator"},
		{in: "n /- {a} {b}", e: "junk after node, before terminator"},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.in)
		if err == nil {
			t.Errorf("%q: want error containing %q, got nil", tt.in, tt.e)
			continue
		}
		if !strings.Contains(err.Error(), tt.e) {
			t.Errorf("%q: want error containing %q, got %q", tt.in, tt.e, err.Error())
		}
		if !errors.Is(err, token.ErrParse) {
			t.Errorf("%q: error does not wrap ErrParse", tt.in)
		}
	}
}

func TestParseErrorPositions(t *testing.T) {
	tests := []struct {
		in        string
		line, col int
	}{
		// unterminated block comment reports the opening /*
		{in: "n /* never ends", line: 1, col: 3},
		{in: "a\nb\nc junk=", line: 3, col: 8},
		{in: "n \"\n", line: 1, col: 3},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.in)
		var pe *token.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%q: no ParseError, got %v", tt.in, err)
			continue
		}
		if pe.Line != tt.line || pe.Col != tt.col {
			t.Errorf("%q: at (%d,%d), want (%d,%d): %s", tt.in, pe.Line, pe.Col, tt.line, tt.col, pe.Message)
		}
	}
}

func TestParserNeverProducesExactValue(t *testing.T) {
	doc := literal(t, `n 1 0x2 "s" r"r" true null (u8)3 a=(id)"x" { c 2.5 }`)
	var walk func(nodes []*ir.Node)
	walk = func(nodes []*ir.Node) {
		for _, n := range nodes {
			for _, a := range n.Args {
				if _, ok := a.(*ir.ExactValue); ok {
					t.Fatal("parser produced an ExactValue")
				}
			}
			for _, v := range n.Props.All() {
				if _, ok := v.(*ir.ExactValue); ok {
					t.Fatal("parser produced an ExactValue")
				}
			}
			walk(n.Children)
		}
	}
	walk(doc.Nodes)
}

func TestParseTreeShape(t *testing.T) {
	doc := literal(t, "(svc)n 1 k=\"v\" {\n\tc true\n}")
	svc := "svc"
	child := ir.NewNode("c")
	child.AddArg(&ir.Bool{Value: true})
	want := &ir.Document{Nodes: []*ir.Node{{
		Tag:      &svc,
		Name:     "n",
		Args:     []ir.Value{ir.DecimalFromInt(1)},
		Children: []*ir.Node{child},
	}}}
	want.Nodes[0].SetProp("k", &ir.String{Value: "v"})

	opts := []cmp.Option{
		cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }),
		cmp.AllowUnexported(ir.Props{}),
	}
	if diff := cmp.Diff(want, doc, opts...); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
