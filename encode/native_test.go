package encode

import (
	"math/big"
	"net/netip"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/parse"
)

func oneArgDoc(v ir.Value) *ir.Document {
	n := ir.NewNode("n")
	n.AddArg(v)
	return &ir.Document{Nodes: []*ir.Node{n}}
}

func TestPrintHostNatives(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{name: "nil", val: nil, want: "n null\n"},
		{name: "bool", val: true, want: "n true\n"},
		{name: "string", val: "hi", want: "n \"hi\"\n"},
		{name: "int", val: 42, want: "n 42\n"},
		{name: "int64", val: int64(-3), want: "n -3\n"},
		{name: "uint64", val: uint64(18446744073709551615), want: "n 18446744073709551615\n"},
		{name: "float", val: 2.5, want: "n 2.5\n"},
		{name: "integral float", val: 2.0, want: "n 2.0\n"},
		{name: "bytes", val: []byte("hello"), want: "n (base64)\"aGVsbG8=\"\n"},
		{name: "url", val: mustURL("https://example.com/x"), want: "n (url)\"https://example.com/x\"\n"},
		{name: "uuid", val: uuid.MustParse("02cf91d4-2f25-4f4d-a583-48a7c884e2b9"), want: "n (uuid)\"02cf91d4-2f25-4f4d-a583-48a7c884e2b9\"\n"},
		{name: "regex", val: regexp.MustCompile(`a+b`), want: "n (regex)r\"a+b\"\n"},
		{name: "ipv4", val: netip.MustParseAddr("10.0.0.1"), want: "n (ipv4)\"10.0.0.1\"\n"},
		{name: "ipv6", val: netip.MustParseAddr("::1"), want: "n (ipv6)\"::1\"\n"},
		{name: "decimal", val: decimal.RequireFromString("1.50"), want: "n (decimal)\"1.50\"\n"},
		{name: "big int", val: big.NewInt(7), want: "n 7\n"},
	}
	for _, tt := range tests {
		doc := oneArgDoc(&ir.Native{Val: tt.val})
		got, err := Print(doc)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func mustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func TestPrintDateRoundTrip(t *testing.T) {
	doc, err := parse.ParseString(`when (date)"2021-02-03"`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Print(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := "when (date)\"2021-02-03\"\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintTimeKeepsTag(t *testing.T) {
	doc, err := parse.ParseString(`at (time)"04:05:06"`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Print(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got != "at (time)\"04:05:06\"\n" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintUntaggedTime(t *testing.T) {
	ts := time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC)
	got, err := Print(oneArgDoc(&ir.Native{Val: ts}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "n (date-time)\"2021-02-03T04:05:06Z\"\n" {
		t.Fatalf("got %q", got)
	}
}

type celsius float64

func (c celsius) ToKDL() any {
	return &ir.ExactValue{Chars: "212.0", Tag: ir.Tag("fahrenheit")}
}

type version struct{ major, minor int }

func (v version) ToKDL() any {
	return "v1.2"
}

func TestToKDLCapability(t *testing.T) {
	got, err := Print(oneArgDoc(&ir.Native{Val: celsius(100)}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "n (fahrenheit)212.0\n" {
		t.Fatalf("got %q", got)
	}
	got, err = Print(oneArgDoc(&ir.Native{Val: version{1, 2}}))
	if err != nil {
		t.Fatal(err)
	}
	if got != "n \"v1.2\"\n" {
		t.Fatalf("got %q", got)
	}
}

func TestNativeRoundTripThroughParse(t *testing.T) {
	in := `srv (ipv4)"10.1.2.3" (u8)255 id=(uuid)"02cf91d4-2f25-4f4d-a583-48a7c884e2b9" re=(regex)r"x\d+"`
	doc, err := parse.ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Print(doc)
	if err != nil {
		t.Fatal(err)
	}
	doc2, err := parse.ParseString(out)
	if err != nil {
		t.Fatalf("reparse %q: %v", out, err)
	}
	out2, err := Print(doc2)
	if err != nil {
		t.Fatal(err)
	}
	if out != out2 {
		t.Fatalf("not stable:\n%q\n%q", out, out2)
	}
}
