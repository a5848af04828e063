package parse

import (
	"encoding/base64"
	"math/big"
	"net/netip"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdl-format/go-kdl/ir"
	"github.com/kdl-format/go-kdl/token"
)

// Fragment hands converter hooks the exact source text a value or node
// name was parsed from, plus a factory for errors positioned at it.
type Fragment struct {
	src        *token.Source
	start, end int
}

func (f *Fragment) Text() string {
	return f.src.Slice(f.start, f.end)
}

func (f *Fragment) Error(msg string) error {
	return token.Errf(f.src, f.start, "%s", msg)
}

func (f *Fragment) Errorf(format string, args ...any) error {
	return token.Errf(f.src, f.start, format, args...)
}

// Layouts accepted by the reserved date/time tags.
var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
	dateLayout  = "2006-01-02"
	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04:05",
		"15:04",
	}
)

// toNative applies the reserved tag table to a tagged value. Unknown tags
// and tag/shape mismatches leave the value untouched.
func toNative(v ir.Value, f *Fragment) (ir.Value, error) {
	tag := ir.TagOf(v)
	if tag == nil {
		return v, nil
	}
	num, isNum := v.(ir.Number)
	str, isStr := v.(ir.Stringish)
	if isNum {
		switch *tag {
		case "i8":
			return boundedInt(num, f, tag, 8, true)
		case "i16":
			return boundedInt(num, f, tag, 16, true)
		case "i32":
			return boundedInt(num, f, tag, 32, true)
		case "i64":
			return boundedInt(num, f, tag, 64, true)
		case "u8":
			return boundedInt(num, f, tag, 8, false)
		case "u16":
			return boundedInt(num, f, tag, 16, false)
		case "u32":
			return boundedInt(num, f, tag, 32, false)
		case "u64":
			return boundedInt(num, f, tag, 64, false)
		case "f32":
			x, _ := num.BigFloat().Float32()
			return &ir.Native{Val: x, Tag: tag}, nil
		case "f64":
			x, _ := num.BigFloat().Float64()
			return &ir.Native{Val: x, Tag: tag}, nil
		case "decimal", "decimal64", "decimal128":
			d, err := decimal.NewFromString(token.StripSeparators(f.Text()))
			if err != nil {
				return nil, f.Errorf("couldn't parse a decimal from %s", f.Text())
			}
			return &ir.Native{Val: d, Tag: tag}, nil
		}
		return v, nil
	}
	if !isStr {
		return v, nil
	}
	sv := str.StringValue()
	switch *tag {
	case "decimal", "decimal64", "decimal128":
		d, err := decimal.NewFromString(sv)
		if err != nil {
			return nil, f.Errorf("couldn't parse a decimal from %s", f.Text())
		}
		return &ir.Native{Val: d, Tag: tag}, nil
	case "date-time":
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, sv); err == nil {
				return &ir.Native{Val: t, Tag: tag}, nil
			}
		}
		return nil, f.Errorf("couldn't parse a date-time from %s", f.Text())
	case "date":
		t, err := time.Parse(dateLayout, sv)
		if err != nil {
			return nil, f.Errorf("couldn't parse a date from %s", f.Text())
		}
		return &ir.Native{Val: t, Tag: tag}, nil
	case "time":
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, sv); err == nil {
				return &ir.Native{Val: t, Tag: tag}, nil
			}
		}
		return nil, f.Errorf("couldn't parse a time from %s", f.Text())
	case "ipv4":
		a, err := netip.ParseAddr(sv)
		if err != nil || !a.Is4() {
			return nil, f.Errorf("couldn't parse an IPv4 address from %s", f.Text())
		}
		return &ir.Native{Val: a, Tag: tag}, nil
	case "ipv6":
		a, err := netip.ParseAddr(sv)
		if err != nil || a.Is4() {
			return nil, f.Errorf("couldn't parse an IPv6 address from %s", f.Text())
		}
		return &ir.Native{Val: a, Tag: tag}, nil
	case "url":
		u, err := url.Parse(sv)
		if err != nil {
			return nil, f.Errorf("couldn't parse a url from %s", f.Text())
		}
		return &ir.Native{Val: u, Tag: tag}, nil
	case "uuid":
		u, err := uuid.Parse(sv)
		if err != nil {
			return nil, f.Errorf("couldn't parse a UUID from %s", f.Text())
		}
		return &ir.Native{Val: u, Tag: tag}, nil
	case "regex":
		re, err := regexp.Compile(sv)
		if err != nil {
			return nil, f.Errorf("couldn't parse a regex from %s", f.Text())
		}
		return &ir.Native{Val: re, Tag: tag}, nil
	case "base64":
		d, err := base64.StdEncoding.DecodeString(sv)
		if err != nil {
			return nil, f.Error("couldn't parse base64")
		}
		return &ir.Native{Val: d, Tag: tag}, nil
	}
	return v, nil
}

func boundedInt(num ir.Number, f *Fragment, tag *string, bits uint, signed bool) (ir.Value, error) {
	v := num.BigFloat()
	var lo, hi *big.Float
	if signed {
		lim := new(big.Int).Lsh(big.NewInt(1), bits-1)
		hi = new(big.Float).SetInt(lim)
		lo = new(big.Float).Neg(hi)
	} else {
		lo = new(big.Float)
		hi = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), bits))
	}
	if v.Cmp(lo) < 0 || v.Cmp(hi) >= 0 {
		article := "a"
		if signed {
			article = "an"
		}
		return nil, f.Errorf("%s doesn't fit in %s %s", f.Text(), article, *tag)
	}
	i, _ := v.Int(nil)
	if signed {
		return &ir.Native{Val: i.Int64(), Tag: tag}, nil
	}
	return &ir.Native{Val: i.Uint64(), Tag: tag}, nil
}

// nativeUntagged lowers an untagged literal to its host equivalent.
func nativeUntagged(v ir.Value) ir.Value {
	switch x := v.(type) {
	case *ir.String:
		return &ir.Native{Val: x.Value}
	case *ir.RawString:
		return &ir.Native{Val: x.Value}
	case *ir.Bool:
		return &ir.Native{Val: x.Value}
	case *ir.Null:
		return &ir.Native{}
	case *ir.Decimal:
		if !x.IsFloat && x.Exponent == 0 {
			return &ir.Native{Val: intOrBig(x.Int)}
		}
		fv, _ := x.BigFloat().Float64()
		return &ir.Native{Val: fv}
	case *ir.Hex:
		return &ir.Native{Val: intOrBig(x.Value)}
	case *ir.Octal:
		return &ir.Native{Val: intOrBig(x.Value)}
	case *ir.Binary:
		return &ir.Native{Val: intOrBig(x.Value)}
	}
	return v
}

func intOrBig(v *big.Int) any {
	if v.IsInt64() {
		return v.Int64()
	}
	return new(big.Int).Set(v)
}
