package main

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"net/netip"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdl-format/go-kdl/ir"
)

// lowerValue reduces an ir value to plain Go data for expression
// environments and YAML/JSON output.
func lowerValue(v ir.Value) any {
	switch x := v.(type) {
	case *ir.String:
		return x.Value
	case *ir.RawString:
		return x.Value
	case *ir.Decimal:
		if !x.IsFloat && x.Exponent == 0 {
			if x.Int.IsInt64() {
				return x.Int.Int64()
			}
			return x.Int.String()
		}
		f, _ := x.BigFloat().Float64()
		return f
	case *ir.Hex:
		return lowerBig(x.Value)
	case *ir.Octal:
		return lowerBig(x.Value)
	case *ir.Binary:
		return lowerBig(x.Value)
	case *ir.Bool:
		return x.Value
	case *ir.Null:
		return nil
	case *ir.ExactValue:
		return x.Chars
	case *ir.Native:
		return lowerNative(x.Val)
	}
	return fmt.Sprintf("%v", v)
}

func lowerBig(v *big.Int) any {
	if v.IsInt64() {
		return v.Int64()
	}
	return v.String()
}

func lowerNative(val any) any {
	switch x := val.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case netip.Addr:
		return x.String()
	case *url.URL:
		return x.String()
	case uuid.UUID:
		return x.String()
	case *regexp.Regexp:
		return x.String()
	case decimal.Decimal:
		return x.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case *big.Int:
		return lowerBig(x)
	}
	return val
}

func lowerValues(vs []ir.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = lowerValue(v)
	}
	return out
}
