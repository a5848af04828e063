package encode

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

// ToKDL lets host types control their own KDL form. The result must be an
// ir.Value (ExactValue for bit-exact output) or a host value the printer
// already knows; it is consulted once, not recursively.
type ToKDL interface {
	ToKDL() any
}

// toValue adapts anything found in an arg or prop slot into a printable
// literal variant.
func (es *encState) toValue(v ir.Value) (ir.Value, error) {
	n, ok := v.(*ir.Native)
	if !ok {
		return v, nil
	}
	return nativeValue(n.Val, n.Tag, true)
}

func nativeValue(val any, tag *string, allowToKDL bool) (ir.Value, error) {
	switch x := val.(type) {
	case nil:
		return &ir.Null{Tag: tag}, nil
	case ir.Value:
		return x, nil
	case bool:
		return &ir.Bool{Value: x, Tag: tag}, nil
	case string:
		return &ir.String{Value: x, Tag: tag}, nil
	case int:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case int8:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case int16:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case int32:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case int64:
		return &ir.Decimal{Int: big.NewInt(x), Tag: tag}, nil
	case uint8:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case uint16:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case uint32:
		return &ir.Decimal{Int: big.NewInt(int64(x)), Tag: tag}, nil
	case uint64:
		return &ir.Decimal{Int: new(big.Int).SetUint64(x), Tag: tag}, nil
	case uint:
		return &ir.Decimal{Int: new(big.Int).SetUint64(uint64(x)), Tag: tag}, nil
	case *big.Int:
		return &ir.Decimal{Int: new(big.Int).Set(x), Tag: tag}, nil
	case float32:
		return &ir.Decimal{Float: float64(x), IsFloat: true, Tag: tag}, nil
	case float64:
		return &ir.Decimal{Float: x, IsFloat: true, Tag: tag}, nil
	case decimal.Decimal:
		s := x.String()
		if x.Exponent() < 0 {
			// keep trailing fractional zeros, e.g. 1.50
			s = x.StringFixed(-x.Exponent())
		}
		return &ir.String{Value: s, Tag: orTag(tag, "decimal")}, nil
	case time.Time:
		return timeValue(x, tag), nil
	case netip.Addr:
		if x.Is4() {
			return &ir.String{Value: x.String(), Tag: orTag(tag, "ipv4")}, nil
		}
		return &ir.String{Value: x.String(), Tag: orTag(tag, "ipv6")}, nil
	case *url.URL:
		return &ir.String{Value: x.String(), Tag: orTag(tag, "url")}, nil
	case uuid.UUID:
		return &ir.String{Value: x.String(), Tag: orTag(tag, "uuid")}, nil
	case *regexp.Regexp:
		return &ir.RawString{Value: x.String(), Tag: orTag(tag, "regex")}, nil
	case []byte:
		return &ir.String{
			Value: base64.StdEncoding.EncodeToString(x),
			Tag:   orTag(tag, "base64"),
		}, nil
	}
	if conv, ok := val.(ToKDL); ok && allowToKDL {
		return nativeValue(conv.ToKDL(), tag, false)
	}
	return nil, fmt.Errorf("%w: no KDL representation for %T", ErrCannotSerialize, val)
}

func orTag(tag *string, dflt string) *string {
	if tag != nil {
		return tag
	}
	return &dflt
}

// timeValue formats by the tag the value was parsed under, so a (date)
// value reserializes as a date, not a full timestamp.
func timeValue(t time.Time, tag *string) ir.Value {
	layout := time.RFC3339Nano
	if tag != nil {
		switch *tag {
		case "date":
			layout = dateLayout
		case "time":
			layout = timeLayout(t)
		}
	}
	return &ir.String{Value: t.Format(layout), Tag: orTag(tag, "date-time")}
}

const dateLayout = "2006-01-02"

func timeLayout(t time.Time) string {
	if t.Nanosecond() != 0 {
		return "15:04:05.999999999"
	}
	return "15:04:05"
}
