package parse

import (
	"github.com/kdl-format/go-kdl/ir"
)

// ConvertValueFunc is a user value hook. It receives a tagged value and
// the source fragment it was parsed from, and either returns a
// replacement (an ir.Value, or any host value, which the parser wraps in
// an ir.Native) with applied=true, or applied=false to let the chain
// continue.
type ConvertValueFunc func(v ir.Value, f *Fragment) (replacement any, applied bool, err error)

// ConvertNodeFunc is a user node hook. A nil replacement with
// applied=true drops the node from the document.
type ConvertNodeFunc func(n *ir.Node, f *Fragment) (replacement *ir.Node, applied bool, err error)

// ValueConverter pairs a matcher with a hook. Converters run in slice
// order; the first applied result wins.
type ValueConverter struct {
	Match ir.ValueKey
	Fn    ConvertValueFunc
}

// NodeConverter pairs a node matcher with a hook.
type NodeConverter struct {
	Match ir.NodeKey
	Fn    ConvertNodeFunc
}

// Config controls a parse.
type Config struct {
	// NativeUntaggedValues converts untagged literals to host values
	// (string, int64 or *big.Int, float64, bool, nil) wrapped in
	// ir.Native.
	NativeUntaggedValues bool
	// NativeTaggedValues applies the reserved tag table (i8…u64, f32,
	// f64, decimal…, date-time…, ipv4, ipv6, url, uuid, regex, base64)
	// to tagged values no user converter claimed.
	NativeTaggedValues bool
	ValueConverters    []ValueConverter
	NodeConverters     []NodeConverter
}

// Defaults is the process-wide parse configuration used when a call
// provides none. It is read-mostly shared state; mutate it only during
// program setup.
var Defaults = &Config{
	NativeUntaggedValues: true,
	NativeTaggedValues:   true,
}

type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c *Config) Option {
	return func(dst *Config) { *dst = *c }
}

func NativeUntagged(v bool) Option {
	return func(c *Config) { c.NativeUntaggedValues = v }
}

func NativeTagged(v bool) Option {
	return func(c *Config) { c.NativeTaggedValues = v }
}

func WithValueConverter(match ir.ValueKey, fn ConvertValueFunc) Option {
	return func(c *Config) {
		c.ValueConverters = append(c.ValueConverters, ValueConverter{Match: match, Fn: fn})
	}
}

func WithNodeConverter(match ir.NodeKey, fn ConvertNodeFunc) Option {
	return func(c *Config) {
		c.NodeConverters = append(c.NodeConverters, NodeConverter{Match: match, Fn: fn})
	}
}
