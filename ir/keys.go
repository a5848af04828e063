package ir

import (
	"fmt"
	"reflect"
	"regexp"
)

type matchKind int

const (
	matchAny matchKind = iota
	matchNone
	matchExact
	matchRegex
	matchFunc
)

// StringMatcher matches a name or tag. The zero value matches anything.
type StringMatcher struct {
	kind matchKind
	s    string
	re   *regexp.Regexp
	fn   func(*string) bool
}

// Any matches any string, present or absent.
func Any() StringMatcher {
	return StringMatcher{kind: matchAny}
}

// None matches only absence (an untagged node or value).
func None() StringMatcher {
	return StringMatcher{kind: matchNone}
}

func Exact(s string) StringMatcher {
	return StringMatcher{kind: matchExact, s: s}
}

// Pattern matches with re, anchored at the start of the subject.
func Pattern(re *regexp.Regexp) StringMatcher {
	return StringMatcher{kind: matchRegex, re: re}
}

// Predicate matches with fn; fn receives nil for an absent tag.
func Predicate(fn func(*string) bool) StringMatcher {
	return StringMatcher{kind: matchFunc, fn: fn}
}

// Match applies the matcher; subject nil means absent.
func (m StringMatcher) Match(subject *string) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchNone:
		return subject == nil
	case matchExact:
		return subject != nil && *subject == m.s
	case matchRegex:
		if subject == nil {
			return false
		}
		loc := m.re.FindStringIndex(*subject)
		return loc != nil && loc[0] == 0
	case matchFunc:
		return m.fn(subject)
	}
	return false
}

// IsNone reports whether the matcher matches only absence.
func (m StringMatcher) IsNone() bool {
	return m.kind == matchNone
}

func (m StringMatcher) String() string {
	switch m.kind {
	case matchAny:
		return "*"
	case matchNone:
		return "(none)"
	case matchExact:
		return m.s
	case matchRegex:
		return "/" + m.re.String() + "/"
	case matchFunc:
		return "(predicate)"
	}
	return "?"
}

// NodeKey selects nodes by tag and name. The zero value matches every
// node.
type NodeKey struct {
	Tag  StringMatcher
	Name StringMatcher
}

// Name is the common node key: match by exact name, any tag.
func Name(name string) NodeKey {
	return NodeKey{Name: Exact(name)}
}

// Tagged matches by exact tag and name.
func Tagged(tag, name string) NodeKey {
	return NodeKey{Tag: Exact(tag), Name: Exact(name)}
}

func (k NodeKey) String() string {
	if k.Tag.kind == matchAny {
		return k.Name.String()
	}
	return fmt.Sprintf("(%s)%s", k.Tag, k.Name)
}

// TypeKey selects values by shape. The zero value matches any shape.
type TypeKey struct {
	t reflect.Type
}

// AnyType matches every value shape.
func AnyType() TypeKey {
	return TypeKey{}
}

// Type matches values of shape T: a variant pointer type such as
// *ir.String, an interface such as ir.Number, or a host type carried in a
// Native such as int64 or time.Time.
func Type[T any]() TypeKey {
	return TypeKey{t: reflect.TypeFor[T]()}
}

func (k TypeKey) Match(v Value) bool {
	if k.t == nil {
		return true
	}
	var rt reflect.Type
	if n, ok := v.(*Native); ok {
		if n.Val == nil {
			return false
		}
		rt = reflect.TypeOf(n.Val)
	} else {
		rt = reflect.TypeOf(v)
	}
	if k.t.Kind() == reflect.Interface {
		return rt.Implements(k.t)
	}
	return rt == k.t
}

// ValueKey selects values by tag and shape.
type ValueKey struct {
	Tag  StringMatcher
	Type TypeKey
}

// TagKey matches values carrying the exact tag, any shape.
func TagKey(tag string) ValueKey {
	return ValueKey{Tag: Exact(tag)}
}

// ValueMatches reports whether v satisfies key.
func ValueMatches(v Value, key ValueKey) bool {
	return key.Tag.Match(TagOf(v)) && key.Type.Match(v)
}
