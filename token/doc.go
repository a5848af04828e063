// Package token provides the lexical layer under the KDL parser: the
// source cursor, positioned errors, character classes, and the low-level
// scanners for strings, identifiers, and number bodies. There is no token
// stream; the parser drives these primitives directly.
package token
