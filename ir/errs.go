package ir

import "errors"

// ErrNotFound reports a lookup key that matched nothing. It is distinct
// from parse errors; use Get for the non-signaling form.
var ErrNotFound = errors.New("key not found")
