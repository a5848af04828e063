package token

// Character classes from the KDL 1.0.0 spec. The zero rune (returned by
// Source reads past the end) is a member of none of them.

// IsIdentChar reports whether r may appear in a bare identifier. The
// restrictions on the first character (no digits, no sign-then-digit) are
// contextual and enforced by the scanners.
func IsIdentChar(r rune) bool {
	switch r {
	case '\\', '/', '(', ')', '{', '}', '<', '>', ';', '[', ']', '=', ',', '"':
		return false
	}
	if r <= 0x20 || r > 0x10FFFF {
		return false
	}
	return !IsWhitespace(r) && !IsNewline(r)
}

func IsKeyword(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	return false
}

func IsSign(r rune) bool {
	return r == '+' || r == '-'
}

func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func IsBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

func IsOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

func IsHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}

// IsWhitespace reports whether r is non-newline whitespace (the KDL ws
// production).
func IsWhitespace(r rune) bool {
	switch r {
	case 0x09, 0x20, 0xA0, 0x1680, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// IsNewline reports whether r is a line terminator: LF, CR, NEL, FF, LS,
// PS. CRLF is handled by the callers that consume newlines.
func IsNewline(r rune) bool {
	switch r {
	case 0x0A, 0x0D, 0x85, 0x0C, 0x2028, 0x2029:
		return true
	}
	return false
}

func IsLinespace(r rune) bool {
	return IsWhitespace(r) || IsNewline(r)
}
