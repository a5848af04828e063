package token

import "strings"

// ScanRawString scans r"…", r#"…"#, … with the opening r at start. The
// second return is the hash count used. ok is false when start does not
// begin a raw string at all; err is set for a raw string that opens but
// never closes, or closes with too many hashes.
func ScanRawString(s *Source, start int) (val string, hashes, end int, ok bool, err error) {
	if s.Byte(start) != 'r' {
		return "", 0, start, false, nil
	}
	i := start + 1
	for s.Byte(i) == '#' {
		i++
	}
	hashes = i - start - 1
	if s.Byte(i) != '"' {
		return "", 0, start, false, nil
	}
	i++
	bodyStart := i
	for {
		for !s.EOF(i) && s.Byte(i) != '"' {
			i++
		}
		if s.EOF(i) {
			return "", 0, i, false, Errf(s, start, "hit EOF while looking for the end of the raw string")
		}
		bodyEnd := i
		i++
		j := i
		for s.Byte(j) == '#' {
			j++
		}
		count := j - i
		if count < hashes {
			// a quote inside the body; keep scanning
			continue
		}
		if count > hashes {
			return "", 0, i, false, Errf(s, i, "expected %d hashes at end of raw string; got %d", hashes, count)
		}
		return s.Slice(bodyStart, bodyEnd), hashes, j, true, nil
	}
}

// RawStringHashes returns the minimum hash count that lets chars be
// carried in a raw string without terminating it early.
func RawStringHashes(chars string) int {
	for i := 0; ; i++ {
		ender := `"` + strings.Repeat("#", i)
		if !strings.Contains(chars, ender) {
			return i
		}
	}
}
