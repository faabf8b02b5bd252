// Package resptest converts the human-readable RESP3 fixture syntax used in
// this module's tests into wire bytes (spec.md §4.G, Component G). It is a
// test convenience, not part of the wire contract, exported so that a
// future encoder or client package can reuse the same fixture syntax for
// its own tests, the way the teacher's testutil package is exported rather
// than kept internal.
package resptest

import "strings"

// Bytes converts a fixture string to wire bytes. In the fixture syntax,
// "<CR>" and "<LF>" are the only ways to introduce a literal CR or LF byte;
// any other whitespace (spaces, tabs, raw CR, raw LF) is stripped so
// fixtures can be written across multiple, indented source lines. The
// result is encoded one byte per rune via latin-1 (byte value = rune
// value), matching RESP3's treatment of string payloads as opaque bytes.
func Bytes(fixture string) []byte {
	s := fixture
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "<CR>", "\r")
	s = strings.ReplaceAll(s, "<LF>", "\n")

	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}
