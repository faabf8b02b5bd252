// Copyright 2018 Andrew Fort
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

// Package scan implements the low-level RESP3 byte grammar: matching literal
// byte sequences, reading up to a delimiter, and parsing bounded decimal
// lexemes. It knows nothing about frame types or the dispatch table; it
// operates purely on a Source and reports short input uniformly via Short,
// leaving the more-sentinel-versus-EndOfInput policy decision to the caller.
package scan

import (
	"fmt"
)

// Source is the minimal peek/read contract scan needs. It is satisfied by
// resp3.Source; it is declared again here (rather than imported) to keep
// this package free of any dependency on the root package.
type Source interface {
	Peek(n int) ([]byte, error)
	Read(n int) ([]byte, error)
}

// Short is returned by every function in this package when fewer bytes are
// currently available than the grammar requires. It carries the label of
// the field being scanned so the caller can build a precise EndOfInputError
// or, under the more-sentinel convention, discard it in favour of a plain
// "try again later" signal.
type Short struct {
	Label string
}

func (s *Short) Error() string {
	return fmt.Sprintf("resp3: short input expecting %s", s.Label)
}

func short(label string) error { return &Short{Label: label} }

// NewShort constructs the short-input sentinel for label. It is exported
// for the call sites outside this package that report shortness directly:
// the dispatcher's peek of the leading type-code byte, which runs before
// any particular frame decoder (and so before any scan.* call) is reached,
// and the root package's fixed-length payload and simple-string readers.
func NewShort(label string) error { return short(label) }

// IsShort reports whether err is a *Short, returning it if so.
func IsShort(err error) (*Short, bool) {
	s, ok := err.(*Short)
	return s, ok
}

// Mismatch is returned when the bytes present do not match the expected
// grammar: a literal mismatch, a non-digit where a digit was required, and
// so on. Callers translate this into resp3.UnexpectedError.
type Mismatch struct {
	Label string
	Value []byte
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("resp3: unexpected %s: %q", m.Label, m.Value)
}

func mismatch(label string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	return &Mismatch{Label: label, Value: cp}
}

// Overflow is returned when a bounded scan (Until, Int64) would need to
// read more than maxlen bytes to find its delimiter. Callers translate this
// into resp3.ReaderError.
type Overflow struct {
	Label  string
	Maxlen int
}

func (o *Overflow) Error() string {
	return fmt.Sprintf("resp3: overflow in %s (max %d bytes)", o.Label, o.Maxlen)
}

func overflow(label string, maxlen int) error { return &Overflow{Label: label, Maxlen: maxlen} }

// Expect reads exactly len(want) bytes and verifies they equal want. It
// returns a *Short if fewer bytes are currently available, a *Mismatch if
// the bytes present differ from want.
func Expect(src Source, label string, want []byte) error {
	got, err := src.Peek(len(want))
	if err != nil {
		return err
	}
	if len(got) < len(want) {
		return short(label)
	}
	for i := range want {
		if got[i] != want[i] {
			return mismatch(label, got)
		}
	}
	_, err = src.Read(len(want))
	return err
}

var crlf = []byte("\r\n")

// CRLF consumes a literal CR LF, the universal line terminator of every
// RESP3 header and scalar payload.
func CRLF(src Source) error {
	return Expect(src, "<CR><LF>", crlf)
}

// Until consumes bytes up to (not including) the next byte found in delims,
// failing with *Overflow if maxlen bytes are read without finding a
// delimiter, or *Short if the stream runs out first.
func Until(src Source, label string, delims string, maxlen int) ([]byte, error) {
	for n := 0; ; n++ {
		peek, err := src.Peek(n + 1)
		if err != nil {
			return nil, err
		}
		if len(peek) <= n {
			return nil, short(label)
		}
		if indexByte(delims, peek[n]) {
			return src.Read(n)
		}
		if n+1 > maxlen {
			return nil, overflow(label, maxlen)
		}
	}
}

func indexByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

// Int64 reads a decimal lexeme up to CRLF (not consuming the CRLF), capped
// at 20 bytes, and parses it as a signed or unsigned 64-bit integer.
// Signed lexemes allow an optional leading '+' or '-'; unsigned lexemes
// allow only an optional leading '+'. Returns *Mismatch if the lexeme is
// not a valid decimal of the requested sign convention.
func Int64(src Source, label string, signed bool) (int64, []byte, error) {
	lex, err := Until(src, label, "\r\n", 20)
	if err != nil {
		return 0, nil, err
	}
	n, ok := parseInt(lex, signed)
	if !ok {
		return 0, lex, mismatch(label, lex)
	}
	return n, lex, nil
}

// Uint64 is Int64(src, label, signed=false), returned as a uint64.
func Uint64(src Source, label string) (uint64, []byte, error) {
	n, lex, err := Int64(src, label, false)
	if err != nil {
		return 0, lex, err
	}
	return uint64(n), lex, nil
}

func parseInt(lex []byte, signed bool) (int64, bool) {
	if len(lex) == 0 {
		return 0, false
	}
	i := 0
	neg := false
	if lex[0] == '+' {
		i++
	} else if signed && lex[0] == '-' {
		neg = true
		i++
	}
	if i == len(lex) {
		return 0, false
	}
	var n int64
	for ; i < len(lex); i++ {
		d := lex[i]
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int64(d-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
