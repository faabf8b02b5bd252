package resp3

import (
	"bytes"
	"math/big"
	"strconv"
)

// Kind identifies the concrete shape held by a DecodedValue. It is keyed on
// the RESP3 type-code byte that produced the value, except for Push, which
// is never returned to a caller (it is routed to the configured PushSink).
type Kind byte

// The Kind values, one per RESP3 frame type. The underlying byte matches the
// wire type code so a Kind can be used directly as a dispatch-table index.
const (
	KindBlobString   Kind = '$'
	KindBlobError    Kind = '!'
	KindVerbatim     Kind = '='
	KindSimpleString Kind = '+'
	KindSimpleError  Kind = '-'
	KindInteger      Kind = ':'
	KindDouble       Kind = ','
	KindBoolean      Kind = '#'
	KindNull         Kind = '_'
	KindBigNumber    Kind = '('
	KindArray        Kind = '*'
	KindSet          Kind = '~'
	KindMap          Kind = '%'
	KindAttributes   Kind = '|'
	KindPush         Kind = '>'
)

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBlobString:
		return "blob string"
	case KindBlobError:
		return "blob error"
	case KindVerbatim:
		return "verbatim string"
	case KindSimpleString:
		return "simple string"
	case KindSimpleError:
		return "simple error"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindBigNumber:
		return "big number"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindAttributes:
		return "attributes"
	case KindPush:
		return "push"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// MapEntry is one key/value pair of a decoded Map, kept in wire order.
type MapEntry struct {
	Key   DecodedValue
	Value DecodedValue
}

// DecodedValue is the tagged union produced by Reader.Read. Exactly one
// field group is meaningful for any given Kind; see the accessor methods
// for the intended way to consume a value instead of reaching into the
// struct directly.
type DecodedValue struct {
	Kind Kind

	// Bytes backs BlobString, BlobError, Verbatim, SimpleString and
	// SimpleError. It is the raw payload with no UTF-8 assumption.
	Bytes []byte

	// Int backs Integer.
	Int int64

	// Double backs Double.
	Double float64

	// Bool backs Boolean.
	Bool bool

	// Big backs BigNumber, parsed to arbitrary precision.
	Big *big.Int
	// Raw retains the lexeme BigNumber was parsed from, for callers that
	// need to compare or re-encode the exact source digits.
	Raw []byte

	// Elems backs Array and Set, in wire order. For Set the slice has
	// already been de-duplicated by element equality (see DecodedValue.equalKey).
	Elems []DecodedValue

	// Entries backs Map, in wire order; last value wins for duplicate keys.
	Entries []MapEntry

	// Props and Attr back Attributes: Props is always a Map, Attr is the
	// frame the attributes annotate.
	Props *DecodedValue
	Attr  *DecodedValue
}

// Null is the canonical decoded null value.
var Null = DecodedValue{Kind: KindNull}

// IsError reports whether v carries a RESP3 error payload (blob error or
// simple error).
func (v DecodedValue) IsError() bool {
	return v.Kind == KindBlobError || v.Kind == KindSimpleError
}

// String renders the textual forms (blob/simple string or error, verbatim)
// as a Go string. It returns "" for every other Kind.
func (v DecodedValue) String() string {
	switch v.Kind {
	case KindBlobString, KindBlobError, KindVerbatim, KindSimpleString, KindSimpleError:
		return string(v.Bytes)
	default:
		return ""
	}
}

// VerbatimFormat splits a Verbatim string's 3-byte format marker (e.g.
// "txt", "mkd") from its payload. It reports ok=false if v is not a
// Verbatim value or the marker is malformed (the core Bytes field is left
// untouched either way; this is a convenience accessor layered on top, not
// a redefinition of the wire decode).
func (v DecodedValue) VerbatimFormat() (format string, payload []byte, ok bool) {
	if v.Kind != KindVerbatim || len(v.Bytes) < 4 || v.Bytes[3] != ':' {
		return "", nil, false
	}
	return string(v.Bytes[:3]), v.Bytes[4:], true
}

// Lookup returns the value mapped to a simple/blob-string key equal to
// name, for Map and Attributes values. It reports ok=false if v is not a
// map-shaped value or no entry matches.
func (v DecodedValue) Lookup(name string) (val DecodedValue, ok bool) {
	entries := v.Entries
	if v.Kind == KindAttributes {
		if v.Props == nil {
			return DecodedValue{}, false
		}
		entries = v.Props.Entries
	}
	for _, e := range entries {
		if e.Key.String() == name {
			return e.Value, true
		}
	}
	return DecodedValue{}, false
}

// equalKey returns a byte key usable to compare two DecodedValues for
// set/map-key equality, implementing the "host's equality on the element
// representation" that spec.md leaves to the implementation. Two values
// produce the same key iff they have the same Kind and the same decoded
// payload; aggregates compare their children recursively.
func (v DecodedValue) equalKey() string {
	var b bytes.Buffer
	v.writeEqualKey(&b)
	return b.String()
}

func (v DecodedValue) writeEqualKey(b *bytes.Buffer) {
	b.WriteByte(byte(v.Kind))
	switch v.Kind {
	case KindBlobString, KindBlobError, KindVerbatim, KindSimpleString, KindSimpleError:
		b.WriteString(strconv.Itoa(len(v.Bytes)))
		b.WriteByte(0)
		b.Write(v.Bytes)
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
		b.WriteByte(0)
	case KindDouble:
		b.WriteString(strconv.FormatFloat(v.Double, 'g', -1, 64))
		b.WriteByte(0)
	case KindBoolean:
		if v.Bool {
			b.WriteByte(1)
		} else {
			b.WriteByte(0)
		}
	case KindBigNumber:
		if v.Big != nil {
			b.WriteString(v.Big.String())
		}
		b.WriteByte(0)
	case KindNull:
		// no payload
	case KindArray, KindSet:
		b.WriteString(strconv.Itoa(len(v.Elems)))
		b.WriteByte(0)
		for _, e := range v.Elems {
			e.writeEqualKey(b)
		}
	case KindMap:
		b.WriteString(strconv.Itoa(len(v.Entries)))
		b.WriteByte(0)
		for _, e := range v.Entries {
			e.Key.writeEqualKey(b)
			e.Value.writeEqualKey(b)
		}
	case KindAttributes:
		if v.Props != nil {
			v.Props.writeEqualKey(b)
		}
		if v.Attr != nil {
			v.Attr.writeEqualKey(b)
		}
	}
}

// newSet de-duplicates elems by equalKey, keeping the first occurrence of
// each distinct element and preserving wire order (spec.md §3: "duplicates
// collapse by the host's equality on the element representation").
func newSet(elems []DecodedValue) []DecodedValue {
	seen := make(map[string]struct{}, len(elems))
	out := make([]DecodedValue, 0, len(elems))
	for _, e := range elems {
		k := e.equalKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
