package resp3

// decodeFunc is the signature shared by every frame decoder: consume the
// frame's bytes from r's Source (the type-code byte has already been
// confirmed present by dispatch, but not yet consumed) and return the
// decoded value. depth is the current aggregate nesting depth, incremented
// by one for each recursive call into a child frame.
type decodeFunc func(r *Reader, depth int) (DecodedValue, error)

// decoders is the fixed type-code dispatch table (spec.md §9: "represent
// the type-code-to-decoder mapping as a fixed 256-entry table... Do not use
// dynamic registration at runtime; the type codes are closed"). It is
// populated once, in init, rather than built per-Reader.
var decoders [256]decodeFunc

func init() {
	decoders['$'] = decodeBlobString
	decoders['!'] = decodeBlobError
	decoders['='] = decodeVerbatimString
	decoders['+'] = decodeSimpleString
	decoders['-'] = decodeSimpleError
	decoders[':'] = decodeInteger
	decoders[','] = decodeDouble
	decoders['_'] = decodeNull
	decoders['#'] = decodeBoolean
	decoders['('] = decodeBigNumber
	decoders['*'] = decodeArray
	decoders['~'] = decodeSet
	decoders['%'] = decodeMap
	decoders['|'] = decodeAttributes
	decoders['>'] = decodePush
}
