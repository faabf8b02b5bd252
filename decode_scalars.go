package resp3

import (
	"math/big"

	"github.com/shawwn/resp3/internal/scan"
)

// decodeBlobLike implements the shared shape of blob string, blob error and
// verbatim string: `$size\r\n<size bytes>\r\n`, differing only in the
// leading type code, the label used in errors, and the resulting Kind.
func decodeBlobLike(r *Reader, code byte, label string, kind Kind) (DecodedValue, error) {
	if err := scan.Expect(r.src, label, []byte{code}); err != nil {
		return DecodedValue{}, err
	}
	size, _, err := scan.Uint64(r.src, label+" size")
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	payload, err := readExactly(r.src, label, size)
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	return DecodedValue{Kind: kind, Bytes: payload}, nil
}

// readExactly reads exactly n bytes, signaling short input (rather than a
// silent short read) if fewer are currently available.
func readExactly(src Source, label string, n uint64) ([]byte, error) {
	peek, err := src.Peek(int(n))
	if err != nil {
		return nil, err
	}
	if uint64(len(peek)) < n {
		return nil, scan.NewShort(label + " payload")
	}
	return src.Read(int(n))
}

func decodeBlobString(r *Reader, _ int) (DecodedValue, error) {
	return decodeBlobLike(r, '$', "blob string", KindBlobString)
}

func decodeBlobError(r *Reader, _ int) (DecodedValue, error) {
	return decodeBlobLike(r, '!', "blob error", KindBlobError)
}

func decodeVerbatimString(r *Reader, _ int) (DecodedValue, error) {
	return decodeBlobLike(r, '=', "verbatim string", KindVerbatim)
}

// decodeSimpleLike implements the shared shape of simple string and simple
// error: `+<bytes with no CR/LF>\r\n`.
func decodeSimpleLike(r *Reader, code byte, label string, kind Kind) (DecodedValue, error) {
	if err := scan.Expect(r.src, label, []byte{code}); err != nil {
		return DecodedValue{}, err
	}
	payload, err := scanSimplePayload(r.src, label)
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	return DecodedValue{Kind: kind, Bytes: payload}, nil
}

// scanSimplePayload reads bytes up to (excluding) CR, rejecting a bare LF
// appearing before the CR (spec.md §4.D: "a literal LF mid-payload is
// Unexpected").
func scanSimplePayload(src Source, label string) ([]byte, error) {
	var out []byte
	for {
		peek, err := src.Peek(1)
		if err != nil {
			return nil, err
		}
		if len(peek) == 0 {
			return nil, scan.NewShort(label)
		}
		switch peek[0] {
		case '\r':
			return out, nil
		case '\n':
			return nil, unexpected(label, peek)
		default:
			b, err := src.Read(1)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
}

func decodeSimpleString(r *Reader, _ int) (DecodedValue, error) {
	return decodeSimpleLike(r, '+', "simple string", KindSimpleString)
}

func decodeSimpleError(r *Reader, _ int) (DecodedValue, error) {
	return decodeSimpleLike(r, '-', "simple error", KindSimpleError)
}

func decodeInteger(r *Reader, _ int) (DecodedValue, error) {
	if err := scan.Expect(r.src, "integer", []byte{':'}); err != nil {
		return DecodedValue{}, err
	}
	n, _, err := scan.Int64(r.src, "integer", true)
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	return DecodedValue{Kind: KindInteger, Int: n}, nil
}

func decodeNull(r *Reader, _ int) (DecodedValue, error) {
	if err := scan.Expect(r.src, "null", []byte{'_'}); err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	return Null, nil
}

func decodeBoolean(r *Reader, _ int) (DecodedValue, error) {
	if err := scan.Expect(r.src, "boolean", []byte{'#'}); err != nil {
		return DecodedValue{}, err
	}
	b, err := readExactly(r.src, "boolean", 1)
	if err != nil {
		return DecodedValue{}, err
	}
	var v bool
	switch b[0] {
	case 't':
		v = true
	case 'f':
		v = false
	default:
		return DecodedValue{}, unexpected("boolean", b)
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	return DecodedValue{Kind: KindBoolean, Bool: v}, nil
}

// maxDoubleLexeme and maxBigNumberLexeme are the per-type lexeme bounds
// from spec.md §4.D and §8 property 4.
const (
	maxDoubleLexeme    = 256
	maxBigNumberLexeme = 65536
)

func decodeDouble(r *Reader, _ int) (DecodedValue, error) {
	if err := scan.Expect(r.src, "double", []byte{','}); err != nil {
		return DecodedValue{}, err
	}
	lex, err := scan.Until(r.src, "double", "\r\n", maxDoubleLexeme)
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	f, ok := parseDouble(lex)
	if !ok {
		return DecodedValue{}, unexpected("double", lex)
	}
	return DecodedValue{Kind: KindDouble, Double: f}, nil
}

func decodeBigNumber(r *Reader, _ int) (DecodedValue, error) {
	if err := scan.Expect(r.src, "big number", []byte{'('}); err != nil {
		return DecodedValue{}, err
	}
	lex, err := scan.Until(r.src, "big number", "\r\n", maxBigNumberLexeme)
	if err != nil {
		return DecodedValue{}, err
	}
	if err := scan.CRLF(r.src); err != nil {
		return DecodedValue{}, err
	}
	n, ok := new(big.Int).SetString(string(lex), 10)
	if !ok {
		return DecodedValue{}, unexpected("big number", lex)
	}
	raw := make([]byte, len(lex))
	copy(raw, lex)
	return DecodedValue{Kind: KindBigNumber, Big: n, Raw: raw}, nil
}
