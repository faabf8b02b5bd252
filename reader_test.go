package resp3

import (
	"context"
	"math"
	"math/big"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawwn/resp3/resptest"
)

func decodeFixture(t *testing.T, fixture string, opts ...ReaderOption) (DecodedValue, error) {
	t.Helper()
	return ReadFromBytes(resptest.Bytes(fixture), opts...)
}

func TestSeedScenarios(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		v, err := decodeFixture(t, "_<CR><LF>")
		require.NoError(t, err)
		assert.Equal(t, KindNull, v.Kind)
	})

	t.Run("boolean true", func(t *testing.T) {
		v, err := decodeFixture(t, "#t<CR><LF>")
		require.NoError(t, err)
		assert.Equal(t, KindBoolean, v.Kind)
		assert.True(t, v.Bool)
	})

	t.Run("negative integer", func(t *testing.T) {
		v, err := decodeFixture(t, ":-42<CR><LF>")
		require.NoError(t, err)
		assert.Equal(t, KindInteger, v.Kind)
		assert.EqualValues(t, -42, v.Int)
	})

	t.Run("blob string", func(t *testing.T) {
		v, err := decodeFixture(t, "$5<CR><LF>hello<CR><LF>")
		require.NoError(t, err)
		assert.Equal(t, KindBlobString, v.Kind)
		assert.Equal(t, "hello", v.String())
	})

	t.Run("array", func(t *testing.T) {
		v, err := decodeFixture(t, "*3<CR><LF>:1<CR><LF>:2<CR><LF>:3<CR><LF>")
		require.NoError(t, err)
		require.Equal(t, KindArray, v.Kind)
		require.Len(t, v.Elems, 3)
		assert.EqualValues(t, 1, v.Elems[0].Int)
		assert.EqualValues(t, 2, v.Elems[1].Int)
		assert.EqualValues(t, 3, v.Elems[2].Int)
	})

	t.Run("map preserves order", func(t *testing.T) {
		v, err := decodeFixture(t, "%2<CR><LF>+a<CR><LF>:1<CR><LF>+b<CR><LF>:2<CR><LF>")
		require.NoError(t, err)
		require.Equal(t, KindMap, v.Kind)
		require.Len(t, v.Entries, 2)
		assert.Equal(t, "a", v.Entries[0].Key.String())
		assert.EqualValues(t, 1, v.Entries[0].Value.Int)
		assert.Equal(t, "b", v.Entries[1].Key.String())
		assert.EqualValues(t, 2, v.Entries[1].Value.Int)
	})

	t.Run("push routed to sink, read returns next frame", func(t *testing.T) {
		var got []DecodedValue
		sink := PushSinkFunc(func(frame []DecodedValue) { got = frame })

		buf := resptest.Bytes(">2<CR><LF>$6<CR><LF>pubsub<CR><LF>+hi<CR><LF>:7<CR><LF>")
		r := NewReader(NewBytesSource(buf), WithPushSink(sink))

		v, err := r.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, KindInteger, v.Kind)
		assert.EqualValues(t, 7, v.Int)

		require.Len(t, got, 2)
		assert.Equal(t, "pubsub", got[0].String())
		assert.Equal(t, "hi", got[1].String())
	})

	t.Run("bad boolean byte is Unexpected", func(t *testing.T) {
		_, err := decodeFixture(t, "#x<CR><LF>")
		var ue *UnexpectedError
		require.ErrorAs(t, err, &ue)
	})
}

func TestBlobError(t *testing.T) {
	v, err := ReadFromBytes([]byte("!22\r\nSYNTAX invalid request\r\n"))
	require.NoError(t, err)
	assert.Equal(t, KindBlobError, v.Kind)
	assert.True(t, v.IsError())
	assert.Equal(t, "SYNTAX invalid request", v.String())
}

func TestSimpleError(t *testing.T) {
	v, err := decodeFixture(t, "-ERR bad thing<CR><LF>")
	require.NoError(t, err)
	assert.Equal(t, KindSimpleError, v.Kind)
	assert.True(t, v.IsError())
}

func TestVerbatimString(t *testing.T) {
	v, err := ReadFromBytes([]byte("=15\r\ntxt:Some string\r\n"))
	require.NoError(t, err)
	assert.Equal(t, KindVerbatim, v.Kind)
	format, payload, ok := v.VerbatimFormat()
	require.True(t, ok)
	assert.Equal(t, "txt", format)
	assert.Equal(t, "Some string", string(payload))
}

func TestDoubleForms(t *testing.T) {
	for _, tc := range []struct {
		lexeme string
		want   float64
	}{
		{"3.14", 3.14},
		{"-1", -1},
		{"1.5e10", 1.5e10},
		{"1.5E-3", 1.5e-3},
	} {
		v, err := decodeFixture(t, ","+tc.lexeme+"<CR><LF>")
		require.NoError(t, err, tc.lexeme)
		assert.Equal(t, KindDouble, v.Kind)
		assert.InDelta(t, tc.want, v.Double, 1e-9, tc.lexeme)
	}
}

func TestDoubleInfAndNan(t *testing.T) {
	v, err := decodeFixture(t, ",inf<CR><LF>")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Double, 1))

	v, err = decodeFixture(t, ",-inf<CR><LF>")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v.Double, -1))

	v, err = decodeFixture(t, ",nan<CR><LF>")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Double))
}

func TestDoubleRejectsHexFloat(t *testing.T) {
	_, err := decodeFixture(t, ",0x1p0<CR><LF>")
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestBigNumber(t *testing.T) {
	v, err := decodeFixture(t, "(3492890328409238509324850943850943825024385<CR><LF>")
	require.NoError(t, err)
	assert.Equal(t, KindBigNumber, v.Kind)
	want, _ := new(big.Int).SetString("3492890328409238509324850943850943825024385", 10)
	assert.Equal(t, 0, v.Big.Cmp(want))
	assert.Equal(t, "3492890328409238509324850943850943825024385", string(v.Raw))
}

func TestSetDeduplicates(t *testing.T) {
	v, err := decodeFixture(t, "~3<CR><LF>:1<CR><LF>:1<CR><LF>:2<CR><LF>")
	require.NoError(t, err)
	assert.Equal(t, KindSet, v.Kind)
	require.Len(t, v.Elems, 2)
	assert.EqualValues(t, 1, v.Elems[0].Int)
	assert.EqualValues(t, 2, v.Elems[1].Int)
}

func TestAttributes(t *testing.T) {
	v, err := decodeFixture(t, "|1<CR><LF>+ttl<CR><LF>:100<CR><LF>:42<CR><LF>")
	require.NoError(t, err)
	require.Equal(t, KindAttributes, v.Kind)
	require.NotNil(t, v.Props)
	require.NotNil(t, v.Attr)
	assert.Equal(t, KindInteger, v.Attr.Kind)
	assert.EqualValues(t, 42, v.Attr.Int)
	ttl, ok := v.Lookup("ttl")
	require.True(t, ok)
	assert.EqualValues(t, 100, ttl.Int)
}

func TestNegativeArraySizeIsEmpty(t *testing.T) {
	v, err := decodeFixture(t, "*-1<CR><LF>")
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind)
	assert.Empty(t, v.Elems)
}

func TestPushWithoutSinkFails(t *testing.T) {
	_, err := decodeFixture(t, ">1<CR><LF>+hi<CR><LF>")
	var re *ReaderError
	require.ErrorAs(t, err, &re)
}

func TestEmptyPushIsUnexpected(t *testing.T) {
	buf := resptest.Bytes(">0<CR><LF>")
	r := NewReader(NewBytesSource(buf), WithPushSink(PushSinkFunc(func([]DecodedValue) {})))
	_, err := r.Read(context.Background())
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestPushNonBytesTagIsUnexpected(t *testing.T) {
	buf := resptest.Bytes(">1<CR><LF>:1<CR><LF>")
	r := NewReader(NewBytesSource(buf), WithPushSink(PushSinkFunc(func([]DecodedValue) {})))
	_, err := r.Read(context.Background())
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestMalformedIntegerIsUnexpectedNotScanMismatch(t *testing.T) {
	_, err := decodeFixture(t, ":abc<CR><LF>")
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestOversizedDoubleLexemeIsReaderErrorNotScanOverflow(t *testing.T) {
	huge := ""
	for i := 0; i < maxDoubleLexeme+1; i++ {
		huge += "1"
	}
	_, err := decodeFixture(t, ","+huge+"<CR><LF>")
	var re *ReaderError
	require.ErrorAs(t, err, &re)
}

func TestUnknownTypeCodeIsUnexpected(t *testing.T) {
	_, err := decodeFixture(t, "@foo<CR><LF>")
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestSimpleStringRejectsBareLF(t *testing.T) {
	raw := []byte("+abc\ndef\r\n")
	_, err := ReadFromBytes(raw)
	var ue *UnexpectedError
	require.ErrorAs(t, err, &ue)
}

func TestTrailingBytesRemainUnconsumed(t *testing.T) {
	raw := resptest.Bytes(":1<CR><LF>")
	raw = append(raw, []byte("extra")...)
	src := NewBytesSource(raw)
	r := NewReader(src)
	v, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, v.Int)
	rest, _ := src.Peek(len(raw))
	assert.Equal(t, "extra", string(rest))
}

func TestEndOfInputWithoutPending(t *testing.T) {
	_, err := ReadFromBytes([]byte(":1"))
	var eof *EndOfInputError
	require.ErrorAs(t, err, &eof)
}

func TestPendingReturnsErrMore(t *testing.T) {
	_, err := ReadFromBytes([]byte(":1"), WithPending())
	assert.ErrorIs(t, err, ErrMore)
}

func TestMapDuplicateKeyLastValueWinsAtFirstPosition(t *testing.T) {
	v, err := decodeFixture(t, "%2<CR><LF>+a<CR><LF>:1<CR><LF>+a<CR><LF>:2<CR><LF>")
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "a", v.Entries[0].Key.String())
	assert.EqualValues(t, 2, v.Entries[0].Value.Int)
}

func TestMaxRecursionDepth(t *testing.T) {
	// a deeply nested array, each element a 1-element array, exceeding a
	// tiny configured max depth.
	fixture := ""
	depth := 5
	for i := 0; i < depth; i++ {
		fixture += "*1<CR><LF>"
	}
	fixture += ":1<CR><LF>"

	_, err := decodeFixture(t, fixture, WithMaxRecursionDepth(2))
	var re *ReaderError
	require.ErrorAs(t, err, &re)
}

func TestDecodesFromSocketSource(t *testing.T) {
	pr, pw := net.Pipe()
	go func() {
		pw.Write(resptest.Bytes(":99<CR><LF>"))
		pw.Close()
	}()
	r := NewReader(NewBufioSource(pr, 0))
	v, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 99, v.Int)
}
