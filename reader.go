package resp3

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shawwn/resp3/internal/scan"
)

// Reader decodes a sequence of RESP3 frames from a Source. A Reader is not
// safe for concurrent use: it owns exactly one logical stream-consumption
// session, and after any error the Reader is poisoned — further calls to
// Read have undefined results (spec.md §3, §5).
type Reader struct {
	src      Source
	pending  bool
	sink     PushSink
	maxDepth int
	id       uuid.UUID
}

// NewReader creates a Reader decoding from src, configured with opts.
func NewReader(src Source, opts ...ReaderOption) *Reader {
	cfg := defaultReaderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == uuid.Nil {
		cfg.id = uuid.New()
	}
	return &Reader{src: src, pending: cfg.pending, sink: cfg.sink, maxDepth: cfg.maxDepth, id: cfg.id}
}

// ReadFromBytes decodes a single frame from an in-memory buffer, configured
// with opts. It is a convenience wrapper around NewReader + BytesSource.
func ReadFromBytes(buf []byte, opts ...ReaderOption) (DecodedValue, error) {
	return NewReader(NewBytesSource(buf), opts...).Read(context.Background())
}

// ID returns the Reader's correlation ID, surfaced to ReadTrace hooks and
// wrapped errors.
func (r *Reader) ID() uuid.UUID { return r.id }

// Read decodes and returns the next frame from the Source, transparently
// routing any push frames encountered along the way to the configured
// PushSink before continuing (spec.md §4.F). It fails with
// *EndOfInputError, *UnexpectedError or *ReaderError, or returns ErrMore if
// the Reader was built with WithPending and the Source is currently short
// of bytes.
//
// Read never recurses to consume a run of consecutive pushes; it loops
// instead, so an adversarial peer flooding push frames cannot grow the Go
// call stack (spec.md §9 re-architecture guidance on recursion).
func (r *Reader) Read(ctx context.Context) (DecodedValue, error) {
	trace := fillMissingHooks(ContextReadTrace(ctx))
	for {
		trace.FrameStart(r.id)
		start := time.Now()
		v, err := r.dispatch(0)
		if err != nil {
			err = r.translate(err)
			trace.FrameDone(r.id, nil, err, time.Since(start))
			trace.Error(r.id, "Read", err)
			return DecodedValue{}, err
		}
		if v.Kind != KindPush {
			trace.FrameDone(r.id, &v, nil, time.Since(start))
			return v, nil
		}

		trace.FrameDone(r.id, &v, nil, time.Since(start))
		if r.sink == nil {
			trace.PushDropped(r.id, v.Elems)
			err := readerError("no push handler")
			trace.Error(r.id, "Read", err)
			return DecodedValue{}, err
		}
		trace.PushReceived(r.id, v.Elems)
		r.sink.OnPush(v.Elems)
		// loop: decode and return the next real frame.
	}
}

// translate converts the internal scan package's error types, which carry no
// opinion about resp3's public error contract, into their public
// equivalents: a scan.Short becomes either ErrMore (WithPending) or an
// *EndOfInputError (the default, blocking, convention); a scan.Mismatch
// becomes an *UnexpectedError; a scan.Overflow becomes a *ReaderError. Every
// other error already has its final shape and is returned unchanged.
func (r *Reader) translate(err error) error {
	if sh, ok := scan.IsShort(err); ok {
		if r.pending {
			return ErrMore
		}
		return endOfInput(sh.Label, nil)
	}
	if mm, ok := err.(*scan.Mismatch); ok {
		return unexpected(mm.Label, mm.Value)
	}
	if ov, ok := err.(*scan.Overflow); ok {
		return readerError("overflow in %s (max %d bytes)", ov.Label, ov.Maxlen)
	}
	return err
}

// dispatch is the Component E entry point shared by Read and every
// aggregate decoder's recursion into its children: peek one byte, look up
// the decoder for that type code, and invoke it. Errors (including
// *scan.Short) are returned unmodified; only the outermost call in Read
// translates them.
func (r *Reader) dispatch(depth int) (DecodedValue, error) {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return DecodedValue{}, readerError("maximum nesting depth %d exceeded", r.maxDepth)
	}
	peek, err := r.src.Peek(1)
	if err != nil {
		return DecodedValue{}, errors.WithStack(err)
	}
	if len(peek) == 0 {
		return DecodedValue{}, scan.NewShort("RESP3 type code")
	}
	code := peek[0]
	dec := decoders[code]
	if dec == nil {
		b, _ := r.src.Read(1)
		return DecodedValue{}, unexpected("RESP3 type code", b)
	}
	return dec(r, depth)
}
