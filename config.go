package resp3

import "github.com/google/uuid"

// DefaultMaxRecursionDepth bounds aggregate nesting (spec.md §9: "implementers
// should guard against adversarial nesting by capping recursion").
const DefaultMaxRecursionDepth = 128

type readerConfig struct {
	pending  bool
	sink     PushSink
	maxDepth int
	id       uuid.UUID
}

var defaultReaderConfig = readerConfig{maxDepth: DefaultMaxRecursionDepth}

// ReaderOption configures a Reader at construction time.
type ReaderOption func(*readerConfig)

// WithPending enables the more-sentinel convention (spec.md §4.B): when the
// Source returns fewer bytes than the current frame needs, Read returns
// ErrMore instead of raising EndOfInputError. BufioSource still blocks until
// bytes arrive or the stream ends. A BytesSource never grows, so a retry
// uses a new Reader over a new BytesSource holding the longer buffer; see
// spec.md §9 open question 4 on resumability.
func WithPending() ReaderOption {
	return func(c *readerConfig) { c.pending = true }
}

// WithPushSink registers the sink that receives push frames. Without one,
// decoding a push frame fails with a ReaderError.
func WithPushSink(sink PushSink) ReaderOption {
	return func(c *readerConfig) { c.sink = sink }
}

// WithMaxRecursionDepth overrides DefaultMaxRecursionDepth. A non-positive
// value disables the guard entirely, which is not recommended for input
// from an untrusted peer.
func WithMaxRecursionDepth(depth int) ReaderOption {
	return func(c *readerConfig) { c.maxDepth = depth }
}

// WithReaderID assigns a correlation ID surfaced to ReadTrace hooks and
// wrapped errors. Without one, NewReader generates a random UUID, the way
// netconf/message.go tags each RPC request with uuid.New().
func WithReaderID(id uuid.UUID) ReaderOption {
	return func(c *readerConfig) { c.id = id }
}
