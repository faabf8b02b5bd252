package resp3

// PushSink receives out-of-band push frames as they arrive, in wire order.
// OnPush runs synchronously on the goroutine calling Reader.Read; it must
// not call Read on the same Reader (spec.md §5: "it must not re-enter the
// same reader").
type PushSink interface {
	OnPush(frame []DecodedValue)
}

// PushSinkFunc adapts a bare function to a PushSink, the way
// http.HandlerFunc adapts a function to an http.Handler.
type PushSinkFunc func(frame []DecodedValue)

// OnPush implements PushSink.
func (f PushSinkFunc) OnPush(frame []DecodedValue) { f(frame) }
