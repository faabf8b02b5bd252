package resp3

import (
	"context"
	"log"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/imdario/mergo"
)

// ReadTrace defines a set of hooks for observing a Reader's progress. All
// fields are optional; a nil hook is simply skipped. Hooks run synchronously
// on the decoding goroutine.
type ReadTrace struct {
	// FrameStart is called before dispatching a top-level frame.
	FrameStart func(id uuid.UUID)

	// FrameDone is called after each top-level frame has been decoded (or
	// has failed), just before Read returns it; it is also called for push
	// frames, before they are delivered to the PushSink.
	FrameDone func(id uuid.UUID, v *DecodedValue, err error, d time.Duration)

	// PushReceived is called synchronously before a push frame is
	// delivered to the configured PushSink.
	PushReceived func(id uuid.UUID, frame []DecodedValue)

	// PushDropped is called instead of PushReceived when a push frame
	// arrives but no PushSink is configured.
	PushDropped func(id uuid.UUID, frame []DecodedValue)

	// Error is called after any error condition has been detected.
	Error func(id uuid.UUID, context string, err error)
}

// unique type to prevent assignment collisions on the context key.
type readTraceContextKey struct{}

// ContextReadTrace returns the ReadTrace associated with ctx, or nil if
// none has been registered.
func ContextReadTrace(ctx context.Context) *ReadTrace {
	trace, _ := ctx.Value(readTraceContextKey{}).(*ReadTrace)
	return trace
}

// WithReadTrace returns a new context based on ctx under which Reader.Read
// calls will use the supplied hooks, composed with (and given priority
// over) any hooks already registered on ctx.
func WithReadTrace(ctx context.Context, trace *ReadTrace) context.Context {
	if trace == nil {
		panic("nil trace")
	}
	old := ContextReadTrace(ctx)
	trace.compose(old)
	return context.WithValue(ctx, readTraceContextKey{}, trace)
}

// compose modifies t such that it respects the previously-registered hooks
// in old, calling t's hook first and then old's.
func (t *ReadTrace) compose(old *ReadTrace) {
	if old == nil {
		return
	}
	tv := reflect.ValueOf(t).Elem()
	ov := reflect.ValueOf(old).Elem()
	structType := tv.Type()
	for i := 0; i < structType.NumField(); i++ {
		tf := tv.Field(i)
		if tf.Kind() != reflect.Func {
			continue
		}
		of := ov.Field(i)
		if of.IsNil() {
			continue
		}
		if tf.IsNil() {
			tf.Set(of)
			continue
		}
		tfCopy := reflect.ValueOf(tf.Interface())
		hookType := tf.Type()
		newFunc := reflect.MakeFunc(hookType, func(args []reflect.Value) []reflect.Value {
			tfCopy.Call(args)
			return of.Call(args)
		})
		tv.Field(i).Set(newFunc)
	}
}

// NoOpReadTrace is a ReadTrace whose hooks all do nothing. It is merged
// into every trace used by Reader.Read (see fillMissingHooks) so call
// sites never need to check a hook field for nil.
var NoOpReadTrace = &ReadTrace{
	FrameStart:   func(uuid.UUID) {},
	FrameDone:    func(uuid.UUID, *DecodedValue, error, time.Duration) {},
	PushReceived: func(uuid.UUID, []DecodedValue) {},
	PushDropped:  func(uuid.UUID, []DecodedValue) {},
	Error:        func(uuid.UUID, string, error) {},
}

// DefaultReadLoggingHooks logs only error conditions and dropped pushes,
// via the standard log package.
var DefaultReadLoggingHooks = &ReadTrace{
	Error: func(id uuid.UUID, context string, err error) {
		log.Printf("resp3 %s: error context:%s err:%v\n", id, context, err)
	},
	PushDropped: func(id uuid.UUID, frame []DecodedValue) {
		log.Printf("resp3 %s: dropped push, no sink configured: %d elements\n", id, len(frame))
	},
}

// DiagnosticReadLoggingHooks logs every frame and push in addition to the
// hooks in DefaultReadLoggingHooks.
var DiagnosticReadLoggingHooks = &ReadTrace{
	FrameStart: func(id uuid.UUID) {
		log.Printf("resp3 %s: frame start\n", id)
	},
	FrameDone: func(id uuid.UUID, v *DecodedValue, err error, d time.Duration) {
		if err != nil {
			log.Printf("resp3 %s: frame done err:%v took:%s\n", id, err, d)
			return
		}
		log.Printf("resp3 %s: frame done kind:%s took:%s\n", id, v.Kind, d)
	},
	PushReceived: func(id uuid.UUID, frame []DecodedValue) {
		log.Printf("resp3 %s: push received elements:%d\n", id, len(frame))
	},
	PushDropped:  DefaultReadLoggingHooks.PushDropped,
	Error:        DefaultReadLoggingHooks.Error,
}

// fillMissingHooks merges NoOpReadTrace into trace for every nil hook
// field, the way v2/snmp's NewManager merges NoOpLoggingHooks into a
// caller-supplied trace before use. The returned value always has every
// hook populated.
func fillMissingHooks(trace *ReadTrace) *ReadTrace {
	if trace == nil {
		cp := *NoOpReadTrace
		return &cp
	}
	cp := *trace
	_ = mergo.Merge(&cp, NoOpReadTrace) // only fills cp's nil fields; never errors for identical struct types
	return &cp
}
