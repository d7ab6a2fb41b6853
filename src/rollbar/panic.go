package rollbar

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"rollbarreporter/src/frame"
	"rollbarreporter/src/level"
)

const (
	// PanicClass is the exception class of every panic report.
	PanicClass = "<panic>"

	// UnknownPanicPayload stands in for panic values that are neither text
	// nor an error.
	UnknownPanicPayload = "Box<Any>"
)

// Location is the source position a panic was raised at.
type Location struct {
	File string
	Line int
}

func (l *Location) Frame() frame.Frame {
	return frame.New().
		WithFileName(l.File).
		WithLineNumber(uint32(l.Line)).
		Build()
}

// PanicEvent is a recovered panic value plus where it was raised.
type PanicEvent struct {
	Value    any
	Location *Location
}

// NewPanicEvent describes a value returned by recover. Called while the
// goroutine is still panicking (from a deferred function), it also locates
// the statement that panicked.
func NewPanicEvent(value any) *PanicEvent {
	return &PanicEvent{Value: value, Location: panicLocation()}
}

// Message renders the panic value: text as is, errors and Stringers by
// their message, anything else as UnknownPanicPayload.
func (p *PanicEvent) Message() string {
	switch v := p.Value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return UnknownPanicPayload
	}
}

// panicLocation walks the current stack to the first frame below
// runtime.gopanic that does not belong to the runtime. Map operations panic
// from internal/runtime packages.
func panicLocation() *Location {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	panicking := false
	for {
		f, more := frames.Next()
		switch {
		case f.Function == "runtime.gopanic":
			panicking = true
		case panicking && !isRuntimeFunc(f.Function):
			return &Location{File: f.File, Line: f.Line}
		}
		if !more {
			return nil
		}
	}
}

func isRuntimeFunc(name string) bool {
	return strings.HasPrefix(name, "runtime.") || strings.HasPrefix(name, "internal/runtime/")
}

type panicHandler struct {
	client   *Client
	level    *level.Level
	strategy SendStrategy
	wait     time.Duration
}

type PanicOption func(*panicHandler)

// WithPanicLevel sets the level of panic reports. ERROR when unset.
func WithPanicLevel(l level.Level) PanicOption {
	return func(h *panicHandler) { h.level = &l }
}

// WithPanicSendStrategy delivers panic reports through strategy.
func WithPanicSendStrategy(strategy SendStrategy) PanicOption {
	return func(h *panicHandler) { h.strategy = strategy }
}

// WithPanicWait lets ReportPanic wait up to d for the delivery before the
// panic continues, giving the report a chance to leave a dying process.
func WithPanicWait(d time.Duration) PanicOption {
	return func(h *panicHandler) { h.wait = d }
}

var activeHandler atomic.Pointer[panicHandler]

// InstallPanicHandler makes client the destination of panics seen by
// ReportPanic. Only one handler is active; installing replaces the previous
// one, and the returned func puts it back.
func InstallPanicHandler(client *Client, opts ...PanicOption) (restore func()) {
	h := &panicHandler{client: client}
	for _, opt := range opts {
		opt(h)
	}
	prev := activeHandler.Swap(h)
	return func() { activeHandler.Store(prev) }
}

// UninstallPanicHandler disables panic reporting.
func UninstallPanicHandler() {
	activeHandler.Store(nil)
}

// ReportPanic reports a panic in flight to the installed handler and then
// lets it continue. Defer it at the top of a goroutine:
//
//	defer rollbar.ReportPanic()
func ReportPanic() {
	r := recover()
	if r == nil {
		return
	}
	if h := activeHandler.Load(); h != nil {
		h.handle(NewPanicEvent(r))
	}
	panic(r)
}

// HandlePanic reports an already recovered panic value to the installed
// handler. It returns nil when no handler is installed.
func HandlePanic(value any) *Delivery {
	h := activeHandler.Load()
	if h == nil {
		return nil
	}
	return h.send(NewPanicEvent(value))
}

func (h *panicHandler) handle(p *PanicEvent) {
	d := h.send(p)
	if h.wait <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.wait)
	defer cancel()
	_, _ = d.Wait(ctx)
}

func (h *panicHandler) send(p *PanicEvent) *Delivery {
	bt := frame.Capture(2)
	rb := h.client.BuildReport()
	if h.strategy != nil {
		rb.WithSendStrategy(h.strategy)
	}
	b := rb.FromPanic(p).WithBacktrace(bt)
	if h.level != nil {
		b.WithLevel(*h.level)
	}
	return b.Send()
}
