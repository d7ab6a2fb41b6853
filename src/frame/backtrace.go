package frame

import (
	"fmt"
	"runtime"
	"strings"
)

const maxDepth = 64

// Symbol is a resolved program counter of a captured call stack.
type Symbol struct {
	File     string
	Line     int
	Function string
}

// Backtrace is a call stack captured at a point in time. Resolution into
// symbols is deferred until the stack is rendered.
type Backtrace struct {
	pcs []uintptr
}

// NewBacktrace captures the stack of its caller.
func NewBacktrace() *Backtrace {
	return Capture(1)
}

// Capture records the current goroutine stack, skipping skip frames above
// the caller of Capture.
func Capture(skip int) *Backtrace {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	return &Backtrace{pcs: pcs[:n]}
}

// Symbols resolves the captured program counters, inlined calls included.
func (b *Backtrace) Symbols() []Symbol {
	if b == nil || len(b.pcs) == 0 {
		return nil
	}
	symbols := make([]Symbol, 0, len(b.pcs))
	frames := runtime.CallersFrames(b.pcs)
	for {
		f, more := frames.Next()
		symbols = append(symbols, Symbol{File: f.File, Line: f.Line, Function: f.Function})
		if !more {
			break
		}
	}
	return symbols
}

// String renders the stack one call per line, in the layout of a goroutine
// dump.
func (b *Backtrace) String() string {
	var sb strings.Builder
	for _, s := range b.Symbols() {
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", s.Function, s.File, s.Line)
	}
	return sb.String()
}
