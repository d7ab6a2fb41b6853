package frame

import "runtime"

// Frame is one entry of a call stack as it appears in a report trace.
// Unset optional fields are dropped from the JSON form.
type Frame struct {
	FileName     string  `json:"filename"`
	LineNumber   *uint32 `json:"lineno,omitempty"`
	ColumnNumber *uint32 `json:"colno,omitempty"`
	FunctionName *string `json:"method,omitempty"`
}

// Builder accumulates the fields of a single Frame.
type Builder struct {
	frame Frame
}

// New starts a Frame whose file name is the source file of the caller.
func New() *Builder {
	b := &Builder{}
	if _, file, _, ok := runtime.Caller(1); ok {
		b.frame.FileName = file
	}
	return b
}

func (b *Builder) WithFileName(name string) *Builder {
	b.frame.FileName = name
	return b
}

func (b *Builder) WithLineNumber(line uint32) *Builder {
	b.frame.LineNumber = &line
	return b
}

func (b *Builder) WithColumnNumber(column uint32) *Builder {
	b.frame.ColumnNumber = &column
	return b
}

func (b *Builder) WithFunctionName(name string) *Builder {
	b.frame.FunctionName = &name
	return b
}

// Build returns a copy of the accumulated Frame that does not share state
// with the builder.
func (b *Builder) Build() Frame {
	out := Frame{FileName: b.frame.FileName}
	if b.frame.LineNumber != nil {
		line := *b.frame.LineNumber
		out.LineNumber = &line
	}
	if b.frame.ColumnNumber != nil {
		column := *b.frame.ColumnNumber
		out.ColumnNumber = &column
	}
	if b.frame.FunctionName != nil {
		name := *b.frame.FunctionName
		out.FunctionName = &name
	}
	return out
}

// FromSymbol converts one resolved stack symbol. A missing file becomes an
// empty name, a missing line or function is left unset.
func FromSymbol(s Symbol) Frame {
	b := &Builder{}
	b.WithFileName(s.File)
	if s.Line > 0 {
		b.WithLineNumber(uint32(s.Line))
	}
	if s.Function != "" {
		b.WithFunctionName(s.Function)
	}
	return b.Build()
}

// FromBacktrace turns every symbol of the backtrace into a Frame, keeping
// the backtrace order (innermost call first).
func FromBacktrace(bt *Backtrace) []Frame {
	if bt == nil {
		return nil
	}
	symbols := bt.Symbols()
	frames := make([]Frame, 0, len(symbols))
	for _, s := range symbols {
		frames = append(frames, FromSymbol(s))
	}
	return frames
}
