package trace

import "rollbarreporter/src/frame"

// DefaultClass is used when an exception is not derived from a typed origin.
const DefaultClass = "Generic"

// Exception describes the failure a Trace belongs to.
type Exception struct {
	Class       string `json:"class"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Trace is the body of an error report: the call frames in call order and
// the exception they lead to.
type Trace struct {
	Frames    []frame.Frame `json:"frames"`
	Exception Exception     `json:"exception"`
}

// New returns a Trace with no frames. An empty class falls back to
// DefaultClass and an empty description mirrors the message.
func New(class, message, description string) *Trace {
	if class == "" {
		class = DefaultClass
	}
	if description == "" {
		description = message
	}
	return &Trace{
		Frames: []frame.Frame{},
		Exception: Exception{
			Class:       class,
			Message:     message,
			Description: description,
		},
	}
}

// Append adds frames after the existing ones.
func (t *Trace) Append(frames ...frame.Frame) {
	t.Frames = append(t.Frames, frames...)
}
