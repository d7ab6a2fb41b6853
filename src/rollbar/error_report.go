package rollbar

import (
	"rollbarreporter/src/frame"
	"rollbarreporter/src/level"
	"rollbarreporter/src/trace"
)

// ErrorReportBuilder assembles a report carrying a trace. Frames keep the
// order in which they were attached. Not safe for concurrent use.
type ErrorReportBuilder struct {
	report *ReportBuilder
	trace  *trace.Trace
	level  *level.Level
	title  *string
}

// WithBacktrace appends one frame per symbol of bt.
func (b *ErrorReportBuilder) WithBacktrace(bt *frame.Backtrace) *ErrorReportBuilder {
	b.trace.Append(frame.FromBacktrace(bt)...)
	return b
}

func (b *ErrorReportBuilder) WithFrame(f frame.Frame) *ErrorReportBuilder {
	b.trace.Append(f)
	return b
}

// WithDescription replaces the exception description, e.g. with a rendered
// stack.
func (b *ErrorReportBuilder) WithDescription(description string) *ErrorReportBuilder {
	b.trace.Exception.Description = description
	return b
}

func (b *ErrorReportBuilder) WithLevel(l level.Level) *ErrorReportBuilder {
	b.level = &l
	return b
}

// WithLevelText parses a severity name, see level.Parse.
func (b *ErrorReportBuilder) WithLevelText(s string) *ErrorReportBuilder {
	return b.WithLevel(level.Parse(s))
}

func (b *ErrorReportBuilder) WithTitle(title string) *ErrorReportBuilder {
	b.title = &title
	return b
}

// Trace exposes the trace accumulated so far.
func (b *ErrorReportBuilder) Trace() *trace.Trace {
	return b.trace
}

func (b *ErrorReportBuilder) data() errorData {
	return errorData{
		Environment: b.report.client.environment,
		Body:        traceBody{Trace: b.trace},
		Level:       levelOr(b.level, level.ERROR),
		Language:    Language,
		Title:       b.title,
	}
}

// Payload returns the JSON document Send would transmit.
func (b *ErrorReportBuilder) Payload() (string, error) {
	return encode(b.report.client, b.data())
}

// Send serializes the report and hands it to the delivery strategy without
// waiting for the outcome.
func (b *ErrorReportBuilder) Send() *Delivery {
	return b.report.send(b.data())
}
