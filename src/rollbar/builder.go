package rollbar

import (
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/level"
	"rollbarreporter/src/trace"
)

// ReportBuilder selects where a report comes from. It is obtained from
// Client.BuildReport and is meant for a single report.
type ReportBuilder struct {
	client       *Client
	sendStrategy SendStrategy
}

// WithSendStrategy replaces the client's delivery for this report.
func (rb *ReportBuilder) WithSendStrategy(strategy SendStrategy) *ReportBuilder {
	rb.sendStrategy = strategy
	return rb
}

// FromPanic starts an error report describing a recovered panic. The panic
// location, when known, becomes the first frame.
func (rb *ReportBuilder) FromPanic(p *PanicEvent) *ErrorReportBuilder {
	msg := p.Message()
	t := trace.New(PanicClass, msg, msg)
	if p.Location != nil {
		t.Append(p.Location.Frame())
	}
	return &ErrorReportBuilder{report: rb, trace: t, title: &msg}
}

// FromError starts an error report for err. The description renders the
// wrapped cause when err has one and err itself in verbose form otherwise.
func (rb *ReportBuilder) FromError(err error) *ErrorReportBuilder {
	class := fmt.Sprintf("%T", err)
	if err == nil {
		t := trace.New(class, class, class)
		return &ErrorReportBuilder{report: rb, trace: t, title: &class}
	}

	msg := err.Error()
	description, ok := causeOf(err)
	if !ok {
		description = fmt.Sprintf("%+v", err)
	}
	return &ErrorReportBuilder{
		report: rb,
		trace:  trace.New(class, msg, description),
		title:  &msg,
	}
}

// FromErrorMessage starts an error report for any printable value.
func (rb *ReportBuilder) FromErrorMessage(msg any) *ErrorReportBuilder {
	text := fmt.Sprint(msg)
	return &ErrorReportBuilder{
		report: rb,
		trace:  trace.New(fmt.Sprintf("%T", msg), text, text),
		title:  &text,
	}
}

// FromMessage starts a plain message report.
func (rb *ReportBuilder) FromMessage(text string) *MessageReportBuilder {
	return &MessageReportBuilder{report: rb, message: text}
}

func (rb *ReportBuilder) dispatch(payload string) *Delivery {
	if rb.sendStrategy == nil {
		return rb.client.Send(payload)
	}
	if d := rb.sendStrategy(rb.client.http, payload); d != nil {
		return d
	}
	return Resolved(nil)
}

func (rb *ReportBuilder) send(data any) *Delivery {
	payload, err := encode(rb.client, data)
	if err != nil {
		logger.WithError(err).Error("Failed to serialize rollbar report")
		return Resolved(nil)
	}
	return rb.dispatch(payload)
}

func causeOf(err error) (string, bool) {
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		causes := e.Unwrap()
		if len(causes) == 0 {
			return "", false
		}
		parts := make([]string, 0, len(causes))
		for _, c := range causes {
			if c != nil {
				parts = append(parts, c.Error())
			}
		}
		return strings.Join(parts, "\n"), len(parts) > 0
	default:
		if cause := errors.Unwrap(err); cause != nil {
			return cause.Error(), true
		}
		return "", false
	}
}

func levelOr(l *level.Level, fallback level.Level) level.Level {
	if l == nil {
		return fallback
	}
	return *l
}
