package rollbar

import (
	"runtime"

	"rollbarreporter/src/frame"
	"rollbarreporter/src/level"
)

// Shortcuts for the usual report shapes. Anything more specific goes
// through Client.BuildReport.

// ReportError reports err with the caller's stack followed by the caller's
// position.
func ReportError(client *Client, err error) *Delivery {
	bt := frame.Capture(1)
	return client.BuildReport().
		FromError(err).
		WithBacktrace(bt).
		WithFrame(callerFrame()).
		Send()
}

// ReportErrorMessage reports msg as an error, the caller's position first.
func ReportErrorMessage(client *Client, msg any) *Delivery {
	bt := frame.Capture(1)
	return client.BuildReport().
		FromErrorMessage(msg).
		WithFrame(callerFrame()).
		WithBacktrace(bt).
		Send()
}

// ReportMessage sends text as an INFO message.
func ReportMessage(client *Client, text string) *Delivery {
	return client.BuildReport().
		FromMessage(text).
		WithLevel(level.INFO).
		Send()
}

// ReportPanics installs client as the panic handler, see
// InstallPanicHandler.
func ReportPanics(client *Client, opts ...PanicOption) (restore func()) {
	return InstallPanicHandler(client, opts...)
}

func callerFrame() frame.Frame {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return frame.New().WithFileName("").Build()
	}
	return frame.New().
		WithFileName(file).
		WithLineNumber(uint32(line)).
		Build()
}
