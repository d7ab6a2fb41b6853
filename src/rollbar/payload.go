package rollbar

import (
	"bytes"
	"encoding/json"

	"rollbarreporter/src/level"
	"rollbarreporter/src/trace"
)

// Language is the source language tag carried by error reports.
const Language = "go"

type item struct {
	AccessToken string `json:"access_token"`
	Data        any    `json:"data"`
}

type traceBody struct {
	Trace *trace.Trace `json:"trace"`
}

type errorData struct {
	Environment string      `json:"environment"`
	Body        traceBody   `json:"body"`
	Level       level.Level `json:"level"`
	Language    string      `json:"language"`
	Title       *string     `json:"title,omitempty"`
}

type messageText struct {
	Body string `json:"body"`
}

type messageBody struct {
	Message messageText `json:"message"`
}

type messageData struct {
	Environment string      `json:"environment"`
	Body        messageBody `json:"body"`
	Level       level.Level `json:"level"`
}

func encode(c *Client, data any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(item{AccessToken: c.accessToken, Data: data}); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
