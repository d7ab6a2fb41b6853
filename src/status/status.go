package status

import (
	"fmt"
	"net/http"
)

// descriptions maps the status codes documented by the items endpoint to a
// human-readable explanation.
var descriptions = map[int]string{
	200: "The item was accepted for processing.",
	400: "No JSON payload was found, or it could not be decoded.",
	401: "No access token was found in the request.",
	403: "Check that your `access_token` is valid, enabled, and has the correct scope. The response will contain a `message` key explaining the problem.",
	413: "Max payload size is 128kb. Try removing or truncating unnecessary large data included in the payload, like whole binary files or long strings.",
	422: "A syntactically valid JSON payload was found, but it had one or more semantic errors. The response will contain a `message` key describing the errors.",
	429: "Request dropped because the rate limit has been reached for this access token, or the account is on the Free plan and the plan limit has been reached.",
	500: "There was an error on Rollbar's end.",
}

const undefinedDescription = "An undefined error occurred."

// ResponseStatus is the HTTP status returned by the items endpoint.
type ResponseStatus struct {
	code int
}

// FromHTTP wraps a status code as received from the transport.
func FromHTTP(code int) *ResponseStatus {
	return &ResponseStatus{code: code}
}

func (s *ResponseStatus) Code() int {
	return s.code
}

// IsSuccess reports whether the item was accepted.
func (s *ResponseStatus) IsSuccess() bool {
	return s.code == http.StatusOK
}

// IsRetryable reports whether resending the same payload later may succeed.
func (s *ResponseStatus) IsRetryable() bool {
	return s.code == http.StatusTooManyRequests || s.code >= http.StatusInternalServerError
}

// Description returns the documented explanation for the code, or a
// generic one for codes the service does not document.
func (s *ResponseStatus) Description() string {
	if msg, ok := descriptions[s.code]; ok {
		return msg
	}
	return undefinedDescription
}

func (s *ResponseStatus) String() string {
	return fmt.Sprintf("Error %d: %s", s.code, s.Description())
}
