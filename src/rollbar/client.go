package rollbar

import (
	"crypto/tls"
	"crypto/x509"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"rollbarreporter/src/config"
	"rollbarreporter/src/status"
)

const (
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

// Client holds the credentials and the transport shared by every report it
// sends. It is immutable after New and safe for concurrent use.
type Client struct {
	http        *resty.Client
	accessToken string
	environment string
	endpoint    string
}

type options struct {
	endpoint   string
	timeout    time.Duration
	retryCount int
	http       *resty.Client
}

type Option func(*options)

// WithEndpoint overrides the items endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithTimeout bounds every HTTP request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithRetryCount retries requests that failed at the transport level or
// were answered with 408, 429 or 5xx.
func WithRetryCount(count int) Option {
	return func(o *options) { o.retryCount = count }
}

// WithHTTPClient replaces the transport built by New.
func WithHTTPClient(c *resty.Client) Option {
	return func(o *options) { o.http = c }
}

// New creates a Client. Failing to set up TLS is fatal: no report could
// ever be delivered without it.
func New(accessToken, environment string, opts ...Option) *Client {
	o := options{endpoint: config.DefaultEndpoint}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.http
	if httpClient == nil {
		httpClient = newTransport(o)
	}

	return &Client{
		http:        httpClient,
		accessToken: accessToken,
		environment: environment,
		endpoint:    o.endpoint,
	}
}

// NewFromConfig creates a Client from the environment configuration.
func NewFromConfig(cfg config.Config) *Client {
	return New(cfg.AccessToken, cfg.Environment,
		WithEndpoint(cfg.Endpoint),
		WithTimeout(cfg.Timeout),
		WithRetryCount(cfg.RetryCount),
	)
}

func newTransport(o options) *resty.Client {
	roots, err := x509.SystemCertPool()
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize TLS for the rollbar transport")
	}

	httpClient := resty.New().
		SetTLSClientConfig(&tls.Config{RootCAs: roots, MinVersion: tls.VersionTLS12}).
		SetHeader("Content-Type", "application/json")

	if o.timeout > 0 {
		httpClient.SetTimeout(o.timeout)
	}
	if o.retryCount > 0 {
		httpClient.
			SetRetryCount(o.retryCount).
			SetRetryWaitTime(defaultRetryBaseDelay).
			SetRetryMaxWaitTime(defaultRetryMaxBackoff).
			AddRetryCondition(isRetryableResp)
	}
	return httpClient
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	return code == 429 || code == 408
}

func (c *Client) AccessToken() string { return c.accessToken }

func (c *Client) Environment() string { return c.environment }

func (c *Client) Endpoint() string { return c.endpoint }

// BuildReport starts a new report. It has no side effects and may be called
// from any goroutine.
func (c *Client) BuildReport() *ReportBuilder {
	return &ReportBuilder{client: c}
}

// Send posts a serialized payload to the items endpoint in the background.
func (c *Client) Send(payload string) *Delivery {
	transport := c.http
	return Go(func() *status.ResponseStatus {
		return c.Post(transport, payload)
	})
}

// Post synchronously delivers payload over transport. Transport failures
// are logged together with the payload and yield a nil status; any status
// other than 200 is logged and returned.
func (c *Client) Post(transport *resty.Client, payload string) *status.ResponseStatus {
	resp, err := transport.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		logger.WithError(err).
			WithField("payload", payload).
			Error("Error while sending a report to Rollbar")
		return nil
	}

	st := status.FromHTTP(resp.StatusCode())
	if !st.IsSuccess() {
		logger.WithFields(logger.Fields{
			"status":   st.Code(),
			"response": resp.String(),
			"payload":  payload,
		}).Error(st.String())
	}
	return st
}

// Transport returns the shared HTTP client.
func (c *Client) Transport() *resty.Client { return c.http }
