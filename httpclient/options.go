package httpclient

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout      = 30 * time.Second
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"
	HeaderAuthorization = "Authorization"
	ContentTypeJSON     = "application/json"
)

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if httpClient, ok := c.httpClient.(*http.Client); ok {
			httpClient.Timeout = timeout
		}
	}
}

func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for key, value := range headers {
			c.baseHeaders.Set(key, value)
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.baseHeaders.Set(HeaderUserAgent, userAgent)
	}
}

// WithAuth sets the header that carries the credential on every request.
func WithAuth(headerName string, value AuthValue) Option {
	return func(c *Client) {
		c.auth = &authHeader{name: headerName, value: value}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMaxResponseSize(size int64) Option {
	return func(c *Client) {
		c.maxResponseSize = size
	}
}

type RequestOption func(*requestConfig)

type requestConfig struct {
	headers       http.Header
	payload       map[string]any
	body          io.Reader
	contentLength int64
	streaming     bool
	errorMessage  string
	successStatus []int
	timeout       time.Duration
	requestID     string
}

func WithPayload(payload map[string]any) RequestOption {
	return func(rc *requestConfig) {
		rc.payload = payload
	}
}

// WithBody sends body verbatim instead of encoding a payload. The caller is
// responsible for the Content-Type header. A negative contentLength means
// unknown.
func WithBody(body io.Reader, contentLength int64) RequestOption {
	return func(rc *requestConfig) {
		rc.body = body
		rc.contentLength = contentLength
		rc.streaming = true
	}
}

func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(http.Header)
		}

		rc.headers.Set(key, value)
	}
}

func WithHeaders(headers map[string]string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(http.Header)
		}

		for key, value := range headers {
			rc.headers.Set(key, value)
		}
	}
}

func WithErrorMessage(message string) RequestOption {
	return func(rc *requestConfig) {
		rc.errorMessage = message
	}
}

// WithSuccessStatus replaces the set of statuses treated as success for this
// call. The default is 200 only.
func WithSuccessStatus(codes ...int) RequestOption {
	return func(rc *requestConfig) {
		rc.successStatus = codes
	}
}

func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = timeout
	}
}

func WithRequestID(requestID string) RequestOption {
	return func(rc *requestConfig) {
		rc.requestID = requestID
	}
}

// RequestSettings is the resolved form of a set of RequestOptions, with the
// client's per-call defaults applied. Request ID stays empty unless one was
// given.
type RequestSettings struct {
	Headers       http.Header
	Payload       map[string]any
	Body          io.Reader
	ContentLength int64
	Streaming     bool
	ErrorMessage  string
	SuccessStatus []int
	Timeout       time.Duration
	RequestID     string
}

// Settings resolves opts without sending anything, for code that accepts
// RequestOptions on behalf of a Client.
func Settings(opts ...RequestOption) RequestSettings {
	cfg := newRequestConfig(opts...)

	return RequestSettings{
		Headers:       cfg.headers,
		Payload:       cfg.payload,
		Body:          cfg.body,
		ContentLength: cfg.contentLength,
		Streaming:     cfg.streaming,
		ErrorMessage:  cfg.errorMessage,
		SuccessStatus: cfg.successStatus,
		Timeout:       cfg.timeout,
		RequestID:     cfg.requestID,
	}
}
