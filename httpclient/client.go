package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

type Client struct {
	baseURL         string
	httpClient      Doer
	baseHeaders     http.Header
	auth            *authHeader
	logger          zerolog.Logger
	maxResponseSize int64 // 0 means no limit
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{ //nolint:exhaustruct
			Timeout: DefaultTimeout,
		},
		baseHeaders: http.Header{
			HeaderContentType: []string{ContentTypeJSON},
		},
		auth:            nil,
		logger:          log.Logger,
		maxResponseSize: 0,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Get(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, VerbGet, route, opts...)
}

func (c *Client) Post(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, VerbPost, route, opts...)
}

func (c *Client) Put(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, VerbPut, route, opts...)
}

func (c *Client) Delete(ctx context.Context, route string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, VerbDelete, route, opts...)
}

func (c *Client) Do(ctx context.Context, verb Verb, route string, opts ...RequestOption) (*Response, error) {
	return c.request(ctx, verb, route, opts...)
}

func (c *Client) request(ctx context.Context, verb Verb, route string, opts ...RequestOption) (*Response, error) {
	method, err := verb.Method()
	if err != nil {
		return nil, err
	}

	cfg := c.buildRequestConfig(opts...)

	reqCtx := ctx

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	headers, err := c.mergeHeaders(reqCtx, cfg)
	if err != nil {
		return nil, err
	}

	req, err := c.buildRequest(reqCtx, verb, method, route, headers, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logTransportError(req, cfg.requestID, err)

		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	result, err := c.handleResponse(resp, cfg)
	if errors.Is(err, ErrTransport) {
		c.logTransportError(req, cfg.requestID, err)
	}

	return result, err
}

func (c *Client) logTransportError(req *http.Request, requestID string, err error) {
	c.logger.Error().
		Err(err).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Msg("Unknown error while making request")
}

func (c *Client) buildRequestConfig(opts ...RequestOption) *requestConfig {
	cfg := newRequestConfig(opts...)

	if cfg.requestID == "" {
		cfg.requestID = uuid.New().String()
	}

	return cfg
}

func newRequestConfig(opts ...RequestOption) *requestConfig {
	cfg := &requestConfig{
		headers:       make(http.Header),
		payload:       nil,
		body:          nil,
		contentLength: -1,
		streaming:     false,
		errorMessage:  DefaultErrorMessage,
		successStatus: []int{http.StatusOK},
		timeout:       0,
		requestID:     "",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// mergeHeaders builds a fresh header set: base headers, then the auth header,
// then the per-call headers. Keys are canonical, so a later layer replaces an
// earlier one regardless of case.
func (c *Client) mergeHeaders(ctx context.Context, cfg *requestConfig) (http.Header, error) {
	headers := c.baseHeaders.Clone()

	if err := c.auth.apply(ctx, headers); err != nil {
		return nil, err
	}

	maps.Copy(headers, cfg.headers)

	return headers, nil
}

func (c *Client) buildRequest(
	ctx context.Context,
	verb Verb,
	method string,
	route string,
	headers http.Header,
	cfg *requestConfig,
) (*http.Request, error) {
	var (
		bodyReader    io.Reader
		contentLength int64 = -1
		query         url.Values
	)

	switch {
	case cfg.streaming:
		bodyReader = cfg.body
		contentLength = cfg.contentLength
	case verb.sendsQuery():
		query = encodeQuery(cfg.payload)
	default:
		payload := cfg.payload
		if payload == nil {
			payload = map[string]any{}
		}

		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(route, query), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}

	if cfg.streaming && contentLength >= 0 {
		req.ContentLength = contentLength
	}

	req.Header = headers

	req.Header.Set(HeaderXRequestID, cfg.requestID)

	return req, nil
}

func (c *Client) handleResponse(resp *http.Response, cfg *requestConfig) (*Response, error) {
	requestID := resp.Header.Get(HeaderXRequestID)
	if requestID == "" {
		requestID = cfg.requestID
	}

	data, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Data:       data,
		Header:     resp.Header.Clone(),
		RequestID:  requestID,
	}

	if !slices.Contains(cfg.successStatus, resp.StatusCode) {
		return result, NewRequestError(resp.StatusCode, cfg.errorMessage, data, requestID)
	}

	return result, nil
}

// readBody parses the body as a JSON object. Anything unparsable yields an
// empty map.
func (c *Client) readBody(body io.Reader) (map[string]any, error) {
	if c.maxResponseSize > 0 {
		body = io.LimitReader(body, c.maxResponseSize+1)
	}

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if c.maxResponseSize > 0 && int64(len(bodyBytes)) > c.maxResponseSize {
		return nil, ErrResponseTooLarge
	}

	data := map[string]any{}
	if err := json.Unmarshal(bodyBytes, &data); err != nil || data == nil {
		return map[string]any{}, nil //nolint:nilerr
	}

	return data, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(route string, query url.Values) string {
	if route != "" && !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	fullURL := c.baseURL + route

	if len(query) == 0 {
		return fullURL
	}

	return fullURL + "?" + query.Encode()
}

func encodeQuery(payload map[string]any) url.Values {
	params := url.Values{}

	for k, v := range payload {
		switch val := v.(type) {
		case nil:
			params.Add(k, "")
		case []string:
			for _, item := range val {
				params.Add(k, item)
			}
		case []any:
			for _, item := range val {
				params.Add(k, fmt.Sprint(item))
			}
		default:
			params.Add(k, fmt.Sprint(val))
		}
	}

	return params
}
