package httpclient

import (
	"errors"
	"fmt"
)

const DefaultErrorMessage = "API response error"

var (
	ErrTransport        = errors.New("httpclient: transport failure")
	ErrRequestError     = errors.New("httpclient: request error")
	ErrDecodeResponse   = errors.New("httpclient: failed to decode response")
	ErrCreateRequest    = errors.New("httpclient: failed to create request")
	ErrEncodeBody       = errors.New("httpclient: failed to encode request body")
	ErrAuthFailed       = errors.New("httpclient: authentication failed")
	ErrResponseTooLarge = errors.New("httpclient: response body too large")
	ErrUnknownVerb      = errors.New("httpclient: unknown verb")
)

// RequestError is returned when the server answers with a status outside the
// call's success set. Data holds the parsed JSON body, or an empty map.
type RequestError struct {
	StatusCode int
	Message    string
	Data       map[string]any
	RequestID  string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("httpclient: service returned status %d", e.StatusCode)
}

func (e *RequestError) Is(target error) bool {
	return errors.Is(target, ErrRequestError)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestError
}

func NewRequestError(statusCode int, message string, data map[string]any, requestID string) *RequestError {
	if data == nil {
		data = map[string]any{}
	}

	return &RequestError{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		RequestID:  requestID,
	}
}

func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}

	return nil, false
}

func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
