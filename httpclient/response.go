package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode int
	Data       map[string]any
	Header     http.Header
	RequestID  string
}

// Decode re-encodes the parsed body into T.
func Decode[T any](resp *Response) (T, error) {
	var result T

	if resp == nil {
		return result, fmt.Errorf("%w: nil response", ErrDecodeResponse)
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return result, nil
}
