package httpclient

import (
	"fmt"
	"net/http"
)

type Verb int

const (
	VerbGet Verb = iota
	VerbPost
	VerbPut
	VerbDelete
)

func (v Verb) Method() (string, error) {
	switch v {
	case VerbGet:
		return http.MethodGet, nil
	case VerbPost:
		return http.MethodPost, nil
	case VerbPut:
		return http.MethodPut, nil
	case VerbDelete:
		return http.MethodDelete, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownVerb, int(v))
	}
}

// sendsQuery reports whether the payload travels as query parameters instead
// of a JSON body.
func (v Verb) sendsQuery() bool {
	return v == VerbGet || v == VerbDelete
}

func (v Verb) String() string {
	method, err := v.Method()
	if err != nil {
		return fmt.Sprintf("Verb(%d)", int(v))
	}

	return method
}
