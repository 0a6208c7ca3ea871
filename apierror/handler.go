package apierror

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/andyle182810/tensorci/httpclient"
	"github.com/rs/zerolog"
)

const (
	keyError  = "error"
	keyCode   = "code"
	keyErrors = "errors"
)

// Handler turns a failed API response into a diagnostic for the user.
type Handler struct {
	logger zerolog.Logger
}

func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// HandleError logs the diagnostic for reqErr and returns it.
func (h *Handler) HandleError(reqErr *httpclient.RequestError) string {
	if reqErr == nil {
		return ""
	}

	diagnostic := Format(reqErr)

	h.logger.Error().
		Int("status", reqErr.StatusCode).
		Str("request_id", reqErr.RequestID).
		Msg(diagnostic)

	return diagnostic
}

// Format renders the server-reported error, falling back to the status line
// when the body carries no message.
func Format(reqErr *httpclient.RequestError) string {
	var b strings.Builder

	if msg, ok := reqErr.Data[keyError].(string); ok && msg != "" {
		b.WriteString(msg)
	} else {
		fmt.Fprintf(&b, "Request failed with status %d", reqErr.StatusCode)

		if text := http.StatusText(reqErr.StatusCode); text != "" {
			fmt.Fprintf(&b, " (%s)", text)
		}
	}

	if code, ok := reqErr.Data[keyCode].(float64); ok {
		fmt.Fprintf(&b, " [code %d]", int(code))
	}

	for _, detail := range fieldErrors(reqErr.Data) {
		b.WriteString("\n  ")
		b.WriteString(detail)
	}

	return b.String()
}

// fieldErrors flattens an {"errors": {"field": "msg" | ["msg", ...]}} body
// into sorted "field: msg" lines.
func fieldErrors(data map[string]any) []string {
	raw, ok := data[keyErrors].(map[string]any)
	if !ok {
		return nil
	}

	lines := make([]string, 0, len(raw))

	for field, value := range raw {
		switch v := value.(type) {
		case string:
			lines = append(lines, field+": "+v)
		case []any:
			for _, item := range v {
				lines = append(lines, fmt.Sprintf("%s: %v", field, item))
			}
		default:
			lines = append(lines, fmt.Sprintf("%s: %v", field, v))
		}
	}

	slices.Sort(lines)

	return lines
}
