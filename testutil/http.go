package testutil

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const maxFormMemory = 32 << 20

// RecordedRequest is a snapshot of a request received by a RecordingServer.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         map[string][]string
	Header        http.Header
	ContentLength int64
	Body          []byte
}

// FormValues parses a multipart body into its plain fields and file contents.
func (r RecordedRequest) FormValues(t *testing.T) (map[string]string, map[string][]byte) {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(maxFormMemory)
	require.NoError(t, err)

	fields := make(map[string]string, len(form.Value))
	for k, v := range form.Value {
		fields[k] = v[0]
	}

	files := make(map[string][]byte, len(form.File))

	for k, headers := range form.File {
		f, err := headers[0].Open()
		require.NoError(t, err)

		content, err := io.ReadAll(f)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		files[k] = content
	}

	return fields, files
}

// RecordingServer answers every request with a fixed status and body and
// keeps a copy of what it received.
type RecordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

func NewRecordingServer(t *testing.T, status int, body string) *RecordingServer {
	t.Helper()

	rs := &RecordingServer{
		Server:   nil,
		mu:       sync.Mutex{},
		requests: make([]RecordedRequest, 0),
	}

	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		rs.mu.Lock()
		rs.requests = append(rs.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Header:        r.Header.Clone(),
			ContentLength: r.ContentLength,
			Body:          data,
		})
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))

	t.Cleanup(rs.Close)

	return rs
}

func (rs *RecordingServer) Requests() []RecordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	out := make([]RecordedRequest, len(rs.requests))
	copy(out, rs.requests)

	return out
}

func (rs *RecordingServer) RequireSingleRequest(t *testing.T) RecordedRequest {
	t.Helper()

	requests := rs.Requests()
	require.Len(t, requests, 1, "expected exactly one request")

	return requests[0]
}

func (rs *RecordingServer) RequireNoRequests(t *testing.T) {
	t.Helper()
	require.Empty(t, rs.Requests(), "expected no requests")
}
