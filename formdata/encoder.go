package formdata

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const defaultFileContentType = "application/octet-stream"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type EncoderOption func(*multipart.Writer) error

// WithBoundary fixes the multipart boundary instead of a random one.
func WithBoundary(boundary string) EncoderOption {
	return func(w *multipart.Writer) error {
		return w.SetBoundary(boundary)
	}
}

// Encoder streams a payload as multipart/form-data. Field headers are encoded
// up front; file contents are read from their readers only as the encoder is
// consumed, so the total length is known before anything is sent.
type Encoder struct {
	reader      io.Reader
	contentType string
	boundary    string
	length      int64
}

// segments collects the encoded bytes between file bodies.
type segments struct {
	current *bytes.Buffer
	readers []io.Reader
	length  int64
	known   bool
}

func (s *segments) Write(p []byte) (int, error) {
	return s.current.Write(p)
}

func (s *segments) seal() {
	if s.current.Len() == 0 {
		return
	}

	s.readers = append(s.readers, bytes.NewReader(s.current.Bytes()))
	s.length += int64(s.current.Len())
	s.current = &bytes.Buffer{}
}

func (s *segments) addFile(file *File) {
	s.seal()
	s.readers = append(s.readers, file.Reader)

	if file.Size < 0 {
		s.known = false

		return
	}

	s.length += file.Size
}

func NewEncoder(payload *Payload, opts ...EncoderOption) (*Encoder, error) {
	if err := payload.validate(); err != nil {
		return nil, err
	}

	segs := &segments{
		current: &bytes.Buffer{},
		readers: make([]io.Reader, 0),
		length:  0,
		known:   true,
	}

	writer := multipart.NewWriter(segs)

	for _, opt := range opts {
		if err := opt(writer); err != nil {
			return nil, fmt.Errorf("formdata: invalid encoder option: %w", err)
		}
	}

	for _, field := range payload.fields {
		if !field.IsFile() {
			if err := writer.WriteField(field.Name, field.Value); err != nil {
				return nil, fmt.Errorf("formdata: failed to encode field %q: %w", field.Name, err)
			}

			continue
		}

		if _, err := writer.CreatePart(fileHeader(field.Name, field.File)); err != nil {
			return nil, fmt.Errorf("formdata: failed to encode file %q: %w", field.Name, err)
		}

		segs.addFile(field.File)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("formdata: failed to close form: %w", err)
	}

	segs.seal()

	length := segs.length
	if !segs.known {
		length = -1
	}

	return &Encoder{
		reader:      io.MultiReader(segs.readers...),
		contentType: writer.FormDataContentType(),
		boundary:    writer.Boundary(),
		length:      length,
	}, nil
}

func (e *Encoder) Read(p []byte) (int, error) {
	return e.reader.Read(p)
}

// ContentType is the Content-Type header value, boundary included.
func (e *Encoder) ContentType() string {
	return e.contentType
}

func (e *Encoder) Boundary() string {
	return e.boundary
}

// Len is the total encoded size in bytes, or -1 when a file size is unknown.
func (e *Encoder) Len() int64 {
	return e.length
}

func fileHeader(name string, file *File) textproto.MIMEHeader {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultFileContentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(file.Filename)))
	header.Set("Content-Type", contentType)

	return header
}
