package formdata

import (
	"errors"
	"io"
)

var (
	ErrEmptyFieldName = errors.New("formdata: empty field name")
	ErrNilFileReader  = errors.New("formdata: nil file reader")
)

// File is a file field: the name sent to the server, the content stream and
// its declared content type. Size is the number of bytes Reader yields, or -1
// when unknown.
type File struct {
	Filename    string
	Reader      io.Reader
	ContentType string
	Size        int64
}

type Field struct {
	Name  string
	Value string
	File  *File
}

func (f Field) IsFile() bool {
	return f.File != nil
}

// Payload is an ordered set of form fields. Setting an existing name replaces
// the value in place and keeps its position.
type Payload struct {
	fields []Field
}

func NewPayload() *Payload {
	return &Payload{fields: make([]Field, 0)}
}

func (p *Payload) Set(name, value string) *Payload {
	p.put(Field{Name: name, Value: value, File: nil})

	return p
}

func (p *Payload) SetFile(name string, file File) *Payload {
	p.put(Field{Name: name, Value: "", File: &file})

	return p
}

// Get returns the string value of a non-file field.
func (p *Payload) Get(name string) (string, bool) {
	for _, f := range p.fields {
		if f.Name == name && !f.IsFile() {
			return f.Value, true
		}
	}

	return "", false
}

func (p *Payload) Has(name string) bool {
	for _, f := range p.fields {
		if f.Name == name {
			return true
		}
	}

	return false
}

func (p *Payload) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)

	return out
}

func (p *Payload) Len() int {
	return len(p.fields)
}

func (p *Payload) validate() error {
	for _, f := range p.fields {
		if f.Name == "" {
			return ErrEmptyFieldName
		}

		if f.IsFile() && f.File.Reader == nil {
			return ErrNilFileReader
		}
	}

	return nil
}

func (p *Payload) put(field Field) {
	for i, f := range p.fields {
		if f.Name == field.Name {
			p.fields[i] = field

			return
		}
	}

	p.fields = append(p.fields, field)
}
