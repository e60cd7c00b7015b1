package scanner_client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type filePart struct {
	field    string
	filename string
	content  io.Reader
}

// MultipartPayload is a pre-built upload body: ordered scalar fields and at
// most one file. It is consumed by the request that sends it.
type MultipartPayload struct {
	fields []formField
	file   *filePart
}

// NewMultipartPayload returns an empty payload.
func NewMultipartPayload() *MultipartPayload {
	return &MultipartPayload{}
}

// AddField appends a scalar form field.
func (p *MultipartPayload) AddField(name, value string) *MultipartPayload {
	p.fields = append(p.fields, formField{name: name, value: value})
	return p
}

// SetFile sets the file part, replacing any previous one.
func (p *MultipartPayload) SetFile(field, filename string, content io.Reader) *MultipartPayload {
	p.file = &filePart{field: field, filename: filename, content: content}
	return p
}

// Field returns the first value of the named scalar field.
func (p *MultipartPayload) Field(name string) (string, bool) {
	for _, f := range p.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return "", false
}

// FieldNames lists scalar field names in insertion order.
func (p *MultipartPayload) FieldNames() []string {
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.name
	}
	return names
}

// HasFile reports whether a file part is set.
func (p *MultipartPayload) HasFile() bool {
	return p.file != nil && p.file.content != nil
}

// Filename returns the file part's name, or "" without a file.
func (p *MultipartPayload) Filename() string {
	if p.file == nil {
		return ""
	}
	return p.file.filename
}

func (p *MultipartPayload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if p.HasFile() {
		part, err := w.CreateFormFile(p.file.field, p.file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, p.file.content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", p.file.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
