// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/juju/errors"
)

// Multipart is a multipart/form-data request body. It is sent as-is
// instead of being encoded as JSON.
type Multipart struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

// NewMultipart returns an empty multipart body.
func NewMultipart() *Multipart {
	m := &Multipart{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

// AddField adds a plain form field.
func (m *Multipart) AddField(name, value string) error {
	return errors.Trace(m.writer.WriteField(name, value))
}

// AddFile adds a file part read from r.
func (m *Multipart) AddFile(field, filename string, r io.Reader) error {
	part, err := m.writer.CreateFormFile(field, filename)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.Annotatef(err, "copying %q", filename)
	}
	return nil
}

// Close finishes the body. No parts can be added afterwards.
func (m *Multipart) Close() error {
	return errors.Trace(m.writer.Close())
}

// ContentType returns the content type, including the boundary.
func (m *Multipart) ContentType() string {
	return m.writer.FormDataContentType()
}

// Reader returns the encoded body.
func (m *Multipart) Reader() io.Reader {
	return bytes.NewReader(m.buf.Bytes())
}
