// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package httpclient

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"
)

// Response is a fully read HTTP response.
type Response struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int

	// Status is the status text, without the code.
	Status string

	// Header holds the response headers.
	Header http.Header

	// Body is the complete response body.
	Body []byte
}

// Headers returns the response headers, or nil for a nil response.
func (r *Response) Headers() http.Header {
	if r == nil {
		return nil
	}
	return r.Header
}

// IsSuccess reports whether the status is a 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// JSON decodes the body into v.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Annotatef(err, "decoding %d response", r.StatusCode)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}
