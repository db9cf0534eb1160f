// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Reply is a canned response of a FakeControlPlane.
type Reply struct {
	// Status defaults to 200.
	Status int

	// Header is added to the response.
	Header map[string]string

	// Body is sent verbatim when JSON is nil.
	Body string

	// JSON, if set, is encoded as the body.
	JSON interface{}
}

// Request is a request received by a FakeControlPlane.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// FakeControlPlane is an HTTP server answering with queued replies. The
// replies queued for a method and path are served in order; the last one
// is repeated for every further request.
type FakeControlPlane struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string][]Reply
	requests []Request
}

// NewFakeControlPlane starts a FakeControlPlane. Close it when done.
func NewFakeControlPlane() *FakeControlPlane {
	f := &FakeControlPlane{replies: make(map[string][]Reply)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// Queue adds replies for requests to method and path.
func (f *FakeControlPlane) Queue(method, path string, replies ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.replies[key] = append(f.replies[key], replies...)
}

// Requests returns the requests received so far.
func (f *FakeControlPlane) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// RequestsTo returns the requests received for method and path.
func (f *FakeControlPlane) RequestsTo(method, path string) []Request {
	var result []Request
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			result = append(result, r)
		}
	}
	return result
}

func (f *FakeControlPlane) serve(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	f.mu.Lock()
	f.requests = append(f.requests, Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})
	key := req.Method + " " + req.URL.Path
	queue := f.replies[key]
	var reply Reply
	found := len(queue) > 0
	if found {
		reply = queue[0]
		if len(queue) > 1 {
			f.replies[key] = queue[1:]
		}
	}
	f.mu.Unlock()

	if !found {
		http.Error(w, fmt.Sprintf("no reply queued for %s", key), http.StatusTeapot)
		return
	}

	data := []byte(reply.Body)
	if reply.JSON != nil {
		var err error
		if data, err = json.Marshal(reply.JSON); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
	}
	for k, v := range reply.Header {
		w.Header().Set(k, v)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
