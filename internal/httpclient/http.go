// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	jujuhttp "github.com/juju/http/v2"
	"github.com/juju/loggo"
	"golang.org/x/oauth2"

	"github.com/rdecli/rde/internal/backoff"
	rdeerrors "github.com/rdecli/rde/internal/errors"
)

var logger = loggo.GetLogger("rde.httpclient")

// MIME represents a MIME type for identifying requests and response bodies.
type MIME = string

const (
	// JSON represents the MIME type for JSON request and response types.
	JSON MIME = "application/json"
)

const (
	defaultGetAttempts = 5
	defaultGetDelay    = time.Second
)

// Transport defines a type for making the actual request.
type Transport interface {
	// Do performs the *http.Request and returns a *http.Response or an error
	// if it fails to construct the transport.
	Do(*http.Request) (*http.Response, error)
}

// DefaultHTTPTransport creates a new Transport that logs through loggo.
func DefaultHTTPTransport() Transport {
	return jujuhttp.NewClient(
		jujuhttp.WithLogger(logger.Child("transport")),
	)
}

// Config holds what a Requester needs to talk to the control plane.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// Headers are sent with every request.
	Headers http.Header

	// TokenSource supplies the bearer token. It may be nil when the
	// endpoint is not authenticated.
	TokenSource oauth2.TokenSource

	// Transport performs the requests. DefaultHTTPTransport is used when
	// it is nil.
	Transport Transport

	// Clock is used for retry delays. The wall clock is used when nil.
	Clock clock.Clock

	// GetAttempts and GetDelay configure the retry of GET requests.
	GetAttempts int
	GetDelay    time.Duration
}

// Requester issues requests against a base URL with a fixed set of
// headers. Only GET requests are retried; mutating requests are made
// exactly once.
type Requester struct {
	baseURL     string
	headers     http.Header
	tokenSource oauth2.TokenSource
	transport   Transport
	clock       clock.Clock
	getAttempts int
	getDelay    time.Duration
}

// NewRequester creates a Requester from the config.
func NewRequester(config Config) (*Requester, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, errors.NotValidf("empty base URL")
	}
	r := &Requester{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		headers:     config.Headers.Clone(),
		tokenSource: config.TokenSource,
		transport:   config.Transport,
		clock:       config.Clock,
		getAttempts: config.GetAttempts,
		getDelay:    config.GetDelay,
	}
	if r.transport == nil {
		r.transport = DefaultHTTPTransport()
	}
	if r.clock == nil {
		r.clock = clock.WallClock
	}
	if r.getAttempts <= 0 {
		r.getAttempts = defaultGetAttempts
	}
	if r.getDelay <= 0 {
		r.getDelay = defaultGetDelay
	}
	return r, nil
}

// BaseURL returns the URL every request path is relative to.
func (r *Requester) BaseURL() string {
	return r.baseURL
}

// Clock returns the clock used by the requester.
func (r *Requester) Clock() clock.Clock {
	return r.clock
}

// Get makes a GET request. Transient failures, that is anything that is
// not a 2xx or a 404, are retried. When every attempt failed the last
// response is returned, and an error only if there was no response at all.
func (r *Requester) Get(ctx context.Context, path string, params interface{}) (*Response, error) {
	url, err := r.url(path, params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var (
		lastResp *Response
		lastErr  error
	)
	resp, ok := backoff.Until(ctx, backoff.UntilArgs[*Response]{
		Func: func() (*Response, error) {
			resp, err := r.do(ctx, http.MethodGet, url, nil)
			if err != nil {
				lastErr = err
			} else {
				lastResp = resp
			}
			return resp, err
		},
		Success:  isRetrySuccess,
		Attempts: r.getAttempts,
		Delay:    r.getDelay,
		Clock:    r.clock,
	})
	if !ok {
		if lastResp != nil && ctx.Err() == nil {
			return lastResp, nil
		}
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		return nil, rdeerrors.NetworkError(url, lastErr)
	}
	return resp, nil
}

// Post makes a single POST request.
func (r *Requester) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return r.once(ctx, http.MethodPost, path, nil, body)
}

// Put makes a single PUT request.
func (r *Requester) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return r.once(ctx, http.MethodPut, path, nil, body)
}

// Delete makes a single DELETE request, with optional query parameters.
func (r *Requester) Delete(ctx context.Context, path string, params interface{}) (*Response, error) {
	return r.once(ctx, http.MethodDelete, path, params, nil)
}

func (r *Requester) once(ctx context.Context, method, path string, params, body interface{}) (*Response, error) {
	url, err := r.url(path, params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	resp, err := r.do(ctx, method, url, body)
	if err != nil {
		return nil, rdeerrors.NetworkError(url, err)
	}
	return resp, nil
}

func (r *Requester) url(path string, params interface{}) (string, error) {
	url := r.baseURL + "/" + strings.TrimLeft(path, "/")
	if params == nil {
		return url, nil
	}
	values, err := query.Values(params)
	if err != nil {
		return "", errors.Annotatef(err, "encoding query for %q", path)
	}
	if encoded := values.Encode(); encoded != "" {
		url += "?" + encoded
	}
	return url, nil
}

func (r *Requester) do(ctx context.Context, method, url string, body interface{}) (*Response, error) {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Annotate(err, "can not make new request")
	}
	req.Header = r.composeHeaders()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.tokenSource != nil {
		token, err := r.tokenSource.Token()
		if err != nil {
			return nil, errors.Annotate(err, "obtaining access token")
		}
		token.SetAuthHeader(req)
	}

	if logger.IsTraceEnabled() {
		if data, err := httputil.DumpRequestOut(req, false); err == nil {
			logger.Tracef("%s request %s", method, data)
		}
	}

	resp, err := r.transport.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Annotatef(err, "reading response of %s %s", method, url)
	}
	logger.Tracef("%s %s -> %d (%d bytes)", method, url, resp.StatusCode, len(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// composeHeaders creates a new set of headers from scratch.
func (r *Requester) composeHeaders() http.Header {
	result := make(http.Header)
	result.Set("Accept", JSON)
	for k, vs := range r.headers {
		for _, v := range vs {
			result.Add(k, v)
		}
	}
	result.Set("X-Request-Id", uuid.NewString())
	return result
}

func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.Reader(), b.ContentType(), nil
	default:
		buffer := new(bytes.Buffer)
		if err := json.NewEncoder(buffer).Encode(body); err != nil {
			return nil, "", errors.Annotate(err, "encoding request body")
		}
		return buffer, JSON, nil
	}
}

// isRetrySuccess reports whether a GET response ends the retry loop. A 404
// is final: for several resources "not there yet" is a valid answer.
func isRetrySuccess(resp *Response) bool {
	if resp == nil {
		return false
	}
	return resp.IsSuccess() || resp.StatusCode == http.StatusNotFound
}

func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
