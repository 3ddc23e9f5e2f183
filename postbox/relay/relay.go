// Package relay posts contact form submissions to a third-party form relay
// service (formsubmit-style endpoints) that forwards them as email.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/G-Node/postbox/postbox/form"
)

// Error is returned when the request to the relay could not be completed at
// the transport level.  A response with a non-2xx status is not an Error.
type Error struct {
	Op  string
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("relay %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// OK reports whether status is a 2xx status code.
func OK(status int) bool {
	return status >= 200 && status <= 299
}

// Client sends form submissions to a single relay endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a timeout on the underlying HTTP client.  Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New returns a Client for the given endpoint, which must be an absolute
// http(s) URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid relay url %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid relay url %q: must be an absolute http(s) url", endpoint)
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the relay URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Encode writes the four field values as multipart form data and returns the
// body with its content type.
func Encode(fields form.FormFields) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for _, f := range form.Fields {
		if err := mw.WriteField(string(f), fields.Get(f)); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}

// Post sends a single POST with the given fields and returns the response
// status code.  The response body is read and discarded.
func (c *Client) Post(ctx context.Context, fields form.FormFields) (int, error) {
	body, contentType, err := Encode(fields)
	if err != nil {
		return 0, &Error{Op: "encode", URL: c.endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return 0, &Error{Op: "request", URL: c.endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &Error{Op: "post", URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
