// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqerr

import (
	"errors"
	"fmt"

	"github.com/gogama/reqx/request"
)

// Kind classifies an Error.
type Kind int

const (
	// Unknown is the zero Kind.
	Unknown Kind = iota
	// Connection indicates the connection could not be established or
	// was lost, or that the adapter was closed.
	Connection
	// ConnectTimeout indicates the connect timeout expired.
	ConnectTimeout
	// ReadTimeout indicates the read timeout expired before the server
	// sent a response.
	ReadTimeout
	// SSL indicates a TLS handshake or certificate verification failure.
	SSL
	// Proxy indicates a failure talking to a proxy.
	Proxy
	// TooManyRedirects indicates the redirect ceiling was exceeded.
	TooManyRedirects
	// InvalidHeader indicates a header name or value is not valid.
	InvalidHeader
	// InvalidURL indicates the URL could not be parsed or has no host.
	InvalidURL
	// InvalidSchema indicates no adapter is mounted for the URL.
	InvalidSchema
	// MissingSchema indicates the URL has no scheme.
	MissingSchema
	// ChunkedEncoding indicates the response body could not be read.
	ChunkedEncoding
	// UnrewindableBody indicates a streaming request body could not be
	// replayed.
	UnrewindableBody
	// InvalidArgument indicates a malformed request description, such as
	// an invalid method or body type.
	InvalidArgument
)

var kindNames = [...]string{
	Unknown:          "unknown",
	Connection:       "connection",
	ConnectTimeout:   "connect timeout",
	ReadTimeout:      "read timeout",
	SSL:              "ssl",
	Proxy:            "proxy",
	TooManyRedirects: "too many redirects",
	InvalidHeader:    "invalid header",
	InvalidURL:       "invalid url",
	InvalidSchema:    "invalid schema",
	MissingSchema:    "missing schema",
	ChunkedEncoding:  "chunked encoding",
	UnrewindableBody: "unrewindable body",
	InvalidArgument:  "invalid argument",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinel errors for use with errors.Is.
var (
	ErrConnection       = &Error{Kind: Connection}
	ErrConnectTimeout   = &Error{Kind: ConnectTimeout}
	ErrReadTimeout      = &Error{Kind: ReadTimeout}
	ErrSSL              = &Error{Kind: SSL}
	ErrProxy            = &Error{Kind: Proxy}
	ErrTooManyRedirects = &Error{Kind: TooManyRedirects}
	ErrInvalidHeader    = &Error{Kind: InvalidHeader}
	ErrInvalidURL       = &Error{Kind: InvalidURL}
	ErrInvalidSchema    = &Error{Kind: InvalidSchema}
	ErrMissingSchema    = &Error{Kind: MissingSchema}
	ErrChunkedEncoding  = &Error{Kind: ChunkedEncoding}
	ErrUnrewindableBody = &Error{Kind: UnrewindableBody}
	ErrInvalidArgument  = &Error{Kind: InvalidArgument}
)

// Error is the error type returned by reqx operations.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// Op names the operation which failed, e.g. "prepare" or "send".
	Op string
	// URL is the URL being requested, if known.
	URL string
	// Err is the underlying error, if any.
	Err error
	// Response is the last response received, if any.
	Response *request.Response
	// History holds the responses received during the call before the
	// error occurred, oldest first.
	History []*request.Response
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "reqx: " + e.Kind.String()
	if e.Op != "" {
		msg = "reqx: " + e.Op + ": " + e.Kind.String()
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind. This lets
// the package sentinels match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Timeout reports whether the error is a connect or read timeout.
func (e *Error) Timeout() bool {
	return e.Kind == ConnectTimeout || e.Kind == ReadTimeout
}

// IsKind reports whether err, or an error it wraps, is an *Error of
// kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// New creates an error of the given kind.
func New(k Kind, op, url string, err error) *Error {
	return &Error{Kind: k, Op: op, URL: url, Err: err}
}

// NewConnectionError creates a Connection error.
func NewConnectionError(url string, err error) *Error {
	return New(Connection, "send", url, err)
}

// NewConnectTimeoutError creates a ConnectTimeout error.
func NewConnectTimeoutError(url string, err error) *Error {
	return New(ConnectTimeout, "send", url, err)
}

// NewReadTimeoutError creates a ReadTimeout error.
func NewReadTimeoutError(url string, err error) *Error {
	return New(ReadTimeout, "send", url, err)
}

// NewSSLError creates an SSL error.
func NewSSLError(url string, err error) *Error {
	return New(SSL, "send", url, err)
}

// NewProxyError creates a Proxy error.
func NewProxyError(url string, err error) *Error {
	return New(Proxy, "send", url, err)
}

// NewTooManyRedirectsError creates a TooManyRedirects error carrying the
// final redirect response and the history collected so far.
func NewTooManyRedirectsError(url string, max int, resp *request.Response, history []*request.Response) *Error {
	e := New(TooManyRedirects, "redirect", url, fmt.Errorf("exceeded %d redirects", max))
	e.Response = resp
	e.History = history
	return e
}

// NewInvalidHeaderError creates an InvalidHeader error.
func NewInvalidHeaderError(name, value string) *Error {
	return New(InvalidHeader, "prepare", "", fmt.Errorf("header %q has invalid name or value %q", name, value))
}
