// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// A Response is the response to one send of a prepared request.
type Response struct {
	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int
	// Status is the status line text, e.g. "200 OK".
	Status string
	// Proto is the protocol version, e.g. "HTTP/1.1".
	Proto string
	// Header holds the response headers.
	Header http.Header
	// URL is the URL the response was received from.
	URL *url.URL
	// Raw is the streaming handle for the response body. It is nil
	// once the body has been buffered by Content.
	Raw io.ReadCloser
	// Request is the prepared request that produced this response.
	Request *Prepared
	// History holds the intermediate responses produced while
	// resolving the call, oldest first. It is only set on the final
	// response of a call.
	History []*Response
	// Next is the request which would have been sent to follow this
	// response, when it is a redirect that was not followed.
	Next *Prepared
	// Elapsed is the time between starting the send and receiving the
	// response headers.
	Elapsed time.Duration

	mu       sync.Mutex
	content  []byte
	consumed bool
	readErr  error
}

// Content reads the entire response body, closes Raw, and returns the
// body. A gzip or deflate Content-Encoding is decoded. Repeated calls
// return the same content, or the same error.
func (r *Response) Content() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consumed {
		return r.content, r.readErr
	}
	r.consumed = true
	if r.Raw == nil {
		return nil, nil
	}
	r.content, r.readErr = readDecoded(r.Raw, r.contentEncoding())
	if err := r.Raw.Close(); err != nil && r.readErr == nil {
		r.readErr = err
	}
	r.Raw = nil
	return r.content, r.readErr
}

// Text returns the response body as a string, ignoring read errors.
func (r *Response) Text() string {
	b, _ := r.Content()
	return string(b)
}

// Close releases the connection held by an unread body.
func (r *Response) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Raw == nil {
		return nil
	}
	err := r.Raw.Close()
	r.Raw = nil
	r.consumed = true
	return err
}

// Location returns the Location header, or the empty string.
func (r *Response) Location() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("Location")
}

// IsRedirect reports whether the response is a redirect which can be
// followed: its status is one of 301, 302, 303, 307 or 308 and it has
// a Location header.
func (r *Response) IsRedirect() bool {
	return IsRedirectStatus(r.StatusCode) && r.Location() != ""
}

// IsPermanentRedirect reports whether the response is a followable 301
// or 308 redirect.
func (r *Response) IsPermanentRedirect() bool {
	return r.IsRedirect() &&
		(r.StatusCode == http.StatusMovedPermanently || r.StatusCode == http.StatusPermanentRedirect)
}

// Cookies parses the Set-Cookie headers of the response.
func (r *Response) Cookies() []*http.Cookie {
	return (&http.Response{Header: r.Header}).Cookies()
}

// IsRedirectStatus reports whether code is one of the redirect status
// codes 301, 302, 303, 307 or 308.
func IsRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func (r *Response) contentEncoding() string {
	if r.Header == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Encoding")))
}

func readDecoded(body io.Reader, encoding string) ([]byte, error) {
	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case "deflate":
		// Servers send either zlib-wrapped or raw deflate data.
		br := bufio.NewReader(body)
		if head, err := br.Peek(2); err == nil && isZlibHeader(head) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, err
			}
			defer zr.Close()
			return io.ReadAll(zr)
		}
		fr := flate.NewReader(br)
		defer fr.Close()
		return io.ReadAll(fr)
	default:
		return io.ReadAll(body)
	}
}

func isZlibHeader(b []byte) bool {
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}
