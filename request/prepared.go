// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "reqx/request: nil context"
)

// A Prepared is the fully resolved, wire-ready form of a logical
// request.
//
// A Prepared request is immutable once built, except for the read
// position of a streaming body. Code which needs to change a prepared
// request, for example to follow a redirect, must Clone it and adjust
// the clone.
type Prepared struct {
	// Method is the HTTP method, never empty.
	Method string
	// URL is the final URL, including query parameters and without
	// userinfo.
	URL *urlpkg.URL
	// Header is the final header set.
	Header http.Header
	// Body is the encoded body, which may be nil.
	Body *Body
	// Jar receives cookies set by responses to this request and
	// supplies the Cookie header on redirects.
	Jar http.CookieJar

	ctx context.Context
}

// NewPrepared builds a prepared request directly, without session
// settings. It validates the method and URL. Most callers should use
// the session's Prepare method instead.
func NewPrepared(method, url string, body interface{}) (*Prepared, error) {
	if method == "" {
		method = "GET"
	}
	if !ValidMethod(method) {
		return nil, fmt.Errorf("reqx/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, err := NewBody(body)
	if err != nil {
		return nil, err
	}
	p := &Prepared{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   b,
	}
	p.SetContentLength()
	return p, nil
}

// Context returns the prepared request's context. The returned context
// is always non-nil; it defaults to the background context.
func (p *Prepared) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx. The provided ctx must be non-nil.
func (p *Prepared) WithContext(ctx context.Context) *Prepared {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Prepared)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// Clone returns a copy of p whose URL and Header may be changed
// without affecting p. The body and cookie jar are shared.
func (p *Prepared) Clone() *Prepared {
	p2 := new(Prepared)
	*p2 = *p
	if p.URL != nil {
		u2 := *p.URL
		if p.URL.User != nil {
			u2.User = new(urlpkg.Userinfo)
			*u2.User = *p.URL.User
		}
		p2.URL = &u2
	}
	p2.Header = p.Header.Clone()
	if p2.Header == nil {
		p2.Header = make(http.Header)
	}
	return p2
}

// PathURL returns the path and query of the URL, as used in the
// request line and in digest authentication.
func (p *Prepared) PathURL() string {
	path := p.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	if p.URL.RawQuery != "" {
		path += "?" + p.URL.RawQuery
	}
	return path
}

// SetContentLength sets the Content-Length header to match the body,
// or Transfer-Encoding to chunked for a stream of unknown length.
// Methods other than GET and HEAD get an explicit zero length when
// there is no body.
func (p *Prepared) SetContentLength() {
	switch n := p.Body.Len(); {
	case p.Body == nil:
		if p.Method != "GET" && p.Method != "HEAD" {
			p.Header.Set("Content-Length", "0")
		}
	case n >= 0:
		p.Header.Set("Content-Length", strconv.FormatInt(n, 10))
	default:
		p.Header.Set("Transfer-Encoding", "chunked")
	}
}

// PrepareCookies renders the cookies held by the jar for the request's
// URL into the Cookie header. An existing Cookie header is left alone.
func (p *Prepared) PrepareCookies() {
	if p.Jar == nil || p.Header.Get("Cookie") != "" {
		return
	}
	cs := p.Jar.Cookies(p.URL)
	if len(cs) == 0 {
		return
	}
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, (&http.Cookie{Name: c.Name, Value: c.Value}).String())
	}
	p.Header.Set("Cookie", strings.Join(parts, "; "))
}

// ToRequest converts the prepared request into an http.Request for a
// single send. The request has no GetBody function, so the transport
// will not transparently replay the body.
func (p *Prepared) ToRequest(ctx context.Context) (*http.Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	r, err := http.NewRequestWithContext(ctx, p.Method, p.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	r.Header = p.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if p.Body != nil {
		r.Body = p.Body.Reader()
		r.ContentLength = p.Body.Len()
	}
	if r.Header.Get("Transfer-Encoding") == "chunked" {
		r.Header.Del("Transfer-Encoding")
		r.TransferEncoding = []string{"chunked"}
		r.ContentLength = -1
	}
	r.Header.Del("Content-Length")
	if host := r.Header.Get("Host"); host != "" {
		r.Host = host
		r.Header.Del("Host")
	}
	return r, nil
}

// ValidMethod reports whether method is a valid HTTP method token.
func ValidMethod(method string) bool {
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
