// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gogama/reqx/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do runs the call described by a request spec and returns the final
// response (and error, if any). Session implements the Doer interface,
// and any other Doer implementation must behave substantially the same
// as Session.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(spec *request.Spec) (*request.Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*request.Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head issues a HEAD to the specified URL without following
// redirects. Any Doer can be used to emulate a Header via the Head
// function.
type Header interface {
	Head(url string) (*request.Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewBody, namely: string; []byte; and
// io.Reader.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, body interface{}) (*request.Response, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// The request body is set to the URL-encoded keys and values from
// data, and the content type is set to application/x-www-form-urlencoded.
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*request.Response, error)
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// PostForm, and Close methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
	io.Closer
}

// Get uses the specified Doer to issue a GET to the specified URL.
func Get(d Doer, url string) (*request.Response, error) {
	return d.Do(&request.Spec{Method: http.MethodGet, URL: url})
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
// Redirects are not followed.
func Head(d Doer, url string) (*request.Response, error) {
	follow := false
	return d.Do(&request.Spec{Method: http.MethodHead, URL: url, AllowRedirects: &follow})
}

// Options uses the specified Doer to issue an OPTIONS to the specified
// URL.
func Options(d Doer, url string) (*request.Response, error) {
	return d.Do(&request.Spec{Method: http.MethodOptions, URL: url})
}

// Delete uses the specified Doer to issue a DELETE to the specified URL.
func Delete(d Doer, url string) (*request.Response, error) {
	return d.Do(&request.Spec{Method: http.MethodDelete, URL: url})
}

// Post uses the specified Doer to issue a POST to the specified URL.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewBody, namely: string; []byte; and
// io.Reader.
func Post(d Doer, url, contentType string, body interface{}) (*request.Response, error) {
	return withBody(d, http.MethodPost, url, contentType, body)
}

// Put uses the specified Doer to issue a PUT to the specified URL.
func Put(d Doer, url, contentType string, body interface{}) (*request.Response, error) {
	return withBody(d, http.MethodPut, url, contentType, body)
}

// Patch uses the specified Doer to issue a PATCH to the specified URL.
func Patch(d Doer, url, contentType string, body interface{}) (*request.Response, error) {
	return withBody(d, http.MethodPatch, url, contentType, body)
}

// PostForm uses the specified Doer to issue a POST to the specified URL,
// with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, build a request.Spec and use d.Do.
func PostForm(d Doer, url string, data url.Values) (*request.Response, error) {
	return Post(d, url, "application/x-www-form-urlencoded", data.Encode())
}

func withBody(d Doer, method, url, contentType string, body interface{}) (*request.Response, error) {
	spec := &request.Spec{Method: method, URL: url, Body: body}
	if contentType != "" {
		spec.Header = http.Header{"Content-Type": {contentType}}
	}
	return d.Do(spec)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("reqx: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(spec *request.Spec) (*request.Response, error) {
	return i.doer.Do(spec)
}

func (i inflated) Get(url string) (*request.Response, error) {
	return Get(i.doer, url)
}

func (i inflated) Head(url string) (*request.Response, error) {
	return Head(i.doer, url)
}

func (i inflated) Post(url, contentType string, body interface{}) (*request.Response, error) {
	return Post(i.doer, url, contentType, body)
}

func (i inflated) PostForm(url string, data url.Values) (*request.Response, error) {
	return PostForm(i.doer, url, data)
}

func (i inflated) Close() error {
	if c, ok := i.doer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
