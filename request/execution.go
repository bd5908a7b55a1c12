// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/transient"
)

// An Execution represents the state of one logical call as it moves
// through the prepare, send, redirect and authentication steps.
//
// Execution is the input type for event handlers. You will typically
// not allocate Execution instances yourself, but will instead work with
// the ones handed out by the session.
type Execution struct {
	// Spec is the caller's description of the call.
	Spec *Spec

	// CallID uniquely identifies the call. It is used as the digest
	// authentication state slot when the Spec names none.
	CallID string

	// Start is the start time of the call.
	Start time.Time

	// End is the end time of the call. It is the zero value until the
	// call ends.
	End time.Time

	// Request is the prepared request for the current send. It is
	// replaced, never modified, on each redirect or retry.
	Request *Prepared

	// Proxies are the proxies resolved for the current send.
	Proxies proxy.Map

	// Response is the response to the current send. It is nil if the
	// send has not completed or ended in error.
	Response *Response

	// History holds every intermediate response produced so far, oldest
	// first.
	History []*Response

	// Redirects is the number of redirects followed so far.
	Redirects int

	// Sends is the number of network sends made so far.
	Sends int

	// Err is the error which ended the call, if any.
	Err error

	data context.Context
}

// StatusCode returns the status code from the current response.
// If there is no current response, zero is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the headers from the current response. If there is no
// current response, a nil header is returned.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the call.
//
// If the call has not started, the return value is zero. If the call
// has started but not ended, the return value is the duration since
// Start. If the call has ended, the return value is the difference
// between End and Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started returns true if the call has started, and false otherwise.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended returns true if the call has ended, and false otherwise.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout returns true if the call ended because a send timed out.
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue lets an event handler save state on the execution, in
// the same manner as context.WithValue, so that it can be retrieved
// later by the same or another handler using Value.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the value associated with this execution for key, or
// nil if no value is associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
