// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Session to extend it with custom
// functionality.
type Event int

const (
	// BeforeCall identifies the event that occurs before a call is
	// prepared.
	//
	// When Session fires BeforeCall, the execution is non-nil but the
	// only fields that have been set are Spec and CallID.
	BeforeCall Event = iota
	// BeforeSend identifies the event that occurs before each network
	// send made during the call: the first send, every redirect, and
	// every authentication retry.
	//
	// When Session fires BeforeSend, the execution's request field is
	// set to the prepared request that WILL BE sent after all
	// BeforeSend handlers have finished. Handlers may replace the
	// request, but must not modify it in place: use Clone.
	BeforeSend
	// Response identifies the event that occurs after a send results
	// in a response (as opposed to an error).
	//
	// When Session fires Response, the execution's response field is
	// set to the response just received. Handlers may replace it, and
	// the session continues the call with the replacement. A handler
	// which sets it to nil leaves the received response in place.
	Response
	// Redirect identifies the event that occurs after a redirect
	// response has been accepted and the next request built.
	//
	// When Session fires Redirect, the execution's response field is
	// the redirect response, which has already been appended to the
	// history, and its request field is the request which will follow
	// it.
	Redirect
	// AfterCall identifies the event that occurs after the call ends,
	// whether it ended with a final response or an error.
	//
	// When Session fires AfterCall, the execution's end time is set.
	// Exactly one of its response and error fields is non-nil.
	AfterCall
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeCall",
	"BeforeSend",
	"Response",
	"Redirect",
	"AfterCall",
}

// Events returns a slice containing all events which can occur during
// a call made by Session, in the order in which they first occur.
func Events() []Event {
	return []Event{
		BeforeCall,
		BeforeSend,
		Response,
		Redirect,
		AfterCall,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
