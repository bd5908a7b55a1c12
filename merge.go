// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"net/http"
	"net/textproto"
)

// MergeHeader merges per-call headers over persistent session headers.
//
// Keys are compared in canonical form. A per-call value replaces the
// persistent value of the same name, and a per-call key mapped to a nil
// slice removes it. The result is a new header; neither input is
// modified. If both inputs are nil, the result is nil.
func MergeHeader(perCall, persistent http.Header) http.Header {
	if perCall == nil && persistent == nil {
		return nil
	}
	merged := make(http.Header, len(persistent)+len(perCall))
	for k, vs := range persistent {
		if vs == nil {
			continue
		}
		merged[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), vs...)
	}
	for k, vs := range perCall {
		k = textproto.CanonicalMIMEHeaderKey(k)
		if vs == nil {
			delete(merged, k)
			continue
		}
		merged[k] = append([]string(nil), vs...)
	}
	return merged
}

// MergeMap merges a per-call map over a persistent map. If either is
// nil the other is returned as is. Otherwise the result is a new map
// holding the persistent entries overlaid by the per-call entries.
func MergeMap[K comparable, V any](perCall, persistent map[K]V) map[K]V {
	if perCall == nil {
		return persistent
	}
	if persistent == nil {
		return perCall
	}
	merged := make(map[K]V, len(persistent)+len(perCall))
	for k, v := range persistent {
		merged[k] = v
	}
	for k, v := range perCall {
		merged[k] = v
	}
	return merged
}

// MergeValue returns perCall if it is set, and persistent otherwise.
func MergeValue[T any](perCall, persistent *T) *T {
	if perCall != nil {
		return perCall
	}
	return persistent
}

// MergeHooks merges per-call event handlers with the session's. An
// empty group counts as unset. When both groups have handlers, the
// result runs the per-call handlers for each event, followed by the
// session handlers.
func MergeHooks(perCall, persistent *HandlerGroup) *HandlerGroup {
	if perCall.IsEmpty() {
		return persistent
	}
	if persistent.IsEmpty() {
		return perCall
	}
	merged := &HandlerGroup{handlers: make([][]Handler, numEvents)}
	for i := 0; i < numEvents; i++ {
		var chain []Handler
		if i < len(perCall.handlers) {
			chain = append(chain, perCall.handlers[i]...)
		}
		if i < len(persistent.handlers) {
			chain = append(chain, persistent.handlers[i]...)
		}
		merged.handlers[i] = chain
	}
	return merged
}
