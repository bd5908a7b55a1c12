// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core data types used while resolving one
logical HTTP call: Spec (describes the call), Prepared (the wire-ready
request), Response, and Execution (the state of the call).

A Spec is owned by the caller and is never modified:

	spec := &request.Spec{
		Method: "POST",
		URL:    "https://example.com/upload",
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   payload,
	}
	resp, err := session.Do(spec)
	...

A Prepared request is built from a Spec plus the session's persistent
settings. It is immutable once built, apart from the read position of a
streaming body, which can be rewound to the offset recorded at
preparation time. Each redirect or authentication retry produces a
cloned and adjusted copy rather than modifying the previous request.

An Execution is handed to event handlers and carries the redirect
history accumulated during the call.
*/
package request
