// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package reqerr defines the errors returned by reqx sessions and adapters.

Every failure of a call is reported as an *Error whose Kind classifies
it. Use errors.Is with the sentinel values, or IsKind, to test for a
kind:

	resp, err := s.Do(&request.Spec{URL: "https://example.com"})
	if errors.Is(err, reqerr.ErrTooManyRedirects) {
		// ...
	}

Timeout kinds report true from the Timeout method, so they also satisfy
net.Error style checks.
*/
package reqerr
