// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package redirect decides how a call follows HTTP redirects.

A Resolver is stateless. The session calls Rebuild after each response;
Rebuild either reports that the response is final or returns the
request to send next, having applied, in order, the method rewrite,
body handling, cookie regeneration, proxy re-resolution and
authorization stripping rules. All state of the call lives in the
request.Execution passed in.
*/
package redirect
