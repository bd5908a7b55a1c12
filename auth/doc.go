// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package auth provides HTTP authentication schemes for reqx sessions.

Basic and ProxyBasic attach static credentials. Digest implements the
challenge/response Digest scheme: it answers a 4xx response carrying a
digest WWW-Authenticate challenge by building a new request with an
Authorization header, which the session then sends in place of the
challenged one.

Digest keeps its challenge state (last nonce, nonce count, challenge
counter) in slots. Each call made by a session uses its own slot, named
by the context of the prepared request, so one Digest value can be
shared by concurrent calls:

	s := reqx.NewSession(reqx.WithAuth(auth.NewDigest("user", "pass")))
*/
package auth
