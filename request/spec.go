// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/timeout"
)

// An Authorizer attaches credentials to a prepared request.
//
// Implementations must not retain p.
type Authorizer interface {
	Authorize(p *Prepared) error
}

// A Spec describes one logical HTTP call. Spec fields are named and
// typed consistently with http.Request wherever possible.
//
// A Spec is owned by the caller and is read-only to the session. Any
// field left at its zero value falls back to the session's persistent
// setting.
type Spec struct {
	// Method is the HTTP method. The empty string means GET.
	Method string
	// URL is the absolute URL to request. Userinfo embedded in the URL
	// is used for basic authentication when no Auth is set anywhere.
	URL string
	// Header holds per-call headers, which override session headers of
	// the same name. A header mapped to a nil slice removes the session
	// header of that name.
	Header http.Header
	// Params are added to the URL's query string after the session's
	// params.
	Params url.Values
	// Body may be nil, a string, a []byte or an io.Reader. A reader
	// which is also an io.Seeker can be replayed on redirect and
	// authentication retries.
	Body interface{}
	// Cookies are sent with the call, overriding same-named session
	// cookies.
	Cookies map[string]string
	// Auth overrides the session's authorizer.
	Auth Authorizer
	// AuthSlot names the digest authentication state slot used by the
	// call. Calls sharing a slot must not run concurrently. If empty, a
	// fresh slot is used for the call and discarded afterwards.
	AuthSlot string
	// Timeout overrides the session's timeout.
	Timeout *timeout.Timeout
	// Proxies are merged over the session's proxies.
	Proxies proxy.Map
	// Verify overrides the session's certificate verification policy.
	Verify *Verify
	// Cert overrides the session's client certificate.
	Cert *Cert
	// AllowRedirects controls whether redirects are followed. Nil means
	// true.
	AllowRedirects *bool
	// Stream, if true, leaves the final response body unread so it can
	// be consumed from Response.Raw.
	Stream *bool
	// Context, if not nil, is the parent context for every send made
	// during the call.
	Context context.Context
}

// FollowRedirects reports whether redirects should be followed.
func (s *Spec) FollowRedirects() bool {
	return s.AllowRedirects == nil || *s.AllowRedirects
}
