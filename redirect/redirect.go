// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redirect

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
)

// DefaultMaxRedirects is the redirect ceiling used when a Resolver's
// MaxRedirects is zero.
const DefaultMaxRedirects = 30

// Resolver rebuilds requests to follow redirects.
type Resolver struct {
	// MaxRedirects is the maximum number of redirects followed by one
	// call. Zero means DefaultMaxRedirects; a negative value means no
	// redirect may be followed.
	MaxRedirects int
	// TrustEnv enables proxy re-resolution from Env.
	TrustEnv bool
	// Env is the proxy environment. If nil, proxies are only taken from
	// the execution's proxy map.
	Env *proxy.Env
}

// Target returns the Location of resp if resp is a redirect which can
// be followed.
func Target(resp *request.Response) (string, bool) {
	if resp == nil || !resp.IsRedirect() {
		return "", false
	}
	return resp.Location(), true
}

// Rebuild evaluates resp, the response to e.Request. If resp is not a
// redirect, Rebuild returns nil and a nil error. Otherwise it appends
// resp to e.History, drains and closes it, and returns the request to
// send next. e.Proxies and e.Redirects are updated to match the new
// request.
//
// If following resp would exceed the redirect ceiling, the error is a
// reqerr.TooManyRedirects error carrying resp and the history.
func (r *Resolver) Rebuild(e *request.Execution, resp *request.Response) (*request.Prepared, error) {
	loc, ok := Target(resp)
	if !ok {
		return nil, nil
	}

	e.History = append(e.History, resp)
	_, _ = resp.Content()

	if max := r.maxRedirects(); e.Redirects >= max {
		return nil, reqerr.NewTooManyRedirectsError(resp.URL.String(), max, resp, e.History)
	}
	_ = resp.Close()

	next, proxies, err := r.build(e.Request, e.Proxies, resp, loc)
	if err != nil {
		if re, ok := err.(*reqerr.Error); ok {
			re.Response = resp
			re.History = e.History
		}
		return nil, err
	}

	e.Proxies = proxies
	e.Redirects++
	return next, nil
}

// Next returns the request which would follow resp, without recording
// anything in e and without consuming resp. It returns nil if resp is
// not a redirect.
func (r *Resolver) Next(e *request.Execution, resp *request.Response) (*request.Prepared, error) {
	loc, ok := Target(resp)
	if !ok {
		return nil, nil
	}
	next, _, err := r.build(e.Request, e.Proxies, resp, loc)
	return next, err
}

func (r *Resolver) build(p *request.Prepared, proxies proxy.Map, resp *request.Response, loc string) (*request.Prepared, proxy.Map, error) {
	base := p.URL
	if resp.URL != nil {
		base = resp.URL
	}
	u, err := Resolve(base, loc)
	if err != nil {
		return nil, nil, reqerr.New(reqerr.InvalidURL, "redirect", loc, err)
	}

	next := p.Clone()
	next.URL = u
	next.Method = RebuildMethod(p.Method, resp.StatusCode)

	if resp.StatusCode != http.StatusTemporaryRedirect && resp.StatusCode != http.StatusPermanentRedirect {
		for _, h := range []string{"Content-Length", "Content-Type", "Transfer-Encoding"} {
			next.Header.Del(h)
		}
		next.Body = nil
	}

	next.Header.Del("Cookie")
	next.PrepareCookies()

	proxies = r.RebuildProxies(next, proxies)
	RebuildAuth(next, p.URL)

	if next.Body.IsStream() {
		if err := next.Body.Rewind(); err != nil {
			return nil, nil, reqerr.New(reqerr.UnrewindableBody, "redirect", u.String(), err)
		}
	}

	return next, proxies, nil
}

// Resolve resolves the Location value loc against base. A
// scheme-relative location inherits base's scheme, and a location
// without a fragment inherits base's fragment.
func Resolve(base *url.URL, loc string) (*url.URL, error) {
	if strings.HasPrefix(loc, "//") {
		loc = base.Scheme + ":" + loc
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return nil, err
	}
	u := base.ResolveReference(ref)
	if ref.Fragment == "" && base.Fragment != "" {
		u.Fragment = base.Fragment
		u.RawFragment = base.RawFragment
	}
	return u, nil
}

// RebuildMethod returns the method to use when following a redirect
// with the given status code from a request using method.
//
// 303 rewrites every method except HEAD to GET. 301 and 302 rewrite
// POST to GET, matching what browsers do even though RFC 9110 asks
// clients to keep the method. 307 and 308 keep the method.
func RebuildMethod(method string, status int) string {
	switch status {
	case http.StatusSeeOther:
		if method != "HEAD" {
			return "GET"
		}
	case http.StatusFound, http.StatusMovedPermanently:
		if method == "POST" {
			return "GET"
		}
	}
	return method
}

// RebuildAuth removes the Authorization header from p if sending it
// to p's URL could leak credentials meant for prev.
func RebuildAuth(p *request.Prepared, prev *url.URL) {
	if p.Header.Get("Authorization") != "" && ShouldStripAuth(prev, p.URL) {
		p.Header.Del("Authorization")
	}
}

// RebuildProxies re-resolves the proxies for p's URL, replaces p's
// Proxy-Authorization header to match, and returns the new proxies.
func (r *Resolver) RebuildProxies(p *request.Prepared, proxies proxy.Map) proxy.Map {
	resolved, auth := proxy.Rebuild(p.URL, proxies, r.Env, r.TrustEnv)
	p.Header.Del("Proxy-Authorization")
	if auth != "" {
		p.Header.Set("Proxy-Authorization", auth)
	}
	return resolved
}

// ShouldStripAuth reports whether the Authorization header should be
// removed when redirecting from one URL to the other.
//
// Credentials are kept when the host is unchanged and either the
// redirect upgrades http on the default port to https on the default
// port, or the scheme is unchanged and both ports are the scheme's
// default (explicit or implied). Every other change of host, scheme or
// port strips them.
func ShouldStripAuth(from, to *url.URL) bool {
	if from.Hostname() != to.Hostname() {
		return true
	}
	oldPort, newPort := from.Port(), to.Port()
	if from.Scheme == "http" && (oldPort == "" || oldPort == "80") &&
		to.Scheme == "https" && (newPort == "" || newPort == "443") {
		return false
	}
	changedScheme := from.Scheme != to.Scheme
	if !changedScheme && isDefaultPort(from.Scheme, oldPort) && isDefaultPort(from.Scheme, newPort) {
		return false
	}
	return changedScheme || oldPort != newPort
}

func isDefaultPort(scheme, port string) bool {
	switch port {
	case "":
		return true
	case "80":
		return scheme == "http"
	case "443":
		return scheme == "https"
	default:
		return false
	}
}

func (r *Resolver) maxRedirects() int {
	switch {
	case r.MaxRedirects == 0:
		return DefaultMaxRedirects
	case r.MaxRedirects < 0:
		return 0
	default:
		return r.MaxRedirects
	}
}
