// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package proxy

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"
)

// NoProxyKey is the Map key holding a no-proxy exclusion list.
const NoProxyKey = "no_proxy"

// A Map maps schemes, or schemes and hosts, to proxy URLs.
type Map map[string]string

// Clone returns a copy of m. The copy of a nil Map is an empty Map.
func (m Map) Clone() Map {
	m2 := make(Map, len(m))
	for k, v := range m {
		m2[k] = v
	}
	return m2
}

// Select returns the proxy URL from proxies which applies to u, or the
// empty string if no proxy applies.
func Select(u *url.URL, proxies Map) string {
	if len(proxies) == 0 {
		return ""
	}

	host := u.Hostname()
	if host == "" {
		if p, ok := proxies[u.Scheme]; ok {
			return p
		}
		return proxies["all"]
	}

	keys := []string{
		u.Scheme + "://" + host,
		u.Scheme,
		"all://" + host,
		"all",
	}
	for _, k := range keys {
		if p, ok := proxies[k]; ok {
			return p
		}
	}

	return ""
}

// Resolve computes the proxies to use for a request to u.
//
// Explicit entries in proxies always take precedence. If trustEnv is
// true and u is not excluded by the no-proxy list, the environment
// proxy for u's scheme is filled in when proxies has no entry for it.
// The returned Map is always a fresh copy.
func Resolve(u *url.URL, proxies Map, env *Env, trustEnv bool) Map {
	resolved := proxies.Clone()
	if !trustEnv || env == nil {
		return resolved
	}

	noProxy, hasNoProxy := proxies[NoProxyKey]
	e := env
	if hasNoProxy {
		e = env.WithNoProxy(noProxy)
	}

	if e.Bypass(u) {
		return resolved
	}

	if p := e.ProxyFor(u); p != "" {
		if _, ok := resolved[u.Scheme]; !ok {
			resolved[u.Scheme] = p
		}
	}

	return resolved
}

// Rebuild recomputes the proxies for a redirect to u, and returns the
// Proxy-Authorization header value that belongs with them (empty if
// none).
//
// When trustEnv is true and u falls under a no-proxy exclusion, any
// proxy inherited from the previous hop is cleared. Otherwise missing
// entries are filled in from the environment as in Resolve.
func Rebuild(u *url.URL, proxies Map, env *Env, trustEnv bool) (Map, string) {
	if trustEnv && env != nil {
		e := env
		if noProxy, ok := proxies[NoProxyKey]; ok {
			e = env.WithNoProxy(noProxy)
		}
		if e.Bypass(u) {
			cleared := Map{}
			if noProxy, ok := proxies[NoProxyKey]; ok {
				cleared[NoProxyKey] = noProxy
			}
			return cleared, ""
		}
	}

	resolved := Resolve(u, proxies, env, trustEnv)

	var authorization string
	if p, ok := resolved[u.Scheme]; ok && !strings.HasPrefix(u.Scheme, "https") {
		if username, password := AuthFromURL(p); username != "" && password != "" {
			authorization = basicAuth(username, password)
		}
	}

	return resolved, authorization
}

// Headers returns the headers to send to the proxy at proxyURL. At
// present this is only Proxy-Authorization, derived from the userinfo
// embedded in proxyURL.
func Headers(proxyURL string) http.Header {
	h := make(http.Header)
	username, password := AuthFromURL(proxyURL)
	if username != "" && password != "" {
		h.Set("Proxy-Authorization", basicAuth(username, password))
	}
	return h
}

// AuthFromURL extracts the percent-decoded username and password from
// the userinfo component of rawURL. Empty strings are returned if rawURL
// is unparseable or has no userinfo.
func AuthFromURL(rawURL string) (username, password string) {
	u, err := Parse(rawURL)
	if err != nil || u.User == nil {
		return "", ""
	}
	password, _ = u.User.Password()
	return u.User.Username(), password
}

// Parse parses a proxy URL, assuming the "http" scheme when rawURL does
// not carry one.
func Parse(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if u2, err2 := url.Parse("http://" + rawURL); err2 == nil {
			return u2, nil
		}
	}
	return u, err
}

func basicAuth(username, password string) string {
	auth := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(auth))
}

// Env is a proxy configuration discovered from the environment.
type Env struct {
	cfg     httpproxy.Config
	fn      func(*url.URL) (*url.URL, error)
	listed  func(*url.URL) (*url.URL, error)
	special func(*url.URL) (*url.URL, error)
}

const probeProxy = "http://bypass.probe.invalid"

// FromEnvironment reads the proxy configuration from the HTTP_PROXY,
// HTTPS_PROXY and NO_PROXY environment variables (or their lowercase
// versions).
func FromEnvironment() *Env {
	return NewEnv(*httpproxy.FromEnvironment())
}

// NewEnv creates an Env from an explicit configuration.
func NewEnv(cfg httpproxy.Config) *Env {
	// Both probes always have a proxy configured, so a nil result means
	// the URL was excluded. The second probe has no exclusion list and
	// only excludes what httpproxy never proxies (localhost, loopback
	// addresses and unknown schemes).
	listed := httpproxy.Config{HTTPProxy: probeProxy, HTTPSProxy: probeProxy, NoProxy: cfg.NoProxy}
	special := httpproxy.Config{HTTPProxy: probeProxy, HTTPSProxy: probeProxy}
	return &Env{
		cfg:     cfg,
		fn:      cfg.ProxyFunc(),
		listed:  listed.ProxyFunc(),
		special: special.ProxyFunc(),
	}
}

// WithNoProxy returns a copy of e whose exclusion list is noProxy.
func (e *Env) WithNoProxy(noProxy string) *Env {
	cfg := e.cfg
	cfg.NoProxy = noProxy
	return NewEnv(cfg)
}

// Config returns the underlying configuration.
func (e *Env) Config() httpproxy.Config {
	return e.cfg
}

// ProxyFor returns the environment proxy URL for u, or the empty string
// if there is none or u is excluded.
func (e *Env) ProxyFor(u *url.URL) string {
	p, err := e.fn(u)
	if err != nil || p == nil {
		return ""
	}
	return p.String()
}

// Bypass reports whether u is excluded by the no-proxy list.
func (e *Env) Bypass(u *url.URL) bool {
	if p, err := e.listed(u); err != nil || p != nil {
		return false
	}
	p, err := e.special(u)
	return err == nil && p != nil
}
