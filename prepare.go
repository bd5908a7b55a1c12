// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gogama/reqx/adapter"
	"github.com/gogama/reqx/auth"
	"github.com/gogama/reqx/proxy"
	"github.com/gogama/reqx/reqerr"
	"github.com/gogama/reqx/request"
	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// CABundleEnvVars are the environment variables, in order of
// precedence, naming the CA bundle used when certificate verification
// is left at its default and the session trusts the environment.
var CABundleEnvVars = []string{"REQUESTS_CA_BUNDLE", "CURL_CA_BUNDLE"}

// Prepare merges spec with the session's persistent settings and
// returns the wire-ready request. No network I/O is done.
//
// The request carries spec.AuthSlot as its authentication state slot.
// If spec names no slot, a fresh slot is used and its state discarded
// once the request is prepared, so the request is never authorized
// preemptively and leaves no state behind in the authorizer.
//
// Errors are *reqerr.Error values of kind InvalidArgument, InvalidURL,
// MissingSchema or InvalidHeader.
func (s *Session) Prepare(spec *request.Spec) (*request.Prepared, error) {
	if spec == nil {
		return nil, reqerr.New(reqerr.InvalidArgument, "prepare", "", errors.New("nil spec"))
	}
	slot := spec.AuthSlot
	if slot == "" {
		slot = uuid.NewString()
	}
	p, a, err := s.prepare(spec, slot)
	if c, ok := a.(auth.Challenger); ok && spec.AuthSlot == "" {
		c.Release(slot)
	}
	return p, err
}

// prepare builds the prepared request for spec and returns it together
// with the authorizer that was applied to it, if any. A non-empty slot
// is attached to the request context for stateful authorizers.
func (s *Session) prepare(spec *request.Spec, slot string) (*request.Prepared, request.Authorizer, error) {
	if spec == nil {
		return nil, nil, reqerr.New(reqerr.InvalidArgument, "prepare", "", errors.New("nil spec"))
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !request.ValidMethod(method) {
		return nil, nil, reqerr.New(reqerr.InvalidArgument, "prepare", spec.URL, fmt.Errorf("invalid method %q", spec.Method))
	}

	u, err := prepareURL(spec.URL)
	if err != nil {
		return nil, nil, err
	}
	userinfo := u.User
	u.User = nil

	params := url.Values(MergeMap(spec.Params, s.Params))
	if enc := params.Encode(); enc != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + enc
		} else {
			u.RawQuery = enc
		}
	}

	header := MergeHeader(spec.Header, s.Header)
	if header == nil {
		header = make(http.Header)
	}
	if err = validateHeader(header); err != nil {
		return nil, nil, err
	}

	body, err := request.NewBody(spec.Body)
	if err != nil {
		return nil, nil, reqerr.New(reqerr.InvalidArgument, "prepare", u.String(), err)
	}

	ctx := spec.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if slot != "" {
		ctx = auth.WithSlot(ctx, slot)
	}

	p := (&request.Prepared{
		Method: method,
		URL:    u,
		Header: header,
		Body:   body,
		Jar:    request.NewCallJar(s.Jar, spec.Cookies),
	}).WithContext(ctx)
	p.PrepareCookies()
	p.SetContentLength()

	a := spec.Auth
	if a == nil {
		a = s.Auth
	}
	if a == nil && userinfo != nil {
		password, _ := userinfo.Password()
		if username := userinfo.Username(); username != "" || password != "" {
			a = auth.Basic{Username: username, Password: password}
		}
	}
	if a != nil {
		if err = a.Authorize(p); err != nil {
			var re *reqerr.Error
			if errors.As(err, &re) {
				return nil, nil, err
			}
			return nil, nil, reqerr.New(reqerr.InvalidArgument, "auth", u.String(), err)
		}
	}

	return p, a, nil
}

func prepareURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, reqerr.New(reqerr.InvalidURL, "prepare", raw, err)
	}
	if u.Scheme == "" {
		return nil, reqerr.New(reqerr.MissingSchema, "prepare", raw,
			fmt.Errorf("no scheme supplied, perhaps you meant https://%s", raw))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		// Left alone for a custom adapter to interpret.
		return u, nil
	}

	hostname := u.Hostname()
	if hostname == "" {
		return nil, reqerr.New(reqerr.InvalidURL, "prepare", raw, errors.New("no host supplied"))
	}
	if strings.HasPrefix(hostname, "*") || strings.HasPrefix(hostname, ".") {
		return nil, reqerr.New(reqerr.InvalidURL, "prepare", raw, errors.New("invalid host label"))
	}
	if !isASCII(hostname) {
		ascii, err := idna.Lookup.ToASCII(hostname)
		if err != nil {
			return nil, reqerr.New(reqerr.InvalidURL, "prepare", raw, fmt.Errorf("invalid host label: %w", err))
		}
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
	}
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// validateHeader rejects names that are not tokens and values that
// carry control characters or leading whitespace. Names are checked in
// sorted order so the reported header is deterministic.
func validateHeader(h http.Header) error {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !httpguts.ValidHeaderFieldName(name) {
			return reqerr.NewInvalidHeaderError(name, "")
		}
		for _, v := range h[name] {
			if !httpguts.ValidHeaderFieldValue(v) || strings.TrimLeft(v, " \t") != v {
				return reqerr.NewInvalidHeaderError(name, v)
			}
		}
	}
	return nil
}

// mergeEnvironment resolves the send options for a call to u: proxies,
// certificate verification, client certificate, streaming and timeout.
func (s *Session) mergeEnvironment(spec *request.Spec, u *url.URL) adapter.SendOptions {
	opts := adapter.SendOptions{
		Proxies: proxy.Resolve(u, MergeMap(spec.Proxies, s.Proxies), s.ProxyEnv, s.TrustEnv),
		Verify:  *MergeValue(spec.Verify, &s.Verify),
		Cert:    MergeValue(spec.Cert, s.Cert),
		Stream:  *MergeValue(spec.Stream, &s.Stream),
		Timeout: *MergeValue(spec.Timeout, &s.Timeout),
	}
	if s.TrustEnv && spec.Verify == nil && s.Verify == (request.Verify{}) {
		for _, name := range CABundleEnvVars {
			if path := os.Getenv(name); path != "" {
				opts.Verify.CA = path
				break
			}
		}
	}
	return opts
}
