// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// NewJar returns an empty cookie jar using the public suffix list from
// golang.org/x/net/publicsuffix.
func NewJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New never fails in practice.
		panic(err)
	}
	return jar
}

// A CallJar is the cookie jar attached to the prepared requests of one
// call. It layers per-call cookies over a persistent jar.
//
// Per-call cookies are sent to every URL visited during the call and
// win over persistent cookies of the same name. Cookies set by the
// server are stored in the persistent jar, and replace any per-call
// cookie of the same name.
type CallJar struct {
	base http.CookieJar

	mu        sync.Mutex
	overrides map[string]string
	order     []string
}

// NewCallJar creates a call jar over base. If base is nil, a fresh jar
// from NewJar is used.
func NewCallJar(base http.CookieJar, cookies map[string]string) *CallJar {
	if base == nil {
		base = NewJar()
	}
	j := &CallJar{base: base, overrides: make(map[string]string, len(cookies))}
	for name, value := range cookies {
		j.overrides[name] = value
		j.order = append(j.order, name)
	}
	sort.Strings(j.order)
	return j
}

// Base returns the persistent jar.
func (j *CallJar) Base() http.CookieJar {
	return j.base
}

// SetCookies implements http.CookieJar.
func (j *CallJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.base.SetCookies(u, cookies)
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if _, ok := j.overrides[c.Name]; ok {
			delete(j.overrides, c.Name)
			j.order = removeString(j.order, c.Name)
		}
	}
}

// Cookies implements http.CookieJar.
func (j *CallJar) Cookies(u *url.URL) []*http.Cookie {
	base := j.base.Cookies(u)
	j.mu.Lock()
	defer j.mu.Unlock()
	cs := make([]*http.Cookie, 0, len(base)+len(j.order))
	for _, c := range base {
		if _, ok := j.overrides[c.Name]; !ok {
			cs = append(cs, c)
		}
	}
	for _, name := range j.order {
		cs = append(cs, &http.Cookie{Name: name, Value: j.overrides[name]})
	}
	return cs
}

func removeString(s []string, v string) []string {
	for i := range s {
		if s[i] == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
