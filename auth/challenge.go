// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"strings"
)

// A Challenge holds the parameters of a WWW-Authenticate challenge,
// keyed by lowercase parameter name.
type Challenge map[string]string

// Get returns the value of parameter key and whether it was present.
func (c Challenge) Get(key string) (string, bool) {
	v, ok := c[strings.ToLower(key)]
	return v, ok
}

// ParseChallenge parses a digest WWW-Authenticate header value such as
//
//	Digest realm="api", nonce="abc", qop="auth,auth-int", algorithm=MD5
//
// The scheme token is matched case-insensitively. Parameter values may
// be quoted, and quoted values may contain commas. The second return
// value is false if header does not name the digest scheme.
func ParseChallenge(header string) (Challenge, bool) {
	i := schemeIndex(header, "digest")
	if i < 0 {
		return nil, false
	}
	params := header[:i] + header[i+len("digest"):]

	c := make(Challenge)
	for _, item := range splitList(params) {
		k, v, ok := strings.Cut(item, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if !ok {
			c[k] = ""
			continue
		}
		c[k] = unquote(strings.TrimSpace(v))
	}
	return c, true
}

// splitList splits s at commas which are not inside a quoted string.
func splitList(s string) []string {
	var (
		items   []string
		b       strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			items = append(items, strings.TrimSpace(b.String()))
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		items = append(items, rest)
	}
	return items
}

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	escaped := false
	for _, r := range v {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// schemeIndex returns the index of the auth scheme token in header, or
// -1. The token must be followed by whitespace or the end of header and
// may only be preceded by whitespace or a comma.
func schemeIndex(header, scheme string) int {
	lower := []byte(header)
	for i, c := range lower {
		if 'A' <= c && c <= 'Z' {
			lower[i] = c + 'a' - 'A'
		}
	}
	for off := 0; off < len(lower); {
		j := strings.Index(string(lower[off:]), scheme)
		if j < 0 {
			return -1
		}
		i := off + j
		end := i + len(scheme)
		before := i == 0 || isSpace(lower[i-1]) || lower[i-1] == ','
		after := end == len(lower) || isSpace(lower[end])
		if before && after {
			return i
		}
		off = end
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
