// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package proxy selects the proxy, if any, that a request should be
// sent through.
//
// Proxies are described by a Map whose keys are, in order of decreasing
// precedence, "scheme://host", "scheme", "all://host" and "all". The
// special key "no_proxy" holds a comma-separated exclusion list which
// overrides the NO_PROXY environment variable.
//
// Environment discovery follows the HTTP_PROXY, HTTPS_PROXY and NO_PROXY
// conventions implemented by golang.org/x/net/http/httpproxy.
package proxy
