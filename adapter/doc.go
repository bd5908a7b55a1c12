// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package adapter sends prepared requests over pooled connections.

An HTTPAdapter keeps one connection pool per PoolKey. The key combines
the destination scheme, host and port with the TLS settings of the
send, so requests which need different certificate handling never
share a connection. Requests routed through a proxy use a separate set
of pools per proxy URL.

The adapter performs exactly one request/response exchange per Send.
It never follows redirects and never retries; those are the session's
job. It is the only place where raw transport faults are converted into
reqerr errors.
*/
package adapter
