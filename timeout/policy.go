// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"fmt"
	"time"
)

// A Timeout bounds the two blocking phases of a single network send.
//
// Connect bounds establishing the connection, including any proxy and
// TLS negotiation. Read bounds the wait between obtaining a connection
// and receiving the first byte of the response. A zero or negative
// value means the phase is not bounded.
//
// There is no mid-flight cancellation beyond these two deadlines: a
// blocked send runs to timeout or completion.
type Timeout struct {
	Connect time.Duration
	Read    time.Duration
}

// Infinite is a timeout which never expires.
var Infinite = Timeout{}

// Fixed constructs a timeout which applies the same duration d to both
// the connect and read phases.
func Fixed(d time.Duration) Timeout {
	return Timeout{Connect: d, Read: d}
}

// Split constructs a timeout with separate connect and read durations.
func Split(connect, read time.Duration) Timeout {
	return Timeout{Connect: connect, Read: read}
}

// HasConnect reports whether the connect phase is bounded.
func (t Timeout) HasConnect() bool {
	return t.Connect > 0
}

// HasRead reports whether the read phase is bounded.
func (t Timeout) HasRead() bool {
	return t.Read > 0
}

// String returns a human readable form of t.
func (t Timeout) String() string {
	return fmt.Sprintf("timeout(connect=%s, read=%s)", phase(t.Connect), phase(t.Read))
}

func phase(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
