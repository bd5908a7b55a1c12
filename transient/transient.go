// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// A Category is the category of a particular transport fault, as
// reported by function Categorize().
//
// The category Not means the fault did not match any of the specific
// categories. Callers typically treat it as a generic connection fault.
type Category int

const (
	// Not indicates a fault which matches no other category.
	Not Category = iota
	// Timeout indicates a client-side timeout.
	//
	// Function Categorize() will return Timeout if the error or any of
	// its wrapped causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host reset the connection, and
	// corresponds to the POSIX error code ECONNRESET.
	ConnReset
	// TLS indicates a certificate verification or TLS negotiation
	// failure.
	TLS
	// Proxy indicates a failure connecting to, or negotiating with, an
	// HTTP proxy.
	Proxy
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"TLS",
	"Proxy",
}

// String returns the name of the category.
func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[cat]
}

// Categorize categorizes an error into one of the categories.
//
// TLS and proxy faults are detected before timeouts because a handshake
// or proxy dial can itself end in a timeout, and the more specific
// category is more useful to the caller.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if isTLS(err) {
		return TLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "proxyconnect" {
		return Proxy
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ETIMEDOUT {
			return Timeout
		} else if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

func isTLS(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var alertErr tls.AlertError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

type hasTimeout interface {
	Timeout() bool
}
