// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A Verify is the server certificate verification policy for a call.
//
// The zero value verifies certificates against the default trust
// store. Setting Insecure disables verification. Setting CA to a path
// verifies against that CA bundle file, or against the CA directory if
// the path names an existing directory.
type Verify struct {
	Insecure bool
	CA       string
}

// VerifyOn returns the policy which verifies server certificates
// against the default trust store.
func VerifyOn() *Verify {
	return &Verify{}
}

// VerifyOff returns the policy which disables server certificate
// verification.
func VerifyOff() *Verify {
	return &Verify{Insecure: true}
}

// VerifyCA returns the policy which verifies server certificates
// against the CA bundle file or CA directory at path.
func VerifyCA(path string) *Verify {
	return &Verify{CA: path}
}

// IsPath reports whether v names a CA path rather than being a plain
// on/off switch.
func (v Verify) IsPath() bool {
	return v.CA != ""
}

// A Cert is a client certificate for mutual TLS.
//
// If KeyFile is empty, File holds both the certificate and the private
// key.
type Cert struct {
	File    string
	KeyFile string
}

// CombinedCert returns a client certificate whose certificate and key
// are stored together in the file at path.
func CombinedCert(path string) *Cert {
	return &Cert{File: path}
}

// CertPair returns a client certificate stored as separate certificate
// and key files.
func CertPair(certFile, keyFile string) *Cert {
	return &Cert{File: certFile, KeyFile: keyFile}
}
