// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	defaultTLSMu   sync.Mutex
	defaultTLSOnce = new(sync.Once)
	defaultPool    *x509.CertPool
)

// DefaultCertPool returns the trust store used when certificate
// verification is on and no CA path is given. It is loaded once from
// the system roots and shared by all adapters. A nil pool means the
// system roots could not be loaded and crypto/tls should use its own
// default.
func DefaultCertPool() *x509.CertPool {
	defaultTLSMu.Lock()
	once := defaultTLSOnce
	defaultTLSMu.Unlock()
	once.Do(func() {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = nil
		}
		defaultTLSMu.Lock()
		defaultPool = pool
		defaultTLSMu.Unlock()
	})
	defaultTLSMu.Lock()
	defer defaultTLSMu.Unlock()
	return defaultPool
}

// SetDefaultCertPool replaces the default trust store. Pools built
// afterwards use pool; existing pools are unaffected.
func SetDefaultCertPool(pool *x509.CertPool) {
	defaultTLSMu.Lock()
	defer defaultTLSMu.Unlock()
	once := new(sync.Once)
	once.Do(func() {})
	defaultTLSOnce = once
	defaultPool = pool
}

// ResetDefaultTLS discards the default trust store so the next call to
// DefaultCertPool reloads it.
func ResetDefaultTLS() {
	defaultTLSMu.Lock()
	defer defaultTLSMu.Unlock()
	defaultTLSOnce = new(sync.Once)
	defaultPool = nil
}

// tlsConfigFor builds the client TLS configuration for pool key k.
func tlsConfigFor(k PoolKey) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	switch {
	case k.CertReqs == CertNone:
		cfg.InsecureSkipVerify = true
	case k.CACertsDir != "":
		pool, err := loadCADir(k.CACertsDir)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	case k.CACerts != "":
		pool, err := loadCAFile(k.CACerts)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	default:
		cfg.RootCAs = DefaultCertPool()
	}

	if k.CertFile != "" {
		keyFile := k.KeyFile
		if keyFile == "" {
			keyFile = k.CertFile
		}
		cert, err := tls.LoadX509KeyPair(k.CertFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("reqx/adapter: failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func loadCAFile(path string) (*x509.CertPool, error) {
	ca, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reqx/adapter: could not find a suitable TLS CA certificate bundle, invalid path: %s: %w", path, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("reqx/adapter: no certificates found in CA bundle %s", path)
	}
	return pool, nil
}

func loadCADir(dir string) (*x509.CertPool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reqx/adapter: failed to read CA directory: %w", err)
	}
	pool := x509.NewCertPool()
	var n int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pem, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if pool.AppendCertsFromPEM(pem) {
			n++
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("reqx/adapter: no certificates found in CA directory %s", dir)
	}
	return pool, nil
}
