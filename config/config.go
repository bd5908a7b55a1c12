// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the environment variable prefix used when Load is
// given an empty prefix.
const DefaultEnvPrefix = "REQX"

// Session holds persistent session defaults.
type Session struct {
	// Headers are sent with every request.
	Headers map[string]string `mapstructure:"headers"`
	// Params are added to the query string of every request.
	Params map[string]string `mapstructure:"params"`
	// Proxies maps schemes, or scheme://host keys, to proxy URLs.
	Proxies map[string]string `mapstructure:"proxies"`
	// Verify enables server certificate verification.
	Verify bool `mapstructure:"verify"`
	// CABundle is a CA bundle file or directory used for verification.
	CABundle string `mapstructure:"ca_bundle"`
	// Cert is the client certificate file, possibly including the key.
	Cert string `mapstructure:"cert"`
	// Key is the client private key file, if separate from Cert.
	Key string `mapstructure:"key"`
	// MaxRedirects is the redirect ceiling per call.
	MaxRedirects int `mapstructure:"max_redirects"`
	// TrustEnv enables proxy and CA bundle discovery from the
	// environment.
	TrustEnv bool `mapstructure:"trust_env"`
	// Stream leaves response bodies unread by default.
	Stream bool `mapstructure:"stream"`
	// Timeout applies to both the connect and read phases, unless
	// overridden by ConnectTimeout or ReadTimeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// ConnectTimeout is the connect phase timeout.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	// ReadTimeout is the read phase timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// LogLevel is a zerolog level name such as "debug" or "warn".
	LogLevel string `mapstructure:"log_level"`
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFile string
}

// WithEnvFile loads environment variables from a dotenv file before
// the environment is consulted. Variables already set in the process
// environment are not overwritten.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// Load reads the configuration file at path, if path is not empty, and
// overlays environment variables named with envPrefix. An empty
// envPrefix means DefaultEnvPrefix.
func Load(path, envPrefix string, opts ...Option) (*Session, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil {
			return nil, fmt.Errorf("reqx/config: failed to load env file %s: %w", l.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reqx/config: failed to read config file %s: %w", path, err)
		}
	}

	var cfg Session
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("reqx/config: failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verify", true)
	v.SetDefault("trust_env", true)
	v.SetDefault("max_redirects", 30)
	v.SetDefault("stream", false)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("connect_timeout", time.Duration(0))
	v.SetDefault("read_timeout", time.Duration(0))
	v.SetDefault("ca_bundle", "")
	v.SetDefault("cert", "")
	v.SetDefault("key", "")
	v.SetDefault("log_level", "")
}

// Validate checks that the configuration is consistent.
func (c *Session) Validate() error {
	if c.Key != "" && c.Cert == "" {
		return fmt.Errorf("reqx/config: key given without cert")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("reqx/config: max_redirects must not be negative")
	}
	if c.Timeout < 0 || c.ConnectTimeout < 0 || c.ReadTimeout < 0 {
		return fmt.Errorf("reqx/config: timeouts must not be negative")
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("reqx/config: %w", err)
		}
	}
	return nil
}

// Timeouts returns the effective connect and read timeouts.
func (c *Session) Timeouts() (connect, read time.Duration) {
	connect, read = c.Timeout, c.Timeout
	if c.ConnectTimeout > 0 {
		connect = c.ConnectTimeout
	}
	if c.ReadTimeout > 0 {
		read = c.ReadTimeout
	}
	return
}
