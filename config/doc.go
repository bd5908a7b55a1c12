// Copyright 2026 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads persistent session defaults from a configuration
file and the environment.

A configuration file may be YAML, JSON or TOML:

	headers:
	  User-Agent: my-app/1.0
	params:
	  api-version: "2"
	proxies:
	  https: http://proxy.internal:3128
	verify: true
	ca_bundle: /etc/ssl/internal-ca.pem
	max_redirects: 10
	timeout: 30s

Every scalar setting can be overridden by an environment variable named
by the prefix and the upper-cased key, for example REQX_MAX_REDIRECTS.
Apply a loaded configuration with reqx.WithConfig.
*/
package config
