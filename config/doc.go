// Copyright (c) KING Authors.
// Licensed under the MIT License.

// Package config provides unified configuration loading for kingmem:
// defaults, YAML file overlay, then environment variable overrides.
package config
