// Copyright (c) KING Authors.
// Licensed under the MIT License.

// Package cache provides the redis-backed working-memory session store.
// This package is internal and should not be imported by external projects.
package cache
