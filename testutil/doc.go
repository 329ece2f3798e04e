// Copyright (c) KING Authors.
// Licensed under the MIT License.

// Package testutil provides shared test helpers and mock implementations
// for the kingmem test suites.
package testutil
