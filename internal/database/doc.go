// Copyright (c) KING Authors.
// Licensed under the MIT License.

// Package database provides gorm connection management for the entity store.
// This package is internal and should not be imported by external projects.
package database
