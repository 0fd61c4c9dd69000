// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the error kinds shared across the sonata packages.
// Every failure surfaced by this module wraps exactly one of these
// sentinels, so callers can classify with errors.Is while still reading
// a descriptive message.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig reports malformed or missing configuration: bad JSON,
	// missing config fields, missing type-table columns, unsupported
	// model types, or an ambiguous HDF5 schema.
	ErrConfig = errors.New("configuration error")

	// ErrValidation reports an invalid argument value, e.g. a
	// non-positive chunk size.
	ErrValidation = errors.New("validation error")

	// ErrState reports an operation invoked out of lifecycle order,
	// e.g. Connect before Create.
	ErrState = errors.New("operation out of order")

	// ErrKernel reports a failure at the simulation kernel boundary,
	// including missing kernel capabilities.
	ErrKernel = errors.New("kernel error")

	// ErrIO reports a file open or lock failure; messages always carry
	// the resolved path of the offending file.
	ErrIO = errors.New("i/o error")
)

// Configf returns an ErrConfig-wrapping error with a formatted message.
// The format arguments may themselves use %w to chain underlying errors.
func Configf(format string, args ...any) error {
	return wrapf(ErrConfig, format, args...)
}

// Validationf returns an ErrValidation-wrapping error.
func Validationf(format string, args ...any) error {
	return wrapf(ErrValidation, format, args...)
}

// Statef returns an ErrState-wrapping error.
func Statef(format string, args ...any) error {
	return wrapf(ErrState, format, args...)
}

// Kernelf returns an ErrKernel-wrapping error.
func Kernelf(format string, args ...any) error {
	return wrapf(ErrKernel, format, args...)
}

// IOf returns an ErrIO-wrapping error.
func IOf(format string, args ...any) error {
	return wrapf(ErrIO, format, args...)
}

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
