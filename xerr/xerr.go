// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xerr collects the simulation core's construction-time error
// kinds (spec §7). Each kind is a distinct type wrapping a formatted
// message, in the spirit of gosl/chk.Err, so callers can errors.As a
// specific kind instead of string-matching.
package xerr

import "fmt"

// IoError reports that a mesh file could not be opened or read.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("io error reading %q: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// ParseError reports a malformed numeric field in a mesh file.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q line %d (%q): %v", e.Path, e.Line, e.Text, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// DegenerateTet reports a rest tetrahedron with singular edge matrix.
type DegenerateTet struct {
	TetIndex int
	Det      float64
}

func (e *DegenerateTet) Error() string {
	return fmt.Sprintf("degenerate tetrahedron at index %d: det(D_m)=%g", e.TetIndex, e.Det)
}

// IndexOverflow reports that the aggregate vertex count reached 2^16.
type IndexOverflow struct {
	Count int
}

func (e *IndexOverflow) Error() string {
	return fmt.Sprintf("vertex index overflow: %d vertices exceeds the 16-bit index space", e.Count)
}

// ConfigError reports a non-positive physical parameter rejected at construction.
type ConfigError struct {
	Field string
	Value float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s must be strictly positive, got %g", e.Field, e.Value)
}
