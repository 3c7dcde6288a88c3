// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec3 implements fixed-size 3-vector arithmetic used throughout
// the simulation core's hot per-tet and per-vertex kernels. It mirrors
// gosl/utl's Cross3d/Dot3d free-function style but keeps the three
// components inline (no heap-allocated []float64) since these kernels run
// once per tetrahedron per sub-step.
package vec3

import "math"

// Vec3 is a 3-component vector over float64.
type Vec3 struct {
	X, Y, Z float64
}

// Zero returns the zero vector.
func Zero() Vec3 { return Vec3{} }

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a*s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// AddScaled returns a + b*s (an axpy over a single vector).
func (a Vec3) AddScaled(b Vec3, s float64) Vec3 {
	return Vec3{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

// Dot returns a·b, grounded on gosl/utl.Dot3d.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a×b, grounded on gosl/utl.Cross3d.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns |a|.
func (a Vec3) Norm() float64 { return math.Sqrt(a.Dot(a)) }

// Neg returns -a.
func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Normalized returns a/|a|, or the zero vector if |a| is below eps.
func (a Vec3) Normalized(eps float64) Vec3 {
	n := a.Norm()
	if n < eps {
		return Vec3{}
	}
	return a.Scale(1 / n)
}

// IsApprox reports whether a and b are equal within an absolute tolerance,
// component-wise. Used by table-driven tests in place of a matcher library.
func (a Vec3) IsApprox(b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
