// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mat3 implements fixed-size 3x3 matrix arithmetic specialised for
// the per-tetrahedron deformation kernel. gosl/la.MatInv works over
// arbitrary n x n [][]float64 matrices allocated on the heap; every tet in
// this core only ever needs a 3x3 inverse (computed once per tet when a
// SimMesh is built), so a closed-form adjugate inversion (no allocation, no
// pivoting) replaces la.MatInv here.
package mat3

import (
	"fmt"

	"github.com/cpmech/softfem/vec3"
)

// Mat3 is a 3x3 matrix stored row-major.
type Mat3 struct {
	A [3][3]float64
}

// FromColumns builds a matrix whose columns are c0, c1, c2.
func FromColumns(c0, c1, c2 vec3.Vec3) Mat3 {
	var m Mat3
	m.A[0] = [3]float64{c0.X, c1.X, c2.X}
	m.A[1] = [3]float64{c0.Y, c1.Y, c2.Y}
	m.A[2] = [3]float64{c0.Z, c1.Z, c2.Z}
	return m
}

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	var m Mat3
	m.A[0][0], m.A[1][1], m.A[2][2] = 1, 1, 1
	return m
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	a := m.A
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// ErrSingular is returned by Inverse when the determinant is (numerically) zero.
type ErrSingular struct{ Det float64 }

func (e ErrSingular) Error() string {
	return fmt.Sprintf("mat3: singular matrix (det=%g)", e.Det)
}

// Inverse returns the inverse of m via the closed-form adjugate, or
// ErrSingular if m is singular within tol.
func (m Mat3) Inverse(tol float64) (Mat3, error) {
	det := m.Det()
	if absf(det) <= tol {
		return Mat3{}, ErrSingular{Det: det}
	}
	a := m.A
	inv := 1 / det
	var r Mat3
	r.A[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) * inv
	r.A[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) * inv
	r.A[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) * inv
	r.A[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) * inv
	r.A[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) * inv
	r.A[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) * inv
	r.A[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) * inv
	r.A[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) * inv
	r.A[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) * inv
	return r, nil
}

// Transpose returns m^T.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.A[j][i] = m.A[i][j]
		}
	}
	return r
}

// Mul returns m*n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m.A[i][k] * n.A[k][j]
			}
			r.A[i][j] = s
		}
	}
	return r
}

// Add returns m+n.
func (m Mat3) Add(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.A[i][j] = m.A[i][j] + n.A[i][j]
		}
	}
	return r
}

// Scale returns m*s.
func (m Mat3) Scale(s float64) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.A[i][j] = m.A[i][j] * s
		}
	}
	return r
}

// Trace returns tr(m).
func (m Mat3) Trace() float64 { return m.A[0][0] + m.A[1][1] + m.A[2][2] }

// MulVec3 returns m*v.
func (m Mat3) MulVec3(v vec3.Vec3) vec3.Vec3 {
	return vec3.Vec3{
		X: m.A[0][0]*v.X + m.A[0][1]*v.Y + m.A[0][2]*v.Z,
		Y: m.A[1][0]*v.X + m.A[1][1]*v.Y + m.A[1][2]*v.Z,
		Z: m.A[2][0]*v.X + m.A[2][1]*v.Y + m.A[2][2]*v.Z,
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Affine4 is a 4x4 homogeneous transform applied to mesh vertices on load
// (spec §4.7); rotation/scale in the top-left 3x3 block R, translation in T.
type Affine4 struct {
	R Mat3
	T vec3.Vec3
}

// IdentityAffine4 returns the identity transform.
func IdentityAffine4() Affine4 { return Affine4{R: Identity()} }

// Apply returns R*v + T.
func (a Affine4) Apply(v vec3.Vec3) vec3.Vec3 { return a.R.MulVec3(v).Add(a.T) }
