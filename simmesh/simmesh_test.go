// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simmesh

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xerr"
)

func unitTet() []vec3.Vec3 {
	return []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

func zeros(n int) []vec3.Vec3 { return make([]vec3.Vec3, n) }

// S1 - single tet at rest, g=9.8, unit Lame params: a = (0,-9.8,0) everywhere.
func TestSingleTetRestGravity(t *testing.T) {
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}
	sm, err := New(rest, tets, MeshParams{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := sm.VertexAccels(rest, zeros(4), nil, 9.8)
	for i, av := range a {
		want := vec3.Vec3{Y: -9.8}
		if !av.IsApprox(want, 1e-5) {
			t.Errorf("vertex %d: a=%+v, want %+v", i, av, want)
		}
	}
}

// Rest invariance (spec §8.4): vertex_accels(rest,0,0,0)=0.
func TestRestInvarianceZero(t *testing.T) {
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}
	sm, err := New(rest, tets, MeshParams{10, 20, 1, 2, 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := sm.VertexAccels(rest, zeros(4), nil, 0)
	for i, av := range a {
		if !av.IsApprox(vec3.Vec3{}, 1e-8) {
			t.Errorf("vertex %d: a=%+v, want zero", i, av)
		}
	}
}

// Mass conservation and equal distribution (spec §8.1-8.2).
func TestMassConservationSingleTet(t *testing.T) {
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}
	rho := 3.5
	sm, err := New(rest, tets, MeshParams{1, 1, 1, 1, rho})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vol := 1.0 / 6.0
	total := rho * vol
	var sum float64
	for _, mm := range sm.VertexMass {
		sum += mm
		if math.Abs(mm-total/4) > 1e-5 {
			t.Errorf("vertex mass %g, want %g", mm, total/4)
		}
	}
	if math.Abs(sum-total) > 1e-5 {
		t.Errorf("total mass %g, want %g", sum, total)
	}
}

// S2 - stretching a single tet along y with zero viscosity/gravity keeps
// a_x=a_z=0 and restores vertex 2 toward y=1.
func TestSingleTetStretchRestoringForce(t *testing.T) {
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}
	sm, err := New(rest, tets, MeshParams{1e-9, 1, 1e-9, 1e-9, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stretched := append([]vec3.Vec3(nil), rest...)
	stretched[2] = vec3.Vec3{X: 0, Y: 1.5, Z: 0}
	a := sm.VertexAccels(stretched, zeros(4), nil, 0)
	for i, av := range a {
		if math.Abs(av.X) > 1e-5 || math.Abs(av.Z) > 1e-5 {
			t.Errorf("vertex %d: a_x=%g a_z=%g, want 0", i, av.X, av.Z)
		}
	}
	if a[2].Y >= 0 {
		t.Errorf("vertex 2 acceleration should pull back toward y=1, got a_y=%g", a[2].Y)
	}
}

// Boundary closure (spec §8.3): every edge of the boundary surface is
// shared by exactly two boundary faces.
func TestBoundaryClosureSingleTet(t *testing.T) {
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}
	sm, err := New(rest, tets, MeshParams{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(sm.BoundaryFaces) != 4 {
		t.Fatalf("expected 4 boundary faces for a single tet, got %d", len(sm.BoundaryFaces))
	}
	edgeCount := map[[2]int]int{}
	for _, f := range sm.BoundaryFaces {
		edges := [][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}}
		for _, e := range edges {
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			edgeCount[e]++
		}
	}
	for e, c := range edgeCount {
		if c != 2 {
			t.Errorf("edge %v appears %d times, want 2", e, c)
		}
	}
}

// S3 - two tets sharing face {1,2,3}: vertex masses match spec §8 scenario S3.
func TestTwoTetSharedFaceMass(t *testing.T) {
	rest := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 0},
	}
	tets := [][4]int{{0, 1, 2, 3}, {4, 1, 2, 3}}
	sm, err := New(rest, tets, MeshParams{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []float64{1.0 / 24, 1.0 / 12, 1.0 / 12, 1.0 / 12, 1.0 / 24}
	for i, w := range want {
		if math.Abs(sm.VertexMass[i]-w) > 1e-5 {
			t.Errorf("vertex %d mass %g, want %g", i, sm.VertexMass[i], w)
		}
	}
	// shared face {1,2,3} must have been toggled away: only the 3 outer
	// faces of each tet remain, the ones touching its "free" vertex (0 or 4).
	if len(sm.BoundaryFaces) != 6 {
		t.Fatalf("expected 6 boundary faces for two tets glued on one face, got %d", len(sm.BoundaryFaces))
	}
}

// MeshParams.Validate rejects every non-positive field with *xerr.ConfigError,
// in the reject-at-construction style of the teacher's msolid elasticity Init.
func TestValidateRejectsNonPositiveParams(t *testing.T) {
	base := MeshParams{Incompressibility: 1, Rigidity: 1, ViscousIncompress: 1, ViscousRigidity: 1, Density: 1}
	cases := []struct {
		name   string
		mutate func(*MeshParams)
		field  string
	}{
		{"incompressibility", func(p *MeshParams) { p.Incompressibility = 0 }, "incompressibility"},
		{"rigidity", func(p *MeshParams) { p.Rigidity = -1 }, "rigidity"},
		{"viscous_incompressibility", func(p *MeshParams) { p.ViscousIncompress = 0 }, "viscous_incompressibility"},
		{"viscous_rigidity", func(p *MeshParams) { p.ViscousRigidity = -2 }, "viscous_rigidity"},
		{"density", func(p *MeshParams) { p.Density = 0 }, "density"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := base
			c.mutate(&p)
			err := p.Validate()
			var ce *xerr.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v (%T), want *xerr.ConfigError", err, err)
			}
			if ce.Field != c.field {
				t.Errorf("ConfigError.Field = %q, want %q", ce.Field, c.field)
			}
		})
	}
}

// New rejects a zero-volume rest tet with *xerr.DegenerateTet (spec §7).
func TestNewRejectsDegenerateTet(t *testing.T) {
	flat := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
	}
	_, err := New(flat, [][4]int{{0, 1, 2, 3}}, MeshParams{1, 1, 1, 1, 1})
	var dt *xerr.DegenerateTet
	if !errors.As(err, &dt) {
		t.Fatalf("New() = %v (%T), want *xerr.DegenerateTet", err, err)
	}
	if dt.TetIndex != 0 {
		t.Errorf("DegenerateTet.TetIndex = %d, want 0", dt.TetIndex)
	}
}

func rotationMatrix(axisAngle vec3.Vec3) mat3.Mat3 {
	theta := axisAngle.Norm()
	if theta < 1e-12 {
		return mat3.Identity()
	}
	axis := axisAngle.Scale(1 / theta)
	c, s := math.Cos(theta), math.Sin(theta)
	k := mat3.Mat3{A: [3][3]float64{
		{0, -axis.Z, axis.Y},
		{axis.Z, 0, -axis.X},
		{-axis.Y, axis.X, 0},
	}}
	return mat3.Identity().Add(k.Scale(s)).Add(k.Mul(k).Scale(1 - c))
}

// Rigid-motion invariance under gravity (spec §8.5): a random rigid
// transform of the rest configuration, zero velocity, produces a uniform
// (0,-g,0) acceleration across a broad parameter sweep.
func TestRigidMotionInvarianceUnderGravity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rest := unitTet()
	tets := [][4]int{{0, 1, 2, 3}}

	randIn := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	for trial := 0; trial < 50; trial++ {
		params := MeshParams{
			Incompressibility: math.Pow(10, randIn(-3, 3)),
			Rigidity:          math.Pow(10, randIn(-3, 3)),
			ViscousIncompress: math.Pow(10, randIn(-3, 3)),
			ViscousRigidity:   math.Pow(10, randIn(-3, 3)),
			Density:           math.Pow(10, randIn(-2, 4)),
		}
		sm, err := New(rest, tets, params)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		translation := vec3.Vec3{X: randIn(-2, 2), Y: randIn(-2, 2), Z: randIn(-2, 2)}
		axisAngle := vec3.Vec3{X: randIn(-2, 2), Y: randIn(-2, 2), Z: randIn(-2, 2)}
		R := rotationMatrix(axisAngle)
		g := randIn(0, 100)

		transformed := make([]vec3.Vec3, len(rest))
		for i, x := range rest {
			transformed[i] = R.MulVec3(x).Add(translation)
		}

		a := sm.VertexAccels(transformed, zeros(4), nil, g)
		want := vec3.Vec3{Y: -g}
		for i, av := range a {
			if !av.IsApprox(want, 1e-5) {
				t.Fatalf("trial %d vertex %d: a=%+v, want %+v (params=%+v)", trial, i, av, want, params)
			}
		}
	}
}
