// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"
	"testing"

	"github.com/cpmech/softfem/scene"
	"github.com/cpmech/softfem/vec3"
)

// decayModel implements ẋ=-x (spec §8.6) over a 1-vertex state, using only
// the X component; velocities/Y/Z are left at zero throughout.
type decayModel struct{}

func (decayModel) Derivative(state, dState *scene.State, _ float64) {
	dState.Positions[0] = vec3.Vec3{X: -state.Positions[0].X}
}

func newScalarState(x0 float64) *scene.State {
	return &scene.State{
		Positions:  []vec3.Vec3{{X: x0}},
		Velocities: []vec3.Vec3{{}},
	}
}

func TestEulerConsistency(t *testing.T) {
	state := newScalarState(1)
	it := New(Euler, decayModel{}, state)
	tt := 0.0
	it.NSteps(state, &tt, 1e-3, 1000)
	err := math.Abs(state.Positions[0].X - math.Exp(-1))
	if err > 1e-3 {
		t.Errorf("euler error %g, want <= 1e-3", err)
	}
}

func TestMidpointConsistency(t *testing.T) {
	state := newScalarState(1)
	it := New(Midpoint, decayModel{}, state)
	tt := 0.0
	it.NSteps(state, &tt, 1e-3, 1000)
	err := math.Abs(state.Positions[0].X - math.Exp(-1))
	if err > 1e-6 {
		t.Errorf("midpoint error %g, want <= 1e-6", err)
	}
}

func TestRK4Consistency(t *testing.T) {
	state := newScalarState(1)
	it := New(RK4, decayModel{}, state)
	tt := 0.0
	it.NSteps(state, &tt, 1e-3, 1000)
	err := math.Abs(state.Positions[0].X - math.Exp(-1))
	if err > 1e-12 {
		t.Errorf("rk4 error %g, want <= 1e-12", err)
	}
}

// harmonicModel implements ẋ=v, v̇=-x (spec §8 scenario S6) over a 1-vertex state.
type harmonicModel struct{}

func (harmonicModel) Derivative(state, dState *scene.State, _ float64) {
	dState.Velocities[0] = vec3.Vec3{X: -state.Positions[0].X}
	dState.Positions[0] = state.Velocities[0]
}

// S6 - RK4 round-trip on the harmonic oscillator: (x,v)=(1,0), 628 steps of
// h=2π/628≈0.01 span exactly one period, so x≈1, v≈0 within 1e-6.
func TestRK4HarmonicRoundTrip(t *testing.T) {
	state := &scene.State{
		Positions:  []vec3.Vec3{{X: 1}},
		Velocities: []vec3.Vec3{{}},
	}
	it := New(RK4, harmonicModel{}, state)
	tt := 0.0
	it.NSteps(state, &tt, 2*math.Pi/628, 628)
	if math.Abs(state.Positions[0].X-1) > 1e-6 {
		t.Errorf("x=%g, want ~1", state.Positions[0].X)
	}
	if math.Abs(state.Velocities[0].X) > 1e-6 {
		t.Errorf("v=%g, want ~0", state.Velocities[0].X)
	}
}

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"euler", Euler, true},
		{"midpoint", Midpoint, true},
		{"rk4", RK4, true},
		{"bogus", 0, false},
	} {
		got, ok := ParseKind(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseKind(%q) = (%v,%v), want (%v,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
