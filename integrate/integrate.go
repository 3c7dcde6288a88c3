// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate implements the three swappable explicit ODE steppers
// (spec §4.5): Euler, Midpoint, classic RK4. All three satisfy the common
// step_internal/step/n_steps contract over a scene.SceneModel's state.
//
// The variant is modelled as a tagged struct with a single switch inside
// StepInternal (spec §9 "variant integrator dispatch"), the same shape the
// teacher's gosl/ode package uses for its own family of explicit/implicit
// solvers, rather than one interface implementation per kind — this keeps
// the hot inner call (one derivative evaluation) free of a vtable
// indirection. Every scratch buffer (the derivative buffer, the
// intermediate state, RK4's four k-buffers) is allocated once in New and
// reused for the integrator's lifetime (spec §5 allocation discipline).
package integrate

import "github.com/cpmech/softfem/scene"

// Model is the one thing an Integrator needs: a pure function of
// (state, t) written into dState (spec §4.4's derivative(state, dState,
// t) contract). *scene.SceneModel satisfies this directly; tests use a
// lighter stand-in to exercise scalar ODEs without building a mesh.
type Model interface {
	Derivative(state, dState *scene.State, t float64)
}

// Kind selects which explicit stepper StepInternal dispatches to.
type Kind int

const (
	Euler Kind = iota
	Midpoint
	RK4
)

func (k Kind) String() string {
	switch k {
	case Euler:
		return "euler"
	case Midpoint:
		return "midpoint"
	case RK4:
		return "rk4"
	default:
		return "unknown"
	}
}

// ParseKind maps the driver's trailing CLI subcommand to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "euler":
		return Euler, true
	case "midpoint":
		return Midpoint, true
	case "rk4":
		return RK4, true
	default:
		return 0, false
	}
}

// Integrator is the SwappableIntegrator of spec §4.5: one tagged variant,
// pre-sized scratch, dispatched once per StepInternal call.
type Integrator struct {
	kind  Kind
	model Model

	// Euler/Midpoint shared scratch.
	k1  *scene.State
	mid *scene.State

	// RK4-only scratch (k-buffers hold h*f, per spec §4.5).
	k2, k3, k4 *scene.State
}

// New builds an Integrator of the given kind against model, pre-allocating
// scratch sized to shape (typically model.InitialState()).
func New(kind Kind, model Model, shape *scene.State) *Integrator {
	it := &Integrator{kind: kind, model: model}
	it.k1 = shape.ZeroLike()
	if kind == Euler {
		return it
	}
	it.mid = shape.ZeroLike()
	if kind == Midpoint {
		return it
	}
	it.k2 = shape.ZeroLike()
	it.k3 = shape.ZeroLike()
	it.k4 = shape.ZeroLike()
	return it
}

// StepInternal advances state by one step of size h at time t, without
// mutating t (spec §4.5).
func (it *Integrator) StepInternal(state *scene.State, t, h float64) {
	switch it.kind {
	case Euler:
		it.stepEuler(state, t, h)
	case Midpoint:
		it.stepMidpoint(state, t, h)
	case RK4:
		it.stepRK4(state, t, h)
	default:
		panic("integrate: unknown kind")
	}
}

// Step runs StepInternal then advances *t by h (spec §4.5).
func (it *Integrator) Step(state *scene.State, t *float64, h float64) {
	it.StepInternal(state, *t, h)
	*t += h
}

// NSteps repeats Step n times (spec §4.5, used by the driver's per-frame loop).
func (it *Integrator) NSteps(state *scene.State, t *float64, h float64, n int) {
	for i := 0; i < n; i++ {
		it.Step(state, t, h)
	}
}

func (it *Integrator) stepEuler(state *scene.State, t, h float64) {
	it.model.Derivative(state, it.k1, t)
	state.AxpyFrom(state, it.k1, h)
}

func (it *Integrator) stepMidpoint(state *scene.State, t, h float64) {
	it.model.Derivative(state, it.k1, t)
	it.mid.AxpyFrom(state, it.k1, h/2)
	it.model.Derivative(it.mid, it.k1, t+h/2)
	state.AxpyFrom(state, it.k1, h)
}

func (it *Integrator) stepRK4(state *scene.State, t, h float64) {
	// k1 = h*f(x, t)
	it.model.Derivative(state, it.k1, t)
	it.k1.ScaleInPlace(h)

	// k2 = h*f(x+k1/2, t+h/2)
	it.mid.AxpyFrom(state, it.k1, 0.5)
	it.model.Derivative(it.mid, it.k2, t+h/2)
	it.k2.ScaleInPlace(h)

	// k3 = h*f(x+k2/2, t+h/2)
	it.mid.AxpyFrom(state, it.k2, 0.5)
	it.model.Derivative(it.mid, it.k3, t+h/2)
	it.k3.ScaleInPlace(h)

	// k4 = h*f(x+k3, t+h)
	it.mid.AxpyFrom(state, it.k3, 1)
	it.model.Derivative(it.mid, it.k4, t+h)
	it.k4.ScaleInPlace(h)

	// x += (k1 + 2k2 + 2k3 + k4) / 6
	for i := range state.Positions {
		state.Positions[i] = state.Positions[i].
			AddScaled(it.k1.Positions[i], 1.0/6).
			AddScaled(it.k2.Positions[i], 2.0/6).
			AddScaled(it.k3.Positions[i], 2.0/6).
			AddScaled(it.k4.Positions[i], 1.0/6)
		state.Velocities[i] = state.Velocities[i].
			AddScaled(it.k1.Velocities[i], 1.0/6).
			AddScaled(it.k2.Velocities[i], 2.0/6).
			AddScaled(it.k3.Velocities[i], 2.0/6).
			AddScaled(it.k4.Velocities[i], 1.0/6)
	}
}
