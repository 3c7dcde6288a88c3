// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements the per-frame update loop (spec §4.6),
// adapted from the teacher's fem.Run time loop (fem/solver.go): that loop
// walks simulation stages accumulating a variable Δt from an fun.Func
// schedule down to fixed-size sub-steps; this driver instead subdivides
// one wall-clock frame delta into fixed h-sized sub-steps, calls the
// integrator n_steps once, and forwards a boundary-surface snapshot to a
// render.Sink — the "Out" hook in fem.Run's loop becomes the renderer
// call here.
package driver

import (
	"math"

	"github.com/cpmech/softfem/integrate"
	"github.com/cpmech/softfem/render"
	"github.com/cpmech/softfem/scene"
)

// Config holds the per-frame knobs from spec §4.6 / §6.
type Config struct {
	SpeedUp   float64 // s
	FixedStep float64 // h
}

// Driver owns the mutable SceneModelState and advances it by wall-clock
// frame deltas (spec §3 "SceneModelState is owned by the driver").
type Driver struct {
	Model      *scene.SceneModel
	Integrator *integrate.Integrator
	State      *scene.State
	Config     Config
	Sink       render.Sink

	meshNames []string
}

// New builds a Driver with a fresh initial state and the given integrator
// kind (spec §4.6, §4.5 SwappableIntegrator).
func New(model *scene.SceneModel, kind integrate.Kind, cfg Config, sink render.Sink, meshNames []string) *Driver {
	state := model.InitialState()
	return &Driver{
		Model:      model,
		Integrator: integrate.New(kind, model, state),
		State:      state,
		Config:     cfg,
		Sink:       sink,
		meshNames:  meshNames,
	}
}

// Update advances the scene by dtReal wall-clock seconds (spec §4.6):
//  1. Δt = s·dtReal
//  2. N = ceil(Δt/h); h_eff = Δt/N (never exceeds the configured h)
//  3. integrator.n_steps(model, state, &t, h_eff, N), t local to this frame
//  4. for each SimMesh, boundary_vertices_faces -> Sink.SetMesh
//
// The core's only guarantee: state advances by exactly N*h_eff = Δt
// simulated seconds using exactly N integrator steps (spec §4.6).
func (d *Driver) Update(dtReal float64) {
	dt := d.Config.SpeedUp * dtReal
	if dt <= 0 {
		return
	}
	n := int(math.Ceil(dt / d.Config.FixedStep))
	if n < 1 {
		n = 1
	}
	hEff := dt / float64(n)

	t := 0.0
	d.Integrator.NSteps(d.State, &t, hEff, n)

	snapshots := d.Model.BoundarySnapshots(d.State)
	for i, snap := range snapshots {
		name := ""
		if i < len(d.meshNames) {
			name = d.meshNames[i]
		}
		d.Sink.SetMesh(name, snap.Points, render.ToUint16Faces(snap.Faces))
	}
}
