// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements SceneModel/SceneModelState (spec §3, §4.4): the
// aggregate of one or more simmesh.SimMesh plus the global contact and
// gravity parameters, and the derivative(state, dState, t) contract the
// integrate package steps. Grounded on the teacher's fem.Domain aggregation
// (one global model, many element groups) but flattened to the one
// flat-vector state layout the spec's integrators require (spec §9).
package scene

import (
	"github.com/cpmech/softfem/simmesh"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xerr"
)

// zeroVelocityEps is the |v| floor below which floor friction is treated
// as zero instead of dividing by a near-zero norm (spec §9).
const zeroVelocityEps = 1e-12

// Config holds the global, scene-wide physical parameters (spec §3).
type Config struct {
	Gravity       float64 // g, direction fixed to -Y
	FloorHeight   float64 // y_f
	Penalty       float64 // k_p
	FloorFriction float64 // κ
	SphereCenter  vec3.Vec3
	SphereRadius  float64 // r_s
}

// Validate rejects a non-positive penalty/sphere-radius configuration.
func (c Config) Validate() error {
	if c.Penalty <= 0 {
		return &xerr.ConfigError{Field: "penalty", Value: c.Penalty}
	}
	if c.SphereRadius <= 0 {
		return &xerr.ConfigError{Field: "sphere_radius", Value: c.SphereRadius}
	}
	return nil
}

// interval is a mesh's half-open [start,end) slice into the global vertex
// vector (spec §3 mesh_intervals).
type interval struct{ start, end int }

// SceneModel aggregates every SimMesh in the scene plus the global contact
// parameters (spec §3). It is immutable after New; SceneModelState is the
// mutable ODE state an integrator advances.
type SceneModel struct {
	Meshes    []*simmesh.SimMesh
	intervals []interval
	Config    Config
}

// New builds a SceneModel from a list of SimMeshes, laying them out
// contiguously in global vertex order (spec §3 mesh_intervals). Fails with
// *xerr.IndexOverflow if the aggregate vertex count reaches 2^16 (spec §3).
func New(meshes []*simmesh.SimMesh, cfg Config) (*SceneModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sm := &SceneModel{Meshes: meshes, Config: cfg}
	start := 0
	for _, m := range meshes {
		end := start + len(m.RestPositions)
		sm.intervals = append(sm.intervals, interval{start, end})
		start = end
	}
	if start >= 1<<16 {
		return nil, &xerr.IndexOverflow{Count: start}
	}
	return sm, nil
}

// NumVertices returns N = Σ|SimMesh|, the total state size (spec §3).
func (s *SceneModel) NumVertices() int {
	if len(s.intervals) == 0 {
		return 0
	}
	return s.intervals[len(s.intervals)-1].end
}

// State is the mutable (positions, velocities) ODE state (spec §3).
type State struct {
	Positions  []vec3.Vec3
	Velocities []vec3.Vec3
}

// InitialState returns positions = concatenated rest positions, velocities
// = zero (spec §3 SceneModelState lifecycle).
func (s *SceneModel) InitialState() *State {
	n := s.NumVertices()
	st := &State{
		Positions:  make([]vec3.Vec3, n),
		Velocities: make([]vec3.Vec3, n),
	}
	for i, m := range s.Meshes {
		iv := s.intervals[i]
		copy(st.Positions[iv.start:iv.end], m.RestPositions)
	}
	return st
}

// Clone returns a deep copy of the positions/velocities buffers, leaving
// the (shared, read-only) SimMesh invariants untouched.
func (s *State) Clone() *State {
	c := &State{
		Positions:  make([]vec3.Vec3, len(s.Positions)),
		Velocities: make([]vec3.Vec3, len(s.Velocities)),
	}
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	return c
}

// AxpyFrom sets dst = a + b*scale element-wise over both position and
// velocity slices, the one element-wise primitive every integrator needs
// (spec §9's "axpy-like primitives" in place of an iterator type).
func (dst *State) AxpyFrom(a, b *State, scale float64) {
	for i := range dst.Positions {
		dst.Positions[i] = a.Positions[i].AddScaled(b.Positions[i], scale)
		dst.Velocities[i] = a.Velocities[i].AddScaled(b.Velocities[i], scale)
	}
}

// ZeroLike returns a new State of the same shape as s, all zero — used by
// integrators as derivative/intermediate scratch (spec §4.5, §5).
func (s *State) ZeroLike() *State {
	return &State{
		Positions:  make([]vec3.Vec3, len(s.Positions)),
		Velocities: make([]vec3.Vec3, len(s.Velocities)),
	}
}

// ScaleInPlace multiplies every component of s by c in place.
func (s *State) ScaleInPlace(c float64) {
	for i := range s.Positions {
		s.Positions[i] = s.Positions[i].Scale(c)
		s.Velocities[i] = s.Velocities[i].Scale(c)
	}
}

// contactForce computes the external penalty force on a single vertex from
// the floor plane and the static sphere (spec §4.4 step 1).
func (s *SceneModel) contactForce(p, v vec3.Vec3) vec3.Vec3 {
	cfg := s.Config
	var f vec3.Vec3

	if p.Y < cfg.FloorHeight {
		penetration := cfg.FloorHeight - p.Y
		normalForce := cfg.Penalty * penetration
		f.Y += normalForce
		speed := v.Norm()
		if speed >= zeroVelocityEps {
			f = f.Sub(v.Scale(1 / speed).Scale(normalForce * cfg.FloorFriction))
		}
	}

	d := p.Sub(cfg.SphereCenter)
	l := d.Norm()
	if l > 0 && l < cfg.SphereRadius {
		f = f.Add(d.Scale(1 / l).Scale(cfg.Penalty * (cfg.SphereRadius - l)))
	}

	return f
}

// Derivative implements ẋ=v, v̇=a(x,v) (spec §4.4): for every mesh, slice
// positions/velocities, compute contact forces, call SimMesh.VertexAccels,
// and write the result into dState. t is accepted (and ignored) to match
// the stepper contract; none of this system's forces are explicitly
// time-dependent.
func (s *SceneModel) Derivative(state, dState *State, _ float64) {
	for i, m := range s.Meshes {
		iv := s.intervals[i]
		pos := state.Positions[iv.start:iv.end]
		vel := state.Velocities[iv.start:iv.end]

		external := make([]vec3.Vec3, len(pos))
		for v := range pos {
			external[v] = s.contactForce(pos[v], vel[v])
		}

		accel := m.VertexAccels(pos, vel, external, s.Config.Gravity)

		copy(dState.Velocities[iv.start:iv.end], accel)
		copy(dState.Positions[iv.start:iv.end], vel)
	}
}

// MeshSnapshot is one SimMesh's boundary surface at the current state,
// ready to hand to a renderer (spec §4.3, §4.6 step 4).
type MeshSnapshot struct {
	Points []vec3.Vec3
	Faces  [][3]int
}

// BoundarySnapshots returns, for every mesh, its current boundary
// points/faces projection (spec §4.6 step 4).
func (s *SceneModel) BoundarySnapshots(state *State) []MeshSnapshot {
	out := make([]MeshSnapshot, len(s.Meshes))
	for i, m := range s.Meshes {
		iv := s.intervals[i]
		points, faces := m.BoundaryVerticesFaces(state.Positions[iv.start:iv.end])
		out[i] = MeshSnapshot{Points: points, Faces: faces}
	}
	return out
}
