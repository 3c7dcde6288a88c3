// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simmesh implements the per-tetrahedron reference-configuration
// invariants and the St. Venant-Kirchhoff-plus-viscous force/acceleration
// evaluator (spec §4.1-§4.3). MeshParams.Validate follows the teacher's
// msolid.SmallElasticity.Init convention of rejecting a bad parameter set
// at construction time with a formatted error instead of panicking deep
// inside a force kernel.
package simmesh

import (
	"runtime"
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xerr"
)

// degenerateTol bounds how close to zero a rest tet's det(D_m) may be
// before construction rejects it as degenerate (spec §4.1, §7).
const degenerateTol = 1e-12

// parallelTetThreshold is the tet count at or above which VertexAccels spreads
// the per-tet matrix phase over worker goroutines (spec §4.2).
const parallelTetThreshold = 300

// MeshParams holds the five strictly-positive material constants of a
// SimMesh (spec §3).
type MeshParams struct {
	Incompressibility float64 // λ
	Rigidity          float64 // μ
	ViscousIncompress float64 // φ
	ViscousRigidity   float64 // ψ
	Density           float64 // ρ
}

// Validate rejects any non-positive parameter with a *xerr.ConfigError.
func (p MeshParams) Validate() error {
	for name, v := range map[string]float64{
		"incompressibility":         p.Incompressibility,
		"rigidity":                  p.Rigidity,
		"viscous_incompressibility": p.ViscousIncompress,
		"viscous_rigidity":          p.ViscousRigidity,
		"density":                   p.Density,
	} {
		if v <= 0 {
			return &xerr.ConfigError{Field: name, Value: v}
		}
	}
	return nil
}

// tetFaceOpposite[k] lists, for the face opposite local vertex k, the
// other three local vertex indices in a fixed (unoriented) reading order.
// The sign-correction step in New then flips
// the winding per-face so the stored normal points away from vertex k.
var tetFaceOpposite = [4][3]int{
	{1, 2, 3},
	{0, 2, 3},
	{0, 1, 3},
	{0, 1, 2},
}

// SimMesh is one soft body: immutable reference-configuration invariants
// computed once at construction (spec §3, §4.1).
type SimMesh struct {
	RestPositions   []vec3.Vec3
	VertexMass      []float64
	Tetrahedra      [][4]int
	InvEdgeMatrix   []mat3.Mat3
	FaceAreaNormals [][4]vec3.Vec3
	BoundaryVertices []int
	BoundaryFaces    [][3]int // indices into BoundaryVertices

	Params MeshParams
}

// New builds a SimMesh from a rest configuration and tetrahedron list
// (spec §4.1). It fails with *xerr.DegenerateTet if any rest tet has a
// singular edge matrix, and with *xerr.ConfigError if params is invalid.
func New(restPositions []vec3.Vec3, tetrahedra [][4]int, params MeshParams) (*SimMesh, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := len(restPositions)
	m := &SimMesh{
		RestPositions:   restPositions,
		VertexMass:      make([]float64, n),
		Tetrahedra:      tetrahedra,
		InvEdgeMatrix:   make([]mat3.Mat3, len(tetrahedra)),
		FaceAreaNormals: make([][4]vec3.Vec3, len(tetrahedra)),
		Params:          params,
	}

	type boundaryEntry struct {
		tri   [3]int
		alive bool
	}
	boundary := make(map[[3]int]*boundaryEntry)
	var boundaryOrder [][3]int

	for ti, t := range tetrahedra {
		for _, v := range t {
			if v < 0 || v >= n {
				return nil, chk.Err("tet %d: vertex index %d out of range [0,%d)", ti, v, n)
			}
		}
		if t[0] == t[1] || t[0] == t[2] || t[0] == t[3] || t[1] == t[2] || t[1] == t[3] || t[2] == t[3] {
			return nil, chk.Err("tet %d: vertex indices must be pairwise distinct, got %v", ti, t)
		}
		x0, x1, x2, x3 := restPositions[t[0]], restPositions[t[1]], restPositions[t[2]], restPositions[t[3]]
		dm := mat3.FromColumns(x0.Sub(x3), x1.Sub(x3), x2.Sub(x3))
		det := dm.Det()
		if absf(det) <= degenerateTol {
			return nil, &xerr.DegenerateTet{TetIndex: ti, Det: det}
		}
		dmInv, err := dm.Inverse(degenerateTol)
		if err != nil {
			return nil, &xerr.DegenerateTet{TetIndex: ti, Det: det}
		}
		m.InvEdgeMatrix[ti] = dmInv

		vol := absf(det) / 6
		share := params.Density * vol / 4
		for _, v := range t {
			m.VertexMass[v] += share
		}

		for k := 0; k < 4; k++ {
			others := tetFaceOpposite[k]
			ga, gb, gc := t[others[0]], t[others[1]], t[others[2]]
			xa, xb, xc := restPositions[ga], restPositions[gb], restPositions[gc]
			n := xb.Sub(xa).Cross(xc.Sub(xa)).Scale(0.5)
			xk := restPositions[t[k]]
			if xk.Sub(xa).Dot(n) > 0 {
				n = n.Neg()
				ga, gb = gb, ga // reverse stored face orientation (spec §4.1)
			}
			m.FaceAreaNormals[ti][k] = n

			tri := [3]int{ga, gb, gc}
			key := sortedTriple(tri)
			if e, ok := boundary[key]; ok {
				e.alive = false
			} else {
				boundary[key] = &boundaryEntry{tri: tri, alive: true}
				boundaryOrder = append(boundaryOrder, key)
			}
		}
	}

	// compact vertex indices into boundary_vertices, discovery order
	localIdx := make(map[int]int)
	for _, key := range boundaryOrder {
		e := boundary[key]
		if !e.alive {
			continue
		}
		for _, g := range e.tri {
			if _, ok := localIdx[g]; !ok {
				localIdx[g] = len(m.BoundaryVertices)
				m.BoundaryVertices = append(m.BoundaryVertices, g)
			}
		}
	}
	for _, key := range boundaryOrder {
		e := boundary[key]
		if !e.alive {
			continue
		}
		m.BoundaryFaces = append(m.BoundaryFaces, [3]int{
			localIdx[e.tri[0]], localIdx[e.tri[1]], localIdx[e.tri[2]],
		})
	}

	return m, nil
}

func sortedTriple(t [3]int) [3]int {
	s := []int{t[0], t[1], t[2]}
	sort.Ints(s)
	return [3]int{s[0], s[1], s[2]}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// stress implements σ(ε,λ,μ) = λ·tr(ε)·I + 2μ·ε (spec §4.2).
func stress(eps mat3.Mat3, lambda, mu float64) mat3.Mat3 {
	return mat3.Identity().Scale(lambda * eps.Trace()).Add(eps.Scale(2 * mu))
}

// VertexAccels computes per-vertex acceleration a[v] (spec §4.2). positions
// and velocities must each have len == len(m.RestPositions); externalForces
// may be nil (treated as zero) and is otherwise added in before gravity and
// the mass divide, per spec's "external forces are pre-added" contract.
func (m *SimMesh) VertexAccels(positions, velocities []vec3.Vec3, externalForces []vec3.Vec3, g float64) []vec3.Vec3 {
	n := len(m.RestPositions)
	force := make([]vec3.Vec3, n)
	if externalForces != nil {
		copy(force, externalForces)
	}

	nTets := len(m.Tetrahedra)
	if nTets < parallelTetThreshold {
		m.scatterTetForces(0, nTets, positions, velocities, force)
	} else {
		workers := runtime.GOMAXPROCS(0)
		if workers > nTets {
			workers = nTets
		}
		partials := make([][]vec3.Vec3, workers)
		chunk := (nTets + workers - 1) / workers
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := lo + chunk
			if hi > nTets {
				hi = nTets
			}
			if lo >= hi {
				continue
			}
			partials[w] = make([]vec3.Vec3, n)
			wg.Add(1)
			go func(lo, hi int, partial []vec3.Vec3) {
				defer wg.Done()
				m.scatterTetForces(lo, hi, positions, velocities, partial)
			}(lo, hi, partials[w])
		}
		wg.Wait()
		for _, partial := range partials {
			for v := range partial {
				force[v] = force[v].Add(partial[v])
			}
		}
	}

	gravity := vec3.Vec3{Y: -g}
	accel := make([]vec3.Vec3, n)
	for v := 0; v < n; v++ {
		f := force[v].Add(gravity.Scale(m.VertexMass[v]))
		accel[v] = f.Scale(1 / m.VertexMass[v])
	}
	return accel
}

// scatterTetForces accumulates the internal elastic+viscous force of tets
// [lo,hi) into dst (spec §4.2). dst must be sized len(m.RestPositions).
func (m *SimMesh) scatterTetForces(lo, hi int, positions, velocities []vec3.Vec3, dst []vec3.Vec3) {
	lambda, mu := m.Params.Incompressibility, m.Params.Rigidity
	phi, psi := m.Params.ViscousIncompress, m.Params.ViscousRigidity
	ident := mat3.Identity()
	for ti := lo; ti < hi; ti++ {
		t := m.Tetrahedra[ti]
		dmInv := m.InvEdgeMatrix[ti]

		p0, p1, p2, p3 := positions[t[0]], positions[t[1]], positions[t[2]], positions[t[3]]
		ds := mat3.FromColumns(p0.Sub(p3), p1.Sub(p3), p2.Sub(p3))

		v0, v1, v2, v3 := velocities[t[0]], velocities[t[1]], velocities[t[2]], velocities[t[3]]
		dv := mat3.FromColumns(v0.Sub(v3), v1.Sub(v3), v2.Sub(v3))

		f := ds.Mul(dmInv)
		fv := dv.Mul(dmInv)
		fT := f.Transpose()
		fvT := fv.Transpose()

		epsE := fT.Mul(f).Add(ident.Scale(-1))
		epsV := fT.Mul(fv).Add(fvT.Mul(f))

		sigma := stress(epsE, lambda, mu).Add(stress(epsV, phi, psi))
		mm := f.Mul(sigma)

		for k := 0; k < 4; k++ {
			v := t[k]
			dst[v] = dst[v].Add(mm.MulVec3(m.FaceAreaNormals[ti][k]))
		}
	}
}

// BoundaryVerticesFaces projects the current positions of the boundary
// onto (points, faces) for the renderer (spec §4.3): points[i] is the
// world position of BoundaryVertices[i], faces are already re-indexed.
func (m *SimMesh) BoundaryVerticesFaces(positions []vec3.Vec3) ([]vec3.Vec3, [][3]int) {
	points := make([]vec3.Vec3, len(m.BoundaryVertices))
	for i, g := range m.BoundaryVertices {
		points[i] = positions[g]
	}
	return points, m.BoundaryFaces
}
