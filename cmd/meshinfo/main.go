// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshinfo loads a tetra mesh file and reports its rest-state
// invariants: vertex/tet counts, total mass, and boundary face count.
// It follows the input-banner-then-report shape of the teacher's
// tools/GenVtu.go rather than wiring a full simulation driver.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/meshio"
	"github.com/cpmech/softfem/simmesh"
)

func main() {
	lambda := flag.Float64("l", 100.0, "incompressibility lambda")
	mu := flag.Float64("m", 100.0, "rigidity mu")
	phi := flag.Float64("p", 2.0, "viscous incompressibility phi")
	psi := flag.Float64("s", 5.0, "viscous rigidity psi")
	rho := flag.Float64("d", 5.0, "density rho")
	flag.Parse()

	if flag.NArg() < 1 {
		io.PfRed("usage: meshinfo [flags] mesh_file\n")
		os.Exit(1)
	}
	meshFile := flag.Arg(0)

	io.Pf("\nInput data\n")
	io.Pf("==========\n")
	io.Pf("  mesh_file = %20s\n", meshFile)
	io.Pf("  lambda    = %20g\n", *lambda)
	io.Pf("  mu        = %20g\n", *mu)
	io.Pf("\n")

	loaded, err := meshio.Load(meshFile, mat3.IdentityAffine4())
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}

	sm, err := simmesh.New(loaded.Vertices, loaded.Tetrahedra, simmesh.MeshParams{
		Incompressibility: *lambda,
		Rigidity:          *mu,
		ViscousIncompress: *phi,
		ViscousRigidity:   *psi,
		Density:           *rho,
	})
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}

	total := 0.0
	for _, m := range sm.VertexMass {
		total += m
	}

	io.Pfgreen("vertices       = %d\n", len(sm.RestPositions))
	io.Pfgreen("tetrahedra     = %d\n", len(sm.Tetrahedra))
	io.Pfgreen("boundary faces = %d\n", len(sm.BoundaryFaces))
	io.Pfgreen("total mass     = %g\n", total)
}
