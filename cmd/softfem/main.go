// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command softfem drives the interactive soft-body simulation core (spec
// §6 CLI). It loads one tetra mesh, builds a SceneModel, and steps it
// frame by frame with the integrator named by its trailing subcommand
// (euler|midpoint|rk4), following the teacher's recover-print-exit shape
// in main.go rather than letting the core itself call os.Exit.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/softfem/driver"
	"github.com/cpmech/softfem/integrate"
	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/meshio"
	"github.com/cpmech/softfem/render"
	"github.com/cpmech/softfem/scene"
	"github.com/cpmech/softfem/simmesh"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xlog"
)

// cliOptions mirrors spec §6's flag table; every option is registered
// under both its long and short name (when it has one) pointing at the
// same variable, the repeated-registration idiom the teacher's inp.Sim
// already uses for default/override pairs.
type cliOptions struct {
	hide           bool
	recordImageDir string
	frameLimit     int
	forceSimFPS    float64
	speedUp        float64
	timeStep       float64
	incompress     float64
	rigidity       float64
	viscousIncomp  float64
	viscousRigid   float64
	density        float64
	gravity        float64
	penaltyForce   float64
	floorFriction  float64
	sphereRadius   float64
	spherePosX     float64
	spherePosY     float64
	spherePosZ     float64
	floorPos       float64
}

func parseFlags(args []string) (opts cliOptions, meshFile string, kind integrate.Kind, err error) {
	fs := flag.NewFlagSet("softfem", flag.ContinueOnError)

	opts.speedUp = 1.0
	opts.timeStep = 0.0025
	opts.incompress = 100.0
	opts.rigidity = 100.0
	opts.viscousIncomp = 2.0
	opts.viscousRigid = 5.0
	opts.density = 5.0
	opts.gravity = 9.8
	opts.penaltyForce = 10000.0
	opts.floorFriction = 0.1
	opts.sphereRadius = 1.0
	opts.spherePosX = 0.0
	opts.spherePosY = -3.5
	opts.spherePosZ = 0.0
	opts.floorPos = -3.0

	for _, name := range []string{"hide", "h"} {
		fs.BoolVar(&opts.hide, name, false, "do not open a viewer window")
	}
	for _, name := range []string{"record-image-dir", "r"} {
		fs.StringVar(&opts.recordImageDir, name, "", "directory to dump output_<N>.png frames into")
	}
	for _, name := range []string{"frame-limit", "f"} {
		fs.IntVar(&opts.frameLimit, name, 0, "stop after N frames (0 = unbounded)")
	}
	fs.Float64Var(&opts.forceSimFPS, "force-sim-fps", 0, "force a fixed wall-clock frame rate instead of measuring it")
	fs.Float64Var(&opts.speedUp, "speed-up", opts.speedUp, "simulated-time multiplier on wall-clock delta")
	for _, name := range []string{"time-step", "t"} {
		fs.Float64Var(&opts.timeStep, name, opts.timeStep, "fixed sub-step size h")
	}
	for _, name := range []string{"incompressibility", "l"} {
		fs.Float64Var(&opts.incompress, name, opts.incompress, "Lame incompressibility lambda")
	}
	for _, name := range []string{"rigidity", "m"} {
		fs.Float64Var(&opts.rigidity, name, opts.rigidity, "Lame rigidity mu")
	}
	for _, name := range []string{"viscous_incompressibility", "p"} {
		fs.Float64Var(&opts.viscousIncomp, name, opts.viscousIncomp, "viscous incompressibility phi")
	}
	for _, name := range []string{"viscous_rigidity", "s"} {
		fs.Float64Var(&opts.viscousRigid, name, opts.viscousRigid, "viscous rigidity psi")
	}
	for _, name := range []string{"density", "d"} {
		fs.Float64Var(&opts.density, name, opts.density, "density rho")
	}
	for _, name := range []string{"gravity", "g"} {
		fs.Float64Var(&opts.gravity, name, opts.gravity, "gravitational acceleration")
	}
	fs.Float64Var(&opts.penaltyForce, "penalty-force", opts.penaltyForce, "contact penalty stiffness k_p")
	fs.Float64Var(&opts.floorFriction, "floor-friction-coeff", opts.floorFriction, "floor friction coefficient kappa")
	fs.Float64Var(&opts.sphereRadius, "sphere-radius", opts.sphereRadius, "static sphere radius")
	fs.Float64Var(&opts.spherePosX, "sphere-pos-x", opts.spherePosX, "static sphere center X")
	fs.Float64Var(&opts.spherePosY, "sphere-pos-y", opts.spherePosY, "static sphere center Y")
	fs.Float64Var(&opts.spherePosZ, "sphere-pos-z", opts.spherePosZ, "static sphere center Z")
	fs.Float64Var(&opts.floorPos, "floor-pos", opts.floorPos, "floor plane height y_f")

	if err = fs.Parse(args); err != nil {
		return opts, "", 0, err
	}

	rest := fs.Args()
	if len(rest) < 1 {
		return opts, "", 0, fmt.Errorf("usage: softfem [flags] mesh_file {euler|midpoint|rk4}")
	}
	meshFile = rest[0]

	kind = integrate.RK4
	if len(rest) >= 2 {
		var ok bool
		kind, ok = integrate.ParseKind(rest[1])
		if !ok {
			return opts, "", 0, fmt.Errorf("unknown integrator %q (want euler|midpoint|rk4)", rest[1])
		}
	}
	return opts, meshFile, kind, nil
}

func run(args []string) error {
	opts, meshFile, kind, err := parseFlags(args)
	if err != nil {
		return err
	}

	io.PfWhite("\nsoftfem -- interactive soft-body simulation core\n\n")

	loaded, err := meshio.Load(meshFile, mat3.IdentityAffine4())
	if err != nil {
		return xlog.Err(err, "loading mesh file")
	}
	xlog.Infof("loaded %s: %d vertices, %d tetrahedra\n", meshFile, len(loaded.Vertices), len(loaded.Tetrahedra))

	sm, err := simmesh.New(loaded.Vertices, loaded.Tetrahedra, simmesh.MeshParams{
		Incompressibility: opts.incompress,
		Rigidity:          opts.rigidity,
		ViscousIncompress: opts.viscousIncomp,
		ViscousRigidity:   opts.viscousRigid,
		Density:           opts.density,
	})
	if err != nil {
		return xlog.Err(err, "building sim mesh")
	}

	model, err := scene.New([]*simmesh.SimMesh{sm}, scene.Config{
		Gravity:       opts.gravity,
		FloorHeight:   opts.floorPos,
		Penalty:       opts.penaltyForce,
		FloorFriction: opts.floorFriction,
		SphereCenter:  vec3.Vec3{X: opts.spherePosX, Y: opts.spherePosY, Z: opts.spherePosZ},
		SphereRadius:  opts.sphereRadius,
	})
	if err != nil {
		return err
	}

	var sink render.Sink = render.NullSink{}
	var recorder *render.PNGRecorder
	if opts.recordImageDir != "" {
		recorder = render.NewPNGRecorder(sink, opts.recordImageDir)
		sink = recorder
	}
	if !opts.hide {
		io.Pfyel("viewer window suppressed: softfem's CLI front end has no built-in 3D viewer (spec's external boundary)\n")
	}

	d := driver.New(model, kind, driver.Config{SpeedUp: opts.speedUp, FixedStep: opts.timeStep}, sink, []string{"body0"})

	io.Pf("mesh: %s  vertices=%d  tets=%d  integrator=%s\n",
		meshFile, len(sm.RestPositions), len(sm.Tetrahedra), kind)

	frameDelta := 1.0 / 60.0
	if opts.forceSimFPS > 0 {
		frameDelta = 1.0 / opts.forceSimFPS
	}

	frame := 0
	last := time.Now()
	for opts.frameLimit <= 0 || frame < opts.frameLimit {
		dt := frameDelta
		if opts.forceSimFPS <= 0 {
			now := time.Now()
			dt = now.Sub(last).Seconds()
			last = now
		}
		d.Update(dt)
		if recorder != nil {
			snaps := model.BoundarySnapshots(d.State)
			pts := make([][]vec3.Vec3, len(snaps))
			for i, s := range snaps {
				pts[i] = s.Points
			}
			if err := recorder.Capture(pts); err != nil {
				return err
			}
		}
		frame++
	}

	io.Pfgreen("done: %d frame(s)\n", frame)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}
