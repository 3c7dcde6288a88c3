// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render defines the opaque renderer interface the driver hands
// boundary-surface snapshots to (spec §4.6 step 4, §6 "Renderer interface
// (consumed)"), plus an optional PNG frame recorder. Adapted from
// out/out.go's Start/result-dispatch shape: that file fans FE results out
// to plotting code keyed by result name; Sink.SetMesh fans a raw triangle
// buffer out to a 3D viewer keyed by mesh name, "replacing the surface
// mesh buffer wholesale" per spec.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cpmech/softfem/vec3"
)

// Sink is the renderer interface the core calls once per SimMesh per
// frame. Implementations are outside the core's scope (spec §1); the core
// only guarantees the call shape.
type Sink interface {
	SetMesh(name string, points []vec3.Vec3, faces [][3]uint16)
}

// NullSink discards every update; used for --hide and for headless tests.
type NullSink struct{}

func (NullSink) SetMesh(string, []vec3.Vec3, [][3]uint16) {}

// ToUint16Faces narrows [][3]int boundary faces to the [][3]uint16 the
// Sink interface expects (spec §3: boundary vertex counts fit in 16 bits
// by the same invariant that bounds the global vertex count).
func ToUint16Faces(faces [][3]int) [][3]uint16 {
	out := make([][3]uint16, len(faces))
	for i, f := range faces {
		out[i] = [3]uint16{uint16(f[0]), uint16(f[1]), uint16(f[2])}
	}
	return out
}

// PNGRecorder wraps a Sink, forwarding SetMesh calls unchanged, and, if Dir
// is non-empty, writes one flat top-down projection of the points handed to
// each Capture call to Dir/output_<N>.png (spec §6 "Persisted state: None (optional PNG frame
// dumps)"). The projection is deliberately crude — an orthographic
// top-down scatter — since an actual camera/viewer is out of scope (spec
// §1); it exists only so --record-image-dir has something to write.
type PNGRecorder struct {
	Inner Sink
	Dir   string
	Size  int // image is Size x Size pixels; 0 defaults to 512

	frame int
}

// NewPNGRecorder wraps inner; if dir == "" no images are ever written.
func NewPNGRecorder(inner Sink, dir string) *PNGRecorder {
	return &PNGRecorder{Inner: inner, Dir: dir, Size: 512}
}

func (r *PNGRecorder) SetMesh(name string, points []vec3.Vec3, faces [][3]uint16) {
	r.Inner.SetMesh(name, points, faces)
}

// Capture rasterises every mesh snapshot's points onto one shared canvas
// and writes it to Dir/output_<frame>.png. cmd/softfem's frame loop calls
// this once per frame, after driver.Update has made that frame's SetMesh
// calls.
func (r *PNGRecorder) Capture(allPoints [][]vec3.Vec3) error {
	if r.Dir == "" {
		return nil
	}
	size := r.Size
	if size == 0 {
		size = 512
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.Black)
		}
	}
	const halfExtent = 10.0 // world units mapped across the canvas
	for _, points := range allPoints {
		for _, p := range points {
			px := int((p.X/halfExtent + 1) / 2 * float64(size))
			py := int((1 - (p.Z/halfExtent+1)/2) * float64(size))
			if px < 0 || px >= size || py < 0 || py >= size {
				continue
			}
			img.Set(px, py, color.White)
		}
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("render: creating %s: %w", r.Dir, err)
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("output_%d.png", r.frame))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer f.Close()
	r.frame++
	return png.Encode(f, img)
}
