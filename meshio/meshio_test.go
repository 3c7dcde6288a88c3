// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"strings"
	"testing"

	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xerr"
)

const sampleMesh = `
# a unit tet, comments and blank lines are simply ignored
v 0.0 0.0 0.0
v 1.0 0 0
  v   0   1   0
v 0 0 1
t 0 1 2 3
junk line that matches neither grammar
`

func TestParseBasic(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMesh), "<mem>", mat3.IdentityAffine4())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Vertices) != 4 {
		t.Fatalf("got %d vertices, want 4", len(m.Vertices))
	}
	want := vec3.Vec3{X: 0, Y: 1, Z: 0}
	if !m.Vertices[2].IsApprox(want, 1e-12) {
		t.Errorf("vertex 2 = %+v, want %+v", m.Vertices[2], want)
	}
	if len(m.Tetrahedra) != 1 || m.Tetrahedra[0] != [4]int{0, 1, 2, 3} {
		t.Errorf("tetrahedra = %v, want [[0 1 2 3]]", m.Tetrahedra)
	}
}

func TestParseAppliesTransform(t *testing.T) {
	xf := mat3.Affine4{R: mat3.Identity(), T: vec3.Vec3{X: 10}}
	m, err := Parse(strings.NewReader("v 0 0 0\n"), "<mem>", xf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := vec3.Vec3{X: 10}
	if !m.Vertices[0].IsApprox(want, 1e-12) {
		t.Errorf("vertex = %+v, want %+v", m.Vertices[0], want)
	}
}

func TestParseBadVertexIsParseError(t *testing.T) {
	_, err := Parse(strings.NewReader("v 0 notanumber 0\n"), "bad.mesh", mat3.IdentityAffine4())
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *xerr.ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected *xerr.ParseError, got %T: %v", err, err)
	}
	if pe.Line != 1 {
		t.Errorf("line = %d, want 1", pe.Line)
	}
}

func asParseError(err error, target **xerr.ParseError) bool {
	if pe, ok := err.(*xerr.ParseError); ok {
		*target = pe
		return true
	}
	return false
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/does-not-exist.mesh", mat3.IdentityAffine4())
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*xerr.IoError); !ok {
		t.Fatalf("expected *xerr.IoError, got %T: %v", err, err)
	}
}
