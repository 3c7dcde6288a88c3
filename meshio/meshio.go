// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio reads the ASCII tetra mesh file format consumed by the
// simulation core (spec §4.7, §6). It is a line-oriented scanner in the
// style of the teacher's inp.Mesh reader (inp/msh.go), simplified from
// gofem's JSON-backed Mesh down to the two whitespace-flexible line
// grammars this core actually needs ("v x y z" and "t i j k l"); any other
// line is ignored, matching the spec's "unrecognised lines are ignored".
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cpmech/softfem/mat3"
	"github.com/cpmech/softfem/vec3"
	"github.com/cpmech/softfem/xerr"
)

var (
	vertexRe = regexp.MustCompile(`^\s*v\s+(\S+)\s+(\S+)\s+(\S+)`)
	tetRe    = regexp.MustCompile(`^\s*t\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
)

// LoadedMesh is the (vertices, tetrahedra) pair parsed from a mesh file,
// before any per-tet preprocessing.
type LoadedMesh struct {
	Vertices   []vec3.Vec3
	Tetrahedra [][4]int
}

// Load parses path and applies xform (pass mat3.IdentityAffine4() for
// no-op) to every vertex as it is read.
func Load(path string, xform mat3.Affine4) (*LoadedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &xerr.IoError{Path: path, Err: err}
	}
	defer f.Close()
	return Parse(f, path, xform)
}

// Parse reads r line by line, applying the same grammar as Load. path is
// used only to annotate parse errors.
func Parse(r io.Reader, path string, xform mat3.Affine4) (*LoadedMesh, error) {
	m := &LoadedMesh{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if v, ok, err := parseVertexLine(line); err != nil {
			return nil, &xerr.ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		} else if ok {
			m.Vertices = append(m.Vertices, xform.Apply(v))
			continue
		}
		if t, ok := parseTetLine(line); ok {
			m.Tetrahedra = append(m.Tetrahedra, t)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &xerr.IoError{Path: path, Err: err}
	}
	return m, nil
}

func parseVertexLine(line string) (vec3.Vec3, bool, error) {
	g := vertexRe.FindStringSubmatch(line)
	if g == nil {
		return vec3.Vec3{}, false, nil
	}
	x, err := strconv.ParseFloat(g[1], 64)
	if err != nil {
		return vec3.Vec3{}, false, fmt.Errorf("bad x coordinate: %w", err)
	}
	y, err := strconv.ParseFloat(g[2], 64)
	if err != nil {
		return vec3.Vec3{}, false, fmt.Errorf("bad y coordinate: %w", err)
	}
	z, err := strconv.ParseFloat(g[3], 64)
	if err != nil {
		return vec3.Vec3{}, false, fmt.Errorf("bad z coordinate: %w", err)
	}
	return vec3.Vec3{X: x, Y: y, Z: z}, true, nil
}

func parseTetLine(line string) ([4]int, bool) {
	g := tetRe.FindStringSubmatch(strings.TrimSpace(line))
	if g == nil {
		return [4]int{}, false
	}
	var t [4]int
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(g[i+1])
		if err != nil {
			return [4]int{}, false
		}
		t[i] = n
	}
	return t, true
}
