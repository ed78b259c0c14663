/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Path commands and shapes.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	ArcTo // circular arc (cx, cy, r, a0, a1, anticlockwise)
	Close
)

type PathCmd struct {
	Op   PathOp
	Data [6]float64 // enough for an arc; unused slots are zero
}

// Path is a hit-testable outline built like a canvas path.
type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}

// Arc adds a circular arc around c from angle a0 to a1. As with a canvas
// context, the current point is joined to the arc start by a straight line.
func (p *Path) Arc(c Pt, r, a0, a1 float64, anticlockwise bool) {
	var acw float64
	if anticlockwise {
		acw = 1
	}
	p.Cmds = append(p.Cmds, PathCmd{Op: ArcTo, Data: [6]float64{c.X, c.Y, r, a0, a1, acw}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Empty reports whether the path has no commands.
func (p *Path) Empty() bool { return p == nil || len(p.Cmds) == 0 }

// arcStepRad is the angular step used when flattening arcs.
const arcStepRad = math.Pi / 64

// Flatten converts the path into closed polygons, one per sub-path.
func (p *Path) Flatten() [][]Pt {
	if p == nil {
		return nil
	}
	var polys [][]Pt
	var cur []Pt
	flush := func() {
		if len(cur) > 0 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			cur = append(cur, Pt{c.Data[0], c.Data[1]})
		case LineTo:
			cur = append(cur, Pt{c.Data[0], c.Data[1]})
		case ArcTo:
			cur = append(cur, ArcPoints(Pt{c.Data[0], c.Data[1]}, c.Data[2], c.Data[3], c.Data[4], c.Data[5] != 0)...)
		case Close:
			flush()
		}
	}
	flush()
	return polys
}

// ArcPoints samples an arc with canvas sweep semantics, endpoints included.
func ArcPoints(c Pt, r, a0, a1 float64, anticlockwise bool) []Pt {
	sweep := ArcSweep(a0, a1, anticlockwise)
	n := int(math.Ceil(math.Abs(sweep)/arcStepRad)) + 1
	if n < 2 {
		n = 2
	}
	out := make([]Pt, 0, n)
	for i := 0; i < n; i++ {
		a := a0 + sweep*float64(i)/float64(n-1)
		out = append(out, ProjectPoint(c, a, r))
	}
	return out
}

// Contains reports whether pt is inside the path using the even-odd rule.
// Every sub-path is implicitly closed, matching canvas fill semantics.
func (p *Path) Contains(pt Pt) bool {
	inside := false
	for _, poly := range p.Flatten() {
		if len(poly) >= 3 && PointInPolygon(pt, poly) {
			inside = !inside
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the flattened path.
func (p *Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range p.Flatten() {
		for _, q := range poly {
			minX = math.Min(minX, q.X)
			minY = math.Min(minY, q.Y)
			maxX = math.Max(maxX, q.X)
			maxY = math.Max(maxY, q.Y)
		}
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
