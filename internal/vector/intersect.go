/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"sort"
)

// Segment is a finite line segment from A to B.
type Segment struct{ A, B Pt }

// SegmentCircleIntersections returns the points where the segment p0-p1
// crosses the circle (c, r), ordered from p0 towards p1.
func SegmentCircleIntersections(c Pt, r float64, p0, p1 Pt) []Pt {
	dx0, dy0 := p1.X-p0.X, p1.Y-p0.Y
	dx1, dy1 := p0.X-c.X, p0.Y-c.Y

	b := -2 * (dx0*dx1 + dy0*dy1)
	cc := 2 * (dx0*dx0 + dy0*dy0)
	if cc == 0 {
		return nil
	}
	d := math.Sqrt(b*b - 2*cc*(dx1*dx1+dy1*dy1-r*r))
	if math.IsNaN(d) {
		return nil
	}
	var out []Pt
	for _, u := range [2]float64{(b - d) / cc, (b + d) / cc} {
		if u >= 0 && u <= 1 {
			out = append(out, Pt{p0.X + dx0*u, p0.Y + dy0*u})
		}
	}
	return out
}

// SegmentSegmentIntersection returns the crossing point of segments a0-a1 and
// b0-b1. Parallel and collinear segments never intersect.
func SegmentSegmentIntersection(a0, a1, b0, b1 Pt) (Pt, bool) {
	denom := (b1.Y-b0.Y)*(a1.X-a0.X) - (b1.X-b0.X)*(a1.Y-a0.Y)
	if denom == 0 {
		return Pt{}, false
	}
	numA := (b1.X-b0.X)*(a0.Y-b0.Y) - (b1.Y-b0.Y)*(a0.X-b0.X)
	numB := (a1.X-a0.X)*(a0.Y-b0.Y) - (a1.Y-a0.Y)*(a0.X-b0.X)
	uA, uB := numA/denom, numB/denom
	if uA >= 0 && uA <= 1 && uB >= 0 && uB <= 1 {
		return Pt{a0.X + uA*(a1.X-a0.X), a0.Y + uA*(a1.Y-a0.Y)}, true
	}
	return Pt{}, false
}

// RaySegmentIntersection returns where the ray from o along (dx,dy) hits the
// segment s0-s1.
func RaySegmentIntersection(o Pt, dx, dy float64, s0, s1 Pt) (Pt, bool) {
	d := dx*(s1.Y-s0.Y) - dy*(s1.X-s0.X)
	if d == 0 {
		return Pt{}, false
	}
	r := ((o.Y-s0.Y)*(s1.X-s0.X) - (o.X-s0.X)*(s1.Y-s0.Y)) / d
	s := ((o.Y-s0.Y)*dx - (o.X-s0.X)*dy) / d
	if r >= 0 && s >= 0 && s <= 1 {
		return Pt{o.X + r*dx, o.Y + r*dy}, true
	}
	return Pt{}, false
}

// RayCircleIntersections returns the points where the ray from o along
// (dx,dy) crosses the circle (c, r), nearest first.
func RayCircleIntersections(c Pt, r float64, o Pt, dx, dy float64) []Pt {
	a := dx*dx + dy*dy
	if a == 0 {
		return nil
	}
	fx, fy := o.X-c.X, o.Y-c.Y
	b := 2 * (fx*dx + fy*dy)
	cc := fx*fx + fy*fy - r*r
	disc := b*b - 4*a*cc
	if disc < 0 || math.IsNaN(disc) {
		return nil
	}
	sq := math.Sqrt(disc)
	var out []Pt
	for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
		if t >= 0 {
			out = append(out, Pt{o.X + dx*t, o.Y + dy*t})
		}
	}
	if len(out) == 2 && disc == 0 {
		out = out[:1]
	}
	return out
}

// RectSegments returns the four boundary segments of r in the order
// top, right, bottom, left, running clockwise.
func RectSegments(r Rect) [4]Segment {
	x, y, mx, my := r.X, r.Y, r.X+r.W, r.Y+r.H
	return [4]Segment{
		{Pt{x, y}, Pt{mx, y}},
		{Pt{mx, y}, Pt{mx, my}},
		{Pt{mx, my}, Pt{x, my}},
		{Pt{x, my}, Pt{x, y}},
	}
}

// SegmentRectangleIntersectionPoints intersects p0-p1 with each edge of r.
func SegmentRectangleIntersectionPoints(p0, p1 Pt, r Rect) []Pt {
	var out []Pt
	for _, s := range RectSegments(r) {
		if p, ok := SegmentSegmentIntersection(s.A, s.B, p0, p1); ok {
			out = append(out, p)
		}
	}
	return out
}

// CircleRectangleIntersectionPoints intersects the circle (c, radius) with each edge of r.
func CircleRectangleIntersectionPoints(r Rect, c Pt, radius float64) []Pt {
	var out []Pt
	for _, s := range RectSegments(r) {
		out = append(out, SegmentCircleIntersections(c, radius, s.A, s.B)...)
	}
	return out
}

// RayRectangleIntersectionPoints intersects the ray from o along (dx,dy) with each edge of r.
func RayRectangleIntersectionPoints(o Pt, dx, dy float64, r Rect) []Pt {
	var out []Pt
	for _, s := range RectSegments(r) {
		if p, ok := RaySegmentIntersection(o, dx, dy, s.A, s.B); ok {
			out = append(out, p)
		}
	}
	return out
}

// Ellipse is an ellipse centred on C with radii RX, RY, rotated by Rotation.
type Ellipse struct {
	C        Pt
	RX, RY   float64
	Rotation float64
}

// EllipseSegmentIntersections returns where p0-p1 crosses e. With infinite
// set the segment is treated as a line.
func EllipseSegmentIntersections(p0, p1 Pt, e Ellipse, infinite bool) []Pt {
	if e.RX == 0 || e.RY == 0 || p0 == p1 {
		return nil
	}
	rx, ry := math.Abs(e.RX), math.Abs(e.RY)
	if e.Rotation != 0 {
		p0 = RotatePoint(p0, e.C, -e.Rotation)
		p1 = RotatePoint(p1, e.C, -e.Rotation)
	}
	x0, y0 := p0.X-e.C.X, p0.Y-e.C.Y
	x1, y1 := p1.X-e.C.X, p1.Y-e.C.Y

	a := (x1-x0)*(x1-x0)/rx/rx + (y1-y0)*(y1-y0)/ry/ry
	b := 2*x0*(x1-x0)/rx/rx + 2*y0*(y1-y0)/ry/ry
	c := x0*x0/rx/rx + y0*y0/ry/ry - 1

	var ts []float64
	switch disc := b*b - 4*a*c; {
	case disc == 0:
		ts = append(ts, -b/2/a)
	case disc > 0:
		sq := math.Sqrt(disc)
		ts = append(ts, (-b+sq)/2/a, (-b-sq)/2/a)
	}

	var out []Pt
	for _, t := range ts {
		if !infinite && (t < 0 || t > 1) {
			continue
		}
		p := Pt{x0 + (x1-x0)*t + e.C.X, y0 + (y1-y0)*t + e.C.Y}
		if e.Rotation != 0 {
			p = RotatePoint(p, e.C, e.Rotation)
		}
		out = append(out, p)
	}
	return out
}

// EllipseRectangleIntersectionPoints intersects e with each edge of r.
func EllipseRectangleIntersectionPoints(r Rect, e Ellipse) []Pt {
	var out []Pt
	for _, s := range RectSegments(r) {
		out = append(out, EllipseSegmentIntersections(s.A, s.B, e, false)...)
	}
	return out
}

// RoundedCorner is one quarter-circle corner of a rounded rectangle. Points on
// it have an angle from C strictly between From and To.
type RoundedCorner struct {
	C        Pt
	From, To float64
}

// RoundedRectangleSegments returns the straight edges (left, top, right,
// bottom) and matching corners (top-left, top-right, bottom-right,
// bottom-left) of r with corner radius radius.
func RoundedRectangleSegments(r Rect, radius float64) ([4]Segment, [4]RoundedCorner) {
	x, y, mx, my := r.X, r.Y, r.X+r.W, r.Y+r.H
	rx, ry, mrx, mry := x+radius, y+radius, mx-radius, my-radius
	segs := [4]Segment{
		{Pt{x, mry}, Pt{x, ry}},
		{Pt{rx, y}, Pt{mrx, y}},
		{Pt{mx, ry}, Pt{mx, mry}},
		{Pt{mrx, my}, Pt{rx, my}},
	}
	corners := [4]RoundedCorner{
		{Pt{rx, ry}, math.Pi, math.Pi * 1.5},
		{Pt{mrx, ry}, math.Pi * 1.5, Tau},
		{Pt{mrx, mry}, 0, math.Pi * 0.5},
		{Pt{rx, mry}, math.Pi * 0.5, math.Pi},
	}
	return segs, corners
}

func (k RoundedCorner) owns(p Pt) bool {
	a := NormalizeAngle(Angle(k.C, p))
	return a > k.From && a < k.To
}

// RoundedRectangleSegmentIntersectionPoints intersects p0-p1 with the outline
// of a rounded rectangle. Points exactly where a corner meets an edge are
// reported once, by the edge.
func RoundedRectangleSegmentIntersectionPoints(p0, p1 Pt, r Rect, radius float64) []Pt {
	segs, corners := RoundedRectangleSegments(r, radius)
	var out []Pt
	for i, s := range segs {
		for _, p := range SegmentCircleIntersections(corners[i].C, radius, p0, p1) {
			if corners[i].owns(p) {
				out = append(out, p)
			}
		}
		if p, ok := SegmentSegmentIntersection(p0, p1, s.A, s.B); ok {
			out = append(out, p)
		}
	}
	return out
}

// RayRoundedRectangleIntersectionPoints intersects a ray with the outline of a
// rounded rectangle, nearest first.
func RayRoundedRectangleIntersectionPoints(o Pt, dx, dy float64, r Rect, radius float64) []Pt {
	segs, corners := RoundedRectangleSegments(r, radius)
	var out []Pt
	for i, s := range segs {
		for _, p := range RayCircleIntersections(corners[i].C, radius, o, dx, dy) {
			if corners[i].owns(p) {
				out = append(out, p)
			}
		}
		if p, ok := RaySegmentIntersection(o, dx, dy, s.A, s.B); ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return Distance(o, out[i]) < Distance(o, out[j]) })
	return out
}

// LineBetweenRoundedRectangles returns the segment joining the outlines of a
// and b along their centre line. A rectangle the ray does not leave (for
// example one containing the other's centre) contributes its centre.
func LineBetweenRoundedRectangles(a Rect, ra float64, b Rect, rb float64) (Pt, Pt) {
	ca, cb := a.Center(), b.Center()
	start, end := ca, cb
	if pts := RayRoundedRectangleIntersectionPoints(ca, cb.X-ca.X, cb.Y-ca.Y, a, ra); len(pts) > 0 {
		start = pts[0]
	}
	if pts := RayRoundedRectangleIntersectionPoints(cb, ca.X-cb.X, ca.Y-cb.Y, b, rb); len(pts) > 0 {
		end = pts[0]
	}
	return start, end
}
