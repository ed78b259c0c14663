/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package arrow routes box-to-box arrows. A straight arrow joins the two box
// outlines along the centre line; a bowed arrow follows the circle through
// both boxes and an anchor point pushed sideways by the bow.
package arrow

import (
	"math"

	"arrowsandbox/internal/vector"
)

const (
	// DefaultPadStart is the gap between the source outline and the arrow tail.
	DefaultPadStart = 10.0
	// DefaultPadEnd is the gap between the arrow tip and the target outline.
	DefaultPadEnd = 20.0
	// HitWidth is how far either side of the drawn arrow still counts as a hit.
	HitWidth = 12.0
	// DeadZone is the bow magnitude below which an arrow is drawn straight.
	DeadZone = 12.0
	// AnchorRadius is the radius of the draggable bow handle.
	AnchorRadius = 16.0

	radiusStep    = 20.0
	radiusCeiling = 1000.0
)

// Arrow is the routed geometry of one arrow. Radius and Winding are zero for
// a straight arrow; otherwise Winding is +1 or -1 and the arrow is the arc of
// the circle (Center, Radius) from StartAngle to EndAngle, drawn
// anticlockwise when Winding is +1.
type Arrow struct {
	Start      vector.Pt
	Center     vector.Pt
	Radius     float64
	End        vector.Pt
	StartAngle float64
	EndAngle   float64
	Winding    int
}

// Straight reports whether the arrow is a line segment.
func (a Arrow) Straight() bool { return a.Winding == 0 }

// Tuple flattens the arrow into {sx, sy, cx, cy, r, ex, ey, sa, ea, winding}.
func (a Arrow) Tuple() [10]float64 {
	return [10]float64{
		a.Start.X, a.Start.Y,
		a.Center.X, a.Center.Y,
		a.Radius,
		a.End.X, a.End.Y,
		a.StartAngle, a.EndAngle,
		float64(a.Winding),
	}
}

// FromTuple is the inverse of Tuple.
func FromTuple(t [10]float64) Arrow {
	return Arrow{
		Start:      vector.Pt{X: t[0], Y: t[1]},
		Center:     vector.Pt{X: t[2], Y: t[3]},
		Radius:     t[4],
		End:        vector.Pt{X: t[5], Y: t[6]},
		StartAngle: t[7],
		EndAngle:   t[8],
		Winding:    int(t[9]),
	}
}

// Anchor returns the bow handle position: the midpoint of the centre line
// pushed sideways by |bow|, to the right of the travel direction for a
// positive bow.
func Anchor(a, b vector.Rect, bow float64) vector.Pt {
	c0, c1 := a.Center(), b.Center()
	angle := vector.Angle(c0, c1)
	side := -math.Pi / 2
	if bow > 0 {
		side = math.Pi / 2
	}
	return vector.ProjectPoint(vector.PointBetween(c0, c1, 0.5), angle+side, math.Abs(bow))
}

// Compute routes an arrow from box a to box b. A zero bow gives a straight
// arrow; callers apply the dead zone before calling.
func Compute(a, b vector.Rect, bow, padStart, padEnd float64) Arrow {
	if bow == 0 {
		return straight(a, b, padStart, padEnd)
	}
	if ar, ok := curved(a, b, bow, padStart, padEnd); ok {
		return ar
	}
	return straight(a, b, padStart, padEnd)
}

func straight(a, b vector.Rect, padStart, padEnd float64) Arrow {
	c0, c1 := a.Center(), b.Center()
	s, e := c0, c1
	if pts := vector.SegmentRectangleIntersectionPoints(c0, c1, a); len(pts) > 0 {
		s = pts[0]
	}
	if pts := vector.SegmentRectangleIntersectionPoints(c0, c1, b); len(pts) > 0 {
		e = pts[0]
	}
	angle := vector.Angle(c0, c1)
	return Arrow{
		Start:      vector.ProjectPoint(s, angle, padStart),
		Center:     vector.PointBetween(c0, c1, 0.5),
		End:        vector.ProjectPoint(e, angle, -padEnd),
		StartAngle: angle,
		EndAngle:   angle,
	}
}

func curved(a, b vector.Rect, bow, padStart, padEnd float64) (Arrow, bool) {
	c0, c1 := a.Center(), b.Center()
	angle := vector.Angle(c0, c1)
	anchor := Anchor(a, b, bow)

	// aim a little inside each box, towards the other one
	p0 := vector.ProjectPoint(c0, angle, math.Min(a.W, a.H)/6)
	p1 := vector.ProjectPoint(c1, angle+math.Pi, math.Min(b.W, b.H)/6)

	center, r, ok := vector.CircleFromThreePoints(p0, p1, anchor)
	if !ok {
		return Arrow{}, false
	}

	s := vector.CircleRectangleIntersectionPoints(a, center, r)
	e := vector.CircleRectangleIntersectionPoints(b, center, r)
	for (len(s) < 2 || len(e) < 2) && r < radiusCeiling {
		r += radiusStep
		s = vector.CircleRectangleIntersectionPoints(a, center, r)
		e = vector.CircleRectangleIntersectionPoints(b, center, r)
	}
	if len(s) == 0 || len(e) == 0 {
		return Arrow{}, false
	}

	sa := vector.Angle(center, nearest(anchor, s))
	ea := vector.Angle(center, nearest(anchor, e))

	winding := -1
	if bow > 0 {
		winding = 1
	}
	sa -= float64(winding) * padStart / r
	ea += float64(winding) * padEnd / r

	return Arrow{
		Start:      vector.ProjectPoint(center, sa, r),
		Center:     center,
		Radius:     r,
		End:        vector.ProjectPoint(center, ea, r),
		StartAngle: sa,
		EndAngle:   ea,
		Winding:    winding,
	}, true
}

// nearest picks the first or second candidate, whichever is strictly closer
// to the anchor; ties keep the first.
func nearest(anchor vector.Pt, pts []vector.Pt) vector.Pt {
	if len(pts) > 1 && vector.Distance(anchor, pts[1]) < vector.Distance(anchor, pts[0]) {
		return pts[1]
	}
	return pts[0]
}

// HitPath returns the region that receives pointer hits for the arrow: an
// annular wedge of the given half-width around a curved arrow, or a quad
// around a straight one.
func HitPath(ar Arrow, width float64) *vector.Path {
	p := &vector.Path{}
	if ar.Straight() {
		q0 := vector.ProjectPoint(ar.Start, ar.StartAngle-math.Pi/2, width)
		q1 := vector.ProjectPoint(ar.End, ar.EndAngle-math.Pi/2, width)
		q2 := vector.ProjectPoint(ar.End, ar.EndAngle+math.Pi/2, width)
		q3 := vector.ProjectPoint(ar.Start, ar.StartAngle+math.Pi/2, width)
		p.MoveTo(q0.X, q0.Y)
		p.LineTo(q1.X, q1.Y)
		p.LineTo(q2.X, q2.Y)
		p.LineTo(q3.X, q3.Y)
	} else {
		acw := ar.Winding == 1
		p.Arc(ar.Center, ar.Radius+width, ar.StartAngle, ar.EndAngle, acw)
		p.Arc(ar.Center, math.Max(ar.Radius-width, 0), ar.EndAngle, ar.StartAngle, !acw)
	}
	p.Close()
	return p
}

// AnchorPath is the disc around the bow handle.
func AnchorPath(anchor vector.Pt) *vector.Path {
	p := &vector.Path{}
	p.Arc(anchor, AnchorRadius, 0, vector.Tau, false)
	p.Close()
	return p
}

// HeadAngle is the direction the arrowhead points at the end of the arrow.
func HeadAngle(ar Arrow) float64 {
	return ar.EndAngle - math.Pi/2*float64(ar.Winding)
}

// Head returns the arrowhead triangle: a 12 unit long, 12 unit wide dart
// whose base sits on the arrow end.
func Head(ar Arrow) []vector.Pt {
	m := vector.Translate(ar.End.X, ar.End.Y).Mul(vector.Rotate(HeadAngle(ar)))
	return []vector.Pt{
		m.Apply(vector.Pt{X: 0, Y: 6}),
		m.Apply(vector.Pt{X: 12, Y: 0}),
		m.Apply(vector.Pt{X: 0, Y: -6}),
	}
}
