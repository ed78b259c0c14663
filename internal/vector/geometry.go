/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package vector is the geometry kernel used by the arrow router, hit testing
// and the render surfaces. Everything here is pure and works in float64 canvas
// units; angles are radians measured with atan2, y pointing down.
package vector

import "math"

// Tau is a full turn in radians.
const Tau = 2 * math.Pi

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Add returns p translated by q.
func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }
func (r Rect) Min() Pt       { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt       { return Pt{r.X + r.W, r.Y + r.H} }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Translate moves the rectangle by dx,dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RectFromPoints returns the rectangle spanned by two opposite corners in any order.
func RectFromPoints(a, b Pt) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Angle returns the direction from p0 to p1.
func Angle(p0, p1 Pt) float64 { return math.Atan2(p1.Y-p0.Y, p1.X-p0.X) }

// Distance returns the euclidean distance between p0 and p1.
func Distance(p0, p1 Pt) float64 { return math.Hypot(p1.Y-p0.Y, p1.X-p0.X) }

// ProjectPoint moves p by d in direction a.
func ProjectPoint(p Pt, a, d float64) Pt {
	return Pt{math.Cos(a)*d + p.X, math.Sin(a)*d + p.Y}
}

// PointBetween interpolates from p0 (t=0) to p1 (t=1).
func PointBetween(p0, p1 Pt, t float64) Pt {
	return Pt{p0.X + (p1.X-p0.X)*t, p0.Y + (p1.Y-p0.Y)*t}
}

// NormalizeAngle maps r into [0, 2π).
func NormalizeAngle(r float64) float64 {
	n := r - Tau*math.Floor(r/Tau)
	if n >= Tau {
		// floor rounding for values a hair below a multiple of 2π
		n = 0
	}
	return n
}

// AngleDistance is the shorter way round the circle between a and b,
// assuming both are within one turn of each other.
func AngleDistance(a, b float64) float64 {
	phi := math.Abs(b - a)
	if phi > math.Pi {
		return Tau - phi
	}
	return phi
}

// RotatePoint rotates p around c by a.
func RotatePoint(p, c Pt, a float64) Pt {
	s, co := math.Sin(a), math.Cos(a)
	px, py := p.X-c.X, p.Y-c.Y
	return Pt{px*co - py*s + c.X, px*s + py*co + c.Y}
}

// PointNearestTo returns whichever of a or b is strictly closer to t; ties go to b.
func PointNearestTo(t, a, b Pt) Pt {
	if Distance(t, a) < Distance(t, b) {
		return a
	}
	return b
}

// Modulate maps v from the range [fromLow, fromHigh] onto [toLow, toHigh],
// optionally clamping the result to the target range.
func Modulate(v, fromLow, fromHigh, toLow, toHigh float64, clamp bool) float64 {
	res := toLow + (v-fromLow)/(fromHigh-fromLow)*(toHigh-toLow)
	if !clamp {
		return res
	}
	lo, hi := toLow, toHigh
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, res))
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float64) Affine2D {
	c, s := math.Cos(rad), math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

func finite(p Pt) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
