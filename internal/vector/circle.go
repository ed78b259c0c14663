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

	"gonum.org/v1/gonum/mat"
)

// collinearEps bounds the orientation determinant below which three points
// are treated as lying on one line.
const collinearEps = 1e-9

func det3(a, b, c, d, e, f, g, h, i float64) float64 {
	return mat.Det(mat.NewDense(3, 3, []float64{a, b, c, d, e, f, g, h, i}))
}

// CircleFromThreePoints returns the centre and radius of the circle through
// p0, p1 and p2. ok is false when the points are (nearly) collinear.
func CircleFromThreePoints(p0, p1, p2 Pt) (center Pt, radius float64, ok bool) {
	a := det3(p0.X, p0.Y, 1, p1.X, p1.Y, 1, p2.X, p2.Y, 1)
	if math.Abs(a) < collinearEps || math.IsNaN(a) {
		return Pt{}, 0, false
	}
	b := p0.X*p0.X + p0.Y*p0.Y
	c := p1.X*p1.X + p1.Y*p1.Y
	d := p2.X*p2.X + p2.Y*p2.Y
	cx := -det3(b, p0.Y, 1, c, p1.Y, 1, d, p2.Y, 1)
	cy := det3(b, p0.X, 1, c, p1.X, 1, d, p2.X, 1)
	cr := -det3(b, p0.X, p0.Y, c, p1.X, p1.Y, d, p2.X, p2.Y)

	center = Pt{-cx / (2 * a), -cy / (2 * a)}
	radius = math.Sqrt(cx*cx+cy*cy-4*a*cr) / (2 * math.Abs(a))
	if !finite(center) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Pt{}, 0, false
	}
	return center, radius, true
}

// CircleContainsPoint reports whether p lies strictly inside the circle.
func CircleContainsPoint(c Pt, r float64, p Pt) bool {
	dx, dy := p.X-c.X, p.Y-c.Y
	return dx*dx+dy*dy < r*r
}

// ClosestPointOnCircle returns the point of the circle nearest to p. For p at
// the centre every point is equally close and the rightmost one is returned.
func ClosestPointOnCircle(c Pt, r float64, p Pt) Pt {
	dx, dy := p.X-c.X, p.Y-c.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Pt{c.X + r, c.Y}
	}
	return Pt{c.X + dx*r/dist, c.Y + dy*r/dist}
}

// ArcSweep returns the signed angle a canvas arc from a0 to a1 covers. A
// clockwise arc (increasing angle) sweeps (a1-a0) mod 2π, an anticlockwise one
// the negated (a0-a1) mod 2π. A clockwise request of a full turn or more
// draws the whole circle.
func ArcSweep(a0, a1 float64, anticlockwise bool) float64 {
	if anticlockwise {
		if a0-a1 >= Tau {
			return -Tau
		}
		return -NormalizeAngle(a0 - a1)
	}
	if a1-a0 >= Tau {
		return Tau
	}
	return NormalizeAngle(a1 - a0)
}
