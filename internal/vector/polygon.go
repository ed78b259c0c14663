/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// PointInPolygon is an even-odd ray casting test against the closed polygon poly.
func PointInPolygon(p Pt, poly []Pt) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonsCollide reports whether any vertex of a lies inside b.
func PolygonsCollide(a, b []Pt) bool {
	for _, p := range a {
		if PointInPolygon(p, b) {
			return true
		}
	}
	return false
}

// PointInRect is an inclusive containment test; the rectangle is grown by
// padding/2 on each side.
func PointInRect(p Pt, r Rect, padding float64) bool {
	h := padding / 2
	return !(p.X > r.X+r.W+h || p.Y > r.Y+r.H+h || p.X < r.X-h || p.Y < r.Y-h)
}

// RectsOverlap is an inclusive AABB test: touching edges count as overlap.
func RectsOverlap(a, b Rect) bool {
	return !(a.X > b.X+b.W || b.X > a.X+a.W || a.Y > b.Y+b.H || b.Y > a.Y+a.H)
}

// RectsCollide is the strict variant of RectsOverlap: touching edges do not collide.
func RectsCollide(a, b Rect) bool {
	return !(a.X >= b.X+b.W || b.X >= a.X+a.W || a.Y >= b.Y+b.H || b.Y >= a.Y+a.H)
}
