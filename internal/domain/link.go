/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"math"

	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/vector"
)

// Link is a directed arrow between two boxes. Its geometry is cached and only
// changes when Update (or a bow edit) recomputes it from the endpoint boxes.
type Link struct {
	ID   string
	From string
	To   string

	bow    float64 // raw, never snapped
	a, b   vector.Rect
	arrow  arrow.Arrow
	hit    *vector.Path
	start  vector.Pt
	end    vector.Pt
	mid    vector.Pt
	angle  float64
	origin vector.Pt
}

// Bow is the effective curvature: zero inside the dead zone.
func (l *Link) Bow() float64 {
	if math.Abs(l.bow) < arrow.DeadZone {
		return 0
	}
	return l.bow
}

// RawBow is the stored curvature before the dead zone is applied.
func (l *Link) RawBow() float64 { return l.bow }

// SetBow replaces the curvature and recomputes the geometry.
func (l *Link) SetBow(bow float64) {
	l.bow = bow
	l.refresh()
}

// Update recomputes the cached geometry for the given endpoint rectangles.
// Calling it twice with the same input yields identical geometry.
func (l *Link) Update(from, to vector.Rect) {
	l.a, l.b = from, to
	l.refresh()
}

func (l *Link) refresh() {
	c0, c1 := l.a.Center(), l.b.Center()
	l.arrow = arrow.Compute(l.a, l.b, l.Bow(), arrow.DefaultPadStart, arrow.DefaultPadEnd)
	l.hit = arrow.HitPath(l.arrow, arrow.HitWidth)
	l.start = l.arrow.Start
	l.end = l.arrow.End
	l.mid = vector.PointBetween(c0, c1, 0.5)
	l.angle = vector.Angle(c0, c1)
}

func (l *Link) Arrow() arrow.Arrow        { return l.arrow }
func (l *Link) HitPath() *vector.Path     { return l.hit }
func (l *Link) Start() vector.Pt          { return l.start }
func (l *Link) End() vector.Pt            { return l.end }
func (l *Link) Mid() vector.Pt            { return l.mid }
func (l *Link) Origin() vector.Pt         { return l.origin }
func (l *Link) Angle() float64            { return l.angle }
func (l *Link) Contains(p vector.Pt) bool { return l.hit != nil && l.hit.Contains(p) }

// Length is the distance between the endpoint box centres.
func (l *Link) Length() float64 { return vector.Distance(l.a.Center(), l.b.Center()) }

// AnchorPoint is the bow handle for the current effective bow.
func (l *Link) AnchorPoint() vector.Pt { return arrow.Anchor(l.a, l.b, l.Bow()) }

// AnchorPath is the hit region around the bow handle.
func (l *Link) AnchorPath() *vector.Path { return arrow.AnchorPath(l.AnchorPoint()) }

// SetOrigin remembers the current control centre as the start of a bow drag.
func (l *Link) SetOrigin() { l.origin = l.arrow.Center }

// MoveBowControl turns a pointer move of (dx, dy) ending at (x, y) into a
// bow change. Moving away from the link midpoint grows the bow, moving
// towards it shrinks it; the side of the link the pointer is on picks the
// sign, so the curve always bends towards the pointer.
func (l *Link) MoveBowControl(dx, dy, x, y float64) {
	cur := vector.Pt{X: x, Y: y}
	prev := vector.Pt{X: x - dx, Y: y - dy}

	direction := -1.0
	if vector.Distance(l.mid, prev) < vector.Distance(l.mid, cur) {
		direction = 1
	}
	flip := -1.0
	if vector.NormalizeAngle(l.angle-vector.Angle(l.mid, cur))-math.Pi > 0 {
		flip = 1
	}
	l.bow += math.Hypot(dx, dy) * direction * flip
	l.refresh()
}
