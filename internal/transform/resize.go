/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transform

import (
	"math"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/vector"
)

// Edge numbers the sides of a bounds rectangle clockwise from the top.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// Corner numbers the corners of a bounds rectangle clockwise from top-left.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

type handleKind int

const (
	edgeHandle handleKind = iota
	cornerHandle
)

// normal is a box expressed as fractions of the bounds it was captured in.
type normal struct {
	X, Y, MaxX, MaxY, W, H float64
}

// ResizeSession is the snapshot taken when a resize gesture starts. It is a
// value: Apply reads it but never changes it, so the same pointer always
// yields the same layout.
type ResizeSession struct {
	kind    handleKind
	handle  int
	initial vector.Rect
	aspect  float64
	lock    bool // false when the initial bounds have no usable aspect ratio
	normals map[string]normal
}

// NewEdgeResize captures boxes relative to bounds for dragging one edge.
func NewEdgeResize(boxes []*domain.Box, bounds vector.Rect, e Edge) ResizeSession {
	return newSession(edgeHandle, int(e), boxes, bounds)
}

// NewCornerResize captures boxes relative to bounds for dragging one corner.
func NewCornerResize(boxes []*domain.Box, bounds vector.Rect, c Corner) ResizeSession {
	return newSession(cornerHandle, int(c), boxes, bounds)
}

func newSession(kind handleKind, handle int, boxes []*domain.Box, bounds vector.Rect) ResizeSession {
	s := ResizeSession{
		kind:    kind,
		handle:  handle,
		initial: bounds,
		normals: make(map[string]normal, len(boxes)),
	}
	s.aspect = bounds.W / bounds.H
	s.lock = bounds.W > 0 && bounds.H > 0 && !math.IsInf(s.aspect, 0) && !math.IsNaN(s.aspect)

	for _, b := range boxes {
		n := normal{X: 0, MaxX: 1, W: 1, Y: 0, MaxY: 1, H: 1}
		if bounds.W != 0 {
			n.X = (b.X - bounds.X) / bounds.W
			n.MaxX = (b.MaxX() - bounds.X) / bounds.W
			n.W = b.W / bounds.W
		}
		if bounds.H != 0 {
			n.Y = (b.Y - bounds.Y) / bounds.H
			n.MaxY = (b.MaxY() - bounds.Y) / bounds.H
			n.H = b.H / bounds.H
		}
		s.normals[b.ID] = n
	}
	return s
}

// Initial returns the bounds captured at gesture start.
func (s ResizeSession) Initial() vector.Rect { return s.initial }

// Apply resizes the live boxes for the pointer position and returns the new
// bounds. Boxes that were not part of the snapshot are left alone. With lock
// set the initial aspect ratio is kept.
func (s ResizeSession) Apply(p vector.Pt, boxes []*domain.Box, lock bool) vector.Rect {
	lock = lock && s.lock
	var (
		bounds       vector.Rect
		flipX, flipY bool
	)
	if s.kind == edgeHandle {
		bounds, flipX, flipY = s.applyEdge(p, lock)
	} else {
		bounds, flipX, flipY = s.applyCorner(p, lock)
	}

	for _, b := range boxes {
		n, ok := s.normals[b.ID]
		if !ok {
			continue
		}
		fx, fy := n.X, n.Y
		if flipX {
			fx = 1 - n.MaxX
		}
		if flipY {
			fy = 1 - n.MaxY
		}
		b.SetRect(vector.Rect{
			X: bounds.X + fx*bounds.W,
			Y: bounds.Y + fy*bounds.H,
			W: n.W * bounds.W,
			H: n.H * bounds.H,
		})
	}
	return bounds
}

func (s ResizeSession) applyEdge(p vector.Pt, lock bool) (vector.Rect, bool, bool) {
	in := s.initial
	minX, minY, maxX, maxY := in.X, in.Y, in.MaxX(), in.MaxY()
	var out vector.Rect
	var flipX, flipY bool

	switch Edge(s.handle) {
	case EdgeTop, EdgeBottom:
		if Edge(s.handle) == EdgeTop {
			minY = p.Y
		} else {
			maxY = p.Y
		}
		flipY = maxY < minY
		out.Y = minY
		if flipY {
			out.Y = maxY
		}
		out.H = math.Abs(maxY - minY)
		if lock {
			out.W = out.H * s.aspect
			out.X = in.X + in.W/2 - out.W/2
		} else {
			out.X, out.W = in.X, in.W
		}
	default:
		if Edge(s.handle) == EdgeRight {
			maxX = p.X
		} else {
			minX = p.X
		}
		flipX = maxX < minX
		out.X = minX
		if flipX {
			out.X = maxX
		}
		out.W = math.Abs(maxX - minX)
		if lock {
			out.H = out.W / s.aspect
			out.Y = in.Y + in.H/2 - out.H/2
		} else {
			out.Y, out.H = in.Y, in.H
		}
	}
	return out, flipX, flipY
}

func (s ResizeSession) applyCorner(p vector.Pt, lock bool) (vector.Rect, bool, bool) {
	in := s.initial
	minX, minY, maxX, maxY := in.X, in.Y, in.MaxX(), in.MaxY()
	c := Corner(s.handle)
	top := c == CornerTopLeft || c == CornerTopRight
	right := c == CornerTopRight || c == CornerBottomRight

	if top {
		minY = p.Y
	} else {
		maxY = p.Y
	}
	if right {
		maxX = p.X
	} else {
		minX = p.X
	}
	flipX, flipY := maxX < minX, maxY < minY

	w, h := math.Abs(maxX-minX), math.Abs(maxY-minY)
	if lock {
		if h == 0 || w/h > s.aspect {
			// height follows width
			h = w / s.aspect
			switch {
			case top && flipY:
				minY = maxY + h
			case top:
				minY = maxY - h
			case flipY:
				maxY = minY - h
			default:
				maxY = minY + h
			}
		} else {
			w = h * s.aspect
			switch {
			case right && flipX:
				maxX = minX - w
			case right:
				maxX = minX + w
			case flipX:
				minX = maxX + w
			default:
				minX = maxX - w
			}
		}
	}

	out := vector.Rect{X: minX, Y: minY, W: w, H: h}
	if flipX {
		out.X = maxX
	}
	if flipY {
		out.Y = maxY
	}
	return out, flipX, flipY
}
