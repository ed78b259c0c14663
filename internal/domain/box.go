/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "arrowsandbox/internal/vector"

// Box is a rectangle on the canvas; (X, Y) is its top-left corner.
type Box struct {
	ID   string
	X, Y float64
	W, H float64
}

func (b *Box) CX() float64   { return b.X + b.W/2 }
func (b *Box) CY() float64   { return b.Y + b.H/2 }
func (b *Box) MaxX() float64 { return b.X + b.W }
func (b *Box) MaxY() float64 { return b.Y + b.H }

// Rect is the box geometry, also used as its hit-test shape.
func (b *Box) Rect() vector.Rect { return vector.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H} }

// SetRect overwrites the box geometry.
func (b *Box) SetRect(r vector.Rect) {
	b.X, b.Y, b.W, b.H = r.X, r.Y, r.W, r.H
}

// Contains is an inclusive point-in-box test.
func (b *Box) Contains(p vector.Pt) bool {
	return !(b.X > p.X || b.Y > p.Y || b.MaxX() < p.X || b.MaxY() < p.Y)
}

// Translate moves the box by dx,dy.
func (b *Box) Translate(dx, dy float64) {
	b.X += dx
	b.Y += dy
}
