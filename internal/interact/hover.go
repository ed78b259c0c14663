/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import "arrowsandbox/internal/vector"

// ItemKind tags an Item.
type ItemKind int

const (
	NoItem ItemKind = iota
	BoxItem
	LinkItem
)

// Item refers to a box, a link or nothing.
type Item struct {
	Kind ItemKind
	ID   string
}

func BoxRef(id string) Item  { return Item{Kind: BoxItem, ID: id} }
func LinkRef(id string) Item { return Item{Kind: LinkItem, ID: id} }

// Cursor is the pointer shape the front end should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorNSResize
	CursorEWResize
	CursorNWSEResize
	CursorNESWResize
)

func (c Cursor) String() string {
	switch c {
	case CursorNSResize:
		return "ns-resize"
	case CursorEWResize:
		return "ew-resize"
	case CursorNWSEResize:
		return "nwse-resize"
	case CursorNESWResize:
		return "nesw-resize"
	default:
		return "default"
	}
}

// edgeHandles returns the hit boxes of the four bounds edges, top first and
// clockwise. Each is 2*pad thick and stops short of the corners.
func edgeHandles(b vector.Rect, pad float64) [4]vector.Rect {
	pp := pad * 2
	return [4]vector.Rect{
		{X: b.X + pad, Y: b.Y - pad, W: b.W - pp, H: pp},
		{X: b.MaxX() - pad, Y: b.Y + pad, W: pp, H: b.H - pp},
		{X: b.X + pad, Y: b.MaxY() - pad, W: b.W - pp, H: pp},
		{X: b.X - pad, Y: b.Y + pad, W: pp, H: b.H - pp},
	}
}

// cornerHandles returns the square hit boxes of the bounds corners, top-left
// first and clockwise.
func cornerHandles(b vector.Rect, pad float64) [4]vector.Rect {
	pp := pad * 2
	return [4]vector.Rect{
		{X: b.X - pad, Y: b.Y - pad, W: pp, H: pp},
		{X: b.MaxX() - pad, Y: b.Y - pad, W: pp, H: pp},
		{X: b.MaxX() - pad, Y: b.MaxY() - pad, W: pp, H: pp},
		{X: b.X - pad, Y: b.MaxY() - pad, W: pp, H: pp},
	}
}

// handleAt returns the index of the first handle containing p, or -1.
func handleAt(handles [4]vector.Rect, p vector.Pt) int {
	for i, h := range handles {
		if vector.PointInRect(p, h, 0) {
			return i
		}
	}
	return -1
}

func cursorFor(edge, corner int) Cursor {
	switch {
	case edge >= 0 && edge%2 == 0:
		return CursorNSResize
	case edge >= 0:
		return CursorEWResize
	case corner >= 0 && corner%2 == 0:
		return CursorNWSEResize
	case corner >= 0:
		return CursorNESWResize
	}
	return CursorDefault
}
