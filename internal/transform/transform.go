/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transform holds the batch operations applied to a box selection:
// align, distribute, stretch, bounds and interactive resize sessions.
//
// Every operation mutates the given boxes in place. Callers decide how many
// boxes are required; an empty slice is always a no-op. Link geometry is not
// refreshed here.
package transform

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/vector"
)

// Alignment selects the edge or centre line that Align lines boxes up on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	AlignCenterX
	AlignCenterY
)

var alignmentNames = [...]string{"left", "right", "top", "bottom", "centerX", "centerY"}

func (a Alignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// ParseAlignment accepts the names produced by String, case-insensitively.
func ParseAlignment(s string) (Alignment, error) {
	for i, n := range alignmentNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return Alignment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alignment %q", s)
}

// Axis selects the direction for Distribute and Stretch.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseAxis accepts horizontal/vertical and the short forms x/y.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "x":
		return Horizontal, nil
	case "vertical", "y":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Align dispatches to the matching Align* function.
func Align(a Alignment, boxes []*domain.Box) {
	switch a {
	case AlignLeft:
		AlignBoxesLeft(boxes)
	case AlignRight:
		AlignBoxesRight(boxes)
	case AlignTop:
		AlignBoxesTop(boxes)
	case AlignBottom:
		AlignBoxesBottom(boxes)
	case AlignCenterX:
		AlignBoxesCenterX(boxes)
	case AlignCenterY:
		AlignBoxesCenterY(boxes)
	}
}

// AlignBoxesLeft moves every box to the leftmost x.
func AlignBoxesLeft(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	x := boxes[0].X
	for _, b := range boxes[1:] {
		x = math.Min(x, b.X)
	}
	for _, b := range boxes {
		b.X = x
	}
}

// AlignBoxesRight moves every box so its right edge meets the rightmost one.
func AlignBoxesRight(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	maxX := boxes[0].MaxX()
	for _, b := range boxes[1:] {
		maxX = math.Max(maxX, b.MaxX())
	}
	for _, b := range boxes {
		b.X = maxX - b.W
	}
}

func AlignBoxesTop(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	y := boxes[0].Y
	for _, b := range boxes[1:] {
		y = math.Min(y, b.Y)
	}
	for _, b := range boxes {
		b.Y = y
	}
}

func AlignBoxesBottom(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	maxY := boxes[0].MaxY()
	for _, b := range boxes[1:] {
		maxY = math.Max(maxY, b.MaxY())
	}
	for _, b := range boxes {
		b.Y = maxY - b.H
	}
}

// AlignBoxesCenterX centres every box on the mean of the box centres.
func AlignBoxesCenterX(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	mid := 0.0
	for _, b := range boxes {
		mid += b.CX()
	}
	mid /= float64(len(boxes))
	for _, b := range boxes {
		b.X = mid - b.W/2
	}
}

func AlignBoxesCenterY(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	mid := 0.0
	for _, b := range boxes {
		mid += b.CY()
	}
	mid /= float64(len(boxes))
	for _, b := range boxes {
		b.Y = mid - b.H/2
	}
}

// Distribute dispatches to DistributeX or DistributeY.
func Distribute(axis Axis, boxes []*domain.Box) {
	if axis == Vertical {
		DistributeY(boxes)
		return
	}
	DistributeX(boxes)
}

// DistributeX keeps the outermost left and right edges and spaces the boxes
// between them, in x order, with one uniform gap. The gap goes negative when
// the boxes do not fit side by side.
func DistributeX(boxes []*domain.Box) {
	if len(boxes) < 2 {
		return
	}
	minX, maxX, sum := boxes[0].X, boxes[0].MaxX(), 0.0
	for _, b := range boxes {
		minX = math.Min(minX, b.X)
		maxX = math.Max(maxX, b.MaxX())
		sum += b.W
	}
	gap := (maxX - minX - sum) / float64(len(boxes)-1)

	sorted := slices.Clone(boxes)
	slices.SortStableFunc(sorted, func(a, b *domain.Box) int { return cmp.Compare(a.X, b.X) })
	t := minX
	for _, b := range sorted {
		b.X = t
		t += b.W + gap
	}
}

// DistributeY steps box tops from the topmost edge in increments of
// range/n, where range runs from that edge to the lowest bottom edge. Boxes
// are placed in bottom-edge order and the last of them stays where it is.
func DistributeY(boxes []*domain.Box) {
	n := len(boxes)
	if n < 2 {
		return
	}
	sorted := slices.Clone(boxes)
	slices.SortStableFunc(sorted, func(a, b *domain.Box) int { return cmp.Compare(a.Y, b.Y) })
	minY := sorted[0].Y

	slices.SortStableFunc(sorted, func(a, b *domain.Box) int { return cmp.Compare(a.MaxY(), b.MaxY()) })
	maxY := sorted[n-1].MaxY()

	step := (maxY - minY) / float64(n)
	for i := 0; i < n-1; i++ {
		sorted[i].Y = minY + step*float64(i)
	}
}

// Stretch dispatches to StretchX or StretchY.
func Stretch(axis Axis, boxes []*domain.Box) {
	if axis == Vertical {
		StretchY(boxes)
		return
	}
	StretchX(boxes)
}

// StretchX gives every box the full horizontal extent of the set.
func StretchX(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	minX, maxX := boxes[0].X, boxes[0].MaxX()
	for _, b := range boxes[1:] {
		minX = math.Min(minX, b.X)
		maxX = math.Max(maxX, b.MaxX())
	}
	for _, b := range boxes {
		b.X, b.W = minX, maxX-minX
	}
}

// StretchY gives every box the full vertical extent of the set.
func StretchY(boxes []*domain.Box) {
	if len(boxes) == 0 {
		return
	}
	minY, maxY := boxes[0].Y, boxes[0].MaxY()
	for _, b := range boxes[1:] {
		minY = math.Min(minY, b.Y)
		maxY = math.Max(maxY, b.MaxY())
	}
	for _, b := range boxes {
		b.Y, b.H = minY, maxY-minY
	}
}

// BoundingBox returns the smallest rectangle holding every box, or the zero
// rectangle for an empty set.
func BoundingBox(boxes []*domain.Box) vector.Rect {
	if len(boxes) == 0 {
		return vector.Rect{}
	}
	r := boxes[0].Rect()
	for _, b := range boxes[1:] {
		r = r.Union(b.Rect())
	}
	return r
}
